package merkle

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

// EncodeBatchProof serializes a BatchMerkleProof as: a uvarint Depth,
// a uvarint leaf count followed by that many fixed-width digests
// (Values), then a uvarint node count followed by that many fixed-width
// digests (Nodes). Every digest is hashing.Size bytes; only the two
// counts are variable-width.
func EncodeBatchProof(proof *BatchMerkleProof) []byte {
	var buf bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(scratch[:], uint64(proof.Depth))
	buf.Write(scratch[:n])

	n = binary.PutUvarint(scratch[:], uint64(len(proof.Values)))
	buf.Write(scratch[:n])
	for _, d := range proof.Values {
		buf.Write(d.Bytes())
	}

	n = binary.PutUvarint(scratch[:], uint64(len(proof.Nodes)))
	buf.Write(scratch[:n])
	for _, d := range proof.Nodes {
		buf.Write(d.Bytes())
	}

	return buf.Bytes()
}

// DecodeBatchProof is the inverse of EncodeBatchProof.
func DecodeBatchProof(data []byte) (*BatchMerkleProof, error) {
	r := bytes.NewReader(data)

	depth, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, errors.Wrap(errors.MerkleVerification, err, "failed to decode proof depth")
	}

	valueCount, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, errors.Wrap(errors.MerkleVerification, err, "failed to decode value count")
	}
	values, err := readDigests(r, int(valueCount))
	if err != nil {
		return nil, err
	}

	nodeCount, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, errors.Wrap(errors.MerkleVerification, err, "failed to decode node count")
	}
	nodes, err := readDigests(r, int(nodeCount))
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.New(errors.MerkleVerification, "trailing bytes after decoding batch proof")
	}

	return &BatchMerkleProof{Values: values, Nodes: nodes, Depth: int(depth)}, nil
}

func readDigests(r io.Reader, count int) ([]hashing.Digest, error) {
	out := make([]hashing.Digest, count)
	for i := 0; i < count; i++ {
		var d hashing.Digest
		if _, err := io.ReadFull(r, d[:]); err != nil {
			return nil, errors.Wrapf(errors.MerkleVerification, err, "failed to decode digest %d", i)
		}
		out[i] = d
	}
	return out, nil
}
