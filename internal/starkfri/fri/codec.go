package fri

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

// Encode serializes a LowDegreeProof: a fixed-width InitialRoot, a
// uvarint component count, then per component a column root, a batch
// proof (depth, position count and positions, the opened 4-element rows,
// node count and sibling digests), and a poly batch proof laid out the
// same way; finally a uvarint remainder count followed by that many
// fixed-width field elements.
func Encode(proof *LowDegreeProof) []byte {
	var buf bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte

	putUvarint := func(v uint64) {
		n := binary.PutUvarint(scratch[:], v)
		buf.Write(scratch[:n])
	}
	putRows := func(positions []int, rows [][4]*field.Element, nodes []hashing.Digest, depth int) {
		putUvarint(uint64(depth))
		putUvarint(uint64(len(positions)))
		for _, p := range positions {
			putUvarint(uint64(p))
		}
		for _, row := range rows {
			for _, v := range row {
				buf.Write(v.Bytes())
			}
		}
		putUvarint(uint64(len(nodes)))
		for _, d := range nodes {
			buf.Write(d.Bytes())
		}
	}

	buf.Write(proof.InitialRoot.Bytes())
	putUvarint(uint64(len(proof.Components)))
	for _, c := range proof.Components {
		buf.Write(c.ColumnRoot.Bytes())
		putRows(c.ColumnPositions, c.ColumnRows, c.ColumnNodes, c.ColumnDepth)
		putRows(c.PolyPositions, c.PolyRows, c.PolyNodes, c.PolyDepth)
	}

	putUvarint(uint64(len(proof.Remainder)))
	for _, v := range proof.Remainder {
		buf.Write(v.Bytes())
	}

	return buf.Bytes()
}

// Decode is the inverse of Encode; f provides the element width and
// modulus needed to decode each field element.
func Decode(f *field.Field, data []byte) (*LowDegreeProof, error) {
	r := bytes.NewReader(data)

	readDigest := func(label string) (hashing.Digest, error) {
		var d hashing.Digest
		if _, err := io.ReadFull(r, d[:]); err != nil {
			return d, errors.Wrapf(errors.MerkleVerification, err, "failed to decode %s", label)
		}
		return d, nil
	}
	readRows := func(label string) ([]int, [][4]*field.Element, []hashing.Digest, int, error) {
		depth, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, nil, nil, 0, errors.Wrapf(errors.MerkleVerification, err, "failed to decode %s depth", label)
		}
		positionCount, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, nil, nil, 0, errors.Wrapf(errors.MerkleVerification, err, "failed to decode %s position count", label)
		}
		positions := make([]int, positionCount)
		for j := range positions {
			p, err := binary.ReadUvarint(r)
			if err != nil {
				return nil, nil, nil, 0, errors.Wrapf(errors.MerkleVerification, err, "failed to decode %s position %d", label, j)
			}
			positions[j] = int(p)
		}
		rows := make([][4]*field.Element, positionCount)
		for j := range rows {
			for k := 0; k < 4; k++ {
				v, err := readElement(r, f)
				if err != nil {
					return nil, nil, nil, 0, errors.Wrapf(errors.MerkleVerification, err, "failed to decode %s row %d", label, j)
				}
				rows[j][k] = v
			}
		}
		nodeCount, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, nil, nil, 0, errors.Wrapf(errors.MerkleVerification, err, "failed to decode %s node count", label)
		}
		nodes := make([]hashing.Digest, nodeCount)
		for j := range nodes {
			if nodes[j], err = readDigest(label + " node"); err != nil {
				return nil, nil, nil, 0, err
			}
		}
		return positions, rows, nodes, int(depth), nil
	}

	initialRoot, err := readDigest("initial root")
	if err != nil {
		return nil, err
	}
	componentCount, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, errors.Wrap(errors.MerkleVerification, err, "failed to decode component count")
	}

	components := make([]FriComponent, componentCount)
	for i := range components {
		columnRoot, err := readDigest("column root")
		if err != nil {
			return nil, err
		}
		columnPositions, columnRows, columnNodes, columnDepth, err := readRows("column")
		if err != nil {
			return nil, err
		}
		polyPositions, polyRows, polyNodes, polyDepth, err := readRows("poly")
		if err != nil {
			return nil, err
		}
		components[i] = FriComponent{
			ColumnRoot:      columnRoot,
			ColumnPositions: columnPositions,
			ColumnRows:      columnRows,
			ColumnNodes:     columnNodes,
			ColumnDepth:     columnDepth,
			PolyPositions:   polyPositions,
			PolyRows:        polyRows,
			PolyNodes:       polyNodes,
			PolyDepth:       polyDepth,
		}
	}

	remainderCount, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, errors.Wrap(errors.MerkleVerification, err, "failed to decode remainder count")
	}
	remainder := make([]*field.Element, remainderCount)
	for i := range remainder {
		if remainder[i], err = readElement(r, f); err != nil {
			return nil, errors.Wrapf(errors.MerkleVerification, err, "failed to decode remainder element %d", i)
		}
	}

	if r.Len() != 0 {
		return nil, errors.New(errors.MerkleVerification, "trailing bytes after decoding low degree proof")
	}

	return &LowDegreeProof{InitialRoot: initialRoot, Components: components, Remainder: remainder}, nil
}

func readElement(r io.Reader, f *field.Field) (*field.Element, error) {
	buf := make([]byte, f.ElementSize())
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return field.FromBytes(f, buf), nil
}
