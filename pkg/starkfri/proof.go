package starkfri

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/fri"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

// Proof is the serializable output of Prove: the trace and combined
// commitments opened at the execution query positions, plus the nested
// low-degree proof that the combined codeword is close to a low-degree
// polynomial. Cross-linking the trace openings to the combined openings
// (done in Verify) is what ties the FRI degree test back to the AIR's
// constraints.
type Proof struct {
	TraceRoot      hashing.Digest
	TraceNodes     []hashing.Digest
	TraceDepth     int
	ExePositions   []int
	// OpenedTrace interleaves, for each entry of ExePositions, the trace
	// row at that position and the trace row one trace-step later (at
	// position p+extensionFactor mod N): OpenedTrace[2*i] is the current
	// row, OpenedTrace[2*i+1] is the next row, so Verify can recompute
	// every transition constraint's numerator without ever seeing the
	// secret trace polynomials themselves.
	OpenedTrace [][]*field.Element

	CombinedRoot   hashing.Digest
	CombinedNodes  []hashing.Digest
	CombinedDepth  int
	OpenedCombined []*field.Element

	FRI           *fri.LowDegreeProof
	ClaimedDegree int
	DomainSize    int
	Steps         int
}

// Encode serializes a Proof to bytes.
func Encode(p *Proof) []byte {
	var buf bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte
	putUvarint := func(v uint64) {
		n := binary.PutUvarint(scratch[:], v)
		buf.Write(scratch[:n])
	}

	putUvarint(uint64(p.ClaimedDegree))
	putUvarint(uint64(p.DomainSize))
	putUvarint(uint64(p.Steps))

	buf.Write(p.TraceRoot.Bytes())
	putUvarint(uint64(p.TraceDepth))
	putUvarint(uint64(len(p.TraceNodes)))
	for _, n := range p.TraceNodes {
		buf.Write(n.Bytes())
	}

	putUvarint(uint64(len(p.ExePositions)))
	for _, pos := range p.ExePositions {
		putUvarint(uint64(pos))
	}
	for _, row := range p.OpenedTrace {
		for _, v := range row {
			buf.Write(v.Bytes())
		}
	}

	buf.Write(p.CombinedRoot.Bytes())
	putUvarint(uint64(p.CombinedDepth))
	putUvarint(uint64(len(p.CombinedNodes)))
	for _, n := range p.CombinedNodes {
		buf.Write(n.Bytes())
	}
	for _, v := range p.OpenedCombined {
		buf.Write(v.Bytes())
	}

	friBytes := fri.Encode(p.FRI)
	putUvarint(uint64(len(friBytes)))
	buf.Write(friBytes)

	return buf.Bytes()
}

// Decode is the inverse of Encode. registerCount tells the decoder how
// many field elements to read per opened trace row.
func Decode(f *field.Field, registerCount int, data []byte) (*Proof, error) {
	r := bytes.NewReader(data)
	readUvarint := func(label string) (uint64, error) {
		v, err := binary.ReadUvarint(r)
		if err != nil {
			return 0, errors.Wrapf(errors.MerkleVerification, err, "failed to decode %s", label)
		}
		return v, nil
	}
	readDigest := func(label string) (hashing.Digest, error) {
		var d hashing.Digest
		if _, err := io.ReadFull(r, d[:]); err != nil {
			return d, errors.Wrapf(errors.MerkleVerification, err, "failed to decode %s", label)
		}
		return d, nil
	}
	readElement := func(label string) (*field.Element, error) {
		buf := make([]byte, f.ElementSize())
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrapf(errors.MerkleVerification, err, "failed to decode %s", label)
		}
		return field.FromBytes(f, buf), nil
	}

	p := &Proof{}
	degree, err := readUvarint("claimed degree")
	if err != nil {
		return nil, err
	}
	p.ClaimedDegree = int(degree)
	domainSize, err := readUvarint("domain size")
	if err != nil {
		return nil, err
	}
	p.DomainSize = int(domainSize)
	steps, err := readUvarint("steps")
	if err != nil {
		return nil, err
	}
	p.Steps = int(steps)

	if p.TraceRoot, err = readDigest("trace root"); err != nil {
		return nil, err
	}
	traceDepth, err := readUvarint("trace depth")
	if err != nil {
		return nil, err
	}
	p.TraceDepth = int(traceDepth)
	traceNodeCount, err := readUvarint("trace node count")
	if err != nil {
		return nil, err
	}
	p.TraceNodes = make([]hashing.Digest, traceNodeCount)
	for i := range p.TraceNodes {
		if p.TraceNodes[i], err = readDigest("trace node"); err != nil {
			return nil, err
		}
	}

	positionCount, err := readUvarint("exe position count")
	if err != nil {
		return nil, err
	}
	p.ExePositions = make([]int, positionCount)
	for i := range p.ExePositions {
		v, err := readUvarint("exe position")
		if err != nil {
			return nil, err
		}
		p.ExePositions[i] = int(v)
	}
	p.OpenedTrace = make([][]*field.Element, 2*positionCount)
	for i := range p.OpenedTrace {
		row := make([]*field.Element, registerCount)
		for j := range row {
			if row[j], err = readElement("opened trace value"); err != nil {
				return nil, err
			}
		}
		p.OpenedTrace[i] = row
	}

	if p.CombinedRoot, err = readDigest("combined root"); err != nil {
		return nil, err
	}
	combinedDepth, err := readUvarint("combined depth")
	if err != nil {
		return nil, err
	}
	p.CombinedDepth = int(combinedDepth)
	combinedNodeCount, err := readUvarint("combined node count")
	if err != nil {
		return nil, err
	}
	p.CombinedNodes = make([]hashing.Digest, combinedNodeCount)
	for i := range p.CombinedNodes {
		if p.CombinedNodes[i], err = readDigest("combined node"); err != nil {
			return nil, err
		}
	}
	p.OpenedCombined = make([]*field.Element, positionCount)
	for i := range p.OpenedCombined {
		if p.OpenedCombined[i], err = readElement("opened combined value"); err != nil {
			return nil, err
		}
	}

	friLen, err := readUvarint("fri proof length")
	if err != nil {
		return nil, err
	}
	friBytes := make([]byte, friLen)
	if _, err := io.ReadFull(r, friBytes); err != nil {
		return nil, errors.Wrap(errors.MerkleVerification, err, "failed to decode fri proof bytes")
	}
	p.FRI, err = fri.Decode(f, friBytes)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, errors.New(errors.MerkleVerification, "trailing bytes after decoding proof")
	}
	return p, nil
}
