// Package combinator implements the linear combination step that turns
// several claimed-degree evaluation vectors (a trace polynomial's columns,
// boundary and transition constraint quotients, ...) into the single
// codeword the FRI low-degree test is run against. Each vector is raised
// to a shared degree bound with field.ScaleByPowers before being summed
// with field.Combine, using Fiat-Shamir coefficients drawn from field.PRNG.
package combinator

import (
	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
	"github.com/vybium/stark-fri-core/internal/starkfri/merkle"
)

// Component is one evaluation vector to be folded into the combined
// codeword, along with the degree bound it is claimed to satisfy.
type Component struct {
	Name   string
	Values []*field.Element
	Degree int
}

// Result is the output of Combine: the combined codeword L, its own
// Merkle commitment, and the coefficients drawn to build it (recorded so
// a caller can include them in a proof transcript for auditing, even
// though the verifier rederives them independently from the same seed).
type Result struct {
	L            []*field.Element
	Coefficients []*field.Element
	Root         hashing.Digest
	Tree         *merkle.MerkleTree
}

// Combine draws two Fiat-Shamir coefficients (alpha_i, beta_i) per
// component from seed, then computes
//
//	L(x) = sum_i ( alpha_i * C_i(x) + beta_i * x^(maxDegree - deg(C_i)) * C_i(x) )
//
// evaluated pointwise over the domain each component is already sampled
// on. The beta_i * x^delta term raises every component to the same
// degree bound before summation, so a single downstream FRI run can
// certify the combined codeword's degree on behalf of every component at
// once. domainGenerator must generate the same evaluation domain every
// component's Values vector was sampled over.
func Combine(h hashing.Hasher, seed hashing.Digest, domainGenerator *field.Element, maxDegree int, components []Component) (*Result, error) {
	if len(components) == 0 {
		return nil, errors.New(errors.LinearCombination, "combine requires at least one component")
	}
	f := domainGenerator.Field()
	domainSize := len(components[0].Values)
	for _, c := range components {
		if len(c.Values) != domainSize {
			return nil, errors.Newf(errors.LinearCombination, "component %q has %d evaluations, expected %d", c.Name, len(c.Values), domainSize)
		}
		if c.Degree > maxDegree {
			return nil, errors.Newf(errors.LinearCombination, "component %q has claimed degree %d exceeding the combination's max degree %d", c.Name, c.Degree, maxDegree)
		}
	}

	coeffs := f.PRNG(h, seed.Bytes(), 2*len(components))

	vectors := make([][]*field.Element, 0, 2*len(components))
	for _, c := range components {
		delta := maxDegree - c.Degree
		vectors = append(vectors, c.Values)
		if delta == 0 {
			vectors = append(vectors, c.Values)
		} else {
			vectors = append(vectors, field.ScaleByPowers(c.Values, domainGenerator.ExpInt(delta)))
		}
	}

	l, err := field.Combine(vectors, coeffs)
	if err != nil {
		return nil, errors.Wrap(errors.LinearCombination, err, "failed to combine components")
	}

	leaves := make([]hashing.Digest, domainSize)
	for i, v := range l {
		leaves[i] = h.Sum(v.Bytes())
	}
	tree, err := merkle.Build(h, leaves)
	if err != nil {
		return nil, errors.Wrap(errors.LinearCombination, err, "failed to commit the combined codeword")
	}

	return &Result{L: l, Coefficients: coeffs, Root: tree.Root(), Tree: tree}, nil
}
