package field

import (
	"math/big"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
)

// IsPowerOfTwo reports whether n is a positive power of two, used
// throughout the FRI domain-size checks.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// GetRootOfUnity returns a field element of multiplicative order exactly
// order, where order must divide p-1 and (per the core's invariants) is a
// power of two. It works for any prime field without requiring a
// precomputed generator: it searches small candidate bases b and raises
// each to (p-1)/order until the result's order is exactly `order`
// (checked by the standard power-of-two order test candidate^(order/2) !=
// 1), the same trial-and-verify idea used to search for quadratic/cubic
// non-residues.
func (f *Field) GetRootOfUnity(order int) (*Element, error) {
	if order <= 0 {
		return nil, errors.Newf(errors.Configuration, "root of unity order must be positive, got %d", order)
	}
	if order == 1 {
		return f.One(), nil
	}
	if !IsPowerOfTwo(order) {
		return nil, errors.Newf(errors.Configuration, "root of unity order must be a power of two, got %d", order)
	}

	pMinus1 := new(big.Int).Sub(f.modulus, big.NewInt(1))
	orderBig := big.NewInt(int64(order))
	if new(big.Int).Mod(pMinus1, orderBig).Sign() != 0 {
		return nil, errors.Newf(errors.Configuration, "field of order p=%s has no subgroup of order %d", f.modulus.String(), order)
	}
	exponent := new(big.Int).Div(pMinus1, orderBig)

	for b := int64(2); b < 1<<20; b++ {
		candidate := f.NewElementFromInt64(b).Exp(exponent)
		if candidate.IsZero() || candidate.IsOne() {
			continue
		}
		if candidate.ExpInt(order/2).IsOne() {
			continue
		}
		return candidate, nil
	}
	return nil, errors.Newf(errors.Configuration, "could not find a primitive %d-th root of unity", order)
}

// GetPowerSeries returns [seed^0, seed^1, ..., seed^(count-1)].
func GetPowerSeries(seed *Element, count int) []*Element {
	out := make([]*Element, count)
	if count == 0 {
		return out
	}
	f := seed.Field()
	out[0] = f.One()
	for i := 1; i < count; i++ {
		out[i] = out[i-1].Mul(seed)
	}
	return out
}

// GetPowerCycle returns the full multiplicative cycle generated by g:
// [g^0, g^1, ...] up to (and not including) the point where it returns to
// 1. For a g of exact order N (as every root of unity used by this core
// is, per the data-model invariant), this has length N.
func GetPowerCycle(g *Element) []*Element {
	f := g.Field()
	out := []*Element{f.One()}
	cur := g
	for !cur.IsOne() {
		out = append(out, cur)
		cur = cur.Mul(g)
	}
	return out
}

// TransposeVector reshapes a vector of length 4*stride into a stride x 4
// matrix where row i is (v[i], v[i+stride], v[i+2*stride], v[i+3*stride]).
// This is exactly how the FRI prover views L (or any folding layer's
// codeword) as a 4-column matrix of interleaved cosets.
func TransposeVector(v []*Element, stride int) ([][4]*Element, error) {
	if stride <= 0 || len(v) != 4*stride {
		return nil, errors.Newf(errors.InternalProver, "transpose requires a vector of length 4*stride, got len=%d stride=%d", len(v), stride)
	}
	out := make([][4]*Element, stride)
	for i := 0; i < stride; i++ {
		out[i] = [4]*Element{v[i], v[i+stride], v[i+2*stride], v[i+3*stride]}
	}
	return out, nil
}

// JoinMatrixRows flattens a 4-column matrix back into a single vector by
// concatenating rows in order: row0[0..3], row1[0..3], ... Used to lay
// out a packed-leaf Merkle tree's rows as one contiguous byte stream.
func JoinMatrixRows(m [][4]*Element) []*Element {
	out := make([]*Element, 0, 4*len(m))
	for _, row := range m {
		out = append(out, row[0], row[1], row[2], row[3])
	}
	return out
}

