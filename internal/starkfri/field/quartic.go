package field

import (
	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
)

// InterpolateQuarticBatch interpolates many degree-<=3 polynomials at
// once: row i's four (xs[i][k], ys[i][k]) pairs determine a cubic, whose
// coefficients (low degree first) are returned as out[i]. This is the
// core per-fold primitive named interpolateQuarticBatch: the FRI prover
// calls it once per layer across every one of that layer's 4-point rows,
// and batches all of the rows' Lagrange-denominator inversions into a
// single InvMany call instead of n independent inversions.
func InterpolateQuarticBatch(xs, ys [][4]*Element) ([][4]*Element, error) {
	n := len(xs)
	if len(ys) != n {
		return nil, errors.Newf(errors.InternalProver, "interpolateQuarticBatch requires equal-length x and y rows, got %d and %d", n, len(ys))
	}
	if n == 0 {
		return nil, nil
	}
	f := xs[0][0].Field()

	flatDenoms := make([]*Element, 0, 4*n)
	for i := 0; i < n; i++ {
		for k := 0; k < 4; k++ {
			d := f.One()
			for j := 0; j < 4; j++ {
				if j == k {
					continue
				}
				diff := xs[i][k].Sub(xs[i][j])
				if diff.IsZero() {
					return nil, errors.Newf(errors.InternalProver, "interpolateQuarticBatch row %d has duplicate x coordinates", i)
				}
				d = d.Mul(diff)
			}
			flatDenoms = append(flatDenoms, d)
		}
	}
	flatInv, err := InvMany(flatDenoms)
	if err != nil {
		return nil, err
	}

	out := make([][4]*Element, n)
	for i := 0; i < n; i++ {
		var result [4]*Element
		for t := range result {
			result[t] = f.Zero()
		}
		for k := 0; k < 4; k++ {
			basis := []*Element{f.One()}
			for j := 0; j < 4; j++ {
				if j == k {
					continue
				}
				basis = polyMulLinear(basis, xs[i][j])
			}
			scale := ys[i][k].Mul(flatInv[i*4+k])
			for t, c := range basis {
				result[t] = result[t].Add(c.Mul(scale))
			}
		}
		out[i] = result
	}
	return out, nil
}

// EvalQuarticBatch evaluates each row's cubic (given as its 4
// coefficients, low degree first) at the corresponding point in xs. Used
// by the FRI prover to fold each row down to a single next-layer value at
// the Fiat-Shamir-derived challenge, and by the verifier to recompute the
// same fold for a queried row during per-layer consistency checking.
func EvalQuarticBatch(coeffs [][4]*Element, xs []*Element) ([]*Element, error) {
	if len(coeffs) != len(xs) {
		return nil, errors.Newf(errors.InternalProver, "evalQuarticBatch requires one x per row, got %d rows and %d xs", len(coeffs), len(xs))
	}
	out := make([]*Element, len(coeffs))
	for i, c := range coeffs {
		x := xs[i]
		out[i] = c[3].Mul(x).Add(c[2]).Mul(x).Add(c[1]).Mul(x).Add(c[0])
	}
	return out, nil
}
