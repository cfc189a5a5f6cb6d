package field

import (
	"sync"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
)

// parallelThreshold is the minimum batch size before MulMany fans out
// across goroutines. InvMany always runs sequentially.
const parallelThreshold = 1024

// numWorkers is the fixed worker-pool size used by the batch helpers.
// The FRI protocol state machine itself remains single-threaded; only
// this kind of embarrassingly parallel, purely-functional batch work is
// fanned out, and it is wholly invisible to callers.
const numWorkers = 8

// InvMany inverts every element of in using Montgomery's batch-inversion
// trick: one accumulated product, one inversion, and a back-substitution
// pass, instead of len(in) individual inversions.
func InvMany(in []*Element) ([]*Element, error) {
	n := len(in)
	if n == 0 {
		return nil, nil
	}
	for i, e := range in {
		if e.IsZero() {
			return nil, errors.Newf(errors.InternalProver, "cannot invert zero element at index %d", i)
		}
	}
	if n == 1 {
		inv, err := in[0].Inv()
		if err != nil {
			return nil, err
		}
		return []*Element{inv}, nil
	}

	acc := make([]*Element, n)
	acc[0] = in[0]
	for i := 1; i < n; i++ {
		acc[i] = acc[i-1].Mul(in[i])
	}

	accInv, err := acc[n-1].Inv()
	if err != nil {
		return nil, errors.Wrap(errors.InternalProver, err, "failed to invert batch accumulator")
	}

	out := make([]*Element, n)
	for i := n - 1; i > 0; i-- {
		out[i] = accInv.Mul(acc[i-1])
		accInv = accInv.Mul(in[i])
	}
	out[0] = accInv
	return out, nil
}

// MulMany multiplies a and b pointwise, fanning out across a fixed
// worker pool once the batch is large enough to be worth the overhead.
func MulMany(a, b []*Element) ([]*Element, error) {
	if len(a) != len(b) {
		return nil, errors.Newf(errors.InternalProver, "pointwise multiplication requires equal-length vectors, got %d and %d", len(a), len(b))
	}
	n := len(a)
	out := make([]*Element, n)
	if n < parallelThreshold {
		for i := range a {
			out[i] = a[i].Mul(b[i])
		}
		return out, nil
	}

	chunk := (n + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = a[i].Mul(b[i])
			}
		}(start, end)
	}
	wg.Wait()
	return out, nil
}

// Combine computes the linear combination L[i] = sum_j coeffs[j] *
// vectors[j][i]. All vectors must share the same length; this is the
// primitive the combinator package and its degree-raising steps are
// built from.
func Combine(vectors [][]*Element, coeffs []*Element) ([]*Element, error) {
	if len(vectors) != len(coeffs) {
		return nil, errors.Newf(errors.LinearCombination, "combine requires one coefficient per vector, got %d vectors and %d coefficients", len(vectors), len(coeffs))
	}
	if len(vectors) == 0 {
		return nil, errors.New(errors.LinearCombination, "combine requires at least one vector")
	}
	n := len(vectors[0])
	for i, v := range vectors {
		if len(v) != n {
			return nil, errors.Newf(errors.LinearCombination, "vector %d has length %d, expected %d", i, len(v), n)
		}
	}

	f := coeffs[0].Field()
	out := make([]*Element, n)
	for i := 0; i < n; i++ {
		out[i] = f.Zero()
	}
	for j, v := range vectors {
		c := coeffs[j]
		for i := 0; i < n; i++ {
			out[i] = out[i].Add(c.Mul(v[i]))
		}
	}
	return out, nil
}

// ScaleByPowers multiplies v[i] pointwise by scalar^i, used to raise the
// degree of a vector before combination with others of a higher degree.
func ScaleByPowers(v []*Element, scalar *Element) []*Element {
	powers := GetPowerSeries(scalar, len(v))
	out, err := MulMany(v, powers)
	if err != nil {
		// MulMany only rejects mismatched lengths, and powers always has
		// exactly len(v) entries.
		panic(err)
	}
	return out
}
