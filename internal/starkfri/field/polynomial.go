package field

import (
	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
)

// Polynomial is a dense coefficient-form polynomial over a Field
// (coefficients low-to-high, trimmed of trailing zero coefficients).
type Polynomial struct {
	field        *Field
	coefficients []*Element
}

// NewPolynomial builds a polynomial from coefficients (low degree first),
// trimming trailing zero coefficients.
func NewPolynomial(coefficients []*Element) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, errors.New(errors.InternalProver, "polynomial must have at least one coefficient")
	}
	f := coefficients[0].Field()
	if err := SameField(coefficients...); err != nil {
		return nil, err
	}

	last := 0
	for i := len(coefficients) - 1; i >= 0; i-- {
		if !coefficients[i].IsZero() {
			last = i
			break
		}
	}
	trimmed := make([]*Element, last+1)
	copy(trimmed, coefficients[:last+1])

	return &Polynomial{field: f, coefficients: trimmed}, nil
}

// Degree returns the polynomial's degree (0 for the zero polynomial).
func (p *Polynomial) Degree() int { return len(p.coefficients) - 1 }

// Field returns the field the polynomial is defined over.
func (p *Polynomial) Field() *Field { return p.field }

// Coefficients returns a defensive copy of the coefficient slice.
func (p *Polynomial) Coefficients() []*Element {
	out := make([]*Element, len(p.coefficients))
	copy(out, p.coefficients)
	return out
}

// Coefficient returns the coefficient of x^degree, or zero beyond the
// polynomial's degree.
func (p *Polynomial) Coefficient(degree int) *Element {
	if degree < 0 || degree >= len(p.coefficients) {
		return p.field.Zero()
	}
	return p.coefficients[degree]
}

// Eval evaluates the polynomial at x using Horner's method.
func (p *Polynomial) Eval(x *Element) *Element {
	result := p.field.Zero()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// EvalMany evaluates the polynomial at every point in xs.
func (p *Polynomial) EvalMany(xs []*Element) []*Element {
	out := make([]*Element, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}
	return out
}

// Interpolate computes the unique polynomial of degree < len(xs) passing
// through the given (x, y) pairs, via Lagrange interpolation with batch
// inversion of the denominators.
func Interpolate(xs, ys []*Element) (*Polynomial, error) {
	if len(xs) != len(ys) {
		return nil, errors.Newf(errors.InternalProver, "interpolate requires equal-length x and y vectors, got %d and %d", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, errors.New(errors.InternalProver, "interpolate requires at least one point")
	}
	f := xs[0].Field()
	n := len(xs)

	// Denominators: prod_{j != i} (x_i - x_j), inverted as a batch.
	denoms := make([]*Element, n)
	for i := 0; i < n; i++ {
		d := f.One()
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			diff := xs[i].Sub(xs[j])
			if diff.IsZero() {
				return nil, errors.Newf(errors.InternalProver, "interpolate requires distinct x coordinates, duplicate at %d and %d", i, j)
			}
			d = d.Mul(diff)
		}
		denoms[i] = d
	}
	invDenoms, err := InvMany(denoms)
	if err != nil {
		return nil, err
	}

	result := make([]*Element, n)
	for i := range result {
		result[i] = f.Zero()
	}

	for i := 0; i < n; i++ {
		// basis_i(X) = prod_{j != i} (X - x_j), built by successive
		// polynomial multiplication, then scaled by y_i / denom_i.
		basis := []*Element{f.One()}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			basis = polyMulLinear(basis, xs[j])
		}
		scale := ys[i].Mul(invDenoms[i])
		for k, c := range basis {
			result[k] = result[k].Add(c.Mul(scale))
		}
	}

	return NewPolynomial(result)
}

// polyMulLinear multiplies the dense coefficient vector coeffs by (X -
// root), returning the extended coefficient vector.
func polyMulLinear(coeffs []*Element, root *Element) []*Element {
	f := root.Field()
	out := make([]*Element, len(coeffs)+1)
	for i := range out {
		out[i] = f.Zero()
		if i < len(coeffs) {
			out[i] = out[i].Sub(coeffs[i].Mul(root))
		}
		if i > 0 {
			out[i] = out[i].Add(coeffs[i-1])
		}
	}
	return out
}
