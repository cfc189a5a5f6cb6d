package fri

import (
	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
)

// VerifyRemainder checks that remainder, viewed as evaluations over the
// cyclic domain generator generates, agrees with a polynomial of degree
// at most expectedDegree. Every fold step divides the claimed degree
// bound by the fold arity (4) along with the domain size, so by the time
// folding stops, expectedDegree should be small enough that a direct
// interpolation is cheap.
func VerifyRemainder(remainder []*field.Element, generator *field.Element, expectedDegree int) (bool, error) {
	domain := field.GetPowerCycle(generator)
	if len(domain) != len(remainder) {
		return false, errors.Newf(errors.RemainderMismatch, "remainder has %d entries but the terminal domain has %d points", len(remainder), len(domain))
	}
	poly, err := field.Interpolate(domain, remainder)
	if err != nil {
		return false, errors.Wrap(errors.RemainderMismatch, err, "failed to interpolate the remainder")
	}
	return poly.Degree() <= expectedDegree, nil
}
