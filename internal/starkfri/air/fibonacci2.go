package air

import "github.com/vybium/stark-fri-core/internal/starkfri/field"

// Fibonacci2AIR encodes the two-register recurrence r0' = r1, r1' = r0 +
// r1 (transition constraint Y - X - Z = 0) as a real per-step trace with
// boundary assertions at the first and last rows.
type Fibonacci2AIR struct {
	Base
	seedA, seedB *field.Element
}

// NewFibonacci2AIR builds a Fibonacci2AIR over steps rows starting from
// registers (seedA, seedB), with boundary assertions pinning both seed
// values at step 0 and the final r1 value at the last step.
func NewFibonacci2AIR(steps int, seedA, seedB *field.Element) *Fibonacci2AIR {
	_, finalB := stepFibonacci2(steps, seedA, seedB)
	assertions := []Assertion{
		{Step: 0, Register: 0, Value: seedA},
		{Step: 0, Register: 1, Value: seedB},
		{Step: steps - 1, Register: 1, Value: finalB},
	}
	return &Fibonacci2AIR{
		Base:  NewBase(2, steps, 1, assertions),
		seedA: seedA,
		seedB: seedB,
	}
}

func stepFibonacci2(steps int, seedA, seedB *field.Element) (*field.Element, *field.Element) {
	a, b := seedA, seedB
	for i := 1; i < steps; i++ {
		a, b = b, a.Add(b)
	}
	return a, b
}

func (a *Fibonacci2AIR) BuildTrace() ([][]*field.Element, error) {
	trace := make([][]*field.Element, a.TraceLength())
	r0, r1 := a.seedA, a.seedB
	trace[0] = []*field.Element{r0, r1}
	for i := 1; i < a.TraceLength(); i++ {
		r0, r1 = r1, r0.Add(r1)
		trace[i] = []*field.Element{r0, r1}
	}
	return trace, nil
}

func (a *Fibonacci2AIR) EvaluateTransition(current, next []*field.Element) ([]*field.Element, error) {
	return []*field.Element{
		next[0].Sub(current[1]),
		next[1].Sub(current[0].Add(current[1])),
	}, nil
}
