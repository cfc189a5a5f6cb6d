// Package air supplies the trace/constraint collaborator the core FRI
// protocol treats as external: a fixed-width execution trace plus the
// polynomial relations it must satisfy. AIR and Assertion are deliberately
// generic, so the Fibonacci and elliptic-curve scenarios can both
// implement the same interface.
package air

import "github.com/vybium/stark-fri-core/internal/starkfri/field"

// Assertion pins register Register to Value at trace step Step.
type Assertion struct {
	Step     int
	Register int
	Value    *field.Element
}

// AIR describes an algebraic intermediate representation: a trace of
// TraceLength() rows over RegisterCount() registers, a set of boundary
// Assertions, and a transition relation every consecutive row pair must
// satisfy.
type AIR interface {
	RegisterCount() int
	TraceLength() int
	MaxConstraintDegree() int
	Assertions() []Assertion

	// BuildTrace computes the full execution trace, one row per step.
	BuildTrace() ([][]*field.Element, error)

	// EvaluateTransition returns one numerator per transition constraint,
	// zero exactly when next legitimately follows current.
	EvaluateTransition(current, next []*field.Element) ([]*field.Element, error)

	// EvaluateBoundary returns the numerator for assertion a given the
	// trace row at a.Step, zero exactly when the assertion holds.
	EvaluateBoundary(a Assertion, state []*field.Element) *field.Element
}

// Base implements the bookkeeping every concrete AIR shares: register
// count, trace length, constraint degree bound, assertion list, and the
// universal boundary-numerator formula (state[register] - value).
// Concrete AIRs embed Base and supply BuildTrace/EvaluateTransition.
type Base struct {
	registers   int
	traceLength int
	maxDegree   int
	assertions  []Assertion
}

// NewBase constructs the shared AIR bookkeeping.
func NewBase(registers, traceLength, maxDegree int, assertions []Assertion) Base {
	return Base{registers: registers, traceLength: traceLength, maxDegree: maxDegree, assertions: assertions}
}

func (b Base) RegisterCount() int        { return b.registers }
func (b Base) TraceLength() int          { return b.traceLength }
func (b Base) MaxConstraintDegree() int  { return b.maxDegree }
func (b Base) Assertions() []Assertion   { return b.assertions }

func (b Base) EvaluateBoundary(a Assertion, state []*field.Element) *field.Element {
	return state[a.Register].Sub(a.Value)
}
