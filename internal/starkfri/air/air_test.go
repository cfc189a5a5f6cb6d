package air

import (
	"testing"

	"github.com/vybium/stark-fri-core/internal/starkfri/field"
)

func testField(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.NewFromUint64(2013265921)
	if err != nil {
		t.Fatalf("failed to create field: %v", err)
	}
	return f
}

func TestFibonacci2AIRTraceSatisfiesTransition(t *testing.T) {
	f := testField(t)
	a := NewFibonacci2AIR(16, f.One(), f.One())
	trace, err := a.BuildTrace()
	if err != nil {
		t.Fatalf("BuildTrace failed: %v", err)
	}
	if len(trace) != 16 {
		t.Fatalf("expected 16 rows, got %d", len(trace))
	}
	for i := 0; i < len(trace)-1; i++ {
		numerators, err := a.EvaluateTransition(trace[i], trace[i+1])
		if err != nil {
			t.Fatalf("EvaluateTransition failed at step %d: %v", i, err)
		}
		for j, n := range numerators {
			if !n.IsZero() {
				t.Errorf("step %d constraint %d not satisfied: %s", i, j, n.String())
			}
		}
	}
}

func TestFibonacci2AIRBoundaryAssertionsSatisfied(t *testing.T) {
	f := testField(t)
	a := NewFibonacci2AIR(16, f.One(), f.One())
	trace, err := a.BuildTrace()
	if err != nil {
		t.Fatalf("BuildTrace failed: %v", err)
	}
	for _, assertion := range a.Assertions() {
		numerator := a.EvaluateBoundary(assertion, trace[assertion.Step])
		if !numerator.IsZero() {
			t.Errorf("assertion at step %d register %d not satisfied: %s", assertion.Step, assertion.Register, numerator.String())
		}
	}
}

func TestPointMulAIRTraceSatisfiesTransition(t *testing.T) {
	f := testField(t)
	curveA := f.NewElementFromInt64(2)
	baseX := f.NewElementFromInt64(5)
	baseY := f.NewElementFromInt64(17)
	bits := []int{1, 0, 1, 1, 0, 1, 0, 0}

	a := NewPointMulAIR(curveA, baseX, baseY, bits)
	trace, err := a.BuildTrace()
	if err != nil {
		t.Fatalf("BuildTrace failed: %v", err)
	}
	if len(trace) != len(bits) {
		t.Fatalf("expected %d rows, got %d", len(bits), len(trace))
	}
	for i := 0; i < len(trace)-1; i++ {
		numerators, err := a.EvaluateTransition(trace[i], trace[i+1])
		if err != nil {
			t.Fatalf("EvaluateTransition failed at step %d: %v", i, err)
		}
		for j, n := range numerators {
			if !n.IsZero() {
				t.Errorf("step %d constraint %d not satisfied: %s", i, j, n.String())
			}
		}
	}
}

func TestPointMulAIRBoundaryAssertionsSatisfied(t *testing.T) {
	f := testField(t)
	curveA := f.NewElementFromInt64(2)
	baseX := f.NewElementFromInt64(5)
	baseY := f.NewElementFromInt64(17)
	bits := []int{1, 1, 0, 1}

	a := NewPointMulAIR(curveA, baseX, baseY, bits)
	trace, err := a.BuildTrace()
	if err != nil {
		t.Fatalf("BuildTrace failed: %v", err)
	}
	for _, assertion := range a.Assertions() {
		numerator := a.EvaluateBoundary(assertion, trace[assertion.Step])
		if !numerator.IsZero() {
			t.Errorf("assertion at step %d register %d not satisfied: %s", assertion.Step, assertion.Register, numerator.String())
		}
	}
}
