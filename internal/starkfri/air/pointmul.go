package air

import "github.com/vybium/stark-fri-core/internal/starkfri/field"

// PointMulAIR encodes a double-and-add elliptic-curve scalar
// multiplication trace on the short Weierstrass curve y^2 = x^3 + a*x +
// b over the same prime field the rest of the proof runs in. Registers
// are (accX, accY, curX, curY, bit): cur is doubled every step, bit
// selects whether the newly doubled point is folded into the running
// accumulator.
type PointMulAIR struct {
	Base
	curveA *field.Element
	baseX  *field.Element
	baseY  *field.Element
	bits   []int
}

// NewPointMulAIR builds a PointMulAIR running double-and-add over bits
// (LSB first, one bit consumed per step after the first). The accumulator
// starts at the base point and bits[0] is never read, so the final
// accumulator is (1 + sum of bits[i]*2^i for i >= 1) * basePoint, which
// equals scalar*basePoint only when bits encodes an odd scalar.
// curveA is the curve's linear coefficient; the curve's constant term is
// never needed by the doubling/addition formulas used here.
func NewPointMulAIR(curveA, baseX, baseY *field.Element, bits []int) *PointMulAIR {
	steps := len(bits)
	air := &PointMulAIR{curveA: curveA, baseX: baseX, baseY: baseY, bits: bits}
	trace, err := air.buildTraceUnchecked()
	if err != nil {
		panic(err)
	}
	last := trace[steps-1]
	assertions := []Assertion{
		{Step: 0, Register: 0, Value: baseX},
		{Step: 0, Register: 1, Value: baseY},
		{Step: 0, Register: 2, Value: baseX},
		{Step: 0, Register: 3, Value: baseY},
		{Step: steps - 1, Register: 0, Value: last[0]},
		{Step: steps - 1, Register: 1, Value: last[1]},
	}
	air.Base = NewBase(5, steps, 4, assertions)
	return air
}

func (a *PointMulAIR) bitElement(i int) *field.Element {
	f := a.baseX.Field()
	if a.bits[i] != 0 {
		return f.One()
	}
	return f.Zero()
}

// double returns the affine coordinates of 2*(x,y) on the curve whose
// linear coefficient is a.curveA.
func double(curveA, x, y *field.Element) (*field.Element, *field.Element, error) {
	f := x.Field()
	three := f.NewElementFromInt64(3)
	two := f.NewElementFromInt64(2)
	num := three.Mul(x.Mul(x)).Add(curveA)
	den := two.Mul(y)
	slope, err := num.Div(den)
	if err != nil {
		return nil, nil, err
	}
	rx := slope.Mul(slope).Sub(two.Mul(x))
	ry := slope.Mul(x.Sub(rx)).Sub(y)
	return rx, ry, nil
}

// addPoints returns the affine coordinates of (x1,y1)+(x2,y2), assuming
// the two points are distinct.
func addPoints(x1, y1, x2, y2 *field.Element) (*field.Element, *field.Element, error) {
	num := y2.Sub(y1)
	den := x2.Sub(x1)
	slope, err := num.Div(den)
	if err != nil {
		return nil, nil, err
	}
	rx := slope.Mul(slope).Sub(x1).Sub(x2)
	ry := slope.Mul(x1.Sub(rx)).Sub(y1)
	return rx, ry, nil
}

func (a *PointMulAIR) buildTraceUnchecked() ([][]*field.Element, error) {
	steps := a.TraceLength()
	if steps == 0 {
		steps = len(a.bits)
	}
	trace := make([][]*field.Element, steps)
	trace[0] = []*field.Element{a.baseX, a.baseY, a.baseX, a.baseY, a.bitElement(0)}

	for i := 1; i < steps; i++ {
		prev := trace[i-1]
		curX, curY, err := double(a.curveA, prev[2], prev[3])
		if err != nil {
			return nil, err
		}
		bit := a.bitElement(i)
		accX, accY := prev[0], prev[1]
		if a.bits[i] != 0 {
			accX, accY, err = addPoints(prev[0], prev[1], curX, curY)
			if err != nil {
				return nil, err
			}
		}
		trace[i] = []*field.Element{accX, accY, curX, curY, bit}
	}
	return trace, nil
}

func (a *PointMulAIR) BuildTrace() ([][]*field.Element, error) {
	return a.buildTraceUnchecked()
}

// EvaluateTransition returns five polynomial constraint numerators, none
// of which divide by a trace register: the doubling identity for
// (curX,curY), the bit's boolean constraint, and the conditional
// addition identity for (accX,accY). Clearing every denominator out of
// the doubling/addition formulas (rather than evaluating double/addPoints
// directly, as BuildTrace does to produce concrete witness values) keeps
// each returned numerator a polynomial in the trace registers, which is
// required for the quotient evaluated over the LDE coset to itself be a
// low-degree polynomial rather than a rational function with poles where
// a denominator happens to vanish off the trace domain.
func (a *PointMulAIR) EvaluateTransition(current, next []*field.Element) ([]*field.Element, error) {
	f := current[0].Field()
	one := f.One()
	two := f.NewElementFromInt64(2)
	three := f.NewElementFromInt64(3)

	curX, curY := current[2], current[3]
	nextCurX, nextCurY := next[2], next[3]
	accX, accY := current[0], current[1]
	nextAccX, nextAccY := next[0], next[1]
	bit := next[4]

	// Doubling: slope = (3x^2+a)/(2y), rx = slope^2-2x, ry = slope*(x-rx)-y.
	// Multiplying both sides of each equation by the relevant power of
	// (2y) clears the division.
	threeXSqPlusA := three.Mul(curX.Mul(curX)).Add(a.curveA)
	twoY := two.Mul(curY)
	doubleX := nextCurX.Add(two.Mul(curX)).Mul(twoY.Mul(twoY)).Sub(threeXSqPlusA.Mul(threeXSqPlusA))
	doubleY := nextCurY.Add(curY).Mul(twoY).Sub(threeXSqPlusA.Mul(curX.Sub(nextCurX)))

	// Conditional addition: when bit=1, (accX,accY)+(nextCurX,nextCurY)
	// must equal (nextAccX,nextAccY); when bit=0, the accumulator must
	// pass through unchanged. slope = (y2-y1)/(x2-x1) with (x1,y1) =
	// (accX,accY), (x2,y2) = (nextCurX,nextCurY); clearing the (x2-x1)
	// denominator out of rx = slope^2-x1-x2 and ry = slope*(x1-rx)-y1
	// gives the addX/addY identities below, gated by bit so only one
	// branch constrains the accumulator at any step.
	dx := nextCurX.Sub(accX)
	dy := nextCurY.Sub(accY)
	addX := nextAccX.Add(accX).Add(nextCurX).Mul(dx.Mul(dx)).Sub(dy.Mul(dy))
	addY := nextAccY.Add(accY).Mul(dx).Sub(dy.Mul(accX.Sub(nextAccX)))
	passX := nextAccX.Sub(accX)
	passY := nextAccY.Sub(accY)
	oneMinusBit := one.Sub(bit)

	return []*field.Element{
		doubleX,
		doubleY,
		bit.Mul(bit.Sub(one)),
		bit.Mul(addX).Add(oneMinusBit.Mul(passX)),
		bit.Mul(addY).Add(oneMinusBit.Mul(passY)),
	}, nil
}
