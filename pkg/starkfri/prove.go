package starkfri

import (
	"fmt"

	"github.com/vybium/stark-fri-core/internal/starkfri/air"
	"github.com/vybium/stark-fri-core/internal/starkfri/combinator"
	"github.com/vybium/stark-fri-core/internal/starkfri/config"
	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/fri"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
	"github.com/vybium/stark-fri-core/internal/starkfri/logging"
	"github.com/vybium/stark-fri-core/internal/starkfri/merkle"
	"github.com/vybium/stark-fri-core/internal/starkfri/query"
)

// traceTables holds the low-degree-extended trace: one evaluation vector
// per register, and the corresponding per-domain-point rows used for
// Merkle leaves.
type traceTables struct {
	f           *field.Field
	steps       int
	registers   int
	traceDomain []*field.Element
	ldeDomain   []*field.Element
	columns     [][]*field.Element // columns[register][ldeIndex]
}

// ldeCosetOffset is the fixed shift applied to the low-degree-extension
// domain so it never intersects the trace subgroup. Prove and Verify must
// agree on it exactly, since both use it to recover the real coordinate
// behind an LDE index when evaluating boundary/transition zerofiers.
func ldeCosetOffset(f *field.Field) *field.Element {
	return f.NewElementFromInt64(3)
}

func buildTraceTables(a air.AIR, cfg *config.Config) (*traceTables, error) {
	steps := a.TraceLength()
	if !field.IsPowerOfTwo(steps) {
		return nil, errors.Newf(errors.Configuration, "trace length must be a power of two, got %d", steps)
	}
	if cfg.TraceLength != steps {
		return nil, errors.Newf(errors.Configuration, "config declares trace length %d, air declares %d", cfg.TraceLength, steps)
	}
	trace, err := a.BuildTrace()
	if err != nil {
		return nil, errors.Wrap(errors.InternalProver, err, "failed to build execution trace")
	}
	if len(trace) != steps {
		return nil, errors.Newf(errors.InternalProver, "trace has %d rows, expected %d", len(trace), steps)
	}
	registers := a.RegisterCount()
	f := trace[0][0].Field()

	gTrace, err := f.GetRootOfUnity(steps)
	if err != nil {
		return nil, err
	}
	traceDomain := field.GetPowerCycle(gTrace)

	n := steps * cfg.ExtensionFactor
	gLde, err := f.GetRootOfUnity(n)
	if err != nil {
		return nil, err
	}
	// The LDE domain is a coset of the order-N subgroup, offset away from
	// the trace subgroup, so no LDE point ever collides with a trace
	// domain point; both the boundary and transition zerofiers below
	// would otherwise divide by zero exactly at those points.
	offset := ldeCosetOffset(f)
	basePowers := field.GetPowerCycle(gLde)
	ldeDomain := make([]*field.Element, n)
	for i, v := range basePowers {
		ldeDomain[i] = offset.Mul(v)
	}

	columns := make([][]*field.Element, registers)
	for r := 0; r < registers; r++ {
		values := make([]*field.Element, steps)
		for i, row := range trace {
			values[i] = row[r]
		}
		poly, err := field.Interpolate(traceDomain, values)
		if err != nil {
			return nil, errors.Wrapf(errors.InternalProver, err, "failed to interpolate register %d", r)
		}
		columns[r] = poly.EvalMany(ldeDomain)
	}

	return &traceTables{f: f, steps: steps, registers: registers, traceDomain: traceDomain, ldeDomain: ldeDomain, columns: columns}, nil
}

func (t *traceTables) row(i int) []*field.Element {
	row := make([]*field.Element, t.registers)
	for r := range row {
		row[r] = t.columns[r][i]
	}
	return row
}

func rowBytes(row []*field.Element) []byte {
	out := make([]byte, 0, len(row)*row[0].Field().ElementSize())
	for _, v := range row {
		out = append(out, v.Bytes()...)
	}
	return out
}

// buildComponents computes the boundary and transition constraint
// quotients over the LDE domain and assembles them together with the
// register columns into the combinator's input list: pointwise quotient
// evaluation over the whole LDE domain, one component per register, per
// boundary assertion, and per transition constraint.
func buildComponents(a air.AIR, t *traceTables) ([]combinator.Component, error) {
	n := len(t.ldeDomain)
	components := make([]combinator.Component, 0, t.registers+len(a.Assertions())+a.RegisterCount())

	for r := 0; r < t.registers; r++ {
		components = append(components, combinator.Component{Name: fmt.Sprintf("P%d", r), Values: t.columns[r], Degree: t.steps - 1})
	}

	boundaryDegree := t.steps - 2
	if boundaryDegree < 0 {
		boundaryDegree = 0
	}
	for idx, assertion := range a.Assertions() {
		denom := make([]*field.Element, n)
		numer := make([]*field.Element, n)
		anchor := t.traceDomain[assertion.Step]
		for i := 0; i < n; i++ {
			denom[i] = t.ldeDomain[i].Sub(anchor)
			row := make([]*field.Element, t.registers)
			row[assertion.Register] = t.columns[assertion.Register][i]
			numer[i] = a.EvaluateBoundary(assertion, row)
		}
		invDenom, err := field.InvMany(denom)
		if err != nil {
			return nil, errors.Wrapf(errors.LinearCombination, err, "failed to invert boundary zerofier for assertion %d", idx)
		}
		quotient, err := field.MulMany(numer, invDenom)
		if err != nil {
			return nil, err
		}
		components = append(components, combinator.Component{Name: fmt.Sprintf("B%d", idx), Values: quotient, Degree: boundaryDegree})
	}

	lastTracePoint := t.traceDomain[t.steps-1]
	extension := n / t.steps
	denom := make([]*field.Element, n)
	for i := 0; i < n; i++ {
		x := t.ldeDomain[i]
		num := x.ExpInt(t.steps).Sub(x.Field().One())
		denom[i] = num
	}
	denomShift := make([]*field.Element, n)
	for i := 0; i < n; i++ {
		denomShift[i] = t.ldeDomain[i].Sub(lastTracePoint)
	}
	invShift, err := field.InvMany(denomShift)
	if err != nil {
		return nil, errors.Wrap(errors.LinearCombination, err, "failed to invert transition zerofier's linear factor")
	}
	zerofierVals, err := field.MulMany(denom, invShift)
	if err != nil {
		return nil, err
	}
	invZerofier, err := field.InvMany(zerofierVals)
	if err != nil {
		return nil, errors.Wrap(errors.LinearCombination, err, "failed to invert transition zerofier")
	}

	numConstraints := -1
	transitionNumer := [][]*field.Element{}
	for i := 0; i < n; i++ {
		current := t.row(i)
		next := t.row((i + extension) % n)
		nums, err := a.EvaluateTransition(current, next)
		if err != nil {
			return nil, errors.Wrapf(errors.ConstraintViolation, err, "transition evaluation failed at lde index %d", i)
		}
		if numConstraints == -1 {
			numConstraints = len(nums)
			for c := 0; c < numConstraints; c++ {
				transitionNumer = append(transitionNumer, make([]*field.Element, n))
			}
		}
		for c, v := range nums {
			transitionNumer[c][i] = v
		}
	}

	transitionDegree := t.steps * a.MaxConstraintDegree()
	for c := 0; c < numConstraints; c++ {
		quotient, err := field.MulMany(transitionNumer[c], invZerofier)
		if err != nil {
			return nil, err
		}
		components = append(components, combinator.Component{Name: fmt.Sprintf("D%d", c), Values: quotient, Degree: transitionDegree})
	}

	return components, nil
}

// Prove builds a Proof that the trace air.AIR computes satisfies all of
// its boundary and transition constraints: arithmetize the trace,
// linearly combine its constraint quotients into one codeword, run the
// FRI low-degree test on it, and open both the trace and the combined
// codeword at a shared set of Fiat-Shamir query positions so Verify can
// cross-link them.
func Prove(cfg *config.Config, a air.AIR) (*Proof, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	h, err := hashing.New(cfg.HashBackend)
	if err != nil {
		return nil, err
	}

	tables, err := buildTraceTables(a, cfg)
	if err != nil {
		return nil, err
	}
	n := len(tables.ldeDomain)

	traceLeaves := make([]hashing.Digest, n)
	for i := 0; i < n; i++ {
		traceLeaves[i] = h.Sum(rowBytes(tables.row(i)))
	}
	traceTree, err := merkle.Build(h, traceLeaves)
	if err != nil {
		return nil, errors.Wrap(errors.InternalProver, err, "failed to commit the execution trace")
	}
	logging.Logger().Info().
		Int("steps", tables.steps).
		Int("domainSize", n).
		Hex("traceRoot", traceTree.Root().Bytes()).
		Msg("starkfri: trace committed")

	components, err := buildComponents(a, tables)
	if err != nil {
		return nil, err
	}
	maxDegree := 0
	for _, c := range components {
		if c.Degree > maxDegree {
			maxDegree = c.Degree
		}
	}

	gLde, err := tables.f.GetRootOfUnity(n)
	if err != nil {
		return nil, err
	}
	combinatorSeed := h.Sum(traceTree.Root().Bytes())
	combined, err := combinator.Combine(h, combinatorSeed, gLde, maxDegree, components)
	if err != nil {
		return nil, err
	}
	logging.Logger().Info().
		Int("components", len(components)).
		Int("claimedDegree", maxDegree).
		Hex("combinedRoot", combined.Root.Bytes()).
		Msg("starkfri: constraint quotients combined")

	friProof, err := fri.Commit(h, combined.Root, cfg, combined.L, gLde)
	if err != nil {
		return nil, errors.Wrap(errors.InternalProver, err, "low-degree proof failed")
	}

	exePositions, err := query.Indices(h, traceTree.Root(), cfg.NumQueries, n, cfg.ExtensionFactor)
	if err != nil {
		return nil, err
	}

	extension := n / tables.steps
	tracePositions := make([]int, 0, 2*len(exePositions))
	for _, p := range exePositions {
		tracePositions = append(tracePositions, p, (p+extension)%n)
	}
	traceProof, err := traceTree.ProveBatch(tracePositions)
	if err != nil {
		return nil, err
	}
	openedTrace := make([][]*field.Element, len(tracePositions))
	for i, p := range tracePositions {
		openedTrace[i] = tables.row(p)
	}

	combinedProof, err := combined.Tree.ProveBatch(exePositions)
	if err != nil {
		return nil, err
	}
	openedCombined := make([]*field.Element, len(exePositions))
	for i, p := range exePositions {
		openedCombined[i] = combined.L[p]
	}

	logging.Logger().Info().
		Int("queries", len(exePositions)).
		Msg("starkfri: proof assembled")
	return &Proof{
		TraceRoot:      traceTree.Root(),
		TraceNodes:     traceProof.Nodes,
		TraceDepth:     traceProof.Depth,
		ExePositions:   exePositions,
		OpenedTrace:    openedTrace,
		CombinedRoot:   combined.Root,
		CombinedNodes:  combinedProof.Nodes,
		CombinedDepth:  combinedProof.Depth,
		OpenedCombined: openedCombined,
		FRI:            friProof,
		ClaimedDegree:  maxDegree,
		DomainSize:     n,
		Steps:          tables.steps,
	}, nil
}
