package starkfri

import (
	"github.com/vybium/stark-fri-core/internal/starkfri/air"
	"github.com/vybium/stark-fri-core/internal/starkfri/config"
	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/fri"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
	"github.com/vybium/stark-fri-core/internal/starkfri/logging"
	"github.com/vybium/stark-fri-core/internal/starkfri/merkle"
	"github.com/vybium/stark-fri-core/internal/starkfri/query"
)

// Verify checks a Proof against the public parameters of a (the same AIR
// description Prove was given, minus its secret witness). It never calls
// a.BuildTrace: every value it needs about the execution comes out of the
// proof's openings, cross-checked against the AIR's pure constraint
// functions, recomputing each constraint's expected value from the
// opened trace columns rather than trusting the prover's claim.
func Verify(cfg *config.Config, a air.AIR, proof *Proof) (ok bool, err error) {
	defer func() {
		logging.Logger().Info().
			Bool("accepted", ok).
			AnErr("err", err).
			Hex("traceRoot", proof.TraceRoot.Bytes()).
			Msg("starkfri: proof checked")
	}()
	if err := cfg.Validate(); err != nil {
		return false, err
	}
	if len(proof.OpenedTrace) == 0 || len(proof.OpenedTrace[0]) == 0 {
		return false, errors.New(errors.MerkleVerification, "proof has no opened trace values")
	}
	h, err := hashing.New(cfg.HashBackend)
	if err != nil {
		return false, err
	}

	steps := a.TraceLength()
	if !field.IsPowerOfTwo(steps) {
		return false, errors.Newf(errors.Configuration, "trace length must be a power of two, got %d", steps)
	}
	if cfg.TraceLength != steps {
		return false, errors.Newf(errors.Configuration, "config declares trace length %d, air declares %d", cfg.TraceLength, steps)
	}
	if proof.Steps != steps {
		return false, errors.Newf(errors.MerkleVerification, "proof claims %d steps, air declares %d", proof.Steps, steps)
	}
	n := proof.DomainSize
	if n != steps*cfg.ExtensionFactor {
		return false, errors.Newf(errors.MerkleVerification, "proof domain size %d is inconsistent with %d steps and extension factor %d", n, steps, cfg.ExtensionFactor)
	}

	f := proof.OpenedTrace[0][0].Field()
	gTrace, err := f.GetRootOfUnity(steps)
	if err != nil {
		return false, err
	}
	traceDomain := field.GetPowerCycle(gTrace)
	gLde, err := f.GetRootOfUnity(n)
	if err != nil {
		return false, err
	}
	offset := ldeCosetOffset(f)

	exePositions, err := query.Indices(h, proof.TraceRoot, cfg.NumQueries, n, cfg.ExtensionFactor)
	if err != nil {
		return false, err
	}
	if !sameIntSlice(exePositions, proof.ExePositions) {
		return false, errors.New(errors.MerkleVerification, "proof's execution query positions do not match the transcript")
	}

	extension := n / steps
	tracePositions := make([]int, 0, 2*len(exePositions))
	for _, p := range exePositions {
		tracePositions = append(tracePositions, p, (p+extension)%n)
	}
	if len(proof.OpenedTrace) != len(tracePositions) {
		return false, errors.Newf(errors.MerkleVerification, "proof has %d opened trace rows, expected %d", len(proof.OpenedTrace), len(tracePositions))
	}

	traceLeaves := make([]hashing.Digest, len(tracePositions))
	for i, row := range proof.OpenedTrace {
		traceLeaves[i] = h.Sum(rowBytes(row))
	}
	traceOK, err := merkle.VerifyBatch(h, proof.TraceRoot, n, tracePositions, &merkle.BatchMerkleProof{
		Values: traceLeaves,
		Nodes:  proof.TraceNodes,
		Depth:  proof.TraceDepth,
	})
	if err != nil {
		return false, err
	}
	if !traceOK {
		return false, nil
	}

	lde := func(i int) *field.Element { return offset.Mul(gLde.ExpInt(i)) }

	components, err := verifyComponentsAt(a, f, traceDomain, lde, steps, n, exePositions, proof.OpenedTrace)
	if err != nil {
		return false, err
	}

	// maxDegree is recomputed from the air's own public parameters, never
	// trusted from the proof: accepting a prover-supplied ClaimedDegree
	// would let a forged, higher-degree codeword pass the low-degree test
	// under an inflated bound.
	boundaryDegree := steps - 2
	if boundaryDegree < 0 {
		boundaryDegree = 0
	}
	maxDegree := steps - 1
	if boundaryDegree > maxDegree {
		maxDegree = boundaryDegree
	}
	if transitionDegree := steps * a.MaxConstraintDegree(); transitionDegree > maxDegree {
		maxDegree = transitionDegree
	}
	if proof.ClaimedDegree != maxDegree {
		return false, errors.Newf(errors.MerkleVerification, "proof claims degree %d, air implies %d", proof.ClaimedDegree, maxDegree)
	}

	combinatorSeed := h.Sum(proof.TraceRoot.Bytes())
	coeffs := f.PRNG(h, combinatorSeed.Bytes(), 2*len(components))

	expectedCombined := make([]*field.Element, len(exePositions))
	for k := range exePositions {
		sum := f.Zero()
		for j, c := range components {
			delta := maxDegree - c.degree
			v := c.valuesAtQuery[k]
			sum = sum.Add(coeffs[2*j].Mul(v))
			if delta == 0 {
				sum = sum.Add(coeffs[2*j+1].Mul(v))
			} else {
				sum = sum.Add(coeffs[2*j+1].Mul(gLde.ExpInt(delta * exePositions[k]).Mul(v)))
			}
		}
		expectedCombined[k] = sum
	}
	if len(proof.OpenedCombined) != len(expectedCombined) {
		return false, errors.Newf(errors.MerkleVerification, "proof has %d opened combined values, expected %d", len(proof.OpenedCombined), len(expectedCombined))
	}
	for k, v := range expectedCombined {
		if !v.Equal(proof.OpenedCombined[k]) {
			return false, nil
		}
	}

	combinedLeaves := make([]hashing.Digest, len(exePositions))
	for i, v := range proof.OpenedCombined {
		combinedLeaves[i] = h.Sum(v.Bytes())
	}
	combinedOK, err := merkle.VerifyBatch(h, proof.CombinedRoot, n, exePositions, &merkle.BatchMerkleProof{
		Values: combinedLeaves,
		Nodes:  proof.CombinedNodes,
		Depth:  proof.CombinedDepth,
	})
	if err != nil {
		return false, err
	}
	if !combinedOK {
		return false, nil
	}

	return fri.Verify(h, proof.CombinedRoot, cfg, gLde, n, proof.ClaimedDegree, proof.FRI)
}

// verifiedComponent is the verifier-side analogue of combinator.Component:
// its claimed degree and its values at the opened query positions only,
// reconstructed from the opened trace rows instead of a full codeword.
type verifiedComponent struct {
	degree        int
	valuesAtQuery []*field.Element
}

// verifyComponentsAt reconstructs, at each query position only, the exact
// per-register and per-constraint values buildComponents computes over
// the whole domain, in the same P/B/D ordering, so the combinator
// coefficients line up between Prove and Verify.
func verifyComponentsAt(a air.AIR, f *field.Field, traceDomain []*field.Element, lde func(int) *field.Element, steps, n int, exePositions []int, openedTrace [][]*field.Element) ([]verifiedComponent, error) {
	registers := a.RegisterCount()
	components := make([]verifiedComponent, 0, registers+len(a.Assertions())+registers)

	for r := 0; r < registers; r++ {
		values := make([]*field.Element, len(exePositions))
		for k := range exePositions {
			values[k] = openedTrace[2*k][r]
		}
		components = append(components, verifiedComponent{degree: steps - 1, valuesAtQuery: values})
	}

	boundaryDegree := steps - 2
	if boundaryDegree < 0 {
		boundaryDegree = 0
	}
	for idx, assertion := range a.Assertions() {
		anchor := traceDomain[assertion.Step]
		values := make([]*field.Element, len(exePositions))
		for k, p := range exePositions {
			row := make([]*field.Element, registers)
			row[assertion.Register] = openedTrace[2*k][assertion.Register]
			numer := a.EvaluateBoundary(assertion, row)
			denom := lde(p).Sub(anchor)
			v, err := numer.Div(denom)
			if err != nil {
				return nil, errors.Wrapf(errors.LinearCombination, err, "failed to evaluate boundary quotient %d at query position %d", idx, p)
			}
			values[k] = v
		}
		components = append(components, verifiedComponent{degree: boundaryDegree, valuesAtQuery: values})
	}

	lastTracePoint := traceDomain[steps-1]
	transitionDegree := steps * a.MaxConstraintDegree()
	numConstraints := -1
	var transitionValues [][]*field.Element
	for k, p := range exePositions {
		current := openedTrace[2*k]
		next := openedTrace[2*k+1]
		nums, err := a.EvaluateTransition(current, next)
		if err != nil {
			return nil, errors.Wrapf(errors.ConstraintViolation, err, "transition evaluation failed at query position %d", p)
		}
		if numConstraints == -1 {
			numConstraints = len(nums)
			transitionValues = make([][]*field.Element, numConstraints)
			for c := range transitionValues {
				transitionValues[c] = make([]*field.Element, len(exePositions))
			}
		}
		x := lde(p)
		zerofierNum := x.ExpInt(steps).Sub(f.One())
		zerofierDen := x.Sub(lastTracePoint)
		zerofier, err := zerofierNum.Div(zerofierDen)
		if err != nil {
			return nil, errors.Wrapf(errors.LinearCombination, err, "failed to evaluate transition zerofier at query position %d", p)
		}
		for c, num := range nums {
			v, err := num.Div(zerofier)
			if err != nil {
				return nil, errors.Wrapf(errors.LinearCombination, err, "failed to evaluate transition quotient %d at query position %d", c, p)
			}
			transitionValues[c][k] = v
		}
	}
	for c := 0; c < numConstraints; c++ {
		components = append(components, verifiedComponent{degree: transitionDegree, valuesAtQuery: transitionValues[c]})
	}

	return components, nil
}

func sameIntSlice(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
