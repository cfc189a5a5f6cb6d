package fri

import (
	"github.com/vybium/stark-fri-core/internal/starkfri/config"
	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
	"github.com/vybium/stark-fri-core/internal/starkfri/logging"
	"github.com/vybium/stark-fri-core/internal/starkfri/merkle"
	"github.com/vybium/stark-fri-core/internal/starkfri/query"
)

// Verify checks a LowDegreeProof against a codeword of domainSize
// generated by generator, claimed to agree with a polynomial of degree at
// most claimedDegree. seed is the transcript state immediately before
// proof.InitialRoot is absorbed (the same value the matching Commit call
// was given). Every round is checked independently: its own query
// positions are re-derived from its own ColumnRoot, its own poly and
// column rows are authenticated against their own roots, and the fold
// identity is checked directly between those two authenticated row sets
// -- never against any other round's opening.
func Verify(h hashing.Hasher, seed hashing.Digest, cfg *config.Config, generator *field.Element, domainSize, claimedDegree int, proof *LowDegreeProof) (ok bool, err error) {
	defer func() {
		logging.Logger().Debug().
			Bool("accepted", ok).
			AnErr("err", err).
			Int("domainSize", domainSize).
			Int("claimedDegree", claimedDegree).
			Msg("fri: low-degree proof checked")
	}()
	if !field.IsPowerOfTwo(domainSize) {
		return false, errors.Newf(errors.Configuration, "domain size must be a power of two, got %d", domainSize)
	}

	pRoot := proof.InitialRoot
	curGen := generator
	curSize := domainSize
	curSeed := seed
	remainderDegree := claimedDegree

	for l, comp := range proof.Components {
		if curSize%16 != 0 {
			return false, errors.Newf(errors.DegreeBound, "round %d domain size %d is not divisible by 16", l, curSize)
		}
		if len(comp.PolyPositions) != len(comp.PolyRows) {
			return false, errors.Newf(errors.MerkleVerification, "round %d has %d poly positions for %d poly rows", l, len(comp.PolyPositions), len(comp.PolyRows))
		}
		if len(comp.ColumnPositions) != len(comp.ColumnRows) {
			return false, errors.Newf(errors.MerkleVerification, "round %d has %d column positions for %d column rows", l, len(comp.ColumnPositions), len(comp.ColumnRows))
		}

		curSeed = h.Sum(append(append([]byte{}, curSeed.Bytes()...), pRoot.Bytes()...))
		challenge := curGen.Field().PRNG(h, curSeed.Bytes(), 1)[0]

		polyStride := curSize / 4
		columnStride := polyStride / 4

		rawPositions, err := query.Indices(h, comp.ColumnRoot, cfg.NumQueries, curSize, 0)
		if err != nil {
			return false, err
		}
		wantPoly := uniqueMod(rawPositions, polyStride)
		wantColumn := uniqueMod(rawPositions, columnStride)
		if !sameInts(wantPoly, comp.PolyPositions) {
			return false, errors.Newf(errors.MerkleVerification, "round %d opened unexpected poly positions", l)
		}
		if !sameInts(wantColumn, comp.ColumnPositions) {
			return false, errors.Newf(errors.MerkleVerification, "round %d opened unexpected column positions", l)
		}

		polyLeaves := make([]hashing.Digest, len(comp.PolyRows))
		for i, row := range comp.PolyRows {
			polyLeaves[i] = h.Sum(rowBytes(row))
		}
		polyOK, err := merkle.VerifyBatch(h, pRoot, polyStride, comp.PolyPositions, &merkle.BatchMerkleProof{
			Values: polyLeaves,
			Nodes:  comp.PolyNodes,
			Depth:  comp.PolyDepth,
		})
		if err != nil {
			return false, err
		}
		if !polyOK {
			return false, errors.Newf(errors.MerkleVerification, "round %d failed poly merkle verification", l)
		}

		columnLeaves := make([]hashing.Digest, len(comp.ColumnRows))
		for i, row := range comp.ColumnRows {
			columnLeaves[i] = h.Sum(rowBytes(row))
		}
		columnOK, err := merkle.VerifyBatch(h, comp.ColumnRoot, columnStride, comp.ColumnPositions, &merkle.BatchMerkleProof{
			Values: columnLeaves,
			Nodes:  comp.ColumnNodes,
			Depth:  comp.ColumnDepth,
		})
		if err != nil {
			return false, err
		}
		if !columnOK {
			return false, errors.Newf(errors.MerkleVerification, "round %d failed column merkle verification", l)
		}

		// Fold consistency: each queried poly row, interpolated against its
		// 4 x-coordinates on this round's domain and evaluated at the
		// folding challenge, must land on the column value it folded into.
		// A poly row r folds into column element r; that element lives in
		// column row r%columnStride at slot r/columnStride.
		columnIndex := make(map[int]int, len(comp.ColumnPositions))
		for i, c := range comp.ColumnPositions {
			columnIndex[c] = i
		}

		domain := field.GetPowerCycle(curGen)
		xRows := make([][4]*field.Element, len(comp.PolyPositions))
		for i, r := range comp.PolyPositions {
			xRows[i] = [4]*field.Element{domain[r], domain[r+polyStride], domain[r+2*polyStride], domain[r+3*polyStride]}
		}
		coeffs, err := field.InterpolateQuarticBatch(xRows, comp.PolyRows)
		if err != nil {
			return false, errors.Wrap(errors.InternalProver, err, "verifier failed to interpolate a fold row")
		}
		challenges := make([]*field.Element, len(comp.PolyPositions))
		for i := range challenges {
			challenges[i] = challenge
		}
		folded, err := field.EvalQuarticBatch(coeffs, challenges)
		if err != nil {
			return false, err
		}

		for i, r := range comp.PolyPositions {
			c := r % columnStride
			slot := r / columnStride
			ci, ok := columnIndex[c]
			if !ok {
				return false, errors.Newf(errors.InternalProver, "round %d poly row %d has no corresponding column opening", l, r)
			}
			if !folded[i].Equal(comp.ColumnRows[ci][slot]) {
				return false, errors.Newf(errors.InternalProver, "fold consistency check failed at round %d row %d", l, r)
			}
		}

		pRoot = comp.ColumnRoot
		curGen = curGen.ExpInt(4)
		curSize /= 4
		remainderDegree /= 4
	}

	if len(proof.Remainder) != curSize {
		return false, errors.Newf(errors.DegreeBound, "remainder length %d does not match expected terminal domain size %d", len(proof.Remainder), curSize)
	}
	if len(proof.Remainder) >= 4 {
		rTree, _, err := packedTree(h, proof.Remainder)
		if err != nil {
			return false, err
		}
		if rTree.Root() != pRoot {
			return false, errors.New(errors.MerkleVerification, "remainder's packed commitment does not match the last round's column root")
		}
	}

	okRemainder, err := VerifyRemainder(proof.Remainder, curGen, remainderDegree)
	if err != nil {
		return false, err
	}
	if !okRemainder {
		return false, errors.Newf(errors.RemainderMismatch, "remainder does not agree with a polynomial of degree <= %d", remainderDegree)
	}

	return true, nil
}

func sameInts(a, b []int) bool {
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
