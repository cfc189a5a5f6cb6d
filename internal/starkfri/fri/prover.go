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

// rowBytes serializes a packed row in the same order DigestValues expects
// its rows: four consecutive field elements.
func rowBytes(row [4]*field.Element) []byte {
	es := row[0].Field().ElementSize()
	out := make([]byte, 0, 4*es)
	for _, v := range row {
		out = append(out, v.Bytes()...)
	}
	return out
}

// packedTree reshapes codeword into a len(codeword)/4 x 4 row-major
// matrix (row i = (v[i], v[i+stride], v[i+2*stride], v[i+3*stride])) and
// commits one leaf per row. This is the leaf granularity every FRI
// commitment in this package uses: a leaf vector always has a quarter as
// many entries as the codeword it packs, never one leaf per element.
func packedTree(h hashing.Hasher, codeword []*field.Element) (*merkle.MerkleTree, [][4]*field.Element, error) {
	stride := len(codeword) / 4
	rows, err := field.TransposeVector(codeword, stride)
	if err != nil {
		return nil, nil, err
	}
	flat := field.JoinMatrixRows(rows)
	es := codeword[0].Field().ElementSize()
	data := make([]byte, 0, len(flat)*es)
	for _, v := range flat {
		data = append(data, v.Bytes()...)
	}
	leaves, err := hashing.DigestValues(h, data, 4*es)
	if err != nil {
		return nil, nil, err
	}
	tree, err := merkle.Build(h, leaves)
	if err != nil {
		return nil, nil, err
	}
	return tree, rows, nil
}

// Commit runs the fold loop and answers its own queries as it goes: while
// the codeword is longer than cfg.MaxRemainderSize, pack it into a
// Merkle tree of 4-element-row leaves, draw a folding challenge from the
// rolling transcript seed, fold every row down to one value with it, and
// pack the result the same way. Each round derives cfg.NumQueries row
// positions from that round's own freshly built column root and opens
// them against both trees -- the column it just folded to, and the poly
// it folded from -- so a verifier can check every round independently
// instead of cross-referencing adjacent rounds. generator must generate
// the cyclic domain codeword was sampled over.
func Commit(h hashing.Hasher, seed hashing.Digest, cfg *config.Config, codeword []*field.Element, generator *field.Element) (*LowDegreeProof, error) {
	if !field.IsPowerOfTwo(len(codeword)) {
		return nil, errors.Newf(errors.DegreeBound, "codeword length must be a power of two, got %d", len(codeword))
	}
	if len(codeword) < 4 {
		return &LowDegreeProof{Remainder: codeword}, nil
	}

	pTree, pRows, err := packedTree(h, codeword)
	if err != nil {
		return nil, errors.Wrap(errors.InternalProver, err, "failed to commit the initial codeword")
	}
	initialRoot := pTree.Root()

	cur := codeword
	curGen := generator
	curSeed := seed

	var components []FriComponent
	for len(cur) > cfg.MaxRemainderSize {
		if len(cur)%16 != 0 {
			return nil, errors.Newf(errors.DegreeBound, "codeword length %d must be divisible by 16 to pack both this round and its fold into 4-element rows", len(cur))
		}

		curSeed = h.Sum(append(append([]byte{}, curSeed.Bytes()...), pTree.Root().Bytes()...))
		challenge := curGen.Field().PRNG(h, curSeed.Bytes(), 1)[0]

		stride := len(cur) / 4
		domain := field.GetPowerCycle(curGen)
		xRows, err := field.TransposeVector(domain, stride)
		if err != nil {
			return nil, err
		}
		coeffs, err := field.InterpolateQuarticBatch(xRows, pRows)
		if err != nil {
			return nil, errors.Wrap(errors.InternalProver, err, "failed to interpolate a fold round")
		}
		challenges := make([]*field.Element, stride)
		for i := range challenges {
			challenges[i] = challenge
		}
		column, err := field.EvalQuarticBatch(coeffs, challenges)
		if err != nil {
			return nil, errors.Wrap(errors.InternalProver, err, "failed to evaluate a fold round")
		}

		cTree, cRows, err := packedTree(h, column)
		if err != nil {
			return nil, errors.Wrap(errors.InternalProver, err, "failed to commit a folded column")
		}
		logging.Logger().Debug().
			Int("depth", len(components)).
			Int("codewordLen", len(cur)).
			Hex("columnRoot", cTree.Root().Bytes()).
			Msg("fri: round folded")

		rawPositions, err := query.Indices(h, cTree.Root(), cfg.NumQueries, len(cur), 0)
		if err != nil {
			return nil, err
		}
		polyRows := uniqueMod(rawPositions, len(pRows))
		columnRows := uniqueMod(rawPositions, len(cRows))

		polyProof, err := pTree.ProveBatch(polyRows)
		if err != nil {
			return nil, errors.Wrap(errors.InternalProver, err, "failed to open a round's poly rows")
		}
		columnProof, err := cTree.ProveBatch(columnRows)
		if err != nil {
			return nil, errors.Wrap(errors.InternalProver, err, "failed to open a round's column rows")
		}

		polyOpened := make([][4]*field.Element, len(polyRows))
		for i, r := range polyRows {
			polyOpened[i] = pRows[r]
		}
		columnOpened := make([][4]*field.Element, len(columnRows))
		for i, r := range columnRows {
			columnOpened[i] = cRows[r]
		}

		components = append(components, FriComponent{
			ColumnRoot:      cTree.Root(),
			ColumnPositions: columnRows,
			ColumnRows:      columnOpened,
			ColumnNodes:     columnProof.Nodes,
			ColumnDepth:     columnProof.Depth,
			PolyPositions:   polyRows,
			PolyRows:        polyOpened,
			PolyNodes:       polyProof.Nodes,
			PolyDepth:       polyProof.Depth,
		})

		cur = column
		curGen = curGen.ExpInt(4)
		pTree, pRows = cTree, cRows
	}

	logging.Logger().Debug().
		Int("rounds", len(components)).
		Int("remainderLen", len(cur)).
		Msg("fri: fold terminated")
	return &LowDegreeProof{InitialRoot: initialRoot, Components: components, Remainder: cur}, nil
}

// uniqueMod reduces every index in idxs modulo m, deduplicating; sorting
// is not required since callers only ever need the resulting set for the
// current round's row openings.
func uniqueMod(idxs []int, m int) []int {
	seen := make(map[int]bool, len(idxs))
	out := make([]int, 0, len(idxs))
	for _, idx := range idxs {
		r := idx % m
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
