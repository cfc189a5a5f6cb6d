// Package fri implements the recursive 4-to-1 folding low-degree test:
// commit to a codeword's Merkle root, derive a folding challenge from the
// transcript, interpolate-and-evaluate every 4-point row of the codeword
// down to a quarter-length codeword, and repeat until the codeword is
// short enough to send as a plain remainder. One layer is committed per
// fold; the verifier replays each layer's folding formula at the queried
// positions and finishes with a low-degree check on the remainder.
package fri

import (
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

// FriComponent is one folding round's commitment: the packed-row Merkle
// root of the column that round produced (ColumnRoot), together with the
// batch proof authenticating the column's own opened rows (the Column*
// fields) and the batch proof authenticating the opened rows of the
// codeword that round folded -- the previous round's column, or the
// initial codeword for the first round (the Poly* fields). Every leaf in
// both proofs packs a full 4-element row rather than a single field
// element, so a leaf vector always has a quarter as many entries as the
// codeword backing it. PolyRows and ColumnRows hold the un-hashed rows
// themselves so the verifier can both re-hash them to check the Merkle
// proof and use them algebraically to replay the fold.
type FriComponent struct {
	ColumnRoot      hashing.Digest
	ColumnPositions []int
	ColumnRows      [][4]*field.Element
	ColumnNodes     []hashing.Digest
	ColumnDepth     int

	PolyPositions []int
	PolyRows      [][4]*field.Element
	PolyNodes     []hashing.Digest
	PolyDepth     int
}

// LowDegreeProof is a complete FRI transcript. InitialRoot is the
// packed-row commitment to the codeword the first component folds (the
// poly root a verifier starts its chain from); each subsequent poly root
// is simply the previous component's ColumnRoot. Remainder is the
// terminal codeword, short enough that the verifier checks its degree
// directly instead of folding further.
type LowDegreeProof struct {
	InitialRoot hashing.Digest
	Components  []FriComponent
	Remainder   []*field.Element
}
