// Package merkle implements a Merkle tree over fixed-width digests and a
// batch (multi-leaf) proof format that shares interior nodes across
// overlapping query paths, sized for the batched, FRI-query-sized proofs
// this core's queries require.
package merkle

import (
	"sort"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

// MerkleTree is a binary hash tree over a list of leaf digests. All
// interior levels are retained (not just the root and leaves) so that
// ProveBatch can look up any sibling digest in O(1) instead of rehashing.
type MerkleTree struct {
	hasher hashing.Hasher
	levels [][]hashing.Digest // levels[0] = leaves, levels[last] = {root}
}

// Build hashes leaves pairwise, level by level, up to a single root. An
// odd-length level pairs its last node with itself.
func Build(hasher hashing.Hasher, leaves []hashing.Digest) (*MerkleTree, error) {
	if len(leaves) == 0 {
		return nil, errors.New(errors.InternalProver, "cannot build a merkle tree over zero leaves")
	}
	levels := make([][]hashing.Digest, 0, 1)
	cur := append([]hashing.Digest(nil), leaves...)
	levels = append(levels, cur)

	for len(cur) > 1 {
		next := make([]hashing.Digest, 0, (len(cur)+1)/2)
		for i := 0; i < len(cur); i += 2 {
			right := cur[i]
			if i+1 < len(cur) {
				right = cur[i+1]
			}
			next = append(next, hashing.Concat(hasher, cur[i], right))
		}
		levels = append(levels, next)
		cur = next
	}

	return &MerkleTree{hasher: hasher, levels: levels}, nil
}

// Root returns the tree's root digest.
func (t *MerkleTree) Root() hashing.Digest {
	return t.levels[len(t.levels)-1][0]
}

// Depth returns the number of levels between the leaves and the root.
func (t *MerkleTree) Depth() int { return len(t.levels) - 1 }

// LeafCount returns the number of leaves the tree was built from.
func (t *MerkleTree) LeafCount() int { return len(t.levels[0]) }

// Leaf returns the digest of leaf i.
func (t *MerkleTree) Leaf(i int) hashing.Digest { return t.levels[0][i] }

// BatchMerkleProof authenticates a set of leaf positions against a single
// root. Nodes holds only the sibling digests the verifier cannot derive
// on its own from Values and previously-recovered nodes: positions that
// are adjacent, or whose authentication paths merge further up the tree,
// contribute their shared interior digests exactly once.
type BatchMerkleProof struct {
	Values []hashing.Digest
	Nodes  []hashing.Digest
	Depth  int
}

// ProveBatch builds a BatchMerkleProof for the given leaf positions
// (positions may repeat; duplicates are only charged against Values, not
// against the shared Nodes list).
func (t *MerkleTree) ProveBatch(positions []int) (*BatchMerkleProof, error) {
	n := t.LeafCount()
	known := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p < 0 || p >= n {
			return nil, errors.Newf(errors.InternalProver, "merkle position %d out of range [0, %d)", p, n)
		}
		known[p] = true
	}

	values := make([]hashing.Digest, len(positions))
	for i, p := range positions {
		values[i] = t.levels[0][p]
	}

	var nodes []hashing.Digest
	for level := 0; level < t.Depth(); level++ {
		levelNodes := t.levels[level]
		idxs := sortedKeys(known)

		next := make(map[int]bool, len(idxs))
		for _, idx := range idxs {
			sib := idx ^ 1
			if sib >= len(levelNodes) {
				sib = idx
			}
			if !known[sib] {
				nodes = append(nodes, levelNodes[sib])
				known[sib] = true
			}
			next[idx/2] = true
		}
		known = next
	}

	return &BatchMerkleProof{Values: values, Nodes: nodes, Depth: t.Depth()}, nil
}

// VerifyBatch recomputes root from positions, proof.Values, and
// proof.Nodes by replaying the same shared-ancestor merge ProveBatch used
// to build the proof, and reports whether the recomputed root matches.
func VerifyBatch(hasher hashing.Hasher, root hashing.Digest, leafCount int, positions []int, proof *BatchMerkleProof) (bool, error) {
	if len(positions) != len(proof.Values) {
		return false, errors.Newf(errors.MerkleVerification, "expected %d leaf values, got %d", len(positions), len(proof.Values))
	}

	known := make(map[int]hashing.Digest, len(positions))
	for i, p := range positions {
		if p < 0 || p >= leafCount {
			return false, errors.Newf(errors.MerkleVerification, "merkle position %d out of range [0, %d)", p, leafCount)
		}
		if existing, ok := known[p]; ok && existing != proof.Values[i] {
			return false, errors.Newf(errors.MerkleVerification, "inconsistent leaf values supplied for position %d", p)
		}
		known[p] = proof.Values[i]
	}

	nodeIdx := 0
	levelSize := leafCount
	for level := 0; level < proof.Depth; level++ {
		idxs := sortedDigestKeys(known)
		for _, idx := range idxs {
			sib := idx ^ 1
			if sib >= levelSize {
				sib = idx
			}
			if _, ok := known[sib]; ok {
				continue
			}
			if nodeIdx >= len(proof.Nodes) {
				return false, errors.New(errors.MerkleVerification, "proof is missing sibling nodes")
			}
			known[sib] = proof.Nodes[nodeIdx]
			nodeIdx++
		}

		next := make(map[int]hashing.Digest)
		visitedParent := make(map[int]bool)
		for idx := range known {
			parent := idx / 2
			if visitedParent[parent] {
				continue
			}
			visitedParent[parent] = true

			leftIdx := 2 * parent
			rightIdx := leftIdx + 1
			if rightIdx >= levelSize {
				rightIdx = leftIdx
			}
			left, okL := known[leftIdx]
			right, okR := known[rightIdx]
			if !okL || !okR {
				return false, errors.New(errors.MerkleVerification, "proof is missing a node required to recompute an ancestor")
			}
			next[parent] = hashing.Concat(hasher, left, right)
		}
		known = next
		levelSize = (levelSize + 1) / 2
	}

	if nodeIdx != len(proof.Nodes) {
		return false, errors.New(errors.MerkleVerification, "proof contains unused sibling nodes")
	}
	recomputedRoot, ok := known[0]
	if !ok {
		return false, errors.New(errors.MerkleVerification, "failed to recompute a root")
	}
	return recomputedRoot == root, nil
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func sortedDigestKeys(m map[int]hashing.Digest) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
