package merkle

import (
	"testing"

	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

func leavesFrom(h hashing.Hasher, values ...string) []hashing.Digest {
	out := make([]hashing.Digest, len(values))
	for i, v := range values {
		out[i] = h.Sum([]byte(v))
	}
	return out
}

func TestBuildAndRootIsDeterministic(t *testing.T) {
	h, _ := hashing.New(hashing.SHA256)
	leaves := leavesFrom(h, "a", "b", "c", "d", "e", "f", "g", "h")

	t1, err := Build(h, leaves)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t2, err := Build(h, leaves)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if t1.Root() != t2.Root() {
		t.Error("building the same leaves twice produced different roots")
	}
	if t1.Depth() != 3 {
		t.Errorf("depth = %d, want 3 for 8 leaves", t1.Depth())
	}
}

func TestBatchProofRoundTrip(t *testing.T) {
	h, _ := hashing.New(hashing.SHA256)
	leaves := leavesFrom(h, "a", "b", "c", "d", "e", "f", "g", "h")
	tree, err := Build(h, leaves)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	positions := []int{1, 2, 6}
	proof, err := tree.ProveBatch(positions)
	if err != nil {
		t.Fatalf("ProveBatch failed: %v", err)
	}

	ok, err := VerifyBatch(h, tree.Root(), tree.LeafCount(), positions, proof)
	if err != nil {
		t.Fatalf("VerifyBatch returned an error: %v", err)
	}
	if !ok {
		t.Error("VerifyBatch rejected a valid batch proof")
	}
}

func TestBatchProofSharesAdjacentNodes(t *testing.T) {
	h, _ := hashing.New(hashing.SHA256)
	leaves := leavesFrom(h, "a", "b", "c", "d", "e", "f", "g", "h")
	tree, err := Build(h, leaves)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	single, err := tree.ProveBatch([]int{0})
	if err != nil {
		t.Fatalf("ProveBatch failed: %v", err)
	}
	adjacentPair, err := tree.ProveBatch([]int{0, 1})
	if err != nil {
		t.Fatalf("ProveBatch failed: %v", err)
	}
	// Querying both children of the same parent should need no more
	// sibling nodes than querying a single one of them, since each
	// supplies the other's missing sibling at the leaf level.
	if len(adjacentPair.Nodes) > len(single.Nodes) {
		t.Errorf("adjacent-pair proof has %d nodes, single-leaf proof has %d; expected sharing to not cost more", len(adjacentPair.Nodes), len(single.Nodes))
	}
}

func TestBatchProofRejectsTamperedValue(t *testing.T) {
	h, _ := hashing.New(hashing.SHA256)
	leaves := leavesFrom(h, "a", "b", "c", "d", "e", "f", "g", "h")
	tree, err := Build(h, leaves)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	positions := []int{3}
	proof, err := tree.ProveBatch(positions)
	if err != nil {
		t.Fatalf("ProveBatch failed: %v", err)
	}
	proof.Values[0] = h.Sum([]byte("tampered"))

	ok, err := VerifyBatch(h, tree.Root(), tree.LeafCount(), positions, proof)
	if err != nil {
		t.Fatalf("VerifyBatch returned an error: %v", err)
	}
	if ok {
		t.Error("VerifyBatch accepted a tampered leaf value")
	}
}

func TestBatchProofRejectsTamperedNode(t *testing.T) {
	h, _ := hashing.New(hashing.SHA256)
	leaves := leavesFrom(h, "a", "b", "c", "d", "e", "f", "g", "h")
	tree, err := Build(h, leaves)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	positions := []int{3}
	proof, err := tree.ProveBatch(positions)
	if err != nil {
		t.Fatalf("ProveBatch failed: %v", err)
	}
	if len(proof.Nodes) == 0 {
		t.Fatal("expected at least one sibling node in the proof")
	}
	proof.Nodes[0] = h.Sum([]byte("tampered"))

	ok, err := VerifyBatch(h, tree.Root(), tree.LeafCount(), positions, proof)
	if err != nil {
		t.Fatalf("VerifyBatch returned an error: %v", err)
	}
	if ok {
		t.Error("VerifyBatch accepted a tampered sibling node")
	}
}

func TestBatchProofWireRoundTrip(t *testing.T) {
	h, _ := hashing.New(hashing.Blake2s256)
	leaves := leavesFrom(h, "a", "b", "c", "d", "e", "f", "g", "h")
	tree, err := Build(h, leaves)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	positions := []int{0, 4, 5}
	proof, err := tree.ProveBatch(positions)
	if err != nil {
		t.Fatalf("ProveBatch failed: %v", err)
	}

	encoded := EncodeBatchProof(proof)
	decoded, err := DecodeBatchProof(encoded)
	if err != nil {
		t.Fatalf("DecodeBatchProof failed: %v", err)
	}

	ok, err := VerifyBatch(h, tree.Root(), tree.LeafCount(), positions, decoded)
	if err != nil {
		t.Fatalf("VerifyBatch returned an error: %v", err)
	}
	if !ok {
		t.Error("VerifyBatch rejected a proof round-tripped through the wire format")
	}
}

func TestProveBatchRejectsOutOfRangePosition(t *testing.T) {
	h, _ := hashing.New(hashing.SHA256)
	leaves := leavesFrom(h, "a", "b")
	tree, err := Build(h, leaves)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := tree.ProveBatch([]int{5}); err == nil {
		t.Error("expected an error for an out-of-range position")
	}
}
