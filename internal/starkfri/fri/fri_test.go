package fri

import (
	"testing"

	"github.com/vybium/stark-fri-core/internal/starkfri/config"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

func testSetup(t *testing.T) (*field.Field, *field.Element, hashing.Hasher) {
	t.Helper()
	f, err := field.NewFromUint64(2013265921)
	if err != nil {
		t.Fatalf("failed to create field: %v", err)
	}
	g, err := f.GetRootOfUnity(1024)
	if err != nil {
		t.Fatalf("failed to find root of unity: %v", err)
	}
	h, err := hashing.New(hashing.SHA256)
	if err != nil {
		t.Fatalf("failed to create hasher: %v", err)
	}
	return f, g, h
}

func lowDegreeCodeword(t *testing.T, f *field.Field, g *field.Element, degree int) []*field.Element {
	t.Helper()
	coeffs := make([]*field.Element, degree+1)
	for i := range coeffs {
		coeffs[i] = f.NewElementFromInt64(int64(i*31 + 7))
	}
	poly, err := field.NewPolynomial(coeffs)
	if err != nil {
		t.Fatalf("NewPolynomial failed: %v", err)
	}
	return poly.EvalMany(field.GetPowerCycle(g))
}

func TestCommitVerifyRoundTrip(t *testing.T) {
	f, g, h := testSetup(t)
	codeword := lowDegreeCodeword(t, f, g, 4)

	cfg := config.Default().WithMaxRemainderSize(16).WithNumQueries(12)
	seed := h.Sum([]byte("fri-transcript"))

	proof, err := Commit(h, seed, cfg, codeword, g)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if len(proof.Components) == 0 {
		t.Fatal("expected at least one folding round")
	}
	for i, c := range proof.Components {
		if len(c.ColumnRows) == 0 || len(c.ColumnRows) != len(c.ColumnPositions) {
			t.Fatalf("round %d has mismatched column rows/positions", i)
		}
		if len(c.PolyRows) == 0 || len(c.PolyRows) != len(c.PolyPositions) {
			t.Fatalf("round %d has mismatched poly rows/positions", i)
		}
	}

	ok, err := Verify(h, seed, cfg, g, len(codeword), 64, proof)
	if err != nil {
		t.Fatalf("Verify returned an error: %v", err)
	}
	if !ok {
		t.Error("Verify rejected a valid low-degree proof")
	}
}

func TestVerifyIsDeterministic(t *testing.T) {
	f, g, h := testSetup(t)
	codeword := lowDegreeCodeword(t, f, g, 4)
	cfg := config.Default().WithMaxRemainderSize(16).WithNumQueries(12)
	seed := h.Sum([]byte("determinism-seed"))

	proof, err := Commit(h, seed, cfg, codeword, g)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	ok1, err := Verify(h, seed, cfg, g, len(codeword), 64, proof)
	if err != nil {
		t.Fatalf("Verify returned an error: %v", err)
	}
	ok2, err := Verify(h, seed, cfg, g, len(codeword), 64, proof)
	if err != nil {
		t.Fatalf("Verify returned an error: %v", err)
	}
	if ok1 != ok2 || !ok1 {
		t.Error("repeated verification of the same proof gave different results")
	}
}

func TestVerifyRejectsTamperedPolyRow(t *testing.T) {
	f, g, h := testSetup(t)
	codeword := lowDegreeCodeword(t, f, g, 4)
	cfg := config.Default().WithMaxRemainderSize(16).WithNumQueries(12)
	seed := h.Sum([]byte("tamper-poly-seed"))

	proof, err := Commit(h, seed, cfg, codeword, g)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if len(proof.Components) == 0 || len(proof.Components[0].PolyRows) == 0 {
		t.Fatal("expected at least one opened poly row in the first round")
	}
	proof.Components[0].PolyRows[0][0] = proof.Components[0].PolyRows[0][0].Add(f.One())

	ok, err := Verify(h, seed, cfg, g, len(codeword), 64, proof)
	if err == nil && ok {
		t.Error("Verify accepted a proof with a tampered poly row")
	}
}

func TestVerifyRejectsTamperedColumnRoot(t *testing.T) {
	f, g, h := testSetup(t)
	codeword := lowDegreeCodeword(t, f, g, 4)
	cfg := config.Default().WithMaxRemainderSize(16).WithNumQueries(12)
	seed := h.Sum([]byte("tamper-root-seed"))

	proof, err := Commit(h, seed, cfg, codeword, g)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if len(proof.Components) < 2 {
		t.Fatal("expected at least two folding rounds")
	}
	proof.Components[1].ColumnRoot[0] ^= 0xff

	ok, err := Verify(h, seed, cfg, g, len(codeword), 64, proof)
	if err == nil && ok {
		t.Error("Verify accepted a proof with a tampered column root")
	}
}

func TestVerifyRejectsWrongTranscriptSeed(t *testing.T) {
	f, g, h := testSetup(t)
	codeword := lowDegreeCodeword(t, f, g, 4)
	cfg := config.Default().WithMaxRemainderSize(16).WithNumQueries(12)
	seed := h.Sum([]byte("original-seed"))

	proof, err := Commit(h, seed, cfg, codeword, g)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	wrongSeed := h.Sum([]byte("different-seed"))
	ok, err := Verify(h, wrongSeed, cfg, g, len(codeword), 64, proof)
	if err == nil && ok {
		t.Error("Verify accepted a proof checked against the wrong transcript seed")
	}
}

func TestVerifyRejectsOverclaimedDegree(t *testing.T) {
	f, g, h := testSetup(t)
	// A genuinely high-degree codeword (well above the remainder's
	// eventual degree budget) must fail when folded and checked against
	// a claimed degree far smaller than what the data actually needs.
	codeword := lowDegreeCodeword(t, f, g, 900)
	cfg := config.Default().WithMaxRemainderSize(16).WithNumQueries(12)
	seed := h.Sum([]byte("overclaim-seed"))

	proof, err := Commit(h, seed, cfg, codeword, g)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	ok, err := Verify(h, seed, cfg, g, len(codeword), 4, proof)
	if err == nil && ok {
		t.Error("Verify accepted a proof whose remainder exceeds the claimed degree bound")
	}
}

func TestVerifyRejectsTamperedRemainder(t *testing.T) {
	f, g, h := testSetup(t)
	codeword := lowDegreeCodeword(t, f, g, 4)
	cfg := config.Default().WithMaxRemainderSize(16).WithNumQueries(12)
	seed := h.Sum([]byte("remainder-tamper-seed"))

	proof, err := Commit(h, seed, cfg, codeword, g)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if len(proof.Remainder) == 0 {
		t.Fatal("expected a non-empty remainder")
	}
	proof.Remainder[0] = proof.Remainder[0].Add(f.One())

	ok, err := Verify(h, seed, cfg, g, len(codeword), 64, proof)
	if err == nil && ok {
		t.Error("Verify accepted a proof with a tampered remainder")
	}
}
