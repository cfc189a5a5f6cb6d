package field

import "testing"

func TestGetPowerCycleLength(t *testing.T) {
	f := testField(t)
	g, err := f.GetRootOfUnity(16)
	if err != nil {
		t.Fatalf("GetRootOfUnity failed: %v", err)
	}
	cycle := GetPowerCycle(g)
	if len(cycle) != 16 {
		t.Fatalf("power cycle length = %d, want 16", len(cycle))
	}
	if !cycle[0].IsOne() {
		t.Error("cycle[0] should be the identity")
	}
	if !cycle[1].Equal(g) {
		t.Error("cycle[1] should be g itself")
	}
}

func TestTransposeThenJoinIsRowMajor(t *testing.T) {
	f := testField(t)
	v := make([]*Element, 16)
	for i := range v {
		v[i] = f.NewElementFromInt64(int64(i))
	}
	m, err := TransposeVector(v, 4)
	if err != nil {
		t.Fatalf("TransposeVector failed: %v", err)
	}
	if len(m) != 4 {
		t.Fatalf("transposed matrix has %d rows, want 4", len(m))
	}
	// row 0 should be v[0], v[4], v[8], v[12]
	want := [4]*Element{v[0], v[4], v[8], v[12]}
	for k := 0; k < 4; k++ {
		if !m[0][k].Equal(want[k]) {
			t.Errorf("row 0 col %d = %s, want %s", k, m[0][k].String(), want[k].String())
		}
	}

	joined := JoinMatrixRows(m)
	if len(joined) != len(v) {
		t.Fatalf("joined length = %d, want %d", len(joined), len(v))
	}
	// Row-major join does not reconstruct the original vector order.
	if !joined[0].Equal(v[0]) || !joined[1].Equal(v[4]) {
		t.Error("row-major join did not preserve per-row ordering")
	}
}

func TestTransposeVectorRejectsBadShape(t *testing.T) {
	f := testField(t)
	v := []*Element{f.Zero(), f.Zero(), f.Zero()}
	if _, err := TransposeVector(v, 4); err == nil {
		t.Error("expected error for a vector whose length isn't 4*stride")
	}
}
