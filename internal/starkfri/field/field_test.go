package field

import (
	"math/big"
	"testing"
)

func testField(t *testing.T) *Field {
	t.Helper()
	f, err := NewFromUint64(2013265921) // 15*2^27 + 1, a Baby Bear-sized FFT-friendly prime
	if err != nil {
		t.Fatalf("failed to create field: %v", err)
	}
	return f
}

func TestFieldArithmetic(t *testing.T) {
	f := testField(t)

	t.Run("AddSubNeg", func(t *testing.T) {
		a := f.NewElementFromInt64(5)
		b := f.NewElementFromInt64(3)
		if !a.Add(b).Equal(f.NewElementFromInt64(8)) {
			t.Error("5 + 3 != 8")
		}
		if !a.Sub(b).Equal(f.NewElementFromInt64(2)) {
			t.Error("5 - 3 != 2")
		}
		if !a.Neg().Add(a).IsZero() {
			t.Error("a + (-a) != 0")
		}
	})

	t.Run("MulInvDiv", func(t *testing.T) {
		a := f.NewElementFromInt64(7)
		inv, err := a.Inv()
		if err != nil {
			t.Fatalf("inverse failed: %v", err)
		}
		if !a.Mul(inv).IsOne() {
			t.Error("a * a^-1 != 1")
		}
		q, err := f.NewElementFromInt64(21).Div(a)
		if err != nil {
			t.Fatalf("division failed: %v", err)
		}
		if !q.Equal(f.NewElementFromInt64(3)) {
			t.Error("21 / 7 != 3")
		}
	})

	t.Run("InvertZeroFails", func(t *testing.T) {
		if _, err := f.Zero().Inv(); err == nil {
			t.Error("expected error inverting zero")
		}
	})

	t.Run("Exp", func(t *testing.T) {
		a := f.NewElementFromInt64(2)
		if !a.ExpInt(10).Equal(f.NewElementFromInt64(1024)) {
			t.Error("2^10 != 1024")
		}
		if !a.Exp(big.NewInt(-1)).Mul(a).IsOne() {
			t.Error("a^-1 * a != 1")
		}
	})
}

func TestFieldElementBytesRoundTrip(t *testing.T) {
	f := testField(t)
	for _, v := range []int64{0, 1, 2, 1234567, 2013265920} {
		e := f.NewElementFromInt64(v)
		encoded := e.Bytes()
		if len(encoded) != f.ElementSize() {
			t.Fatalf("encoded length %d, want fixed width %d", len(encoded), f.ElementSize())
		}
		decoded := FromBytes(f, encoded)
		if !decoded.Equal(e) {
			t.Errorf("round trip mismatch for %d: got %s", v, decoded.String())
		}
	}
}

func TestGetRootOfUnity(t *testing.T) {
	f := testField(t)

	t.Run("ValidOrder", func(t *testing.T) {
		g, err := f.GetRootOfUnity(1024)
		if err != nil {
			t.Fatalf("failed to find root of unity: %v", err)
		}
		if !g.ExpInt(1024).IsOne() {
			t.Error("g^1024 != 1")
		}
		if g.ExpInt(512).IsOne() {
			t.Error("g has order dividing 512, not exactly 1024")
		}
	})

	t.Run("OrderMustDivideGroupOrder", func(t *testing.T) {
		if _, err := f.GetRootOfUnity(1 << 30); err == nil {
			t.Error("expected error for an order not dividing p-1")
		}
	})

	t.Run("OrderMustBePowerOfTwo", func(t *testing.T) {
		if _, err := f.GetRootOfUnity(6); err == nil {
			t.Error("expected error for a non-power-of-two order")
		}
	})
}

func TestBatchInversion(t *testing.T) {
	f := testField(t)
	in := make([]*Element, 0, 16)
	for i := int64(1); i <= 16; i++ {
		in = append(in, f.NewElementFromInt64(i))
	}
	inv, err := InvMany(in)
	if err != nil {
		t.Fatalf("InvMany failed: %v", err)
	}
	for i, e := range in {
		if !e.Mul(inv[i]).IsOne() {
			t.Errorf("element %d failed round trip through batch inversion", i)
		}
	}
}

func TestCombine(t *testing.T) {
	f := testField(t)
	v0 := []*Element{f.NewElementFromInt64(1), f.NewElementFromInt64(2)}
	v1 := []*Element{f.NewElementFromInt64(3), f.NewElementFromInt64(4)}
	coeffs := []*Element{f.NewElementFromInt64(2), f.NewElementFromInt64(5)}

	out, err := Combine([][]*Element{v0, v1}, coeffs)
	if err != nil {
		t.Fatalf("Combine failed: %v", err)
	}
	// out[0] = 2*1 + 5*3 = 17, out[1] = 2*2 + 5*4 = 24
	if !out[0].Equal(f.NewElementFromInt64(17)) || !out[1].Equal(f.NewElementFromInt64(24)) {
		t.Errorf("unexpected combination result: %s, %s", out[0].String(), out[1].String())
	}
}
