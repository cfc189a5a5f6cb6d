package hashing

import (
	"bytes"
	"testing"
)

func TestBackendsProduceFixedWidthDigests(t *testing.T) {
	for _, backend := range []Backend{SHA256, Blake2s256} {
		h, err := New(backend)
		if err != nil {
			t.Fatalf("New(%s) failed: %v", backend, err)
		}
		d := h.Sum([]byte("stark-fri-core"))
		if len(d) != Size {
			t.Errorf("%s digest length = %d, want %d", backend, len(d), Size)
		}
		if h.Backend() != backend {
			t.Errorf("Backend() = %s, want %s", h.Backend(), backend)
		}
	}
}

func TestUnknownBackendErrors(t *testing.T) {
	if _, err := New(Backend("md5")); err == nil {
		t.Error("expected error for an unsupported backend")
	}
}

func TestDigestsAreDeterministicAndSensitiveToInput(t *testing.T) {
	h, _ := New(SHA256)
	a := h.Sum([]byte("hello"))
	b := h.Sum([]byte("hello"))
	c := h.Sum([]byte("hellO"))
	if !bytes.Equal(a[:], b[:]) {
		t.Error("identical inputs produced different digests")
	}
	if bytes.Equal(a[:], c[:]) {
		t.Error("different inputs produced identical digests")
	}
}

func TestDigestValues(t *testing.T) {
	h, _ := New(Blake2s256)
	row0 := []byte("aaaaaaaa")
	row1 := []byte("bbbbbbbb")
	data := append(append([]byte{}, row0...), row1...)

	digests, err := DigestValues(h, data, 8)
	if err != nil {
		t.Fatalf("DigestValues failed: %v", err)
	}
	if len(digests) != 2 {
		t.Fatalf("got %d digests, want 2", len(digests))
	}
	if digests[0] != h.Sum(row0) {
		t.Error("first row digest mismatch")
	}
	if digests[1] != h.Sum(row1) {
		t.Error("second row digest mismatch")
	}
}

func TestDigestValuesRejectsMisalignedLength(t *testing.T) {
	h, _ := New(SHA256)
	if _, err := DigestValues(h, make([]byte, 10), 4); err == nil {
		t.Error("expected error for data length not a multiple of row size")
	}
}

func TestConcatIsOrderSensitive(t *testing.T) {
	h, _ := New(SHA256)
	left := h.Sum([]byte("left"))
	right := h.Sum([]byte("right"))
	if Concat(h, left, right) == Concat(h, right, left) {
		t.Error("Concat should be order-sensitive")
	}
}
