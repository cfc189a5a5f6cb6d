// Package field implements the finite-field backend consumed by every
// other stark-fri-core component: modular arithmetic, fixed-width byte
// encoding, roots of unity, and the batch/PRNG helpers the FRI prover and
// verifier are built on top of.
//
// Elements are represented as a *big.Int reduced modulo a prime, with a
// fixed-width little-endian codec so every FieldElement satisfies the
// fixed byte width the wire format depends on.
package field

import (
	"crypto/rand"
	"math/big"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
)

// Field is a prime field of order p.
type Field struct {
	modulus *big.Int
	// size is the fixed little-endian encoding width, in bytes, of every
	// element of this field. Chosen as the smallest byte count that can
	// hold modulus-1.
	size int
}

// Element is an element of a Field, always held in [0, p) normalized form.
type Element struct {
	field *Field
	value *big.Int
}

// New creates a prime field with the given modulus.
func New(modulus *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, errors.New(errors.Configuration, "field modulus must be greater than 2")
	}
	size := (modulus.BitLen() + 7) / 8
	if size == 0 {
		size = 1
	}
	return &Field{modulus: new(big.Int).Set(modulus), size: size}, nil
}

// NewFromUint64 creates a prime field from a uint64 modulus.
func NewFromUint64(modulus uint64) (*Field, error) {
	return New(new(big.Int).SetUint64(modulus))
}

// Modulus returns a copy of the field's modulus.
func (f *Field) Modulus() *big.Int { return new(big.Int).Set(f.modulus) }

// ElementSize returns the fixed little-endian encoding width (es) of every
// element of this field, in bytes.
func (f *Field) ElementSize() int { return f.size }

// Equal reports whether two fields share the same modulus.
func (f *Field) Equal(other *Field) bool {
	return f.modulus.Cmp(other.modulus) == 0
}

// NewElement reduces value modulo the field and returns the element.
func (f *Field) NewElement(value *big.Int) *Element {
	v := new(big.Int).Mod(value, f.modulus)
	return &Element{field: f, value: v}
}

// NewElementFromInt64 creates an element from an int64.
func (f *Field) NewElementFromInt64(value int64) *Element {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 creates an element from a uint64.
func (f *Field) NewElementFromUint64(value uint64) *Element {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// Zero returns the additive identity.
func (f *Field) Zero() *Element { return &Element{field: f, value: big.NewInt(0)} }

// One returns the multiplicative identity.
func (f *Field) One() *Element { return &Element{field: f, value: big.NewInt(1)} }

// Random returns a uniformly random element.
func (f *Field) Random() (*Element, error) {
	v, err := rand.Int(rand.Reader, f.modulus)
	if err != nil {
		return nil, errors.Wrap(errors.InternalProver, err, "failed to draw random field element")
	}
	return f.NewElement(v), nil
}

// Field returns the field this element belongs to.
func (e *Element) Field() *Field { return e.field }

// Big returns a copy of the element's value as a big.Int.
func (e *Element) Big() *big.Int { return new(big.Int).Set(e.value) }

func (e *Element) checkField(other *Element) {
	if !e.field.Equal(other.field) {
		panic("field: operands belong to different fields")
	}
}

// Add returns e + other.
func (e *Element) Add(other *Element) *Element {
	e.checkField(other)
	return e.field.NewElement(new(big.Int).Add(e.value, other.value))
}

// Sub returns e - other.
func (e *Element) Sub(other *Element) *Element {
	e.checkField(other)
	return e.field.NewElement(new(big.Int).Sub(e.value, other.value))
}

// Neg returns -e.
func (e *Element) Neg() *Element {
	return e.field.NewElement(new(big.Int).Neg(e.value))
}

// Mul returns e * other.
func (e *Element) Mul(other *Element) *Element {
	e.checkField(other)
	return e.field.NewElement(new(big.Int).Mul(e.value, other.value))
}

// Inv returns the multiplicative inverse of e.
func (e *Element) Inv() (*Element, error) {
	if e.IsZero() {
		return nil, errors.New(errors.InternalProver, "cannot invert zero field element")
	}
	inv := new(big.Int).ModInverse(e.value, e.field.modulus)
	if inv == nil {
		return nil, errors.New(errors.InternalProver, "field element has no inverse")
	}
	return &Element{field: e.field, value: inv}, nil
}

// Div returns e / other.
func (e *Element) Div(other *Element) (*Element, error) {
	e.checkField(other)
	inv, err := other.Inv()
	if err != nil {
		return nil, err
	}
	return e.Mul(inv), nil
}

// Exp returns e^exponent.
func (e *Element) Exp(exponent *big.Int) *Element {
	exp := exponent
	if exp.Sign() < 0 {
		// p prime => order p-1; reduce negative exponents into [0, p-1).
		order := new(big.Int).Sub(e.field.modulus, big.NewInt(1))
		exp = new(big.Int).Mod(exp, order)
	}
	return &Element{field: e.field, value: new(big.Int).Exp(e.value, exp, e.field.modulus)}
}

// ExpInt is a convenience wrapper around Exp for small int exponents.
func (e *Element) ExpInt(exponent int) *Element {
	return e.Exp(big.NewInt(int64(exponent)))
}

// Equal reports value equality within the same field.
func (e *Element) Equal(other *Element) bool {
	if !e.field.Equal(other.field) {
		return false
	}
	return e.value.Cmp(other.value) == 0
}

// IsZero reports whether e is the additive identity.
func (e *Element) IsZero() bool { return e.value.Sign() == 0 }

// IsOne reports whether e is the multiplicative identity.
func (e *Element) IsOne() bool { return e.value.Cmp(big.NewInt(1)) == 0 }

// String renders the element's decimal value.
func (e *Element) String() string { return e.value.String() }

// Bytes encodes e as a fixed-width little-endian byte slice of the
// field's ElementSize(), satisfying the data-model invariant that every
// FieldElement has a fixed byte width.
func (e *Element) Bytes() []byte {
	return leftPadLE(e.value.Bytes(), e.field.size)
}

// FromBytes decodes a fixed-width little-endian byte slice into a field
// element, reducing modulo p if the raw value exceeds it (callers are
// expected to pass exactly ElementSize() bytes, but this never panics on
// the wrong length).
func FromBytes(f *Field, data []byte) *Element {
	be := reverseBytes(data)
	return f.NewElement(new(big.Int).SetBytes(be))
}

// leftPadLE reverses a big-endian magnitude into little-endian and pads
// to width bytes. big.Int.Bytes() is big-endian with no leading zeros.
func leftPadLE(beMagnitude []byte, width int) []byte {
	out := make([]byte, width)
	for i, b := range beMagnitude {
		j := len(beMagnitude) - 1 - i
		if j < width {
			out[j] = b
		}
	}
	return out
}

func reverseBytes(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[len(in)-1-i] = b
	}
	return out
}

// SameField is a small assertion helper used by sibling packages that
// accept slices of elements and must reject field mismatches explicitly
// rather than via a panic deep in arithmetic.
func SameField(elems ...*Element) error {
	if len(elems) == 0 {
		return nil
	}
	f := elems[0].field
	for i, e := range elems[1:] {
		if !e.field.Equal(f) {
			return errors.Newf(errors.InternalProver, "element %d belongs to a different field", i+1)
		}
	}
	return nil
}
