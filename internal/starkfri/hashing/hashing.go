// Package hashing implements the byte-oriented hash backends consumed by
// the Merkle and Fiat-Shamir layers: SHA-256 and BLAKE2s-256, both fixed
// at a 32-byte digest width. Only byte-level backends are exposed; there
// is no field-friendly (Poseidon/Rescue) branch, since nothing here
// hashes field elements directly.
package hashing

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2s"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
)

// Size is the fixed digest width, in bytes, of every backend this
// package exposes.
const Size = 32

// Digest is a 32-byte hash output.
type Digest [Size]byte

// Bytes returns the digest's bytes as a slice.
func (d Digest) Bytes() []byte { return d[:] }

// Backend identifies a hash function by name.
type Backend string

const (
	SHA256     Backend = "sha256"
	Blake2s256 Backend = "blake2s256"
)

// Hasher computes fixed-width digests of byte strings.
type Hasher interface {
	Backend() Backend
	Sum(data []byte) Digest
}

// New returns the Hasher for the named backend.
func New(backend Backend) (Hasher, error) {
	switch backend {
	case SHA256:
		return sha256Hasher{}, nil
	case Blake2s256:
		return blake2sHasher{}, nil
	default:
		return nil, errors.Newf(errors.Configuration, "unsupported hash backend %q", backend)
	}
}

type sha256Hasher struct{}

func (sha256Hasher) Backend() Backend { return SHA256 }

func (sha256Hasher) Sum(data []byte) Digest {
	return Digest(sha256.Sum256(data))
}

type blake2sHasher struct{}

func (blake2sHasher) Backend() Backend { return Blake2s256 }

func (blake2sHasher) Sum(data []byte) Digest {
	return Digest(blake2s.Sum256(data))
}

// DigestValues hashes data in consecutive rowSize-byte rows, returning one
// digest per row. This is how fri.packedTree, its only caller, builds a
// Merkle leaf layer from a flattened matrix of serialized field elements:
// each leaf commits to one full row of four codeword evaluations rather
// than to a single value.
func DigestValues(h Hasher, data []byte, rowSize int) ([]Digest, error) {
	if rowSize <= 0 {
		return nil, errors.Newf(errors.Configuration, "digest row size must be positive, got %d", rowSize)
	}
	if len(data)%rowSize != 0 {
		return nil, errors.Newf(errors.InternalProver, "data length %d is not a multiple of row size %d", len(data), rowSize)
	}
	n := len(data) / rowSize
	out := make([]Digest, n)
	for i := 0; i < n; i++ {
		out[i] = h.Sum(data[i*rowSize : (i+1)*rowSize])
	}
	return out, nil
}

// Concat hashes the concatenation of left and right, the primitive the
// Merkle tree's interior-node computation is built from.
func Concat(h Hasher, left, right Digest) Digest {
	buf := make([]byte, 0, 2*Size)
	buf = append(buf, left[:]...)
	buf = append(buf, right[:]...)
	return h.Sum(buf)
}
