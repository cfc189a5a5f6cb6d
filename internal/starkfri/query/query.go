// Package query derives the verifier's FRI query positions from a
// committed transcript seed: a counter-keyed, directly-maskable index
// stream suitable for power-of-two domains.
package query

import (
	"encoding/binary"

	"github.com/vybium/stark-fri-core/internal/starkfri/errors"
	"github.com/vybium/stark-fri-core/internal/starkfri/field"
	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

// maxAttempts bounds the counter-expansion retry loop so a pathological
// seed/domain combination fails loudly instead of looping forever.
const maxAttempts = 1 << 20

// Indices deterministically derives count distinct positions in
// [0, domainSize), skipping any position divisible by excludeStride (pass
// excludeStride <= 1 to disable the exclusion). domainSize must be a power
// of two, so each drawn 32-bit value can be reduced to a position by a
// bitmask instead of rejection sampling against a non-power-of-two bound.
func Indices(h hashing.Hasher, seed hashing.Digest, count, domainSize, excludeStride int) ([]int, error) {
	if !field.IsPowerOfTwo(domainSize) {
		return nil, errors.Newf(errors.Configuration, "query domain size must be a power of two, got %d", domainSize)
	}
	if count < 0 {
		return nil, errors.Newf(errors.Configuration, "query count must be non-negative, got %d", count)
	}
	mask := uint32(domainSize - 1)

	out := make([]int, 0, count)
	seen := make(map[int]bool, count)
	counter := uint64(0)

	for len(out) < count {
		if counter >= maxAttempts {
			return nil, errors.Newf(errors.Configuration, "exhausted %d attempts drawing %d distinct query indices from a domain of size %d", maxAttempts, count, domainSize)
		}
		block := make([]byte, 8)
		binary.BigEndian.PutUint64(block, counter)
		counter++

		digest := h.Sum(append(append([]byte{}, seed.Bytes()...), block...))
		candidate := int(binary.BigEndian.Uint32(digest.Bytes()[:4]) & mask)

		if excludeStride > 1 && candidate%excludeStride == 0 {
			continue
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		out = append(out, candidate)
	}
	return out, nil
}

// GetFriIndexes derives the count query positions used to kick off a FRI
// low-degree test against a codeword of the given column length: plain
// uniform sampling over [0, columnLength) with no exclusion, since the
// first layer has no prior fold to stay clear of.
func GetFriIndexes(h hashing.Hasher, seed hashing.Digest, columnLength, count int) ([]int, error) {
	return Indices(h, seed, count, columnLength, 0)
}
