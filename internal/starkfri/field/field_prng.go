package field

import (
	"encoding/binary"
	"math/big"

	"github.com/vybium/stark-fri-core/internal/starkfri/hashing"
)

// PRNG deterministically expands seed into count field elements, by
// hashing seed concatenated with an incrementing 64-bit counter and
// drawing as many hash blocks as needed to fill one element's fixed byte
// width. Expansion is counter-keyed rather than state-chained, so that
// combinator coefficients and query indices can be derived independently
// from the same committed seed without forcing a strict call order on
// the verifier side.
func (f *Field) PRNG(h hashing.Hasher, seed []byte, count int) []*Element {
	out := make([]*Element, count)
	counter := uint64(0)
	for i := 0; i < count; i++ {
		buf := make([]byte, 0, f.size+hashing.Size)
		for len(buf) < f.size {
			block := make([]byte, 8)
			binary.BigEndian.PutUint64(block, counter)
			counter++
			digest := h.Sum(append(append([]byte{}, seed...), block...))
			buf = append(buf, digest.Bytes()...)
		}
		out[i] = f.NewElement(new(big.Int).SetBytes(buf[:f.size]))
	}
	return out
}
