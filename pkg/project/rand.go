package project

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Rand is the randomness source behind Shuffle: a PCG generator seeded from
// crypto/rand, safe for concurrent use. Shuffles are not security-critical;
// the crypto seed only keeps independent processes from replaying the same
// permutation sequence.
type Rand struct {
	mut sync.Mutex
	rng *rand.Rand
}

// NewRand returns a Rand seeded from the operating system.
func NewRand() *Rand {
	seed := make([]byte, 16)
	if _, err := cryptorand.Read(seed); err != nil {
		panic("unreachable")
	}
	return NewSeededRand(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	)
}

// NewSeededRand returns a Rand with a fixed seed, for deterministic tests.
func NewSeededRand(seed1, seed2 uint64) *Rand {
	//nolint:gosec // no security required
	return &Rand{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (r *Rand) intN(n int) int {
	r.mut.Lock()
	defer r.mut.Unlock()
	return r.rng.IntN(n)
}

// Shuffle returns a Fisher–Yates permutation of positions, leaving the input
// untouched. The caller passes the positions visible under the current
// filter in natural order; any previous permutation is deliberately not an
// input, so repeated shuffles never compound.
func Shuffle(positions []int, r *Rand) []int {
	out := make([]int, len(positions))
	copy(out, positions)
	for i := len(out) - 1; i > 0; i-- {
		j := r.intN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
