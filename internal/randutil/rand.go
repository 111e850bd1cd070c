package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive folds parts into seed to produce an independent child seed. The run
// seed is narrowed to a table and hand, and a hand seed to a seat, so that no
// two hands or agents share a random stream.
func Derive(seed int64, parts ...int64) int64 {
	u := mix(uint64(seed))
	for _, p := range parts {
		u = mix(u ^ (uint64(p) + goldenRatio64 + (u << 6) + (u >> 2)))
	}
	return int64(u)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
