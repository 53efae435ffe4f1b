package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Searches seeded with the same value replay identically.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed resolves an optional seed flag, falling back to the wall clock
func Seed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return time.Now().UnixNano()
}

// WorkerSeeds derives n independent seeds from a base seed, one per worker
func WorkerSeeds(base int64, n int) []int64 {
	seeds := make([]int64, n)
	state := uint64(base)
	for i := range seeds {
		state += goldenRatio64
		seeds[i] = int64(mix(state))
	}
	return seeds
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
