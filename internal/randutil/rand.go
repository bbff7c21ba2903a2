package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Every shuffle and bot decision draws from a source built here so a seed
// replays the same round.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Resolve returns seed unchanged when it is set, otherwise a seed derived
// from the current time. Zero means "not set" throughout the CLI.
func Resolve(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	s := int64(mix(uint64(time.Now().UnixNano())))
	if s == 0 {
		s = 1
	}
	return s
}

// Derive returns the seed for the i-th independent stream under base.
// Simulated rounds each get their own stream so results do not depend on
// which worker ran them.
func Derive(base int64, i int) int64 {
	return int64(mix(uint64(base) + uint64(i+1)*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
