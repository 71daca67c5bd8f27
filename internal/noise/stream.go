package noise

import "math/rand"

// Salts for the per-match randomness streams. Each role inside a match
// draws from its own stream so trials never correlate across roles and
// matches stay reproducible under any evaluation order.
const (
	SaltStrategyA uint64 = 0x9e3779b97f4a7c15
	SaltStrategyB uint64 = 0xbf58476d1ce4e5b9
	SaltNoiseA    uint64 = 0x94d049bb133111eb
	SaltNoiseB    uint64 = 0x2545f4914f6cdd1d
)

// Stream derives an independent deterministic random source from a base
// seed and a salt using splitmix64 finalization.
func Stream(seed int64, salt uint64) *rand.Rand {
	return rand.New(rand.NewSource(int64(Mix(uint64(seed), salt))))
}

// Mix combines a seed with a salt into a well-scrambled 64-bit value.
// Used both for stream derivation and for assigning per-match seeds from
// a run seed and pairing coordinates.
func Mix(seed, salt uint64) uint64 {
	z := seed + salt + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
