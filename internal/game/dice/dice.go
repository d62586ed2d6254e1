// Package dice provides the randomness abstraction used by the battle engine
// for damage variance, status-effect chances and randomized decision policies.
package dice

// Source is the randomness provider.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
}

// Uniform samples a float uniformly from [lo, hi).
//
// Precondition: lo <= hi; src must be non-nil.
func Uniform(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Chance reports whether an event with probability p happens.
//
// Postcondition: Always true for p >= 1, always false for p <= 0.
func Chance(src Source, p float64) bool {
	if p >= 1 {
		return true
	}
	if p <= 0 {
		return false
	}
	return src.Float64() < p
}

// Pick returns a uniformly chosen index in [0, n), or -1 when n <= 0.
func Pick(src Source, n int) int {
	if n <= 0 {
		return -1
	}
	return src.Intn(n)
}
