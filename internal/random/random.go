// Package random provides a pluggable source of randomness.
//
// Sampling and clustering draw from a Source so tests can inject a
// fixed-sequence implementation and reproduce runs exactly. Production
// code uses New, which seeds independently per call site so concurrent
// pipeline invocations do not produce correlated subsamples.
package random

import (
	"math/rand"
	"time"
)

// Source is the subset of math/rand used by the sampling and
// clustering code.
type Source interface {
	// Intn returns a uniform int in [0, n). Panics if n <= 0.
	Intn(n int) int

	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64

	// Perm returns a uniform random permutation of [0, n).
	Perm(n int) []int
}

// New returns a Source seeded from the current time.
func New() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewSeeded returns a Source with a fixed seed, for reproducible runs.
func NewSeeded(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
