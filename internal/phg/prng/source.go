package prng

import (
	"math/rand"
)

// Source is the uniform/Gaussian sampling surface the rest of the
// transport engine depends on, rather than reaching for math/rand
// directly. This lets the object tracker, decay generator and detector
// all accept a Source interface and makes per-worker sub-streams
// (Source.Split) a first-class operation instead of a global mutable
// generator.
type Source interface {
	// Uniform returns a sample from U(0,1).
	Uniform() float64
	// Gaussian returns a sample from N(mean, sigma).
	Gaussian(mean, sigma float64) float64
	// Split derives an independent sub-stream. Workers processing decays
	// in parallel each get their own Split so no generator is shared
	// across goroutines (spec.md §5).
	Split() Source
}

// Rand is the default Source, backed by a private *rand.Rand so
// concurrent Split sub-streams never contend on a shared lock.
type Rand struct {
	r *rand.Rand
}

// New returns a Source seeded deterministically from seed.
func New(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// Uniform returns a sample from U(0,1).
func (s *Rand) Uniform() float64 {
	return s.r.Float64()
}

// Gaussian returns a sample from N(mean, sigma) via math/rand's NormFloat64.
func (s *Rand) Gaussian(mean, sigma float64) float64 {
	return mean + sigma*s.r.NormFloat64()
}

// Split derives a new independent stream seeded from the current stream,
// so a run-level seed deterministically fans out to per-worker streams
// without any worker touching the parent's generator state concurrently.
func (s *Rand) Split() Source {
	return New(s.r.Int63())
}
