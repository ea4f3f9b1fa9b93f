// Package rng provides the single centralized pseudo-random stream the
// simulation driver threads through every probabilistic kernel call
// (ignition gates, ember sampling). No component keeps its own RNG; every
// draw comes from one stream seeded at simulation creation and advanced
// deterministically in pipeline order, so replays are reproducible.
// Restyled after Gekko3D-gekko's seeded rand.New(rand.NewSource(...)) worker
// pattern (particles_ecs.go simulateEmitter).
package rng

import "math/rand"

// Stream is a deterministic uniform(0,1) source. It is not safe for
// concurrent use — the driver calls it only from its single stepping
// thread, in pipeline order, determinism guarantee.
type Stream struct {
	r *rand.Rand
	drawCount uint64
}

// New constructs a Stream seeded with seed. Two Streams built from the same
// seed and driven with the same number/order of Next calls produce
// identical sequences.
func New(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

// Next returns the next uniform(0,1) sample and advances the draw counter.
func (s *Stream) Next() float64 {
	s.drawCount++
	return s.r.Float64()
}

// Range returns a uniform sample in [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*s.Next()
}

// DrawCount reports how many samples have been taken so far, useful for
// replay/determinism diagnostics.
func (s *Stream) DrawCount() uint64 { return s.drawCount }
