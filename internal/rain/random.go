// Package rain implements the falling-rain model: a seeded randomizer,
// the sky/ground geometry and the drop field with its per-tick update.
package rain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Randomizer produces bounded pseudo-random integers for drop placement.
// It is not safe for concurrent use.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer returns an unseeded randomizer. Seed or SeedFromClock
// must be called before Next.
func NewRandomizer() *Randomizer {
	return &Randomizer{}
}

// Seed initializes the generator state. The same seed always yields the
// same sequence.
func (r *Randomizer) Seed(value uint64) {
	r.rng = rand.New(rand.NewPCG(value, value^0x9e3779b97f4a7c15))
}

// SeedFromClock seeds from the wall clock so consecutive runs differ.
// Returns the seed used.
func (r *Randomizer) SeedFromClock() uint64 {
	seed := uint64(time.Now().UnixNano())
	r.Seed(seed)
	return seed
}

// Seeded reports whether the randomizer has been seeded.
func (r *Randomizer) Seeded() bool {
	return r.rng != nil
}

// Next returns a value chosen uniformly from the inclusive range [lo, hi].
func (r *Randomizer) Next(lo, hi int) (int, error) {
	if r.rng == nil {
		return 0, ErrNotSeeded
	}
	if lo > hi {
		return 0, &RangeError{Min: lo, Max: hi}
	}
	return lo + r.rng.IntN(hi-lo+1), nil
}

// RangeError reports a Next call whose bounds are inverted.
type RangeError struct {
	Min, Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range [%d, %d]: min exceeds max", e.Min, e.Max)
}

// Unwrap lets errors.Is match ErrInvalidRange.
func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}
