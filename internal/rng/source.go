// Package rng implements the deterministic pseudo-random source that every
// planning, rendering, and setup decision draws from.
//
// The generator is a 32-bit linear congruential generator. Its draw sequence
// for a given seed is part of the module's compatibility contract: plans,
// scenarios, and card setups must reproduce bit-for-bit from the same seed,
// so the recurrence must never change. The generator is good enough for
// reproducible content shuffling but must not be trusted for adversarial
// fairness guarantees such as provably fair physical-card shuffles.
package rng

import (
	"log/slog"
	"time"

	"github.com/myrjola/whodunit/internal/errors"
)

// Numerical Recipes LCG constants, modulus 2^32.
const (
	multiplier uint64 = 1664525
	increment  uint64 = 1013904223
	modulus    uint64 = 1 << 32
)

var (
	// ErrCountExceedsLength indicates a multi-pick asked for more elements than available.
	ErrCountExceedsLength = errors.NewSentinel("count exceeds list length")
	// ErrWeightMismatch indicates the weights do not line up with the list.
	ErrWeightMismatch = errors.NewSentinel("weights must match list length with a positive total")
)

// Source is a seeded pseudo-random source. A Source is not safe for
// concurrent use; every concurrent caller must construct its own.
type Source struct {
	state uint64
	seed  int64
}

// New constructs a Source from an integer seed. The same seed always yields
// the same draw sequence.
func New(seed int64) *Source {
	return &Source{
		state: uint64(seed) % modulus,
		seed:  seed,
	}
}

// NewFromClock constructs a Source seeded from the current time. The result
// is not reproducible; it is only acceptable for interactive calls where
// nobody will need to replay the outcome.
func NewFromClock() *Source {
	return New(time.Now().UnixNano())
}

// Seed returns the seed the Source was constructed with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Next advances the generator and returns a float in [0, 1).
func (s *Source) Next() float64 {
	s.state = (s.state*multiplier + increment) % modulus
	return float64(s.state) / float64(modulus)
}

// IntBetween returns an integer in [min, max] inclusive. min must not
// exceed max.
func (s *Source) IntBetween(min, max int) int {
	if min >= max {
		return min
	}
	span := max - min + 1
	return min + int(s.Next()*float64(span))
}

// LogValue identifies the source in log output without leaking state.
func (s *Source) LogValue() slog.Value {
	return slog.GroupValue(slog.Int64("seed", s.seed))
}

// Pick returns a uniformly chosen element of list. The list must be
// non-empty; picking from an empty list is a programming error.
func Pick[T any](s *Source, list []T) T {
	if len(list) == 0 {
		panic("rng: pick from empty list")
	}
	return list[s.IntBetween(0, len(list)-1)]
}

// PickMultiple returns count distinct elements of list in a seeded random
// order. It fails when count exceeds the list length.
func PickMultiple[T any](s *Source, list []T, count int) ([]T, error) {
	if count > len(list) {
		return nil, errors.Wrap(ErrCountExceedsLength, "pick multiple",
			slog.Int("count", count), slog.Int("length", len(list)))
	}
	if count < 0 {
		count = 0
	}
	shuffled := Shuffle(s, list)
	return shuffled[:count], nil
}

// PickWeighted returns an element of list chosen with probability
// proportional to its weight. The weights slice must have the same length
// as list and a positive total.
func PickWeighted[T any](s *Source, list []T, weights []float64) (T, error) {
	var zero T
	if len(weights) != len(list) || len(list) == 0 {
		return zero, errors.Wrap(ErrWeightMismatch, "pick weighted",
			slog.Int("listLength", len(list)), slog.Int("weightsLength", len(weights)))
	}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return zero, errors.Wrap(ErrWeightMismatch, "pick weighted", slog.Float64("total", total))
	}
	target := s.Next() * total
	running := 0.0
	for i, w := range weights {
		running += w
		if target < running {
			return list[i], nil
		}
	}
	// Floating point rounding can leave target at the far edge.
	return list[len(list)-1], nil
}

// Shuffle returns a new slice holding the elements of list in a seeded
// Fisher–Yates order. The input is never mutated.
func Shuffle[T any](s *Source, list []T) []T {
	shuffled := make([]T, len(list))
	copy(shuffled, list)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(s.Next() * float64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
