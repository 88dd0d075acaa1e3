package rng_test

import (
	"testing"

	"github.com/myrjola/whodunit/internal/rng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Next(t *testing.T) {
	src := rng.New(42)
	for i := 0; i < 10_000; i++ {
		got := src.Next()
		require.GreaterOrEqual(t, got, 0.0)
		require.Less(t, got, 1.0)
	}
}

func TestSource_Determinism(t *testing.T) {
	first := rng.New(1337)
	second := rng.New(1337)
	for i := 0; i < 1_000; i++ {
		require.Equal(t, first.Next(), second.Next(), "draw %d diverged", i)
	}

	third := rng.New(1337)
	different := rng.New(7331)
	diverged := false
	for i := 0; i < 100; i++ {
		if third.Next() != different.Next() {
			diverged = true
			break
		}
	}
	assert.True(t, diverged, "different seeds should diverge")
}

func TestSource_IntBetween(t *testing.T) {
	tests := []struct {
		name string
		min  int
		max  int
	}{
		{name: "single value", min: 3, max: 3},
		{name: "small range", min: 1, max: 6},
		{name: "negative range", min: -5, max: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := rng.New(99)
			seen := map[int]bool{}
			for i := 0; i < 5_000; i++ {
				got := src.IntBetween(tt.min, tt.max)
				require.GreaterOrEqual(t, got, tt.min)
				require.LessOrEqual(t, got, tt.max)
				seen[got] = true
			}
			// Every value in a small inclusive range should eventually appear.
			assert.Len(t, seen, tt.max-tt.min+1)
		})
	}
}

func TestPick(t *testing.T) {
	src := rng.New(7)
	list := []string{"a", "b", "c"}
	for i := 0; i < 100; i++ {
		assert.Contains(t, list, rng.Pick(src, list))
	}
}

func TestPickMultiple(t *testing.T) {
	src := rng.New(7)
	list := []int{1, 2, 3, 4, 5}

	got, err := rng.PickMultiple(src, list, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	seen := map[int]bool{}
	for _, v := range got {
		assert.Contains(t, list, v)
		assert.False(t, seen[v], "duplicate pick %d", v)
		seen[v] = true
	}

	_, err = rng.PickMultiple(src, list, 6)
	require.ErrorIs(t, err, rng.ErrCountExceedsLength)
}

func TestPickWeighted(t *testing.T) {
	src := rng.New(11)

	_, err := rng.PickWeighted(src, []string{"a", "b"}, []float64{1})
	require.ErrorIs(t, err, rng.ErrWeightMismatch)

	_, err = rng.PickWeighted(src, []string{"a"}, []float64{0})
	require.ErrorIs(t, err, rng.ErrWeightMismatch)

	// A zero-weight element should never win against heavy competition.
	for i := 0; i < 1_000; i++ {
		got, err := rng.PickWeighted(src, []string{"never", "always"}, []float64{0, 10})
		require.NoError(t, err)
		require.Equal(t, "always", got)
	}
}

func TestShuffle(t *testing.T) {
	src := rng.New(3)
	original := []int{1, 2, 3, 4, 5, 6, 7, 8}

	shuffled := rng.Shuffle(src, original)
	require.ElementsMatch(t, original, shuffled)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, original, "input must not be mutated")

	// Same seed, same order.
	again := rng.Shuffle(rng.New(3), original)
	assert.Equal(t, shuffled, again)
}
