package models_test

import (
	"testing"

	"github.com/myrjola/whodunit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEliminationTypes_Exhaustive(t *testing.T) {
	all := models.AllEliminationTypes()
	require.Len(t, all, 17)

	perCategory := map[models.Category]int{}
	seen := map[models.EliminationType]bool{}
	for _, typ := range all {
		require.False(t, seen[typ], "duplicate type %s", typ)
		seen[typ] = true

		meta := typ.Meta()
		perCategory[meta.Category]++
		assert.NotEmpty(t, meta.SizeClass, "type %s has no size class", typ)
		assert.NotEmpty(t, meta.PreferredSpeaker, "type %s has no speaker", typ)
	}

	assert.Equal(t, 5, perCategory[models.CategorySuspect])
	assert.Equal(t, 4, perCategory[models.CategoryItem])
	assert.Equal(t, 4, perCategory[models.CategoryLocation])
	assert.Equal(t, 4, perCategory[models.CategoryTime])
}

func TestEliminationTypesFor(t *testing.T) {
	tests := []struct {
		name     string
		category models.Category
		class    models.SizeClass
		want     []models.EliminationType
	}{
		{
			name:     "suspect small has two mechanisms",
			category: models.CategorySuspect,
			class:    models.SizeSmall,
			want:     []models.EliminationType{models.SuspectPhysicalProfile, models.SuspectMotiveCleared},
		},
		{
			name:     "item large",
			category: models.CategoryItem,
			class:    models.SizeLarge,
			want:     []models.EliminationType{models.ItemLockedAway},
		},
		{
			name:     "time single",
			category: models.CategoryTime,
			class:    models.SizeSingle,
			want:     []models.EliminationType{models.TimeDecisiveRecord},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.EliminationTypesFor(tt.category, tt.class))
		})
	}

	// Every category must resolve to at least one mechanism for every class,
	// via the nearest-class fallback if needed.
	for _, category := range models.Categories() {
		for _, class := range []models.SizeClass{models.SizeSingle, models.SizeSmall, models.SizeMedium, models.SizeLarge} {
			assert.NotEmpty(t, models.EliminationTypesFor(category, class),
				"no mechanism for %s/%s", category, class)
		}
	}
}

func TestGroupSizeClass(t *testing.T) {
	assert.Equal(t, models.SizeSingle, models.GroupSizeClass(1))
	assert.Equal(t, models.SizeSmall, models.GroupSizeClass(2))
	assert.Equal(t, models.SizeMedium, models.GroupSizeClass(3))
	assert.Equal(t, models.SizeMedium, models.GroupSizeClass(4))
	assert.Equal(t, models.SizeLarge, models.GroupSizeClass(5))
}

func TestProfiles(t *testing.T) {
	for _, difficulty := range models.Difficulties() {
		profile, ok := difficulty.Profile()
		require.True(t, ok, "missing profile for %s", difficulty)

		sum := profile.ActDistribution[0] + profile.ActDistribution[1] + profile.ActDistribution[2]
		assert.Equal(t, profile.ClueCount, sum, "%s act distribution must sum to clue count", difficulty)
		assert.Positive(t, profile.RedHerrings.Count)
		assert.Positive(t, profile.DramaticEventCount)
		for _, category := range models.Categories() {
			bounds, ok := profile.GroupBounds[category]
			require.True(t, ok, "%s missing bounds for %s", difficulty, category)
			assert.GreaterOrEqual(t, bounds.Min, 1)
			assert.GreaterOrEqual(t, bounds.Max, bounds.Min)
		}
	}

	_, ok := models.Difficulty("nightmare").Profile()
	assert.False(t, ok)
}

func TestEventTypes_SuitableActs(t *testing.T) {
	for _, eventType := range models.AllEventTypes() {
		acts := eventType.SuitableActs()
		require.NotEmpty(t, acts, "event %s has no suitable acts", eventType)
		for _, act := range acts {
			assert.GreaterOrEqual(t, act, 1)
			assert.LessOrEqual(t, act, 3)
		}
	}
}
