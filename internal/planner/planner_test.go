package planner_test

import (
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/planner"
	"github.com/myrjola/whodunit/internal/registry"
	"github.com/myrjola/whodunit/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanner() *planner.Planner {
	return planner.New(testhelpers.NewLogger(io.Discard))
}

func seedPtr(seed int64) *int64 {
	return &seed
}

func TestPlan_SolutionIntegrity(t *testing.T) {
	p := newPlanner()
	for _, difficulty := range models.Difficulties() {
		for seed := int64(0); seed < 200; seed++ {
			plan, err := p.Plan(planner.Request{Difficulty: difficulty, Seed: seedPtr(seed)})
			require.NoError(t, err)

			for _, clue := range plan.Clues {
				solutionID := plan.Solution.IDFor(clue.Elimination.Category)
				assert.NotContains(t, clue.Elimination.TargetIDs, solutionID,
					"difficulty %s seed %d clue %d targets the solution", difficulty, seed, clue.Position)
			}
			for _, herring := range plan.RedHerrings {
				assert.NotEqual(t, plan.Solution.IDFor(herring.Category), herring.TargetID,
					"difficulty %s seed %d red herring targets the solution", difficulty, seed)
			}
		}
	}
}

func TestPlan_PositionContiguity(t *testing.T) {
	p := newPlanner()
	for _, difficulty := range models.Difficulties() {
		profile, ok := difficulty.Profile()
		require.True(t, ok)
		for seed := int64(0); seed < 50; seed++ {
			plan, err := p.Plan(planner.Request{Difficulty: difficulty, Seed: seedPtr(seed)})
			require.NoError(t, err)

			require.Len(t, plan.Clues, profile.ClueCount, "difficulty %s seed %d", difficulty, seed)
			for i, clue := range plan.Clues {
				assert.Equal(t, i+1, clue.Position)
			}
		}
	}
}

func TestPlan_BackReferenceOrdering(t *testing.T) {
	p := newPlanner()
	for seed := int64(0); seed < 100; seed++ {
		plan, err := p.Plan(planner.Request{Difficulty: models.DifficultyExpert, Seed: seedPtr(seed)})
		require.NoError(t, err)
		for _, clue := range plan.Clues {
			for _, ref := range clue.BackReferences {
				assert.Less(t, ref, clue.Position, "seed %d clue %d", seed, clue.Position)
				assert.GreaterOrEqual(t, ref, 1)
			}
		}
	}
}

func TestPlan_RedHerringResolution(t *testing.T) {
	p := newPlanner()
	for _, difficulty := range []models.Difficulty{models.DifficultyBeginner, models.DifficultyIntermediate} {
		profile, ok := difficulty.Profile()
		require.True(t, ok)
		require.True(t, profile.RedHerrings.MustResolve)

		for seed := int64(0); seed < 100; seed++ {
			plan, err := p.Plan(planner.Request{Difficulty: difficulty, Seed: seedPtr(seed)})
			require.NoError(t, err)

			require.Len(t, plan.RedHerrings, profile.RedHerrings.Count)
			for _, herring := range plan.RedHerrings {
				require.Positive(t, herring.ResolvedAt, "difficulty %s seed %d herring unresolved", difficulty, seed)
				assert.Greater(t, herring.ResolvedAt, herring.IntroducedAt)
			}
		}
	}
}

func TestPlan_Determinism(t *testing.T) {
	p := newPlanner()
	request := planner.Request{
		Difficulty: models.DifficultyIntermediate,
		Seed:       seedPtr(987654),
		Exclude: map[models.Category][]string{
			models.CategorySuspect: {"mrs-danvers"},
			models.CategoryItem:    {"rope", "hatpin"},
		},
	}

	first, err := p.Plan(request)
	require.NoError(t, err)
	second, err := p.Plan(request)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("identical requests produced different plans (-first +second):\n%s", diff)
	}

	other, err := p.Plan(planner.Request{
		Difficulty: request.Difficulty,
		Seed:       seedPtr(123),
		Exclude:    request.Exclude,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, cmp.Diff(first, other), "different seeds should produce different plans")
}

func TestPlan_ExclusionsRespected(t *testing.T) {
	p := newPlanner()
	excludedSuspect := "colonel-finch"
	for seed := int64(0); seed < 50; seed++ {
		plan, err := p.Plan(planner.Request{
			Difficulty: models.DifficultyBeginner,
			Seed:       seedPtr(seed),
			Exclude:    map[models.Category][]string{models.CategorySuspect: {excludedSuspect}},
		})
		require.NoError(t, err)

		assert.NotEqual(t, excludedSuspect, plan.Solution.SuspectID)
		for _, clue := range plan.Clues {
			if clue.Elimination.Category == models.CategorySuspect {
				assert.NotContains(t, clue.Elimination.TargetIDs, excludedSuspect)
			}
		}
	}
}

func TestPlan_ConfigurationErrors(t *testing.T) {
	p := newPlanner()

	allSuspects := make([]string, 0, len(registry.Suspects()))
	for _, element := range registry.Suspects() {
		allSuspects = append(allSuspects, element.ID)
	}

	tests := []struct {
		name    string
		request planner.Request
		wantErr error
	}{
		{
			name:    "unknown difficulty",
			request: planner.Request{Difficulty: "nightmare", Seed: seedPtr(1)},
			wantErr: planner.ErrUnknownDifficulty,
		},
		{
			name:    "unknown theme",
			request: planner.Request{Difficulty: models.DifficultyBeginner, ThemeID: "atlantis", Seed: seedPtr(1)},
			wantErr: planner.ErrUnknownTheme,
		},
		{
			name: "unknown excluded element",
			request: planner.Request{
				Difficulty: models.DifficultyBeginner,
				Seed:       seedPtr(1),
				Exclude:    map[models.Category][]string{models.CategoryItem: {"chainsaw"}},
			},
			wantErr: planner.ErrUnknownElement,
		},
		{
			name: "exclusions empty a category",
			request: planner.Request{
				Difficulty: models.DifficultyBeginner,
				Seed:       seedPtr(1),
				Exclude:    map[models.Category][]string{models.CategorySuspect: allSuspects},
			},
			wantErr: planner.ErrImpossibleExclusions,
		},
		{
			name: "exclusions leave no targets",
			request: planner.Request{
				Difficulty: models.DifficultyBeginner,
				Seed:       seedPtr(1),
				Exclude:    map[models.Category][]string{models.CategorySuspect: allSuspects[:len(allSuspects)-1]},
			},
			wantErr: planner.ErrInsufficientElements,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Plan(tt.request)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, planner.ErrConfiguration)
		})
	}
}

// TestPlan_BeginnerSeed42 pins the concrete reference scenario.
func TestPlan_BeginnerSeed42(t *testing.T) {
	p := newPlanner()
	plan, err := p.Plan(planner.Request{Difficulty: models.DifficultyBeginner, Seed: seedPtr(42)})
	require.NoError(t, err)

	require.Len(t, plan.Clues, 12)

	actCounts := map[int]int{}
	for _, clue := range plan.Clues {
		actCounts[clue.Act]++
	}
	assert.Equal(t, 4, actCounts[1])
	assert.Equal(t, 5, actCounts[2])
	assert.Equal(t, 3, actCounts[3])

	require.Len(t, plan.RedHerrings, 1)
	herring := plan.RedHerrings[0]
	assert.Positive(t, herring.IntroducedAt)
	assert.Greater(t, herring.ResolvedAt, herring.IntroducedAt)

	for _, clue := range plan.Clues {
		solutionID := plan.Solution.IDFor(clue.Elimination.Category)
		assert.NotContains(t, clue.Elimination.TargetIDs, solutionID)
	}
}

func TestPlan_ThreadsReferenceExistingPositions(t *testing.T) {
	p := newPlanner()
	for seed := int64(0); seed < 50; seed++ {
		plan, err := p.Plan(planner.Request{Difficulty: models.DifficultyExpert, Seed: seedPtr(seed)})
		require.NoError(t, err)

		valid := map[int]bool{}
		for _, clue := range plan.Clues {
			valid[clue.Position] = true
		}
		for _, thread := range plan.Threads {
			require.NotEmpty(t, thread.CluePositions, "seed %d thread %s", seed, thread.Name)
			for _, position := range thread.CluePositions {
				assert.True(t, valid[position], "seed %d thread %s references missing position %d",
					seed, thread.Name, position)
			}
		}
	}
}

func TestPlan_DramaticEventsInRange(t *testing.T) {
	p := newPlanner()
	for seed := int64(0); seed < 50; seed++ {
		plan, err := p.Plan(planner.Request{Difficulty: models.DifficultyIntermediate, Seed: seedPtr(seed)})
		require.NoError(t, err)

		for _, event := range plan.DramaticEvents {
			assert.GreaterOrEqual(t, event.AfterPosition, 1)
			assert.LessOrEqual(t, event.AfterPosition, len(plan.Clues))
			assert.LessOrEqual(t, len(event.InvolvedSuspectIDs), 2)
		}
	}
}
