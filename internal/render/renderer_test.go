package render_test

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/planner"
	"github.com/myrjola/whodunit/internal/registry"
	"github.com/myrjola/whodunit/internal/render"
	"github.com/myrjola/whodunit/internal/rng"
	"github.com/myrjola/whodunit/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plan(t *testing.T, difficulty models.Difficulty, seed int64) *models.CampaignPlan {
	t.Helper()
	p := planner.New(testhelpers.NewLogger(io.Discard))
	result, err := p.Plan(planner.Request{Difficulty: difficulty, Seed: &seed})
	require.NoError(t, err)
	return result
}

// TestClue_MechanismExhaustiveness drives every elimination mechanism
// through the renderer so a new mechanism cannot ship without a template.
func TestClue_MechanismExhaustiveness(t *testing.T) {
	renderer := render.NewRenderer()
	base := plan(t, models.DifficultyBeginner, 1)

	for _, eliminationType := range models.AllEliminationTypes() {
		meta := eliminationType.Meta()
		pool := registry.ElementsFor(meta.Category)

		var targets []string
		for _, element := range pool {
			if element.ID != base.Solution.IDFor(meta.Category) {
				targets = append(targets, element.ID)
				if len(targets) == 2 {
					break
				}
			}
		}

		clue := models.PlannedClue{
			Position: 1,
			Act:      1,
			Tone:     models.ToneEstablishing,
			Speaker:  meta.PreferredSpeaker,
			Elimination: models.Elimination{
				Category:  meta.Category,
				Type:      eliminationType,
				TargetIDs: targets,
			},
		}
		text, err := renderer.Clue(clue, base, rng.New(7))
		require.NoError(t, err, "mechanism %s has no template", eliminationType)
		assert.NotEmpty(t, text)
	}
}

func TestClue_UnknownMechanism(t *testing.T) {
	renderer := render.NewRenderer()
	base := plan(t, models.DifficultyBeginner, 1)

	clue := models.PlannedClue{
		Position: 1,
		Act:      1,
		Tone:     models.ToneEstablishing,
		Speaker:  models.SpeakerButler,
		Elimination: models.Elimination{
			Category:  models.CategorySuspect,
			Type:      models.EliminationType("suspect_mind_reading"),
			TargetIDs: []string{"lady-blackwood"},
		},
	}
	_, err := renderer.Clue(clue, base, rng.New(7))
	require.ErrorIs(t, err, render.ErrUnknownEliminationType)
}

func TestScenario(t *testing.T) {
	renderer := render.NewRenderer()
	base := plan(t, models.DifficultyBeginner, 42)

	scenario, err := renderer.Scenario(base, rng.New(base.Seed))
	require.NoError(t, err)

	assert.Equal(t, base.ID, scenario.PlanID)
	assert.Equal(t, base.Seed, scenario.Seed)
	assert.NotEmpty(t, scenario.ID)
	assert.NotEqual(t, base.ID, scenario.ID)
	require.Len(t, scenario.Clues, len(base.Clues))

	for i, clue := range scenario.Clues {
		assert.Equal(t, base.Clues[i].Position, clue.Position)
		assert.NotEmpty(t, clue.Text, "clue %d rendered empty", clue.Position)
		assert.Equal(t, base.Clues[i].Elimination, clue.Elimination)
	}

	require.Len(t, scenario.Events, len(base.DramaticEvents))
	for _, event := range scenario.Events {
		assert.NotEmpty(t, event.Text)
	}

	assert.NotEmpty(t, scenario.Narrative.Opening)
	assert.NotEmpty(t, scenario.Narrative.Setting)
	assert.NotEmpty(t, scenario.Narrative.Atmosphere)

	// The closing paragraph reveals the full solution by name.
	closing := scenario.Narrative.Closing
	assert.Contains(t, closing, registry.ElementName(models.CategorySuspect, base.Solution.SuspectID))
	assert.Contains(t, closing, registry.ElementName(models.CategoryItem, base.Solution.ItemID))
	assert.Contains(t, closing, registry.ElementName(models.CategoryLocation, base.Solution.LocationID))
	assert.Contains(t, closing, registry.ElementName(models.CategoryTime, base.Solution.TimeID))

	require.Len(t, scenario.InspectorNotes, 2)
	for _, note := range scenario.InspectorNotes {
		assert.Contains(t, note, "Inspector's note")
	}
}

func TestScenario_Deterministic(t *testing.T) {
	renderer := render.NewRenderer()
	base := plan(t, models.DifficultyIntermediate, 555)

	first, err := renderer.Scenario(base, rng.New(base.Seed))
	require.NoError(t, err)
	second, err := renderer.Scenario(base, rng.New(base.Seed))
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same plan and source seed produced different scenarios (-first +second):\n%s", diff)
	}
}

// TestScenario_NeverNamesSolutionInClues guards the renderer's fallback
// picks: no clue text may mention the solution elements of its own category.
func TestScenario_NeverNamesSolutionInClues(t *testing.T) {
	renderer := render.NewRenderer()
	for seed := int64(0); seed < 30; seed++ {
		base := plan(t, models.DifficultyExpert, seed)
		scenario, err := renderer.Scenario(base, rng.New(base.Seed))
		require.NoError(t, err)

		suspectName := registry.ElementName(models.CategorySuspect, base.Solution.SuspectID)
		for _, clue := range scenario.Clues {
			if clue.Elimination.Category == models.CategorySuspect {
				assert.False(t, strings.Contains(clue.Text, suspectName),
					"seed %d clue %d names the solution suspect: %s", seed, clue.Position, clue.Text)
			}
		}
	}
}

func TestScenario_LockedRooms(t *testing.T) {
	renderer := render.NewRenderer()
	for seed := int64(0); seed < 20; seed++ {
		base := plan(t, models.DifficultyBeginner, seed)
		scenario, err := renderer.Scenario(base, rng.New(base.Seed))
		require.NoError(t, err)

		want := 0
		for _, clue := range base.Clues {
			if clue.Elimination.Type == models.LocationSealedOff {
				want += len(clue.Elimination.TargetIDs)
			}
		}
		assert.Len(t, scenario.LockedRooms, want, "seed %d", seed)
	}
}
