// Package render turns planned clues into player-facing text. Rendering is
// a pure function of the plan and the seeded source: no ambient randomness,
// no caches. The rendered scenario is self-sufficient; any downstream prose
// enhancement is optional and replaces text strings only.
package render

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/myrjola/whodunit/internal/errors"
	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/registry"
	"github.com/myrjola/whodunit/internal/rng"
)

// ErrUnknownEliminationType indicates a mechanism the renderer has no
// template for. The exhaustiveness test keeps this unreachable for the
// mechanisms the planner can emit.
var ErrUnknownEliminationType = errors.NewSentinel("no template for elimination type")

// scenarioNamespace anchors deterministic scenario ids, derived from the
// plan id. Never change it.
var scenarioNamespace = uuid.MustParse("4f9be4a4-68a1-40f7-9cc5-1a2e9a3c7b42")

// Renderer renders campaign plans into scenarios.
type Renderer struct{}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Scenario renders the whole plan: clue texts, dramatic events, framing
// narrative, inspector notes, and the locked-room list. The source must be
// dedicated to this call; sharing it across concurrent renders breaks
// reproducibility.
func (r *Renderer) Scenario(plan *models.CampaignPlan, src *rng.Source) (*models.GeneratedScenario, error) {
	theme, ok := registry.ThemeByID(plan.ThemeID)
	if !ok {
		return nil, errors.New("unknown theme on plan", slog.String("themeId", plan.ThemeID))
	}

	clues := make([]models.RenderedClue, 0, len(plan.Clues))
	for _, planned := range plan.Clues {
		text, err := r.Clue(planned, plan, src)
		if err != nil {
			return nil, errors.Wrap(err, "render clue", slog.Int("position", planned.Position))
		}
		clues = append(clues, models.RenderedClue{
			Position:    planned.Position,
			Act:         planned.Act,
			Speaker:     planned.Speaker,
			Tone:        planned.Tone,
			Text:        text,
			Elimination: planned.Elimination,
		})
	}

	events := make([]models.RenderedEvent, 0, len(plan.DramaticEvents))
	for _, event := range plan.DramaticEvents {
		events = append(events, models.RenderedEvent{
			Type:          event.Type,
			AfterPosition: event.AfterPosition,
			Text:          eventText(event),
		})
	}

	return &models.GeneratedScenario{
		ID:             uuid.NewSHA1(scenarioNamespace, []byte(plan.ID)).String(),
		PlanID:         plan.ID,
		Seed:           plan.Seed,
		Difficulty:     plan.Difficulty,
		ThemeID:        plan.ThemeID,
		Title:          theme.Name,
		Solution:       plan.Solution,
		Clues:          clues,
		Events:         events,
		Narrative:      narrative(theme, plan.Solution),
		InspectorNotes: inspectorNotes(plan, src),
		LockedRooms:    lockedRooms(plan),
	}, nil
}

// Clue renders one planned clue: the mechanism template wrapped in a
// speaker-voice prefix, with a transition phrase when the clue builds on
// earlier positions.
func (r *Renderer) Clue(clue models.PlannedClue, plan *models.CampaignPlan, src *rng.Source) (string, error) {
	core, err := mechanismText(clue.Elimination, plan.Solution, src)
	if err != nil {
		return "", err
	}
	prefix := rng.Pick(src, voicePrefixes(clue.Speaker, clue.Tone))
	sentence := fmt.Sprintf("%s %s", prefix, core)
	if len(clue.BackReferences) > 0 {
		transition := rng.Pick(src, transitions)
		sentence = fmt.Sprintf("%s %s", transition, sentence)
	}
	return sentence, nil
}

func names(category models.Category, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, registry.ElementName(category, id))
	}
	return out
}

// joinNames renders "A", "A and B", or "A, B and C".
func joinNames(list []string) string {
	switch len(list) {
	case 0:
		return ""
	case 1:
		return list[0]
	default:
		return strings.Join(list[:len(list)-1], ", ") + " and " + list[len(list)-1]
	}
}

// alibiLocation resolves the clue's location anchor, falling back to a
// random non-solution location when the planner left it unset.
func alibiLocation(elimination models.Elimination, solution models.Solution, src *rng.Source) string {
	if elimination.AlibiLocationID != "" {
		return registry.ElementName(models.CategoryLocation, elimination.AlibiLocationID)
	}
	return registry.ElementName(models.CategoryLocation, pickNonSolutionID(models.CategoryLocation, solution, src))
}

func alibiTime(elimination models.Elimination, solution models.Solution, src *rng.Source) string {
	if elimination.AlibiTimeID != "" {
		return registry.ElementName(models.CategoryTime, elimination.AlibiTimeID)
	}
	return registry.ElementName(models.CategoryTime, pickNonSolutionID(models.CategoryTime, solution, src))
}

func pickNonSolutionID(category models.Category, solution models.Solution, src *rng.Source) string {
	var pool []string
	for _, element := range registry.ElementsFor(category) {
		if element.ID != solution.IDFor(category) {
			pool = append(pool, element.ID)
		}
	}
	return rng.Pick(src, pool)
}

// mechanismText is the per-mechanism template dispatch. Every mechanism in
// models.AllEliminationTypes must have a branch here; the exhaustiveness
// test fails otherwise.
func mechanismText(elimination models.Elimination, solution models.Solution, src *rng.Source) (string, error) {
	targets := joinNames(names(elimination.Category, elimination.TargetIDs))

	switch elimination.Type {
	case models.SuspectGroupAlibi:
		return fmt.Sprintf("%s were together in %s at %s, each vouching for the others without hesitation.",
			targets, alibiLocation(elimination, solution, src), alibiTime(elimination, solution, src)), nil
	case models.SuspectWitnessSighting:
		return fmt.Sprintf("a member of staff places %s in %s around %s, far from any mischief.",
			targets, alibiLocation(elimination, solution, src), alibiTime(elimination, solution, src)), nil
	case models.SuspectPhysicalProfile:
		return fmt.Sprintf("the traces left behind could not have been made by %s; the build and reach are all wrong.",
			targets), nil
	case models.SuspectMotiveCleared:
		return fmt.Sprintf("whatever grudges this house harbours, %s stood to gain nothing from the deed.",
			targets), nil
	case models.SuspectDecisiveAlibi:
		return fmt.Sprintf("%s has an unshakeable alibi, sworn and countersigned, for %s in %s.",
			targets, alibiTime(elimination, solution, src), alibiLocation(elimination, solution, src)), nil

	case models.ItemLockedAway:
		return fmt.Sprintf("%s remained under lock and key in %s the entire evening; the key never left the housekeeper's ring.",
			targets, alibiLocation(elimination, solution, src)), nil
	case models.ItemCondition:
		return fmt.Sprintf("the case displaying %s carries an unbroken film of dust; nothing there has been touched in days.",
			targets), nil
	case models.ItemForensicMismatch:
		return fmt.Sprintf("the examiner is categorical: the marks are inconsistent with %s.",
			targets), nil
	case models.ItemAccountedFor:
		return fmt.Sprintf("%s has been accounted for, minute by minute, the whole night through.",
			targets), nil

	case models.LocationCrowded:
		return fmt.Sprintf("%s never emptied of guests; nothing could have happened there unobserved.",
			targets), nil
	case models.LocationSealedOff:
		return fmt.Sprintf("%s had been sealed off for repairs, and the workmen's locks were found undisturbed.",
			targets), nil
	case models.LocationNoTraces:
		return fmt.Sprintf("a careful search of %s turned up no trace of a struggle.",
			targets), nil
	case models.LocationDecisiveWitness:
		return fmt.Sprintf("a witness kept %s in view the whole night; it is beyond suspicion.",
			targets), nil

	case models.TimeAlibiWindow:
		return fmt.Sprintf("between courses the whole household can vouch for one another; nothing happened at %s.",
			targets), nil
	case models.TimeWitnessTimeline:
		return fmt.Sprintf("the staff's recollections align neatly: all was quiet at %s.",
			targets), nil
	case models.TimeClockEvidence:
		return fmt.Sprintf("the hall clock's chime places everyone at table at %s.",
			targets), nil
	case models.TimeDecisiveRecord:
		return fmt.Sprintf("the night porter's log is unambiguous about %s; rule it out.",
			targets), nil

	default:
		return "", errors.Wrap(ErrUnknownEliminationType, "mechanism text",
			slog.String("type", string(elimination.Type)))
	}
}

// voicePrefixes are the 2 speakers x 4 tones prefix pools.
func voicePrefixes(speaker models.Speaker, tone models.Tone) []string {
	if speaker == models.SpeakerButler {
		switch tone {
		case models.ToneEstablishing:
			return []string{
				"The butler clears his throat:",
				"Pouring the sherry, the butler remarks:",
				"The butler offers, apropos of nothing:",
			}
		case models.ToneDeveloping:
			return []string{
				"The butler lowers his voice:",
				"Straightening the silver, the butler confides:",
				"The butler hesitates, then says:",
			}
		case models.ToneEscalating:
			return []string{
				"The butler, uncharacteristically pale, admits:",
				"Gripping the doorframe, the butler blurts:",
				"The butler glances over his shoulder before whispering:",
			}
		default: // revealing
			return []string{
				"The butler, voice steady at last, declares:",
				"With nothing left to protect, the butler states plainly:",
				"The butler sets down the tray and says:",
			}
		}
	}
	switch tone {
	case models.ToneEstablishing:
		return []string{
			"The inspector consults her notebook:",
			"Pacing the hall, the inspector observes:",
			"The inspector begins with the obvious:",
		}
	case models.ToneDeveloping:
		return []string{
			"The inspector taps the notebook twice:",
			"Cross-checking her notes, the inspector adds:",
			"The inspector narrows her eyes:",
		}
	case models.ToneEscalating:
		return []string{
			"The inspector cuts the murmuring short:",
			"Snapping the notebook shut, the inspector announces:",
			"The inspector raises a hand for silence:",
		}
	default: // revealing
		return []string{
			"The inspector turns to face the room:",
			"At last, the inspector lays it out:",
			"The inspector speaks slowly, so nobody mishears:",
		}
	}
}

var transitions = []string{
	"Bearing in mind what we established earlier,",
	"Returning to an earlier point,",
	"This confirms what was hinted at before:",
	"As the earlier testimony already suggested,",
}

// eventText renders a dramatic event, falling back to a generic atmospheric
// line for event types without bespoke prose.
func eventText(event models.DramaticEvent) string {
	involved := joinNames(names(models.CategorySuspect, event.InvolvedSuspectIDs))
	switch event.Type {
	case models.EventThunderclap:
		if involved != "" {
			return fmt.Sprintf("A thunderclap rattles the windows; %s flinches visibly.", involved)
		}
		return "A thunderclap rattles the windows and the candle flames gutter."
	case models.EventPowerOutage:
		if involved != "" {
			return fmt.Sprintf("The lights fail. When they return, %s is standing somewhere else entirely.", involved)
		}
		return "The lights fail for a long breath, then flicker back."
	case models.EventScream:
		if involved != "" {
			return fmt.Sprintf("A scream echoes from upstairs. All eyes turn to %s.", involved)
		}
		return "A scream echoes from upstairs, then silence."
	case models.EventCollapse:
		if involved != "" {
			return fmt.Sprintf("%s goes white and must be helped to a chair.", involved)
		}
		return "Someone sways and must be helped to a chair."
	case models.EventAccusation:
		if involved != "" {
			return fmt.Sprintf("An ugly accusation is hurled across the room at %s before cooler heads prevail.", involved)
		}
		return "An ugly accusation is hurled across the room before cooler heads prevail."
	case models.EventDepartureBlocked:
		if involved != "" {
			return fmt.Sprintf("%s is found trying the side door. It is locked; nobody is leaving tonight.", involved)
		}
		return "The side door is tried and found locked. Nobody is leaving tonight."
	default:
		return "Something shifts in the atmosphere of the house; nobody can say quite what."
	}
}

func narrative(theme registry.Theme, solution models.Solution) models.Narrative {
	return models.Narrative{
		Opening: fmt.Sprintf("%s. The guests have barely settled when word spreads that something terrible has happened in %s.",
			capitalise(theme.Era), theme.Setting),
		Setting:    fmt.Sprintf("The scene is %s, %s.", theme.Setting, theme.Era),
		Atmosphere: fmt.Sprintf("All evening: %s.", theme.Atmosphere),
		Closing: fmt.Sprintf("When the last clue falls into place, the truth is inescapable: it was %s, with %s, in %s, at %s.",
			registry.ElementName(models.CategorySuspect, solution.SuspectID),
			registry.ElementName(models.CategoryItem, solution.ItemID),
			registry.ElementName(models.CategoryLocation, solution.LocationID),
			registry.ElementName(models.CategoryTime, solution.TimeID)),
	}
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// inspectorNotes produces two cross-referencing notes, each citing a pair of
// earlier clue positions and restating their combined eliminations without
// giving the solution away.
func inspectorNotes(plan *models.CampaignPlan, src *rng.Source) []string {
	if len(plan.Clues) < 2 {
		return nil
	}
	notes := make([]string, 0, 2)
	for i := 0; i < 2; i++ {
		pair, err := rng.PickMultiple(src, plan.Clues, 2)
		if err != nil {
			// Unreachable: the length guard above ensures at least two clues.
			panic(err)
		}
		sort.Slice(pair, func(a, b int) bool { return pair[a].Position < pair[b].Position })
		first, second := pair[0], pair[1]
		combined := len(first.Elimination.TargetIDs) + len(second.Elimination.TargetIDs)
		notes = append(notes, fmt.Sprintf(
			"Inspector's note: read clues %d and %d together. Between them, %d possibilities are already closed off: %d among the %ss and %d among the %ss.",
			first.Position, second.Position, combined,
			len(first.Elimination.TargetIDs), first.Elimination.Category,
			len(second.Elimination.TargetIDs), second.Elimination.Category))
	}
	return notes
}

// lockedRooms lists the locations the plan's sealed-off clues removed,
// rendered for the scenario's summary page.
func lockedRooms(plan *models.CampaignPlan) []string {
	var rooms []string
	for _, clue := range plan.Clues {
		if clue.Elimination.Type != models.LocationSealedOff {
			continue
		}
		rooms = append(rooms, names(models.CategoryLocation, clue.Elimination.TargetIDs)...)
	}
	return rooms
}
