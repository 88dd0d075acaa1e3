// Package validate re-checks every structural invariant of a campaign plan
// or rendered scenario. The planner is built so that valid inputs cannot
// produce a hard error; this package is the safety net for plans and
// scenarios arriving from paths the planner does not control, such as a
// scenario whose prose came back from an external language model, and the
// acceptance test for any alternate construction path.
package validate

import (
	"fmt"
	"sort"

	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/registry"
)

// Error codes. A plan with any error is unusable for play.
const (
	ErrCodeSolutionTargeted   = "solution_targeted"
	ErrCodeUnknownElement     = "unknown_element"
	ErrCodeBrokenSequence     = "broken_sequence"
	ErrCodeEmptyClueText      = "empty_clue_text"
	ErrCodeEmptyTargets       = "empty_targets"
	ErrCodeScenarioMismatch   = "scenario_mismatch"
	ErrCodeRedHerringSolution = "red_herring_targets_solution"
)

// Warning codes. Warnings are advisory; the plan remains usable.
const (
	WarnIncompleteCoverage    = "incomplete_coverage"
	WarnActQuotaMismatch      = "act_quota_mismatch"
	WarnRedHerringUnresolved  = "red_herring_unresolved"
	WarnThreadEmpty           = "thread_empty"
	WarnThreadUnknownPosition = "thread_unknown_position"
	WarnEventOutOfRange       = "event_out_of_range"
	WarnBackReferenceOrder    = "back_reference_order"
	WarnEventInvolvesSolution = "event_involves_solution"
)

// Finding is one validation outcome, error or warning.
type Finding struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// CategoryCoverage reports how much of a category's non-solution pool the
// plan's eliminations reach.
type CategoryCoverage struct {
	Total   int      `json:"total"`
	Covered int      `json:"covered"`
	Missing []string `json:"missing"`
}

// Result is the full validation outcome.
type Result struct {
	Valid    bool                                 `json:"valid"`
	Errors   []Finding                            `json:"errors"`
	Warnings []Finding                            `json:"warnings"`
	Coverage map[models.Category]CategoryCoverage `json:"coverage"`
}

func (r *Result) addError(code, message, field string) {
	r.Errors = append(r.Errors, Finding{Code: code, Message: message, Field: field})
	r.Valid = false
}

func (r *Result) addWarning(code, message, suggestion string) {
	r.Warnings = append(r.Warnings, Finding{Code: code, Message: message, Suggestion: suggestion})
}

// Plan validates a campaign plan. It never mutates the plan.
func Plan(plan *models.CampaignPlan) Result {
	result := Result{Valid: true}

	checkSolutionReferences(plan, &result)
	checkClues(plan, &result)
	checkRedHerrings(plan, &result)
	checkDramaticEvents(plan, &result)
	checkThreads(plan, &result)
	checkActQuotas(plan, &result)
	result.Coverage = coverage(plan, &result)

	return result
}

// Scenario validates a rendered scenario against its plan, then folds in the
// plan's own validation. Use it to re-check scenarios whose prose was
// produced or rewritten outside the core renderer.
func Scenario(scenario *models.GeneratedScenario, plan *models.CampaignPlan) Result {
	result := Plan(plan)

	if scenario.PlanID != plan.ID {
		result.addError(ErrCodeScenarioMismatch,
			fmt.Sprintf("scenario %s derives from plan %s, not %s", scenario.ID, scenario.PlanID, plan.ID),
			"planId")
	}
	if len(scenario.Clues) != len(plan.Clues) {
		result.addError(ErrCodeScenarioMismatch,
			fmt.Sprintf("scenario has %d clues, plan has %d", len(scenario.Clues), len(plan.Clues)),
			"clues")
	}

	for _, clue := range scenario.Clues {
		field := fmt.Sprintf("clues[%d]", clue.Position)
		if clue.Text == "" {
			result.addError(ErrCodeEmptyClueText,
				fmt.Sprintf("clue %d has empty text", clue.Position), field)
		}
		solutionID := plan.Solution.IDFor(clue.Elimination.Category)
		for _, target := range clue.Elimination.TargetIDs {
			if target == solutionID {
				result.addError(ErrCodeSolutionTargeted,
					fmt.Sprintf("rendered clue %d eliminates the solution %s", clue.Position, clue.Elimination.Category),
					field)
			}
		}
	}

	return result
}

// checkSolutionReferences verifies the solution's ids exist in the registry.
func checkSolutionReferences(plan *models.CampaignPlan, result *Result) {
	for _, category := range models.Categories() {
		id := plan.Solution.IDFor(category)
		if _, ok := registry.LookupElement(category, id); !ok {
			result.addError(ErrCodeUnknownElement,
				fmt.Sprintf("solution references unknown %s %q", category, id),
				fmt.Sprintf("solution.%s", category))
		}
	}
}

func checkClues(plan *models.CampaignPlan, result *Result) {
	for i, clue := range plan.Clues {
		field := fmt.Sprintf("clues[%d]", clue.Position)

		// Positions must be exactly 1..N in order.
		if clue.Position != i+1 {
			result.addError(ErrCodeBrokenSequence,
				fmt.Sprintf("clue at index %d has position %d, want %d", i, clue.Position, i+1),
				field)
		}

		if len(clue.Elimination.TargetIDs) == 0 {
			result.addError(ErrCodeEmptyTargets,
				fmt.Sprintf("clue %d eliminates nothing", clue.Position), field)
		}

		solutionID := plan.Solution.IDFor(clue.Elimination.Category)
		for _, target := range clue.Elimination.TargetIDs {
			if target == solutionID {
				result.addError(ErrCodeSolutionTargeted,
					fmt.Sprintf("clue %d eliminates the solution %s %q", clue.Position, clue.Elimination.Category, target),
					field)
			}
			if _, ok := registry.LookupElement(clue.Elimination.Category, target); !ok {
				result.addError(ErrCodeUnknownElement,
					fmt.Sprintf("clue %d targets unknown %s %q", clue.Position, clue.Elimination.Category, target),
					field)
			}
		}

		for _, ref := range clue.BackReferences {
			if ref >= clue.Position || ref < 1 {
				result.addWarning(WarnBackReferenceOrder,
					fmt.Sprintf("clue %d references position %d, which is not earlier", clue.Position, ref),
					"back-references must point strictly to earlier clues")
			}
		}
	}
}

func checkRedHerrings(plan *models.CampaignPlan, result *Result) {
	profile, hasProfile := plan.Difficulty.Profile()
	for i, herring := range plan.RedHerrings {
		field := fmt.Sprintf("redHerrings[%d]", i)

		if herring.TargetID == plan.Solution.IDFor(herring.Category) {
			result.addError(ErrCodeRedHerringSolution,
				fmt.Sprintf("red herring %d points at the solution %s", i, herring.Category), field)
		}
		if _, ok := registry.LookupElement(herring.Category, herring.TargetID); !ok {
			result.addError(ErrCodeUnknownElement,
				fmt.Sprintf("red herring %d targets unknown %s %q", i, herring.Category, herring.TargetID),
				field)
		}

		mustResolve := hasProfile && profile.RedHerrings.MustResolve
		if mustResolve && herring.ResolvedAt == 0 {
			result.addWarning(WarnRedHerringUnresolved,
				fmt.Sprintf("red herring %d is never resolved but the difficulty requires it", i),
				"pair the herring with a later resolving clue position")
		}
		if herring.ResolvedAt != 0 && herring.ResolvedAt <= herring.IntroducedAt {
			result.addWarning(WarnRedHerringUnresolved,
				fmt.Sprintf("red herring %d resolves at %d, not after its introduction at %d",
					i, herring.ResolvedAt, herring.IntroducedAt),
				"resolution must come after introduction")
		}
	}
}

func checkDramaticEvents(plan *models.CampaignPlan, result *Result) {
	lastPosition := len(plan.Clues)
	for i, event := range plan.DramaticEvents {
		if event.AfterPosition < 1 || event.AfterPosition > lastPosition {
			result.addWarning(WarnEventOutOfRange,
				fmt.Sprintf("dramatic event %d fires after position %d, outside 1..%d",
					i, event.AfterPosition, lastPosition),
				"move the event inside the clue sequence")
		}
		for _, suspectID := range event.InvolvedSuspectIDs {
			if suspectID == plan.Solution.SuspectID {
				// Legal misdirection, but worth a reviewer's glance.
				result.addWarning(WarnEventInvolvesSolution,
					fmt.Sprintf("dramatic event %d involves the solution suspect", i),
					"confirm the misdirection is intentional")
			}
		}
	}
}

func checkThreads(plan *models.CampaignPlan, result *Result) {
	positions := map[int]bool{}
	for _, clue := range plan.Clues {
		positions[clue.Position] = true
	}
	for _, thread := range plan.Threads {
		if len(thread.CluePositions) == 0 {
			result.addWarning(WarnThreadEmpty,
				fmt.Sprintf("narrative thread %q has no clues", thread.Name),
				"drop the thread or assign clue positions")
			continue
		}
		for _, position := range thread.CluePositions {
			if !positions[position] {
				result.addWarning(WarnThreadUnknownPosition,
					fmt.Sprintf("narrative thread %q references missing position %d", thread.Name, position),
					"threads may only reference existing clue positions")
			}
		}
	}
}

func checkActQuotas(plan *models.CampaignPlan, result *Result) {
	profile, ok := plan.Difficulty.Profile()
	if !ok {
		return
	}
	counts := map[int]int{}
	for _, clue := range plan.Clues {
		counts[clue.Act]++
	}
	for act := 1; act <= 3; act++ {
		if counts[act] != profile.ActDistribution[act-1] {
			result.addWarning(WarnActQuotaMismatch,
				fmt.Sprintf("act %d has %d clues, profile wants %d", act, counts[act], profile.ActDistribution[act-1]),
				"usually caused by exclusions shrinking the target pools")
		}
	}
}

// coverage unions all elimination targets per category and reports what the
// plan never touches. Incomplete coverage is a warning, not an error: play
// remains possible, players simply deduce the rest. Kept advisory pending an
// explicit product decision.
func coverage(plan *models.CampaignPlan, result *Result) map[models.Category]CategoryCoverage {
	stats := map[models.Category]CategoryCoverage{}
	for _, category := range models.Categories() {
		covered := map[string]bool{}
		for _, clue := range plan.Clues {
			if clue.Elimination.Category != category {
				continue
			}
			for _, target := range clue.Elimination.TargetIDs {
				covered[target] = true
			}
		}

		var missing []string
		total := 0
		for _, element := range registry.ElementsFor(category) {
			if element.ID == plan.Solution.IDFor(category) {
				continue
			}
			total++
			if !covered[element.ID] {
				missing = append(missing, element.ID)
			}
		}
		sort.Strings(missing)

		stats[category] = CategoryCoverage{
			Total:   total,
			Covered: total - len(missing),
			Missing: missing,
		}
		if len(missing) > 0 {
			result.addWarning(WarnIncompleteCoverage,
				fmt.Sprintf("%d %ss are never eliminated: %v", len(missing), category, missing),
				"players will have to deduce these by exhaustion")
		}
	}
	return stats
}
