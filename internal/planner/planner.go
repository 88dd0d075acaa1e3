// Package planner assembles campaign plans: it draws a hidden solution and
// constructs the full ordered programme of eliminations, red herrings,
// dramatic events, and narrative threads for a difficulty profile.
//
// Planning is deterministic: the same (seed, difficulty, exclusions, theme)
// always yields the same plan, and the construction only ever draws
// elimination targets from pools that exclude the solution, so a plan built
// from valid inputs cannot eliminate its own answer.
package planner

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/myrjola/whodunit/internal/errors"
	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/random"
	"github.com/myrjola/whodunit/internal/registry"
	"github.com/myrjola/whodunit/internal/rng"
)

// ErrConfiguration is the root of all configuration errors. Callers can
// distinguish bad requests from internal failures with errors.Is.
var ErrConfiguration = errors.NewSentinel("invalid generation configuration")

var (
	ErrUnknownDifficulty    = fmt.Errorf("%w: unknown difficulty", ErrConfiguration)
	ErrUnknownTheme         = fmt.Errorf("%w: unknown theme", ErrConfiguration)
	ErrUnknownElement       = fmt.Errorf("%w: unknown element in exclusion list", ErrConfiguration)
	ErrImpossibleExclusions = fmt.Errorf("%w: exclusions leave no eligible solution", ErrConfiguration)
	ErrInsufficientElements = fmt.Errorf("%w: exclusions leave no elimination targets", ErrConfiguration)
)

// planNamespace anchors the deterministic plan ids. Never change it: plan
// ids are part of the reproducibility contract.
var planNamespace = uuid.MustParse("8e0b936e-2cf3-46d5-b0c5-9f5f4fbe6d5a")

// backReferenceChance is the per-clue probability of referring back to the
// previous clue of the same category.
const backReferenceChance = 0.35

// Request configures one plan generation.
type Request struct {
	Difficulty models.Difficulty
	// ThemeID selects a theme; empty means a seeded random pick.
	ThemeID string
	// Seed makes the plan reproducible. Nil draws a high-entropy seed, which
	// is only acceptable for interactive, non-replayable calls.
	Seed *int64
	// Exclude removes elements from solution and target eligibility.
	Exclude map[models.Category][]string
}

// Planner builds campaign plans.
type Planner struct {
	logger *slog.Logger
}

// New creates a Planner.
func New(logger *slog.Logger) *Planner {
	return &Planner{
		logger: logger.With("source", "Planner"),
	}
}

// Plan assembles a campaign plan for the request. Configuration problems
// (unknown difficulty or theme, exclusions that empty a category) fail with
// an error chained to ErrConfiguration; structural shortfalls such as
// under-coverage degrade to validator warnings instead.
func (p *Planner) Plan(req Request) (*models.CampaignPlan, error) {
	profile, ok := req.Difficulty.Profile()
	if !ok {
		return nil, errors.Wrap(ErrUnknownDifficulty, "plan",
			slog.String("difficulty", string(req.Difficulty)))
	}
	if req.ThemeID != "" {
		if _, ok = registry.ThemeByID(req.ThemeID); !ok {
			return nil, errors.Wrap(ErrUnknownTheme, "plan", slog.String("themeId", req.ThemeID))
		}
	}
	excluded, err := normaliseExclusions(req.Exclude)
	if err != nil {
		return nil, err
	}

	seed, err := resolveSeed(req.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "resolve seed")
	}
	src := rng.New(seed)

	// Draw order below is fixed forever: solution, theme, per-category
	// groups, act assembly, red herrings, dramatic events, threads.
	solution, err := drawSolution(src, excluded)
	if err != nil {
		return nil, err
	}

	themeID := req.ThemeID
	if themeID == "" {
		themeID = rng.Pick(src, registry.Themes()).ID
	}

	groups := carveAllGroups(src, profile, solution, excluded)
	clues := assembleActs(src, profile, solution, groups)
	redHerrings := drawRedHerrings(src, profile, solution, excluded, clues)
	events := drawDramaticEvents(src, profile, clues)
	threads := buildThreads(src, clues, redHerrings)

	plan := &models.CampaignPlan{
		ID:             planID(seed, req.Difficulty, themeID, excluded),
		Seed:           seed,
		Difficulty:     req.Difficulty,
		ThemeID:        themeID,
		Solution:       solution,
		Clues:          clues,
		RedHerrings:    redHerrings,
		DramaticEvents: events,
		Threads:        threads,
	}

	p.logger.Debug("assembled campaign plan",
		slog.String("planId", plan.ID),
		slog.Int64("seed", seed),
		slog.String("difficulty", string(req.Difficulty)),
		slog.Int("clues", len(clues)))

	return plan, nil
}

func resolveSeed(seed *int64) (int64, error) {
	if seed != nil {
		return *seed, nil
	}
	return random.NewSeed()
}

// normaliseExclusions verifies every excluded id exists and returns a
// per-category lookup set.
func normaliseExclusions(exclude map[models.Category][]string) (map[models.Category]map[string]bool, error) {
	excluded := map[models.Category]map[string]bool{}
	for _, category := range models.Categories() {
		excluded[category] = map[string]bool{}
	}
	for category, ids := range exclude {
		for _, id := range ids {
			if _, ok := registry.LookupElement(category, id); !ok {
				return nil, errors.Wrap(ErrUnknownElement, "normalise exclusions",
					slog.String("category", string(category)), slog.String("id", id))
			}
			excluded[category][id] = true
		}
	}
	for _, category := range models.Categories() {
		eligible := len(registry.ElementsFor(category)) - len(excluded[category])
		if eligible < 1 {
			return nil, errors.Wrap(ErrImpossibleExclusions, "normalise exclusions",
				slog.String("category", string(category)))
		}
		if eligible < 2 {
			// A lone eligible element must become the solution and leaves the
			// category without a single possible elimination target.
			return nil, errors.Wrap(ErrInsufficientElements, "normalise exclusions",
				slog.String("category", string(category)))
		}
	}
	return excluded, nil
}

func drawSolution(src *rng.Source, excluded map[models.Category]map[string]bool) (models.Solution, error) {
	var solution models.Solution
	for _, category := range models.Categories() {
		var eligible []string
		for _, element := range registry.ElementsFor(category) {
			if !excluded[category][element.ID] {
				eligible = append(eligible, element.ID)
			}
		}
		if len(eligible) == 0 {
			return solution, errors.Wrap(ErrImpossibleExclusions, "draw solution",
				slog.String("category", string(category)))
		}
		id := rng.Pick(src, eligible)
		switch category {
		case models.CategorySuspect:
			solution.SuspectID = id
		case models.CategoryItem:
			solution.ItemID = id
		case models.CategoryLocation:
			solution.LocationID = id
		case models.CategoryTime:
			solution.TimeID = id
		}
	}
	return solution, nil
}

// targetPool lists the elements of a category that may be eliminated: never
// the solution, never an excluded element.
func targetPool(category models.Category, solution models.Solution, excluded map[models.Category]map[string]bool) []string {
	var pool []string
	for _, element := range registry.ElementsFor(category) {
		if element.ID == solution.IDFor(category) || excluded[category][element.ID] {
			continue
		}
		pool = append(pool, element.ID)
	}
	return pool
}

// categoryBudgets splits the clue count across categories. Suspects carry
// the most mechanisms and the dramatic weight, so they get the largest
// share; the time category gives one up in exchange.
func categoryBudgets(clueCount int) map[models.Category]int {
	base := clueCount / 4
	budgets := map[models.Category]int{
		models.CategorySuspect:  base,
		models.CategoryItem:     base,
		models.CategoryLocation: base,
		models.CategoryTime:     base,
	}
	if base >= 2 {
		budgets[models.CategorySuspect]++
		budgets[models.CategoryTime]--
	}
	remainder := clueCount % 4
	for _, category := range []models.Category{models.CategorySuspect, models.CategoryItem, models.CategoryLocation} {
		if remainder == 0 {
			break
		}
		budgets[category]++
		remainder--
	}
	return budgets
}

type eliminationGroup struct {
	category  models.Category
	targetIDs []string
}

// carveAllGroups partitions each category's target pool into elimination
// groups. Sizes descend from the category's Max bound toward its Min so the
// pacing curve can put broad eliminations early and decisive singles late.
// Under-coverage (budget exhausted before the pool) is tolerated.
func carveAllGroups(src *rng.Source, profile models.Profile, solution models.Solution,
	excluded map[models.Category]map[string]bool) []eliminationGroup {
	budgets := categoryBudgets(profile.ClueCount)
	var groups []eliminationGroup
	for _, category := range models.Categories() {
		pool := rng.Shuffle(src, targetPool(category, solution, excluded))
		budget := budgets[category]
		bounds := profile.GroupBounds[category]
		for i := 0; i < budget && len(pool) > 0; i++ {
			size := desiredGroupSize(bounds, i, budget)
			// Leave at least one element for every remaining group so the
			// budget fills whenever the pool allows it.
			groupsLeft := budget - i - 1
			if most := len(pool) - groupsLeft; size > most {
				size = most
			}
			if size < 1 {
				size = 1
			}
			if size > len(pool) {
				size = len(pool)
			}
			groups = append(groups, eliminationGroup{category: category, targetIDs: pool[:size]})
			pool = pool[size:]
		}
	}
	return groups
}

// desiredGroupSize descends linearly from the Max bound to the Min bound
// across the category's budget.
func desiredGroupSize(bounds models.GroupBounds, index, budget int) int {
	if budget <= 1 {
		return bounds.Max
	}
	span := float64(bounds.Max - bounds.Min)
	frac := float64(index) / float64(budget-1)
	size := bounds.Max - int(frac*span+0.5)
	if size < bounds.Min {
		size = bounds.Min
	}
	if size > bounds.Max {
		size = bounds.Max
	}
	return size
}

// assembleActs distributes the elimination groups over the three acts:
// act 1 gets the broadest groups, act 3 the decisive singles. Within an act
// the category order is a seeded shuffle.
func assembleActs(src *rng.Source, profile models.Profile, solution models.Solution,
	groups []eliminationGroup) []models.PlannedClue {
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].targetIDs) > len(groups[j].targetIDs)
	})

	lastPositionByCategory := map[models.Category]int{}
	clues := make([]models.PlannedClue, 0, len(groups))
	position := 1
	index := 0
	for act := 1; act <= 3; act++ {
		quota := profile.ActDistribution[act-1]
		if remaining := len(groups) - index; quota > remaining {
			quota = remaining
		}
		actGroups := rng.Shuffle(src, groups[index:index+quota])
		index += quota
		for actIndex, group := range actGroups {
			clue := buildClue(src, position, act, toneFor(act, actIndex, quota), group, solution)
			if last, ok := lastPositionByCategory[group.category]; ok && src.Next() < backReferenceChance {
				clue.BackReferences = []int{last}
			}
			lastPositionByCategory[group.category] = position
			clues = append(clues, clue)
			position++
		}
	}
	return clues
}

// toneFor implements the pacing curve: act 1 establishes, act 2 develops and
// then escalates from its midpoint, act 3 reveals.
func toneFor(act, indexInAct, actQuota int) models.Tone {
	switch act {
	case 1:
		return models.ToneEstablishing
	case 2:
		if indexInAct < actQuota/2 {
			return models.ToneDeveloping
		}
		return models.ToneEscalating
	default:
		return models.ToneRevealing
	}
}

func buildClue(src *rng.Source, position, act int, tone models.Tone,
	group eliminationGroup, solution models.Solution) models.PlannedClue {
	class := models.GroupSizeClass(len(group.targetIDs))
	eliminationType := rng.Pick(src, models.EliminationTypesFor(group.category, class))
	meta := eliminationType.Meta()

	elimination := models.Elimination{
		Category:  group.category,
		Type:      eliminationType,
		TargetIDs: group.targetIDs,
	}
	// Alibi-style mechanisms anchor their story to a concrete place and
	// hour. The anchors are narrative only and never the solution's own
	// elements, so they leak nothing.
	switch eliminationType {
	case models.SuspectGroupAlibi, models.SuspectWitnessSighting, models.SuspectDecisiveAlibi:
		elimination.AlibiLocationID = pickNonSolution(src, models.CategoryLocation, solution)
		elimination.AlibiTimeID = pickNonSolution(src, models.CategoryTime, solution)
	case models.ItemLockedAway:
		elimination.AlibiLocationID = pickNonSolution(src, models.CategoryLocation, solution)
	}

	return models.PlannedClue{
		Position:    position,
		Act:         act,
		Tone:        tone,
		Speaker:     meta.PreferredSpeaker,
		Elimination: elimination,
	}
}

func pickNonSolution(src *rng.Source, category models.Category, solution models.Solution) string {
	var pool []string
	for _, element := range registry.ElementsFor(category) {
		if element.ID != solution.IDFor(category) {
			pool = append(pool, element.ID)
		}
	}
	return rng.Pick(src, pool)
}

// drawRedHerrings interleaves the difficulty's misleading side-plots. A red
// herring always points at a non-solution element, is introduced in act 1 or
// 2, and is paired with a later resolving position when the difficulty
// demands it.
func drawRedHerrings(src *rng.Source, profile models.Profile, solution models.Solution,
	excluded map[models.Category]map[string]bool, clues []models.PlannedClue) []models.RedHerring {
	if len(clues) == 0 {
		return nil
	}
	lastPosition := clues[len(clues)-1].Position
	introCutoff := profile.ActDistribution[0] + profile.ActDistribution[1]
	if introCutoff > lastPosition {
		introCutoff = lastPosition
	}

	redHerrings := make([]models.RedHerring, 0, profile.RedHerrings.Count)
	for i := 0; i < profile.RedHerrings.Count; i++ {
		category := rng.Pick(src, models.Categories())
		pool := targetPool(category, solution, excluded)
		if len(pool) == 0 {
			continue
		}
		target := rng.Pick(src, pool)

		maxIntro := introCutoff
		if profile.RedHerrings.MustResolve && maxIntro >= lastPosition {
			maxIntro = lastPosition - 1
		}
		if maxIntro < 1 {
			maxIntro = 1
		}
		herring := models.RedHerring{
			Category:     category,
			TargetID:     target,
			IntroducedAt: src.IntBetween(1, maxIntro),
		}
		if profile.RedHerrings.MustResolve && herring.IntroducedAt < lastPosition {
			herring.ResolvedAt = src.IntBetween(herring.IntroducedAt+1, lastPosition)
		}
		redHerrings = append(redHerrings, herring)
	}
	return redHerrings
}

// drawDramaticEvents schedules atmospheric beats. Each event fires after a
// clue position inside an act its type is suitable for and may involve up to
// two suspects who are still under suspicion at that point, the solution
// suspect included.
func drawDramaticEvents(src *rng.Source, profile models.Profile,
	clues []models.PlannedClue) []models.DramaticEvent {
	if len(clues) == 0 {
		return nil
	}

	plan := models.CampaignPlan{Clues: clues}
	events := make([]models.DramaticEvent, 0, profile.DramaticEventCount)
	for i := 0; i < profile.DramaticEventCount; i++ {
		eventType := rng.Pick(src, models.AllEventTypes())
		var actsWithClues []int
		for _, act := range eventType.SuitableActs() {
			if _, _, ok := plan.ActRange(act); ok {
				actsWithClues = append(actsWithClues, act)
			}
		}
		if len(actsWithClues) == 0 {
			continue
		}
		act := rng.Pick(src, actsWithClues)
		first, last, _ := plan.ActRange(act)
		afterPosition := src.IntBetween(first, last)

		candidates := suspectsStillSuspected(clues, afterPosition)
		involvedCount := src.IntBetween(0, 2)
		if involvedCount > len(candidates) {
			involvedCount = len(candidates)
		}
		involved, err := rng.PickMultiple(src, candidates, involvedCount)
		if err != nil {
			// Unreachable: involvedCount is clamped to the candidate count.
			panic(err)
		}

		events = append(events, models.DramaticEvent{
			Type:               eventType,
			AfterPosition:      afterPosition,
			InvolvedSuspectIDs: involved,
		})
	}
	return events
}

// suspectsStillSuspected returns the suspects no clue up to and including
// position has eliminated. The solution suspect is never a target, so it is
// always among them.
func suspectsStillSuspected(clues []models.PlannedClue, position int) []string {
	eliminated := map[string]bool{}
	for _, clue := range clues {
		if clue.Position > position || clue.Elimination.Category != models.CategorySuspect {
			continue
		}
		for _, id := range clue.Elimination.TargetIDs {
			eliminated[id] = true
		}
	}
	var remaining []string
	for _, element := range registry.Suspects() {
		if !eliminated[element.ID] {
			remaining = append(remaining, element.ID)
		}
	}
	return remaining
}

type threadTemplate struct {
	name         string
	minClues     int
	maxClues     int
	isRedHerring bool
	candidates   func(clues []models.PlannedClue, redHerrings []models.RedHerring) []int
}

func threadTemplates() []threadTemplate {
	cluePositions := func(match func(models.PlannedClue) bool) func([]models.PlannedClue, []models.RedHerring) []int {
		return func(clues []models.PlannedClue, _ []models.RedHerring) []int {
			var positions []int
			for _, clue := range clues {
				if match(clue) {
					positions = append(positions, clue.Position)
				}
			}
			return positions
		}
	}
	alibiTypes := map[models.EliminationType]bool{
		models.SuspectGroupAlibi:      true,
		models.SuspectWitnessSighting: true,
		models.SuspectDecisiveAlibi:   true,
	}
	return []threadTemplate{
		{
			name: "the true timeline", minClues: 2, maxClues: 4,
			candidates: cluePositions(func(c models.PlannedClue) bool {
				return c.Elimination.Category == models.CategoryTime
			}),
		},
		{
			name: "the alibi network", minClues: 2, maxClues: 5,
			candidates: cluePositions(func(c models.PlannedClue) bool {
				return alibiTypes[c.Elimination.Type]
			}),
		},
		{
			name: "the item trail", minClues: 2, maxClues: 4,
			candidates: cluePositions(func(c models.PlannedClue) bool {
				return c.Elimination.Category == models.CategoryItem
			}),
		},
		{
			name: "the location story", minClues: 2, maxClues: 4,
			candidates: cluePositions(func(c models.PlannedClue) bool {
				return c.Elimination.Category == models.CategoryLocation
			}),
		},
		{
			name: "the false lead", minClues: 1, maxClues: 4, isRedHerring: true,
			candidates: func(_ []models.PlannedClue, redHerrings []models.RedHerring) []int {
				var positions []int
				for _, herring := range redHerrings {
					positions = append(positions, herring.IntroducedAt)
					if herring.ResolvedAt > 0 {
						positions = append(positions, herring.ResolvedAt)
					}
				}
				return positions
			},
		},
		{
			name: "suspicious behaviour", minClues: 2, maxClues: 3, isRedHerring: true,
			candidates: cluePositions(func(c models.PlannedClue) bool {
				return c.Act == 2 && c.Elimination.Category == models.CategorySuspect
			}),
		},
	}
}

// buildThreads groups clue positions into named storylines. Templates that
// cannot meet their minimum clue count are skipped.
func buildThreads(src *rng.Source, clues []models.PlannedClue, redHerrings []models.RedHerring) []models.NarrativeThread {
	var threads []models.NarrativeThread
	for _, template := range threadTemplates() {
		candidates := template.candidates(clues, redHerrings)
		candidates = dedupeSorted(candidates)
		if len(candidates) < template.minClues {
			continue
		}
		most := template.maxClues
		if most > len(candidates) {
			most = len(candidates)
		}
		count := src.IntBetween(template.minClues, most)
		positions, err := rng.PickMultiple(src, candidates, count)
		if err != nil {
			// Unreachable: count is clamped to the candidate count.
			panic(err)
		}
		sort.Ints(positions)
		threads = append(threads, models.NarrativeThread{
			Name:          template.name,
			CluePositions: positions,
			IsRedHerring:  template.isRedHerring,
		})
	}
	return threads
}

func dedupeSorted(values []int) []int {
	sort.Ints(values)
	var out []int
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// planID derives a stable identifier from the generation inputs so that
// identical requests reproduce identical plans, ids included.
func planID(seed int64, difficulty models.Difficulty, themeID string,
	excluded map[models.Category]map[string]bool) string {
	var parts []string
	for _, category := range models.Categories() {
		var ids []string
		for id := range excluded[category] {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		parts = append(parts, fmt.Sprintf("%s=%s", category, strings.Join(ids, ",")))
	}
	key := fmt.Sprintf("plan|%d|%s|%s|%s", seed, difficulty, themeID, strings.Join(parts, ";"))
	return uuid.NewSHA1(planNamespace, []byte(key)).String()
}
