package models

// Elimination is the logical payload of a clue: it removes TargetIDs from
// suspicion within one category. TargetIDs never contain the solution's id
// for that category.
type Elimination struct {
	Category Category        `json:"category"`
	Type     EliminationType `json:"type"`
	// TargetIDs is a non-empty subset of the non-solution elements of Category.
	TargetIDs []string `json:"targetIds"`
	// AlibiLocationID and AlibiTimeID optionally anchor the clue's story,
	// e.g. where a group alibi took place. Never the solution's own elements.
	AlibiLocationID string `json:"alibiLocationId,omitempty"`
	AlibiTimeID     string `json:"alibiTimeId,omitempty"`
}

// PlannedClue is one step of the campaign: a position in the reveal order,
// pacing metadata, and the elimination it performs.
type PlannedClue struct {
	Position int     `json:"position"`
	Act      int     `json:"act"`
	Tone     Tone    `json:"tone"`
	Speaker  Speaker `json:"speaker"`
	// BackReferences lists earlier clue positions this clue builds on.
	// Every entry is strictly less than Position.
	BackReferences []int       `json:"backReferences,omitempty"`
	Elimination    Elimination `json:"elimination"`
}

// RedHerring is a deliberately misleading pointer at a non-solution element.
// ResolvedAt is zero when the herring is left dangling.
type RedHerring struct {
	Category     Category `json:"category"`
	TargetID     string   `json:"targetId"`
	IntroducedAt int      `json:"introducedAt"`
	ResolvedAt   int      `json:"resolvedAt,omitempty"`
}

// EventType is an atmospheric beat fired between clues. Events carry no
// logical weight.
type EventType string

const (
	EventThunderclap      EventType = "thunderclap"
	EventPowerOutage      EventType = "power_outage"
	EventScream           EventType = "scream"
	EventCollapse         EventType = "collapse"
	EventAccusation       EventType = "accusation"
	EventDepartureBlocked EventType = "departure_blocked"
)

// AllEventTypes returns every dramatic event type in a fixed order.
func AllEventTypes() []EventType {
	return []EventType{
		EventThunderclap, EventPowerOutage, EventScream,
		EventCollapse, EventAccusation, EventDepartureBlocked,
	}
}

// SuitableActs reports the acts an event type may fire in.
func (e EventType) SuitableActs() []int {
	switch e {
	case EventThunderclap, EventPowerOutage:
		return []int{1, 2}
	case EventScream:
		return []int{2}
	case EventCollapse, EventAccusation:
		return []int{2, 3}
	case EventDepartureBlocked:
		return []int{1, 2, 3}
	default:
		return nil
	}
}

// DramaticEvent fires after a clue position and may pull currently
// non-eliminated suspects into the scene. It may involve the solution
// suspect; the validator flags that for review as possible misdirection.
type DramaticEvent struct {
	Type               EventType `json:"type"`
	AfterPosition      int       `json:"afterPosition"`
	InvolvedSuspectIDs []string  `json:"involvedSuspectIds,omitempty"`
}

// NarrativeThread groups clue positions that share a storyline. Threads are
// narrative glue, not logic; every referenced position must exist.
type NarrativeThread struct {
	Name          string `json:"name"`
	CluePositions []int  `json:"cluePositions"`
	IsRedHerring  bool   `json:"isRedHerring"`
}

// CampaignPlan is the aggregate output of the planner: the hidden solution
// plus the full ordered clue programme. Plans are immutable once built;
// regeneration produces a new plan.
type CampaignPlan struct {
	ID             string            `json:"id"`
	Seed           int64             `json:"seed"`
	Difficulty     Difficulty        `json:"difficulty"`
	ThemeID        string            `json:"themeId"`
	Solution       Solution          `json:"solution"`
	Clues          []PlannedClue     `json:"clues"`
	RedHerrings    []RedHerring      `json:"redHerrings"`
	DramaticEvents []DramaticEvent   `json:"dramaticEvents"`
	Threads        []NarrativeThread `json:"threads"`
}

// ActRange returns the first and last clue positions of an act, based on the
// acts recorded on the plan's clues. ok is false when the act has no clues.
func (p *CampaignPlan) ActRange(act int) (first, last int, ok bool) {
	for _, clue := range p.Clues {
		if clue.Act != act {
			continue
		}
		if !ok || clue.Position < first {
			first = clue.Position
		}
		if clue.Position > last {
			last = clue.Position
		}
		ok = true
	}
	return first, last, ok
}
