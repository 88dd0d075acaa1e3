package models

// RenderedClue pairs a planned elimination with its player-facing text.
type RenderedClue struct {
	Position    int         `json:"position"`
	Act         int         `json:"act"`
	Speaker     Speaker     `json:"speaker"`
	Tone        Tone        `json:"tone"`
	Text        string      `json:"text"`
	Elimination Elimination `json:"elimination"`
}

// RenderedEvent is a dramatic event with its prose.
type RenderedEvent struct {
	Type          EventType `json:"type"`
	AfterPosition int       `json:"afterPosition"`
	Text          string    `json:"text"`
}

// Narrative holds the framing paragraphs of a scenario.
type Narrative struct {
	Opening    string `json:"opening"`
	Setting    string `json:"setting"`
	Atmosphere string `json:"atmosphere"`
	Closing    string `json:"closing"`
}

// GeneratedScenario is a campaign plan rendered to text. It is derived from
// exactly one plan and, like the plan, never mutated. Downstream layers
// (persistence, prose enhancement, delivery) consume it whole.
type GeneratedScenario struct {
	ID             string          `json:"id"`
	PlanID         string          `json:"planId"`
	Seed           int64           `json:"seed"`
	Difficulty     Difficulty      `json:"difficulty"`
	ThemeID        string          `json:"themeId"`
	Title          string          `json:"title"`
	Solution       Solution        `json:"solution"`
	Clues          []RenderedClue  `json:"clues"`
	Events         []RenderedEvent `json:"events"`
	Narrative      Narrative       `json:"narrative"`
	InspectorNotes []string        `json:"inspectorNotes"`
	LockedRooms    []string        `json:"lockedRooms"`
}
