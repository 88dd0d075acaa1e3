package models

// Speaker is the narrator voice a clue is delivered in.
type Speaker string

const (
	SpeakerButler    Speaker = "butler"
	SpeakerInspector Speaker = "inspector"
)

// Tone controls the phrasing intensity of a clue, independent of its
// logical content.
type Tone string

const (
	ToneEstablishing Tone = "establishing"
	ToneDeveloping   Tone = "developing"
	ToneEscalating   Tone = "escalating"
	ToneRevealing    Tone = "revealing"
)

// SizeClass buckets elimination mechanisms by their typical target group
// size. Large groups belong in act 1, singles near the end.
type SizeClass string

const (
	SizeSingle SizeClass = "single"
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// GroupSizeClass maps a concrete target count onto a SizeClass.
func GroupSizeClass(size int) SizeClass {
	switch {
	case size <= 1:
		return SizeSingle
	case size == 2:
		return SizeSmall
	case size <= 4:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// EliminationType is one of the 17 clue mechanisms. Every mechanism removes
// non-solution candidates from suspicion; none ever adds a candidate back.
type EliminationType string

const (
	// Suspect mechanisms.
	SuspectGroupAlibi      EliminationType = "suspect_group_alibi"
	SuspectWitnessSighting EliminationType = "suspect_witness_sighting"
	SuspectPhysicalProfile EliminationType = "suspect_physical_profile"
	SuspectMotiveCleared   EliminationType = "suspect_motive_cleared"
	SuspectDecisiveAlibi   EliminationType = "suspect_decisive_alibi"

	// Item mechanisms.
	ItemLockedAway       EliminationType = "item_locked_away"
	ItemCondition        EliminationType = "item_condition"
	ItemForensicMismatch EliminationType = "item_forensic_mismatch"
	ItemAccountedFor     EliminationType = "item_accounted_for"

	// Location mechanisms.
	LocationCrowded         EliminationType = "location_crowded"
	LocationSealedOff       EliminationType = "location_sealed_off"
	LocationNoTraces        EliminationType = "location_no_traces"
	LocationDecisiveWitness EliminationType = "location_decisive_witness"

	// Time mechanisms.
	TimeAlibiWindow     EliminationType = "time_alibi_window"
	TimeWitnessTimeline EliminationType = "time_witness_timeline"
	TimeClockEvidence   EliminationType = "time_clock_evidence"
	TimeDecisiveRecord  EliminationType = "time_decisive_record"
)

// EliminationMeta tags a mechanism with its category affinity, typical
// group-size class, and preferred narrator.
type EliminationMeta struct {
	Category         Category
	SizeClass        SizeClass
	PreferredSpeaker Speaker
}

var eliminationMeta = map[EliminationType]EliminationMeta{
	SuspectGroupAlibi:      {Category: CategorySuspect, SizeClass: SizeLarge, PreferredSpeaker: SpeakerButler},
	SuspectWitnessSighting: {Category: CategorySuspect, SizeClass: SizeMedium, PreferredSpeaker: SpeakerButler},
	SuspectPhysicalProfile: {Category: CategorySuspect, SizeClass: SizeSmall, PreferredSpeaker: SpeakerInspector},
	SuspectMotiveCleared:   {Category: CategorySuspect, SizeClass: SizeSmall, PreferredSpeaker: SpeakerInspector},
	SuspectDecisiveAlibi:   {Category: CategorySuspect, SizeClass: SizeSingle, PreferredSpeaker: SpeakerInspector},

	ItemLockedAway:       {Category: CategoryItem, SizeClass: SizeLarge, PreferredSpeaker: SpeakerButler},
	ItemCondition:        {Category: CategoryItem, SizeClass: SizeMedium, PreferredSpeaker: SpeakerButler},
	ItemForensicMismatch: {Category: CategoryItem, SizeClass: SizeSmall, PreferredSpeaker: SpeakerInspector},
	ItemAccountedFor:     {Category: CategoryItem, SizeClass: SizeSingle, PreferredSpeaker: SpeakerInspector},

	LocationCrowded:         {Category: CategoryLocation, SizeClass: SizeLarge, PreferredSpeaker: SpeakerButler},
	LocationSealedOff:       {Category: CategoryLocation, SizeClass: SizeMedium, PreferredSpeaker: SpeakerButler},
	LocationNoTraces:        {Category: CategoryLocation, SizeClass: SizeSmall, PreferredSpeaker: SpeakerInspector},
	LocationDecisiveWitness: {Category: CategoryLocation, SizeClass: SizeSingle, PreferredSpeaker: SpeakerInspector},

	TimeAlibiWindow:     {Category: CategoryTime, SizeClass: SizeLarge, PreferredSpeaker: SpeakerButler},
	TimeWitnessTimeline: {Category: CategoryTime, SizeClass: SizeMedium, PreferredSpeaker: SpeakerButler},
	TimeClockEvidence:   {Category: CategoryTime, SizeClass: SizeSmall, PreferredSpeaker: SpeakerInspector},
	TimeDecisiveRecord:  {Category: CategoryTime, SizeClass: SizeSingle, PreferredSpeaker: SpeakerInspector},
}

// Meta returns the metadata of the mechanism. Unknown mechanisms are a
// programming error.
func (t EliminationType) Meta() EliminationMeta {
	meta, ok := eliminationMeta[t]
	if !ok {
		panic("models: unknown elimination type " + string(t))
	}
	return meta
}

// AllEliminationTypes returns every mechanism in a fixed order. Consumers
// that dispatch per mechanism (renderer, validator) are tested against this
// list for exhaustiveness.
func AllEliminationTypes() []EliminationType {
	return []EliminationType{
		SuspectGroupAlibi, SuspectWitnessSighting, SuspectPhysicalProfile, SuspectMotiveCleared, SuspectDecisiveAlibi,
		ItemLockedAway, ItemCondition, ItemForensicMismatch, ItemAccountedFor,
		LocationCrowded, LocationSealedOff, LocationNoTraces, LocationDecisiveWitness,
		TimeAlibiWindow, TimeWitnessTimeline, TimeClockEvidence, TimeDecisiveRecord,
	}
}

// EliminationTypesFor returns the mechanisms of a category whose size class
// matches class, falling back to the nearest class when the category has no
// exact match. The returned order is fixed for determinism.
func EliminationTypesFor(category Category, class SizeClass) []EliminationType {
	order := nearestClasses(class)
	for _, candidate := range order {
		var matches []EliminationType
		for _, t := range AllEliminationTypes() {
			meta := t.Meta()
			if meta.Category == category && meta.SizeClass == candidate {
				matches = append(matches, t)
			}
		}
		if len(matches) > 0 {
			return matches
		}
	}
	return nil
}

// nearestClasses orders size classes by distance from class, preferring
// smaller groups on ties so late-act clues stay decisive.
func nearestClasses(class SizeClass) []SizeClass {
	ladder := []SizeClass{SizeSingle, SizeSmall, SizeMedium, SizeLarge}
	start := 0
	for i, c := range ladder {
		if c == class {
			start = i
			break
		}
	}
	ordered := []SizeClass{ladder[start]}
	for step := 1; step < len(ladder); step++ {
		if start-step >= 0 {
			ordered = append(ordered, ladder[start-step])
		}
		if start+step < len(ladder) {
			ordered = append(ordered, ladder[start+step])
		}
	}
	return ordered
}
