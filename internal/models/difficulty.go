package models

// Difficulty selects a pacing profile for a generated campaign.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyExpert       Difficulty = "expert"
)

// GroupBounds bound the elimination group sizes the planner may carve for
// one category.
type GroupBounds struct {
	Min int
	Max int
}

// RedHerringSpec configures the misleading side-plots of a difficulty.
type RedHerringSpec struct {
	Count       int
	MustResolve bool
}

// Profile is the full pacing configuration of a difficulty. ActDistribution
// always sums to ClueCount.
type Profile struct {
	ClueCount          int
	ActDistribution    [3]int
	RedHerrings        RedHerringSpec
	DramaticEventCount int
	GroupBounds        map[Category]GroupBounds
}

var profiles = map[Difficulty]Profile{
	DifficultyBeginner: {
		ClueCount:          12,
		ActDistribution:    [3]int{4, 5, 3},
		RedHerrings:        RedHerringSpec{Count: 1, MustResolve: true},
		DramaticEventCount: 2,
		GroupBounds: map[Category]GroupBounds{
			CategorySuspect:  {Min: 1, Max: 4},
			CategoryItem:     {Min: 1, Max: 4},
			CategoryLocation: {Min: 1, Max: 4},
			CategoryTime:     {Min: 1, Max: 4},
		},
	},
	DifficultyIntermediate: {
		ClueCount:          16,
		ActDistribution:    [3]int{5, 7, 4},
		RedHerrings:        RedHerringSpec{Count: 2, MustResolve: true},
		DramaticEventCount: 3,
		GroupBounds: map[Category]GroupBounds{
			CategorySuspect:  {Min: 1, Max: 3},
			CategoryItem:     {Min: 1, Max: 3},
			CategoryLocation: {Min: 1, Max: 3},
			CategoryTime:     {Min: 1, Max: 3},
		},
	},
	DifficultyExpert: {
		ClueCount:          20,
		ActDistribution:    [3]int{6, 9, 5},
		RedHerrings:        RedHerringSpec{Count: 3, MustResolve: false},
		DramaticEventCount: 4,
		GroupBounds: map[Category]GroupBounds{
			CategorySuspect:  {Min: 1, Max: 3},
			CategoryItem:     {Min: 1, Max: 3},
			CategoryLocation: {Min: 1, Max: 3},
			CategoryTime:     {Min: 1, Max: 3},
		},
	},
}

// Profile returns the pacing profile for the difficulty. The second return
// value reports whether the difficulty is known.
func (d Difficulty) Profile() (Profile, bool) {
	profile, ok := profiles[d]
	return profile, ok
}

// Difficulties returns the supported difficulties in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyExpert}
}
