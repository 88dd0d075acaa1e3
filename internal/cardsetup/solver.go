// Package cardsetup emulates the physical setup ritual: players pick a
// secret symbol and card position, then select one card per category showing
// that symbol at that position. The solver searches the fixed card-symbol
// matrix forwards (produce a setup) and backwards (explain which symbol and
// position would have selected a given solution).
package cardsetup

import (
	"fmt"

	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/registry"
	"github.com/myrjola/whodunit/internal/rng"
)

// Instruction is one physical step of the setup ritual.
type Instruction struct {
	Step         int             `json:"step"`
	Category     models.Category `json:"category"`
	Instruction  string          `json:"instruction"`
	Symbol       registry.Symbol `json:"symbol"`
	Position     int             `json:"position"`
	PositionName string          `json:"positionName"`
	MatchingCard string          `json:"matchingCard"`
}

// Setup is the forward solver's output: four instructions and the solution
// they select. Fallback is set when no symbol/position pair matched every
// category and the solver degraded to a plain random selection.
type Setup struct {
	Instructions   []Instruction              `json:"instructions"`
	Solution       models.Solution            `json:"solution"`
	SolutionNames  map[models.Category]string `json:"solutionNames"`
	NarrativeIntro string                     `json:"narrativeIntro"`
	Fallback       bool                       `json:"fallback"`
}

// Match is the inverse solver's output.
type Match struct {
	Symbol   registry.Symbol `json:"symbol"`
	Position int             `json:"position"`
}

// Solver searches the card-symbol matrix.
type Solver struct{}

// NewSolver creates a Solver.
func NewSolver() *Solver {
	return &Solver{}
}

type symbolPosition struct {
	symbol   registry.Symbol
	position int
}

func allSymbolPositions() []symbolPosition {
	pairs := make([]symbolPosition, 0, len(registry.Symbols())*registry.SymbolPositions)
	for _, symbol := range registry.Symbols() {
		for position := 1; position <= registry.SymbolPositions; position++ {
			pairs = append(pairs, symbolPosition{symbol: symbol, position: position})
		}
	}
	return pairs
}

// matchingCards returns the elements of a category showing symbol at the
// 1-based position.
func matchingCards(category models.Category, symbol registry.Symbol, position int) []registry.Element {
	var matches []registry.Element
	for _, element := range registry.ElementsFor(category) {
		if element.Symbols[position-1] == symbol {
			matches = append(matches, element)
		}
	}
	return matches
}

// Setup runs the forward search: it tries symbol/position pairs in a seeded
// random order and uses the first pair with at least one matching card in
// every category. When no pair qualifies it falls back to an unconditioned
// uniform selection; the ritual loses a little theatre but never fails.
func (s *Solver) Setup(src *rng.Source) (*Setup, error) {
	for _, pair := range rng.Shuffle(src, allSymbolPositions()) {
		candidates := map[models.Category][]registry.Element{}
		viable := true
		for _, category := range models.Categories() {
			matches := matchingCards(category, pair.symbol, pair.position)
			if len(matches) == 0 {
				viable = false
				break
			}
			candidates[category] = matches
		}
		if !viable {
			continue
		}
		return s.buildSetup(src, pair, candidates), nil
	}
	return s.fallbackSetup(src), nil
}

func (s *Solver) buildSetup(src *rng.Source, pair symbolPosition,
	candidates map[models.Category][]registry.Element) *Setup {
	setup := &Setup{
		SolutionNames: map[models.Category]string{},
		NarrativeIntro: fmt.Sprintf(
			"Tonight's mystery is sealed by the %s. Find it at the %s of each card as instructed.",
			pair.symbol, registry.PositionName(pair.position)),
	}
	for step, category := range models.Categories() {
		card := rng.Pick(src, candidates[category])
		setup.Instructions = append(setup.Instructions, Instruction{
			Step:     step + 1,
			Category: category,
			Instruction: fmt.Sprintf(
				"From the %s cards, take one showing the %s at the %s. Slide it into the envelope unseen.",
				category, pair.symbol, registry.PositionName(pair.position)),
			Symbol:       pair.symbol,
			Position:     pair.position,
			PositionName: registry.PositionName(pair.position),
			MatchingCard: card.ID,
		})
		setup.SolutionNames[category] = card.Name
		setSolutionID(&setup.Solution, category, card.ID)
	}
	return setup
}

func (s *Solver) fallbackSetup(src *rng.Source) *Setup {
	setup := &Setup{
		SolutionNames:  map[models.Category]string{},
		NarrativeIntro: "Tonight, fate alone chooses: shuffle each deck and draw a card face down.",
		Fallback:       true,
	}
	for step, category := range models.Categories() {
		card := rng.Pick(src, registry.ElementsFor(category))
		setup.Instructions = append(setup.Instructions, Instruction{
			Step:     step + 1,
			Category: category,
			Instruction: fmt.Sprintf(
				"Shuffle the %s cards and draw one face down into the envelope.", category),
			MatchingCard: card.ID,
		})
		setup.SolutionNames[category] = card.Name
		setSolutionID(&setup.Solution, category, card.ID)
	}
	return setup
}

func setSolutionID(solution *models.Solution, category models.Category, id string) {
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

// Explain runs the inverse lookup: it scans positions 1..6 in order and
// returns the first symbol/position at which all four solution cards agree.
// ok is false when no such pair exists, which is a legitimate outcome for
// arbitrary externally supplied solutions, not an error.
func (s *Solver) Explain(solution models.Solution) (Match, bool) {
	cards := make([]registry.Element, 0, len(models.Categories()))
	for _, category := range models.Categories() {
		element, ok := registry.LookupElement(category, solution.IDFor(category))
		if !ok {
			return Match{}, false
		}
		cards = append(cards, element)
	}

	for position := 1; position <= registry.SymbolPositions; position++ {
		symbol := cards[0].Symbols[position-1]
		agreed := true
		for _, card := range cards[1:] {
			if card.Symbols[position-1] != symbol {
				agreed = false
				break
			}
		}
		if agreed {
			return Match{Symbol: symbol, Position: position}, true
		}
	}
	return Match{}, false
}
