// Package registry holds the static domain catalogs: the four element
// collections, the scenario themes, and the card-symbol patterns used by the
// physical setup ritual. The catalogs are embedded YAML parsed once at
// process start; everything here is immutable and referenced by id.
package registry

import (
	_ "embed"
	"fmt"

	"github.com/myrjola/whodunit/internal/models"
	"gopkg.in/yaml.v3"
)

// Symbol is one of the five glyphs printed on every element card.
type Symbol string

const (
	SymbolMagnifier Symbol = "magnifier"
	SymbolKey       Symbol = "key"
	SymbolQuill     Symbol = "quill"
	SymbolSkull     Symbol = "skull"
	SymbolGoblet    Symbol = "goblet"
)

// Symbols returns the glyphs in their canonical order.
func Symbols() []Symbol {
	return []Symbol{SymbolMagnifier, SymbolKey, SymbolQuill, SymbolSkull, SymbolGoblet}
}

// SymbolPositions is the number of symbol positions printed on a card.
const SymbolPositions = 6

// PositionName names a 1-based card position for physical instructions.
func PositionName(position int) string {
	names := []string{
		"top left corner", "top right corner",
		"middle left edge", "middle right edge",
		"bottom left corner", "bottom right corner",
	}
	if position < 1 || position > len(names) {
		return "unknown position"
	}
	return names[position-1]
}

// Element is one entry of a category catalog. Symbols always has exactly
// SymbolPositions entries.
type Element struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Symbols []Symbol `yaml:"symbols"`
}

// Theme provides the narrative framing metadata for a scenario.
type Theme struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Setting    string `yaml:"setting"`
	Atmosphere string `yaml:"atmosphere"`
	Era        string `yaml:"era"`
}

//go:embed elements.yaml
var elementsYAML []byte

//go:embed themes.yaml
var themesYAML []byte

type elementsDoc struct {
	Suspects  []Element `yaml:"suspects"`
	Items     []Element `yaml:"items"`
	Locations []Element `yaml:"locations"`
	Times     []Element `yaml:"times"`
}

type themesDoc struct {
	Themes []Theme `yaml:"themes"`
}

var catalog = mustLoad()

type catalogData struct {
	elements map[models.Category][]Element
	byID     map[models.Category]map[string]Element
	themes   []Theme
	themeID  map[string]Theme
}

// Expected catalog cardinalities. The card-symbol setup protocol and the
// difficulty profiles are tuned to these counts.
var cardinalities = map[models.Category]int{
	models.CategorySuspect:  10,
	models.CategoryItem:     11,
	models.CategoryLocation: 11,
	models.CategoryTime:     10,
}

func mustLoad() catalogData {
	var elements elementsDoc
	if err := yaml.Unmarshal(elementsYAML, &elements); err != nil {
		panic(fmt.Sprintf("registry: parse elements catalog: %v", err))
	}
	var themes themesDoc
	if err := yaml.Unmarshal(themesYAML, &themes); err != nil {
		panic(fmt.Sprintf("registry: parse themes catalog: %v", err))
	}

	data := catalogData{
		elements: map[models.Category][]Element{
			models.CategorySuspect:  elements.Suspects,
			models.CategoryItem:     elements.Items,
			models.CategoryLocation: elements.Locations,
			models.CategoryTime:     elements.Times,
		},
		byID:    map[models.Category]map[string]Element{},
		themes:  themes.Themes,
		themeID: map[string]Theme{},
	}

	for category, list := range data.elements {
		if len(list) != cardinalities[category] {
			panic(fmt.Sprintf("registry: %s catalog has %d elements, want %d",
				category, len(list), cardinalities[category]))
		}
		index := map[string]Element{}
		for _, element := range list {
			if element.ID == "" || element.Name == "" {
				panic(fmt.Sprintf("registry: %s element missing id or name", category))
			}
			if len(element.Symbols) != SymbolPositions {
				panic(fmt.Sprintf("registry: element %s has %d symbols, want %d",
					element.ID, len(element.Symbols), SymbolPositions))
			}
			if _, dup := index[element.ID]; dup {
				panic(fmt.Sprintf("registry: duplicate element id %s", element.ID))
			}
			index[element.ID] = element
		}
		data.byID[category] = index
	}

	if len(data.themes) == 0 {
		panic("registry: no themes")
	}
	for _, theme := range data.themes {
		if _, dup := data.themeID[theme.ID]; dup {
			panic(fmt.Sprintf("registry: duplicate theme id %s", theme.ID))
		}
		data.themeID[theme.ID] = theme
	}

	return data
}

// ElementsFor returns the catalog of a category in its fixed order. Callers
// must treat the returned slice as read-only.
func ElementsFor(category models.Category) []Element {
	return catalog.elements[category]
}

// Suspects returns the suspect catalog.
func Suspects() []Element { return ElementsFor(models.CategorySuspect) }

// Items returns the item catalog.
func Items() []Element { return ElementsFor(models.CategoryItem) }

// Locations returns the location catalog.
func Locations() []Element { return ElementsFor(models.CategoryLocation) }

// Times returns the time catalog.
func Times() []Element { return ElementsFor(models.CategoryTime) }

// LookupElement finds an element by category and id.
func LookupElement(category models.Category, id string) (Element, bool) {
	element, ok := catalog.byID[category][id]
	return element, ok
}

// ElementName resolves an element id to its display name, falling back to
// the raw id for unknown references so rendering never produces a hole.
func ElementName(category models.Category, id string) string {
	if element, ok := LookupElement(category, id); ok {
		return element.Name
	}
	return id
}

// Themes returns all themes in catalog order.
func Themes() []Theme {
	return catalog.themes
}

// ThemeByID finds a theme by id.
func ThemeByID(id string) (Theme, bool) {
	theme, ok := catalog.themeID[id]
	return theme, ok
}
