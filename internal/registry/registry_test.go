package registry_test

import (
	"testing"

	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogCardinalities(t *testing.T) {
	require.Len(t, registry.Suspects(), 10)
	require.Len(t, registry.Items(), 11)
	require.Len(t, registry.Locations(), 11)
	require.Len(t, registry.Times(), 10)
}

func TestCatalogWellFormed(t *testing.T) {
	validSymbols := map[registry.Symbol]bool{}
	for _, symbol := range registry.Symbols() {
		validSymbols[symbol] = true
	}

	for _, category := range models.Categories() {
		for _, element := range registry.ElementsFor(category) {
			assert.NotEmpty(t, element.ID)
			assert.NotEmpty(t, element.Name)
			require.Len(t, element.Symbols, registry.SymbolPositions, "element %s", element.ID)
			for _, symbol := range element.Symbols {
				assert.True(t, validSymbols[symbol], "element %s has unknown symbol %q", element.ID, symbol)
			}

			found, ok := registry.LookupElement(category, element.ID)
			require.True(t, ok)
			assert.Equal(t, element, found)
		}
	}
}

func TestLookupElement_Unknown(t *testing.T) {
	_, ok := registry.LookupElement(models.CategorySuspect, "nonexistent")
	assert.False(t, ok)
	assert.Equal(t, "nonexistent", registry.ElementName(models.CategorySuspect, "nonexistent"))
}

func TestThemes(t *testing.T) {
	themes := registry.Themes()
	require.NotEmpty(t, themes)
	for _, theme := range themes {
		assert.NotEmpty(t, theme.ID)
		assert.NotEmpty(t, theme.Name)
		assert.NotEmpty(t, theme.Setting)
		assert.NotEmpty(t, theme.Atmosphere)
		assert.NotEmpty(t, theme.Era)

		found, ok := registry.ThemeByID(theme.ID)
		require.True(t, ok)
		assert.Equal(t, theme, found)
	}

	_, ok := registry.ThemeByID("nonexistent")
	assert.False(t, ok)
}

func TestPositionName(t *testing.T) {
	assert.Equal(t, "top left corner", registry.PositionName(1))
	assert.Equal(t, "bottom right corner", registry.PositionName(6))
	assert.Equal(t, "unknown position", registry.PositionName(0))
	assert.Equal(t, "unknown position", registry.PositionName(7))
}
