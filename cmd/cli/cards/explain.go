package cards

import (
	"encoding/json"
	"log/slog"

	"github.com/myrjola/whodunit/internal/cardsetup"
	"github.com/myrjola/whodunit/internal/errors"
	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/registry"
	"github.com/spf13/cobra"
)

func init() {
	Explain.Flags().String("suspect", "", "suspect id of the solution")
	Explain.Flags().String("item", "", "item id of the solution")
	Explain.Flags().String("location", "", "location id of the solution")
	Explain.Flags().String("time", "", "time id of the solution")
	for _, flagName := range []string{"suspect", "item", "location", "time"} {
		_ = Explain.MarkFlagRequired(flagName)
	}
}

var Explain = &cobra.Command{
	Use:          "explain-setup",
	GroupID:      "cards",
	Short:        "Explain which ritual selects a solution",
	Long:         `Looks up the symbol and card position at which all four solution cards agree, so the ritual would have selected exactly this solution. Not every solution is reachable through the ritual, which the output reports as explainable: false.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		solution, err := solutionFromFlags(cmd)
		if err != nil {
			return err
		}

		match, ok := cardsetup.NewSolver().Explain(solution)
		explanation := struct {
			Explainable  bool            `json:"explainable"`
			Symbol       registry.Symbol `json:"symbol,omitempty"`
			Position     int             `json:"position,omitempty"`
			PositionName string          `json:"positionName,omitempty"`
		}{Explainable: ok}
		if ok {
			explanation.Symbol = match.Symbol
			explanation.Position = match.Position
			explanation.PositionName = registry.PositionName(match.Position)
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err = encoder.Encode(explanation); err != nil {
			return errors.Wrap(err, "encode explanation")
		}
		return nil
	},
}

func solutionFromFlags(cmd *cobra.Command) (models.Solution, error) {
	var solution models.Solution

	flagNames := map[models.Category]string{
		models.CategorySuspect:  "suspect",
		models.CategoryItem:     "item",
		models.CategoryLocation: "location",
		models.CategoryTime:     "time",
	}
	for _, category := range models.Categories() {
		flagName := flagNames[category]
		id, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return solution, errors.Wrap(err, "read solution flag", slog.String("flag", flagName))
		}
		if _, ok := registry.LookupElement(category, id); !ok {
			return solution, errors.New("unknown element",
				slog.String("category", string(category)), slog.String("id", id))
		}
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
