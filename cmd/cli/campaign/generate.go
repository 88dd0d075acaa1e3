// Package campaign holds the campaign planning commands.
package campaign

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/myrjola/whodunit/internal/enhance"
	"github.com/myrjola/whodunit/internal/envstruct"
	"github.com/myrjola/whodunit/internal/errors"
	"github.com/myrjola/whodunit/internal/logging"
	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/planner"
	"github.com/myrjola/whodunit/internal/render"
	"github.com/myrjola/whodunit/internal/repositories"
	"github.com/myrjola/whodunit/internal/rng"
	"github.com/myrjola/whodunit/internal/sqlite"
	"github.com/myrjola/whodunit/internal/validate"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "campaign",
	Title: "Campaign operations",
}

// Document is the JSON envelope the generate command writes and the validate
// command reads back.
type Document struct {
	Plan       *models.CampaignPlan      `json:"plan"`
	Scenario   *models.GeneratedScenario `json:"scenario,omitempty"`
	Validation *validate.Result          `json:"validation,omitempty"`
}

type config struct {
	SQLiteURL string `env:"WHODUNIT_SQLITE_URL" envDefault:"./whodunit.sqlite"`
}

func newLogger() *slog.Logger {
	return logging.NewLogger(os.Stderr, slog.LevelInfo)
}

func init() {
	Generate.Flags().String("difficulty", "beginner", "difficulty level: beginner, intermediate or expert")
	Generate.Flags().Int64("seed", 0, "seed for reproducible generation, random when omitted")
	Generate.Flags().String("theme", "", "theme id, seeded random pick when omitted")
	Generate.Flags().StringSlice("exclude-suspect", nil, "suspect ids to leave out of the campaign")
	Generate.Flags().StringSlice("exclude-item", nil, "item ids to leave out of the campaign")
	Generate.Flags().StringSlice("exclude-location", nil, "location ids to leave out of the campaign")
	Generate.Flags().StringSlice("exclude-time", nil, "time ids to leave out of the campaign")
	Generate.Flags().Bool("enhance", false, "rewrite clue prose with OpenAI, keeps core text on any failure")
	Generate.Flags().Bool("save", false, "persist the scenario to the SQLite database")
}

var Generate = &cobra.Command{
	Use:          "generate",
	GroupID:      "campaign",
	Short:        "Generate a campaign",
	Long:         `Plans and renders a full campaign and writes it as JSON to standard output, validation findings included. The same seed, difficulty, theme and exclusions always produce the same campaign.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", "generate"))

		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}

		plan, err := planner.New(logger).Plan(req)
		if err != nil {
			return errors.Wrap(err, "plan campaign")
		}

		scenario, err := render.NewRenderer().Scenario(plan, rng.New(plan.Seed))
		if err != nil {
			return errors.Wrap(err, "render scenario")
		}

		if enhanceProse, _ := cmd.Flags().GetBool("enhance"); enhanceProse {
			texts := enhance.NewClient(logger).EnhanceClues(ctx, scenario)
			for i := range scenario.Clues {
				scenario.Clues[i].Text = texts[i]
			}
		}

		result := validate.Scenario(scenario, plan)

		if save, _ := cmd.Flags().GetBool("save"); save {
			if err = saveScenario(ctx, scenario, logger); err != nil {
				return err
			}
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err = encoder.Encode(Document{Plan: plan, Scenario: scenario, Validation: &result}); err != nil {
			return errors.Wrap(err, "encode campaign document")
		}
		return nil
	},
}

func requestFromFlags(cmd *cobra.Command) (planner.Request, error) {
	var req planner.Request

	difficulty, err := cmd.Flags().GetString("difficulty")
	if err != nil {
		return req, errors.Wrap(err, "read difficulty flag")
	}
	req.Difficulty = models.Difficulty(difficulty)

	if req.ThemeID, err = cmd.Flags().GetString("theme"); err != nil {
		return req, errors.Wrap(err, "read theme flag")
	}

	if cmd.Flags().Changed("seed") {
		var seed int64
		if seed, err = cmd.Flags().GetInt64("seed"); err != nil {
			return req, errors.Wrap(err, "read seed flag")
		}
		req.Seed = &seed
	}

	excludeFlags := map[models.Category]string{
		models.CategorySuspect:  "exclude-suspect",
		models.CategoryItem:     "exclude-item",
		models.CategoryLocation: "exclude-location",
		models.CategoryTime:     "exclude-time",
	}
	for category, flagName := range excludeFlags {
		var ids []string
		if ids, err = cmd.Flags().GetStringSlice(flagName); err != nil {
			return req, errors.Wrap(err, "read exclusion flag", slog.String("flag", flagName))
		}
		if len(ids) == 0 {
			continue
		}
		if req.Exclude == nil {
			req.Exclude = map[models.Category][]string{}
		}
		req.Exclude[category] = ids
	}

	return req, nil
}

func saveScenario(ctx context.Context, scenario *models.GeneratedScenario, logger *slog.Logger) error {
	var cfg config
	if err := envstruct.Populate(&cfg, os.LookupEnv); err != nil {
		return errors.Wrap(err, "read configuration")
	}

	db, err := sqlite.NewDatabase(ctx, cfg.SQLiteURL, logger)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.ErrorContext(ctx, "could not close database", errors.SlogError(err))
		}
	}()

	if err = repositories.NewScenarioRepository(db, logger).Insert(ctx, scenario); err != nil {
		return errors.Wrap(err, "save scenario")
	}
	logger.InfoContext(ctx, "scenario saved",
		slog.String("scenarioId", scenario.ID), slog.String("sqliteUrl", cfg.SQLiteURL))
	return nil
}
