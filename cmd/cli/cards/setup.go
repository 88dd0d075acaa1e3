// Package cards holds the physical card ritual commands.
package cards

import (
	"encoding/json"

	"github.com/myrjola/whodunit/internal/cardsetup"
	"github.com/myrjola/whodunit/internal/errors"
	"github.com/myrjola/whodunit/internal/random"
	"github.com/myrjola/whodunit/internal/rng"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "cards",
	Title: "Card ritual operations",
}

func init() {
	Setup.Flags().Int64("seed", 0, "seed for a reproducible ritual, random when omitted")
}

var Setup = &cobra.Command{
	Use:          "setup",
	GroupID:      "cards",
	Short:        "Produce a card setup ritual",
	Long:         `Writes setup instructions for the physical card ritual as JSON to standard output. The output names the hidden cards, so it is for the host's eyes only.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			seed int64
			err  error
		)
		if cmd.Flags().Changed("seed") {
			if seed, err = cmd.Flags().GetInt64("seed"); err != nil {
				return errors.Wrap(err, "read seed flag")
			}
		} else if seed, err = random.NewSeed(); err != nil {
			return errors.Wrap(err, "draw seed")
		}

		setup, err := cardsetup.NewSolver().Setup(rng.New(seed))
		if err != nil {
			return errors.Wrap(err, "solve card setup")
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		err = encoder.Encode(struct {
			Seed  int64            `json:"seed"`
			Setup *cardsetup.Setup `json:"setup"`
		}{Seed: seed, Setup: setup})
		if err != nil {
			return errors.Wrap(err, "encode setup")
		}
		return nil
	},
}
