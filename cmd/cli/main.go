package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/whodunit/cmd/cli/campaign"
	"github.com/myrjola/whodunit/cmd/cli/cards"
	"github.com/spf13/cobra"
)

func init() {
	// A missing .env file is fine, the environment may be set by other means.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(campaign.Group)
	rootCmd.AddCommand(campaign.Generate)
	rootCmd.AddCommand(campaign.Validate)
	rootCmd.AddGroup(cards.Group)
	rootCmd.AddCommand(cards.Setup)
	rootCmd.AddCommand(cards.Explain)
}

var rootCmd = &cobra.Command{
	Use:  "whodunit",
	Long: `Campaign planning utilities for the Whodunit deduction party game`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
