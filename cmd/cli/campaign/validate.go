package campaign

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/myrjola/whodunit/internal/errors"
	"github.com/myrjola/whodunit/internal/validate"
	"github.com/spf13/cobra"
)

// ErrValidationFailed signals a campaign document with at least one
// validation error. The command exits non-zero so scripts can gate on it.
var ErrValidationFailed = errors.NewSentinel("campaign failed validation")

var Validate = &cobra.Command{
	Use:          "validate [file]",
	GroupID:      "campaign",
	Short:        "Validate a campaign document",
	Long:         `Re-checks the structural invariants of a campaign document produced by the generate command. Reads JSON from the given file or from standard input and writes the validation result to standard output. Warnings leave the exit code at zero, errors do not.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := cmd.InOrStdin()
		if len(args) == 1 {
			file, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "open campaign document")
			}
			defer func() {
				_ = file.Close()
			}()
			input = file
		}

		raw, err := io.ReadAll(input)
		if err != nil {
			return errors.Wrap(err, "read campaign document")
		}

		var doc Document
		if err = json.Unmarshal(raw, &doc); err != nil {
			return errors.Wrap(err, "parse campaign document")
		}
		if doc.Plan == nil {
			return errors.New("campaign document has no plan")
		}

		var result validate.Result
		if doc.Scenario != nil {
			result = validate.Scenario(doc.Scenario, doc.Plan)
		} else {
			result = validate.Plan(doc.Plan)
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err = encoder.Encode(result); err != nil {
			return errors.Wrap(err, "encode validation result")
		}

		if !result.Valid {
			return errors.Wrap(ErrValidationFailed, "validate",
				slog.Int("errors", len(result.Errors)), slog.Int("warnings", len(result.Warnings)))
		}
		return nil
	},
}
