// =============================================================================
// Ticket Sorter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which reads an export and runs
// the column and value checks without sorting or writing anything.
//
// COMMAND USAGE:
//   ticketsort validate [input]
//
// Exits 1 when a required column is missing or the file cannot be read.
// Unrecognized status and priority values are reported as warnings only.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/pipeline"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate [input]",
	Short: "Check an export without sorting it",
	Long: `Read the input the same way a sort would and report missing required
columns and unrecognized status or priority values. No output is written.

The input path is resolved the same way as for a sort: INPUT_FILE, then the
argument, then Jira.csv.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := firstNonEmpty(os.Getenv(InputEnv), argAt(args, 0), DefaultInput)

		result := pipeline.New(cfg, logger).Check(cmd.Context(), input)
		if result.Error != nil {
			return loggedError{result.Error}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d ticket(s), %d warning(s)\n",
			input, result.Stats.RowsRead, result.Stats.Warnings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
