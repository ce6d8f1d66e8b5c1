// =============================================================================
// Ticket Sorter - Sort Run
// =============================================================================
//
// This file holds the work behind the root command: resolve the input and
// output paths, run the pipeline and print a summary.
//
// COMMAND USAGE:
//   ticketsort [input] [output] [flags]
//
// PATH RESOLUTION (first non-empty wins):
//   1. INPUT_FILE / OUTPUT_FILE environment variables
//   2. Positional arguments
//   3. Jira.csv / Sorted_Jira_Output.csv
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/pipeline"
)

// =============================================================================
// PATH DEFAULTS
// =============================================================================

const (
	// InputEnv and OutputEnv override the positional arguments.
	InputEnv  = "INPUT_FILE"
	OutputEnv = "OUTPUT_FILE"

	DefaultInput  = "Jira.csv"
	DefaultOutput = "Sorted_Jira_Output.csv"
)

// errNoPaths is returned when an input or output path resolves to nothing.
var errNoPaths = errors.New("input and output file paths are required")

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess sorts one export and prints a short summary.
func runProcess(cmd *cobra.Command, args []string) error {
	input, output, err := resolvePaths(os.Getenv, args)
	if err != nil {
		_ = cmd.Usage()
		return err
	}

	result := pipeline.New(cfg, logger).Run(cmd.Context(), input, output)
	if result.Error != nil {
		if errors.Is(result.Error, pipeline.ErrInterrupted) {
			logger.Info("Process interrupted. Exiting gracefully...")
		}
		return loggedError{result.Error}
	}

	printSummary(cmd.OutOrStdout(), result)
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolvePaths picks the input and output paths.
//
// PARAMETERS:
//   - getenv: Environment lookup, normally os.Getenv.
//   - args: Positional arguments, at most two.
//
// RETURNS:
//   - The input and output paths.
//   - errNoPaths if either resolves to an empty string.
func resolvePaths(getenv func(string) string, args []string) (string, string, error) {
	input := firstNonEmpty(getenv(InputEnv), argAt(args, 0), DefaultInput)
	output := firstNonEmpty(getenv(OutputEnv), argAt(args, 1), DefaultOutput)
	if input == "" || output == "" {
		return "", "", errNoPaths
	}
	return input, output, nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// printSummary writes the run report.
func printSummary(w io.Writer, result pipeline.Result) {
	s := result.Stats
	fmt.Fprintln(w, "=== Sort Complete ===")
	fmt.Fprintf(w, "Input:           %s\n", result.InputFile)
	fmt.Fprintf(w, "Output:          %s\n", result.OutputFile)
	fmt.Fprintf(w, "Tickets:         %d\n", s.RowsRead)
	fmt.Fprintf(w, "  Finished:      %d\n", s.Terminal)
	fmt.Fprintf(w, "  Impediments:   %d\n", s.Flagged)
	fmt.Fprintf(w, "  Other:         %d\n", s.Remaining)
	fmt.Fprintf(w, "Warnings:        %d\n", s.Warnings)
	fmt.Fprintf(w, "Time elapsed:    %s\n", s.ProcessingTime)
}
