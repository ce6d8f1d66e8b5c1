// =============================================================================
// Ticket Sorter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Called without a
// subcommand, the root command sorts one tracker export.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ticketsort [input] [output])
//   ├── validateCmd (ticketsort validate [input])
//   └── versionCmd  (ticketsort version)
//
// The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --log-dir)
//   2. Loading the configuration
//   3. Setting up logging
//   4. Mapping failures to exit codes
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/config"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/logging"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/pipeline"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile is the optional YAML configuration file.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// logDir overrides the configured log directory.
var logDir string

// cfg and logger are set up in PersistentPreRunE for every command that
// does work. closeLogs releases the log files.
var (
	cfg       *config.Config
	logger    *zap.Logger
	closeLogs func()
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "ticketsort [input] [output]",
	Short: "Ticket Sorter - Order issue-tracker CSV exports for triage",
	Long: `Ticket Sorter reads an issue-tracker CSV (or XLSX) export, checks that the
Status and Priority columns exist, and writes the tickets back out ordered
for triage:

  1. Finished tickets (Done, Passed UAT) with their flag cleared
  2. Open tickets flagged as an Impediment, earliest due date first
  3. Everything else

Within each group tickets are ordered by status, then priority, then due
date. Tickets without a usable due date sort last.

Paths are resolved from the environment first, then arguments, then defaults:
  INPUT_FILE   input path  (default: Jira.csv)
  OUTPUT_FILE  output path (default: Sorted_Jira_Output.csv)

Example Usage:
  ticketsort                                # Jira.csv -> Sorted_Jira_Output.csv
  ticketsort export.csv sorted.csv
  INPUT_FILE=export.xlsx ticketsort --config ticketsort.yaml`,

	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogger()
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI and exits non-zero on failure. It is called by
// main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	closeLogger()
	if !alreadyLogged(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(exitCode(err))
}

// loggedError marks an error the pipeline has already written to the log,
// console included.
type loggedError struct {
	err error
}

func (e loggedError) Error() string { return e.err.Error() }
func (e loggedError) Unwrap() error { return e.err }

// alreadyLogged reports whether err was logged before it reached Execute.
func alreadyLogged(err error) bool {
	var logged loggedError
	return errors.As(err, &logged)
}

// exitCode maps a command error onto a process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pipeline.ErrInterrupted):
		return 130
	default:
		return 1
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML configuration file (built-in defaults when empty)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logDir,
		"log-dir",
		"",
		"Directory for combined.log and error.log (overrides the config file)",
	)
}

// setup loads the configuration and builds the logger.
func setup() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := logging.Options{Dir: loaded.Logging.Dir, Level: loaded.Logging.Level}
	if logDir != "" {
		opts.Dir = logDir
	}
	if verbose {
		opts.Level = "debug"
	}

	built, closeBuilt, err := logging.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	closeLogger()
	cfg, logger, closeLogs = loaded, built, closeBuilt
	return nil
}

// closeLogger flushes the logger and releases its files. It is safe to call
// more than once.
func closeLogger() {
	if closeLogs != nil {
		closeLogs()
		closeLogs = nil
	}
}
