// =============================================================================
// Ticket Sorter - Pipeline
// =============================================================================
//
// This module orchestrates a full sort of one tracker export.
//
// PIPELINE:
//   1. Read the input (CSV or XLSX by extension)
//   2. Validate required columns (fatal) and enumeration values (warnings)
//   3. Take the column set from the first record
//   4. Annotate every record with its normalized due date
//   5. Primary sort: status, priority, due date
//   6. Partition into terminal / flagged / remaining buckets
//   7. Re-sort the flagged bucket by due date, then priority
//   8. Concatenate the buckets
//   9. Write the output with the original column set
//
// Steps 1-3 fail on bad input and halt the run before anything is written.
// Steps 4-8 are Arrange. The run context is checked between stages; a
// cancelled run never writes output.
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/config"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/csvio"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/types"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/validation"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/xlsxio"
	"github.com/ginjaninja78/jira-ticket-sorter/pkg/utils"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoColumns is returned when the first record has no columns.
	ErrNoColumns = errors.New("the CSV file does not contain any columns")

	// ErrInterrupted is returned when the run context is cancelled.
	ErrInterrupted = errors.New("process interrupted")

	// ErrInternal marks a broken invariant in the in-memory transform.
	ErrInternal = errors.New("internal error")
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID correlates every log line of the run.
	RunID string

	InputFile  string
	OutputFile string

	// Success is true when the output was written (or, for Check, when the
	// input passed validation).
	Success bool

	// Error is the fatal error, nil on success.
	Error error

	Stats Stats
}

// Stats contains statistics about the run.
type Stats struct {
	RowsRead int

	// Bucket sizes.
	Terminal  int
	Flagged   int
	Remaining int

	// Warnings is the number of unrecognized status/priority values.
	Warnings int

	ProcessingTime time.Duration
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline sorts tracker exports according to a configuration.
type Pipeline struct {
	cfg    *config.Config
	rules  Rules
	logger *zap.Logger
}

// New creates a Pipeline. A nil logger discards output.
func New(cfg *config.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:    cfg,
		rules:  RulesFromConfig(cfg),
		logger: logger,
	}
}

// Run sorts input into output.
func (p *Pipeline) Run(ctx context.Context, input, output string) Result {
	start := time.Now()
	result := Result{RunID: uuid.NewString(), InputFile: input, OutputFile: output}
	log := p.logger.With(zap.String("run_id", result.RunID))

	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(start)
		log.Error("Error processing CSV", zap.Error(err), zap.String("input", input), zap.String("output", output))
		return result
	}

	// =========================================================================
	// STEPS 1-3: READ AND VALIDATE
	// =========================================================================

	records, err := p.load(ctx, log, input, &result.Stats)
	if err != nil {
		return fail(err)
	}
	header := records[0].Header()

	// =========================================================================
	// STEPS 4-8: ARRANGE
	// =========================================================================

	if err := interrupted(ctx); err != nil {
		return fail(err)
	}

	log.Info("Sorting tickets...")
	buckets, err := Arrange(records, p.rules)
	if err != nil {
		return fail(err)
	}
	result.Stats.Terminal = len(buckets.Terminal)
	result.Stats.Flagged = len(buckets.Flagged)
	result.Stats.Remaining = len(buckets.Remaining)

	if ce := log.Check(zap.DebugLevel, "Flagged tickets after triage sort"); ce != nil {
		lines := make([]int, len(buckets.Flagged))
		for i, r := range buckets.Flagged {
			lines[i] = r.Line
		}
		ce.Write(zap.Ints("source_lines", lines))
	}

	// =========================================================================
	// STEP 9: WRITE
	// =========================================================================

	if err := interrupted(ctx); err != nil {
		return fail(err)
	}

	if utils.FileExists(output) {
		log.Info("Overwriting existing output file", zap.String("output", output))
	}

	if err := p.write(output, header, buckets.Merge()); err != nil {
		return fail(err)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)
	log.Info("CSV file successfully processed and saved",
		zap.String("output", output),
		zap.Int("rows", result.Stats.RowsRead),
		zap.Int("terminal", result.Stats.Terminal),
		zap.Int("flagged", result.Stats.Flagged),
		zap.Int("remaining", result.Stats.Remaining),
		zap.Int("warnings", result.Stats.Warnings),
		zap.Duration("elapsed", result.Stats.ProcessingTime),
	)
	return result
}

// Check runs steps 1-3 only: read and validate input without sorting or
// writing anything.
func (p *Pipeline) Check(ctx context.Context, input string) Result {
	start := time.Now()
	result := Result{RunID: uuid.NewString(), InputFile: input}
	log := p.logger.With(zap.String("run_id", result.RunID))

	_, err := p.load(ctx, log, input, &result.Stats)
	result.Stats.ProcessingTime = time.Since(start)
	if err != nil {
		result.Error = err
		log.Error("Error validating CSV", zap.Error(err), zap.String("input", input))
		return result
	}

	result.Success = true
	log.Info("Input is valid",
		zap.String("input", input),
		zap.Int("rows", result.Stats.RowsRead),
		zap.Int("warnings", result.Stats.Warnings),
	)
	return result
}

// load reads, validates and checks the column set of input.
func (p *Pipeline) load(ctx context.Context, log *zap.Logger, input string, stats *Stats) ([]*types.Record, error) {
	log.Info("Reading CSV file...", zap.String("input", input))

	records, err := p.read(ctx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		return nil, err
	}
	stats.RowsRead = len(records)

	validator := validation.New(validation.Rules{
		RequiredFields: p.cfg.RequiredFields,
		StatusField:    p.rules.StatusField,
		PriorityField:  p.rules.PriorityField,
		Statuses:       p.rules.Statuses,
		Priorities:     p.rules.Priorities,
	}, log)

	report, err := validator.Validate(records)
	if err != nil {
		return nil, err
	}
	stats.Warnings = len(report.Warnings)

	if records[0].Header().Len() == 0 {
		return nil, ErrNoColumns
	}
	return records, nil
}

func (p *Pipeline) read(ctx context.Context, input string) ([]*types.Record, error) {
	if xlsxio.IsWorkbook(input) {
		return xlsxio.ReadFile(ctx, input, p.cfg.XLSX.Sheet)
	}

	comma, err := p.cfg.CSV.Comma()
	if err != nil {
		return nil, err
	}
	return csvio.ReadFile(ctx, input, comma)
}

func (p *Pipeline) write(output string, header *types.Header, records []*types.Record) error {
	if xlsxio.IsWorkbook(output) {
		return xlsxio.WriteFile(output, p.cfg.XLSX.Sheet, header, records)
	}

	comma, err := p.cfg.CSV.Comma()
	if err != nil {
		return err
	}
	return csvio.WriteFile(output, header, records, comma)
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return nil
}
