// =============================================================================
// Ticket Sorter - Logging
// =============================================================================
//
// This module builds the structured logger used by every command.
//
// OUTPUTS:
//   - console       : human-readable, stderr, configured level and above
//   - combined.log  : JSON lines, configured level and above
//   - error.log     : JSON lines, errors only
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	CombinedLog = "combined.log"
	ErrorLog    = "error.log"
)

// Options configures New.
type Options struct {
	// Dir receives the log files. Empty disables file output.
	Dir string

	// Level is the minimum console/combined level: debug, info, warn or error.
	Level string

	// Console defaults to os.Stderr.
	Console io.Writer
}

// New builds the tee logger.
//
// RETURNS:
//   - The logger.
//   - A close function that syncs the logger and releases the log files.
//     It must be called once the logger is no longer used.
//   - An error if the level is unknown or a log file cannot be opened.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	consoleEncoder := zap.NewDevelopmentEncoderConfig()
	consoleEncoder.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoder), zapcore.AddSync(console), level),
	}
	var closers []func()

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", opts.Dir, err)
		}

		combined, closeCombined, err := zap.Open(filepath.Join(opts.Dir, CombinedLog))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s: %w", CombinedLog, err)
		}
		errorsOnly, closeErrors, err := zap.Open(filepath.Join(opts.Dir, ErrorLog))
		if err != nil {
			closeCombined()
			return nil, nil, fmt.Errorf("failed to open %s: %w", ErrorLog, err)
		}
		closers = append(closers, closeCombined, closeErrors)

		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores,
			zapcore.NewCore(fileEncoder, combined, level),
			zapcore.NewCore(fileEncoder.Clone(), errorsOnly, zapcore.ErrorLevel),
		)
	}

	logger := zap.New(zapcore.NewTee(cores...))
	closeAll := func() {
		_ = logger.Sync()
		for _, c := range closers {
			c()
		}
	}
	return logger, closeAll, nil
}
