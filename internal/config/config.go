// =============================================================================
// Ticket Sorter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the sorter
// configuration. Every setting has a built-in default, so the configuration
// file is optional; a YAML file only needs to name the settings it changes.
//
// CONFIGURATION SECTIONS:
//   1. fields       : Column names of the tracker export
//   2. enumerations : Status and priority rank lists
//   3. buckets      : Terminal statuses and the flag marker
//   4. csv / xlsx   : Input format settings
//   5. logging      : Log directory and level
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds all sorter settings.
type Config struct {
	Fields       Fields       `yaml:"fields"`
	Enumerations Enumerations `yaml:"enumerations"`
	Buckets      Buckets      `yaml:"buckets"`

	// RequiredFields must be present as columns of the input.
	// Default: [Priority, Status]
	RequiredFields []string `yaml:"required_fields"`

	CSV     CSVSettings     `yaml:"csv"`
	XLSX    XLSXSettings    `yaml:"xlsx"`
	Logging LoggingSettings `yaml:"logging"`
}

// Fields names the columns the sorter reads and writes.
type Fields struct {
	// Status is the workflow status column. Default: "Status"
	Status string `yaml:"status"`

	// Priority is the priority column. Default: "Priority"
	Priority string `yaml:"priority"`

	// DueDate is the raw due date column. It may be absent from the input,
	// in which case every ticket sorts as undated. Default: "DueDate"
	DueDate string `yaml:"due_date"`

	// Flag is the column cleared on terminal tickets and matched against
	// Buckets.FlagMarker. Default: "Flagged"
	Flag string `yaml:"flag"`

	// ParsedDueDate is the name of the derived, never-serialized due date
	// annotation used by the sort criteria. Default: "ParsedDueDate"
	ParsedDueDate string `yaml:"parsed_due_date"`
}

// Enumerations holds the custom rank lists.
type Enumerations struct {
	Status   []string `yaml:"status"`
	Priority []string `yaml:"priority"`
}

// Buckets defines the post-sort partition.
type Buckets struct {
	// TerminalStatuses are statuses of finished work. Default: [Done, Passed UAT]
	TerminalStatuses []string `yaml:"terminal_statuses"`

	// FlagMarker is the flag value that pulls a ticket into the triage
	// bucket. Default: "Impediment"
	FlagMarker string `yaml:"flag_marker"`
}

// CSVSettings contains settings for reading and writing delimited files.
type CSVSettings struct {
	// Delimiter is a single character, or one of the names "tab", "pipe",
	// "semicolon". Default: ","
	Delimiter string `yaml:"delimiter"`
}

// XLSXSettings contains settings for workbook input and output.
type XLSXSettings struct {
	// Sheet is the worksheet to read and write. Empty means the first sheet
	// on read and "Sheet1" on write.
	Sheet string `yaml:"sheet"`
}

// LoggingSettings controls the structured log outputs.
type LoggingSettings struct {
	// Dir receives combined.log and error.log. Default: "logs"
	Dir string `yaml:"dir"`

	// Level is one of debug, info, warn, error. Default: "info"
	Level string `yaml:"level"`
}

// =============================================================================
// DEFAULT TABLES
// =============================================================================

// DefaultStatusOrder ranks workflow statuses, finished work first.
var DefaultStatusOrder = []string{
	"Done",
	"Passed UAT",
	"IN LIVE - NEEDS TESTING",
	"Live - Rework",
	"Live Build Deploy Ready",
	"In UAT",
	"Deployed to UAT",
	"UAT Deploy Ready",
	"UAT - REWORK",
	"QA In Testing",
	"Deployed to QA",
	"Happy Path Tested QA Ready",
	"Needs Happy Path Testing",
	"Ready for Code Review",
	"REWORK FROM TESTING",
	"In Development",
	"Blocked",
	"Blocked - External",
	"Ready",
	"To Do",
}

// DefaultPriorityOrder ranks priorities, most urgent first.
var DefaultPriorityOrder = []string{"Highest", "High", "Medium", "Low", "Lowest"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads a YAML configuration file and overlays it on the defaults.
// An empty path returns Default().
//
// RETURNS:
//   - The loaded configuration.
//   - An error if the file cannot be read, parsed or fails validation.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset option.
func applyDefaults(cfg *Config) {
	if cfg.Fields.Status == "" {
		cfg.Fields.Status = "Status"
	}
	if cfg.Fields.Priority == "" {
		cfg.Fields.Priority = "Priority"
	}
	if cfg.Fields.DueDate == "" {
		cfg.Fields.DueDate = "DueDate"
	}
	if cfg.Fields.Flag == "" {
		cfg.Fields.Flag = "Flagged"
	}
	if cfg.Fields.ParsedDueDate == "" {
		cfg.Fields.ParsedDueDate = "ParsedDueDate"
	}

	if len(cfg.Enumerations.Status) == 0 {
		cfg.Enumerations.Status = append([]string(nil), DefaultStatusOrder...)
	}
	if len(cfg.Enumerations.Priority) == 0 {
		cfg.Enumerations.Priority = append([]string(nil), DefaultPriorityOrder...)
	}

	if len(cfg.Buckets.TerminalStatuses) == 0 {
		cfg.Buckets.TerminalStatuses = []string{"Done", "Passed UAT"}
	}
	if cfg.Buckets.FlagMarker == "" {
		cfg.Buckets.FlagMarker = "Impediment"
	}

	if len(cfg.RequiredFields) == 0 {
		cfg.RequiredFields = []string{cfg.Fields.Priority, cfg.Fields.Status}
	}

	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}

	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks the configuration for values the sorter cannot use.
func (c *Config) Validate() error {
	if err := uniqueRanks("status", c.Enumerations.Status); err != nil {
		return err
	}
	if err := uniqueRanks("priority", c.Enumerations.Priority); err != nil {
		return err
	}

	if c.Fields.ParsedDueDate == c.Fields.DueDate {
		return fmt.Errorf("fields.parsed_due_date must differ from fields.due_date (%q)", c.Fields.DueDate)
	}

	if _, err := c.CSV.Comma(); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	return nil
}

func uniqueRanks(name string, values []string) error {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return fmt.Errorf("enumerations.%s lists %q more than once", name, v)
		}
		seen[v] = true
	}
	return nil
}

// Comma resolves the delimiter setting to a rune.
func (s CSVSettings) Comma() (rune, error) {
	switch s.Delimiter {
	case "", ",":
		return ',', nil
	case "\\t", "\t", "tab", "TAB":
		return '\t', nil
	case "|", "pipe", "PIPE":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	}

	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return 0, fmt.Errorf("csv.delimiter %q must be a single character", s.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("csv.delimiter %q is not usable", s.Delimiter)
	}
	return r, nil
}
