// =============================================================================
// Ticket Sorter - Field Validator
// =============================================================================
//
// This module checks a parsed record set before it is sorted.
//
// VALIDATION LEVELS:
//   1. Schema : required columns must exist (checked on the first record).
//               A missing column is fatal and returns a *SchemaError.
//   2. Values : each record's status and priority must belong to the known
//               enumeration. An unknown value is a warning: it is reported to
//               the injected logger and the record still sorts, ranked last.
//
// The empty string is always a valid status and priority.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/sorting"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/types"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// SchemaError reports required columns missing from the input.
type SchemaError struct {
	Missing []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns in CSV: %s", strings.Join(e.Missing, ", "))
}

// Warning is a non-fatal finding about a single record.
type Warning struct {
	// Field is the column that held the value.
	Field string

	// Value is the unrecognized value.
	Value string

	// Line is the source line of the record.
	Line int
}

func (w Warning) String() string {
	return fmt.Sprintf("Invalid %s found: %s", w.Field, w.Value)
}

// =============================================================================
// RESULT
// =============================================================================

// Result summarizes a value check.
type Result struct {
	// RecordsChecked is the number of records inspected.
	RecordsChecked int

	// Warnings lists every unrecognized value in record order.
	Warnings []Warning
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Rules describes what the validator enforces.
type Rules struct {
	// RequiredFields must be columns of the first record.
	RequiredFields []string

	StatusField   string
	PriorityField string

	Statuses   sorting.Enumeration
	Priorities sorting.Enumeration
}

// Validator checks record sets against Rules. Warnings go to the logger it
// was built with.
type Validator struct {
	rules  Rules
	logger *zap.Logger
}

// New creates a Validator. A nil logger discards warnings.
func New(rules Rules, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{rules: rules, logger: logger}
}

// Validate runs the schema check and, if it passes, the value check.
func (v *Validator) Validate(records []*types.Record) (*Result, error) {
	if err := v.CheckColumns(records); err != nil {
		return nil, err
	}
	return v.CheckValues(records), nil
}

// CheckColumns confirms the required columns exist on the first record.
// An empty record set has no columns, so every required field is missing.
func (v *Validator) CheckColumns(records []*types.Record) error {
	var missing []string
	for _, field := range v.rules.RequiredFields {
		if len(records) == 0 || !records[0].Header().Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// CheckValues reports every status and priority outside the enumerations.
// It never fails.
func (v *Validator) CheckValues(records []*types.Record) *Result {
	result := &Result{RecordsChecked: len(records)}

	for _, r := range records {
		v.checkValue(result, r, v.rules.StatusField, v.rules.Statuses)
		v.checkValue(result, r, v.rules.PriorityField, v.rules.Priorities)
	}

	return result
}

func (v *Validator) checkValue(result *Result, r *types.Record, field string, enum sorting.Enumeration) {
	value := r.Value(field)
	if value == "" || enum.Contains(value) {
		return
	}

	w := Warning{Field: field, Value: value, Line: r.Line}
	result.Warnings = append(result.Warnings, w)
	v.logger.Warn(w.String(),
		zap.String("field", field),
		zap.String("value", value),
		zap.Int("line", r.Line),
	)
}
