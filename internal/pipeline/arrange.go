// =============================================================================
// Ticket Sorter - Arrange
// =============================================================================
//
// This module holds the in-memory part of a sort. It never touches files.
//
// BUCKETS (output order):
//   1. Terminal  : finished tickets, flag cleared
//   2. Flagged   : open tickets carrying the flag marker, earliest due first
//   3. Remaining : everything else
//
// Each bucket keeps the primary order (status, priority, due date) except
// the flagged bucket, which is re-sorted by due date and then priority.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"slices"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/config"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/dates"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/sorting"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/types"
)

// Rules carries everything the in-memory transform needs.
type Rules struct {
	StatusField   string
	PriorityField string
	DueDateField  string
	FlagField     string

	// ParsedDueDate names the derived due date annotation.
	ParsedDueDate string

	Statuses   sorting.Enumeration
	Priorities sorting.Enumeration

	// TerminalStatuses select bucket 1.
	TerminalStatuses []string

	// FlagMarker selects bucket 2 among non-terminal records.
	FlagMarker string
}

// RulesFromConfig maps configuration onto Rules.
func RulesFromConfig(cfg *config.Config) Rules {
	return Rules{
		StatusField:      cfg.Fields.Status,
		PriorityField:    cfg.Fields.Priority,
		DueDateField:     cfg.Fields.DueDate,
		FlagField:        cfg.Fields.Flag,
		ParsedDueDate:    cfg.Fields.ParsedDueDate,
		Statuses:         sorting.Enumeration(cfg.Enumerations.Status),
		Priorities:       sorting.Enumeration(cfg.Enumerations.Priority),
		TerminalStatuses: cfg.Buckets.TerminalStatuses,
		FlagMarker:       cfg.Buckets.FlagMarker,
	}
}

// PrimaryCriteria orders the full set: status, priority, due date.
func (r Rules) PrimaryCriteria() []sorting.Criterion {
	return []sorting.Criterion{
		sorting.ByEnum(r.StatusField, r.Statuses),
		sorting.ByEnum(r.PriorityField, r.Priorities),
		sorting.Asc(r.ParsedDueDate),
	}
}

// TriageCriteria orders the flagged bucket: due date, then priority.
func (r Rules) TriageCriteria() []sorting.Criterion {
	return []sorting.Criterion{
		sorting.Asc(r.ParsedDueDate),
		sorting.ByEnum(r.PriorityField, r.Priorities),
	}
}

// Buckets is the post-sort partition.
type Buckets struct {
	// Terminal holds finished work, flag cleared.
	Terminal []*types.Record

	// Flagged holds open work carrying the flag marker.
	Flagged []*types.Record

	// Remaining holds everything else.
	Remaining []*types.Record
}

// Len is the total number of records across buckets.
func (b Buckets) Len() int {
	return len(b.Terminal) + len(b.Flagged) + len(b.Remaining)
}

// Merge concatenates the buckets in output order.
func (b Buckets) Merge() []*types.Record {
	out := make([]*types.Record, 0, b.Len())
	out = append(out, b.Terminal...)
	out = append(out, b.Flagged...)
	return append(out, b.Remaining...)
}

// Annotate attaches the normalized due date to every record. A record
// without the due date column is annotated as undated.
func Annotate(records []*types.Record, rules Rules) {
	for _, r := range records {
		r.Annotate(rules.ParsedDueDate, dates.Normalize(r.Value(rules.DueDateField)))
	}
}

// Partition splits records, already in primary order, into buckets while
// keeping that order inside each bucket. Terminal records get their flag
// cleared.
func Partition(records []*types.Record, rules Rules) Buckets {
	var b Buckets
	for _, r := range records {
		switch {
		case slices.Contains(rules.TerminalStatuses, r.Value(rules.StatusField)):
			r.Set(rules.FlagField, "")
			b.Terminal = append(b.Terminal, r)
		case r.Value(rules.FlagField) == rules.FlagMarker:
			b.Flagged = append(b.Flagged, r)
		default:
			b.Remaining = append(b.Remaining, r)
		}
	}
	return b
}

// Arrange runs the in-memory part of a sort: annotate, primary sort,
// partition, re-sort the flagged bucket. The input slice and its records are
// not modified; the returned buckets hold copies.
func Arrange(records []*types.Record, rules Rules) (Buckets, error) {
	work := make([]*types.Record, len(records))
	for i, r := range records {
		work[i] = r.Clone()
	}

	Annotate(work, rules)

	buckets := Partition(sorting.Sorted(work, rules.PrimaryCriteria()), rules)
	sorting.Sort(buckets.Flagged, rules.TriageCriteria())

	if buckets.Len() != len(records) {
		return Buckets{}, fmt.Errorf("%w: partitioned %d of %d records", ErrInternal, buckets.Len(), len(records))
	}
	return buckets, nil
}
