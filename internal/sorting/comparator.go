// =============================================================================
// Ticket Sorter - Comparator Engine
// =============================================================================
//
// This module composes an ordered list of sort criteria into a single
// three-way comparison between two records (classic multi-key sort) and
// provides a stable sort built on it.
//
// ORDER MODES:
//   - Custom     : rank by position in an Enumeration, unknown values last
//   - Ascending  : natural order of the value
//   - Descending : inverse natural order
//
// NATURAL ORDER:
//   When a record carries a derived instant under the criterion's field name
//   (see types.Record.Annotate) the instants are compared; a record missing
//   the annotation counts as dates.Max. Otherwise the raw strings are compared
//   lexicographically. A column missing from a record reads as "".
//
// =============================================================================

package sorting

import (
	"slices"
	"strings"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/dates"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/types"
)

// Mode selects how a criterion orders values.
type Mode int

const (
	Custom Mode = iota
	Ascending
	Descending
)

func (m Mode) String() string {
	switch m {
	case Custom:
		return "custom"
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "unknown"
	}
}

// Enumeration is an explicit rank list. Earlier entries sort first.
type Enumeration []string

// Rank returns the position of v, or len(e) when v is not listed.
func (e Enumeration) Rank(v string) int {
	if i := slices.Index(e, v); i >= 0 {
		return i
	}
	return len(e)
}

// Contains reports whether v is listed.
func (e Enumeration) Contains(v string) bool {
	return slices.Contains(e, v)
}

// Criterion is one sort key.
type Criterion struct {
	Field string
	Mode  Mode

	// Enum is only consulted when Mode is Custom.
	Enum Enumeration
}

// ByEnum, Asc and Desc are shorthands for building criteria lists.
func ByEnum(field string, enum Enumeration) Criterion {
	return Criterion{Field: field, Mode: Custom, Enum: enum}
}

func Asc(field string) Criterion {
	return Criterion{Field: field, Mode: Ascending}
}

func Desc(field string) Criterion {
	return Criterion{Field: field, Mode: Descending}
}

// Compare evaluates criteria in order and returns the first non-zero result
// (-1, 0 or +1). Records equal under every criterion compare as 0.
func Compare(a, b *types.Record, criteria []Criterion) int {
	for _, c := range criteria {
		if r := compareOne(a, b, c); r != 0 {
			return r
		}
	}
	return 0
}

func compareOne(a, b *types.Record, c Criterion) int {
	switch c.Mode {
	case Custom:
		ra, rb := c.Enum.Rank(a.Value(c.Field)), c.Enum.Rank(b.Value(c.Field))
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		}
		return 0
	case Ascending:
		return natural(a, b, c.Field)
	case Descending:
		return -natural(a, b, c.Field)
	default:
		return 0
	}
}

// natural compares instants when either record is annotated under field,
// strings otherwise.
func natural(a, b *types.Record, field string) int {
	ia, okA := a.Instant(field)
	ib, okB := b.Instant(field)
	if okA || okB {
		if !okA {
			ia = dates.Max()
		}
		if !okB {
			ib = dates.Max()
		}
		return ia.Compare(ib)
	}
	return strings.Compare(a.Value(field), b.Value(field))
}

// Sort orders records in place. Records that compare equal keep their
// relative order.
func Sort(records []*types.Record, criteria []Criterion) {
	slices.SortStableFunc(records, func(a, b *types.Record) int {
		return Compare(a, b, criteria)
	})
}

// Sorted returns a sorted copy and leaves records untouched.
func Sorted(records []*types.Record, criteria []Criterion) []*types.Record {
	out := slices.Clone(records)
	Sort(out, criteria)
	return out
}
