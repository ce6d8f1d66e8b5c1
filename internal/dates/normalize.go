// =============================================================================
// Ticket Sorter - Date Normalizer
// =============================================================================
//
// This module maps raw due-date strings from a tracker export onto values
// with a total order. Empty and unparseable strings map to the maximal value
// so that tickets without a usable due date always sort last when ascending.
//
// NORMALIZATION RULES:
//   - ""  / whitespace      -> Max
//   - unparseable text      -> Max (no error is raised)
//   - any accepted layout   -> the parsed instant (UTC when no zone is given)
//
// =============================================================================

package dates

import (
	"strings"
	"time"
)

// Layouts lists the accepted date layouts in the order they are tried.
// The zone-offset timestamps and the day/Mon/yy forms are what the issue
// tracker itself writes into CSV exports.
var Layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"20060102",
	"02/Jan/06 3:04 PM",
	"02/Jan/06",
	"2/Jan/06 3:04 PM",
	"2/Jan/06",
}

// Instant is a normalized due date. The zero value is Max.
type Instant struct {
	t     time.Time
	valid bool
}

// Max returns the instant that compares greater than every parsed date.
func Max() Instant {
	return Instant{}
}

// Of wraps a concrete time.
func Of(t time.Time) Instant {
	return Instant{t: t.UTC(), valid: true}
}

// Normalize parses raw into an Instant. It never fails: input that does not
// match any layout yields Max.
func Normalize(raw string) Instant {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Max()
	}

	for _, layout := range Layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Of(t)
		}
	}

	return Max()
}

// IsMax reports whether the instant is the "no usable date" value.
func (i Instant) IsMax() bool {
	return !i.valid
}

// Compare returns -1, 0 or +1. Max equals Max and is greater than any date.
func (i Instant) Compare(other Instant) int {
	switch {
	case !i.valid && !other.valid:
		return 0
	case !i.valid:
		return 1
	case !other.valid:
		return -1
	default:
		return i.t.Compare(other.t)
	}
}

// String renders the instant as an ISO date, or "" for Max.
func (i Instant) String() string {
	if !i.valid {
		return ""
	}
	return i.t.Format(time.RFC3339)
}
