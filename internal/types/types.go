// =============================================================================
// Ticket Sorter - Shared Types
// =============================================================================
//
// This package contains the record model shared by the I/O adapters, the
// validator, the comparator and the pipeline. It lives on its own to avoid
// import cycles between those packages.
//
// A Record is a row of a tracker export keyed by column name. Cells are kept
// positionally against a shared Header so that column order and duplicated
// column names (common in tracker exports) survive a read/write round trip.
//
// =============================================================================

package types

import (
	"github.com/ginjaninja78/jira-ticket-sorter/internal/dates"
)

// =============================================================================
// HEADER
// =============================================================================

// Header is the ordered column set of a source file.
type Header struct {
	columns []string
	index   map[string][]int
}

// NewHeader builds a Header from column names in source order.
func NewHeader(columns []string) *Header {
	h := &Header{
		columns: append([]string(nil), columns...),
		index:   make(map[string][]int, len(columns)),
	}
	for i, name := range h.columns {
		h.index[name] = append(h.index[name], i)
	}
	return h
}

// Columns returns a copy of the column names in source order.
func (h *Header) Columns() []string {
	return append([]string(nil), h.columns...)
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.columns)
}

// Has reports whether a column with the given name exists.
func (h *Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// =============================================================================
// RECORD
// =============================================================================

// Record is one data row.
type Record struct {
	header *Header
	cells  []string

	// Line is the 1-based line (or sheet row) the record came from.
	// Zero for records built in memory.
	Line int

	// instants holds derived, normalized values keyed by annotation name.
	// They are never serialized.
	instants map[string]dates.Instant
}

// NewRecord creates a record for header. Cells are padded or truncated to
// the header width.
func NewRecord(header *Header, cells []string, line int) *Record {
	row := make([]string, header.Len())
	copy(row, cells)
	return &Record{header: header, cells: row, Line: line}
}

// Header returns the header the record belongs to.
func (r *Record) Header() *Header {
	return r.header
}

// Get returns the value of the named column. When the name is duplicated
// the last occurrence wins. A missing column yields "", false.
func (r *Record) Get(name string) (string, bool) {
	idx, ok := r.header.index[name]
	if !ok {
		return "", false
	}
	return r.cells[idx[len(idx)-1]], true
}

// Value is Get without the presence flag.
func (r *Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Set writes value to every column with the given name. It reports false
// when the column does not exist; records never grow new columns.
func (r *Record) Set(name, value string) bool {
	idx, ok := r.header.index[name]
	if !ok {
		return false
	}
	for _, i := range idx {
		r.cells[i] = value
	}
	return true
}

// Cells returns a copy of the row in header order.
func (r *Record) Cells() []string {
	return append([]string(nil), r.cells...)
}

// Annotate attaches a derived instant under name.
func (r *Record) Annotate(name string, v dates.Instant) {
	if r.instants == nil {
		r.instants = make(map[string]dates.Instant)
	}
	r.instants[name] = v
}

// Instant returns the derived instant stored under name.
func (r *Record) Instant(name string) (dates.Instant, bool) {
	v, ok := r.instants[name]
	return v, ok
}

// Clone returns an independent copy sharing the same header.
func (r *Record) Clone() *Record {
	c := &Record{
		header: r.header,
		cells:  append([]string(nil), r.cells...),
		Line:   r.Line,
	}
	if r.instants != nil {
		c.instants = make(map[string]dates.Instant, len(r.instants))
		for k, v := range r.instants {
			c.instants[k] = v
		}
	}
	return c
}
