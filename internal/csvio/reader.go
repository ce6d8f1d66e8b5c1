// =============================================================================
// Ticket Sorter - CSV Reader
// =============================================================================
//
// This module reads delimited tracker exports into records. It preserves the
// source row order and the header's column names and order exactly, so the
// writer can reproduce the same column set.
//
// FEATURES:
//   - Streaming Reader (Next/Record/Err) for row-at-a-time consumption
//   - ReadAll for callers that need the whole set (the sorter does)
//   - A leading UTF-8 byte-order mark is dropped from the header
//   - Fully blank rows are skipped; ragged rows are padded or truncated
//
// =============================================================================

package csvio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/types"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNoData is returned when the source has no header row at all.
	ErrNoData = errors.New("the CSV file contains no data")

	// ErrHeadersOnly is returned when the source has a header row but no
	// data rows.
	ErrHeadersOnly = errors.New("the CSV file contains only headers and no content")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// STREAMING READER
// =============================================================================

// Reader yields records one at a time.
//
// USAGE:
//
//	r, err := csvio.Open(path, ',')
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for r.Next() {
//	    rec := r.Record()
//	}
//	if err := r.Err(); err != nil {
//	    return err
//	}
type Reader struct {
	closer  io.Closer
	csv     *csv.Reader
	header  *types.Header
	current *types.Record
	err     error
}

// Open opens path for streaming. It fails with ErrNoData when the file has
// no header row.
func Open(path string, comma rune) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	r, err := NewReader(file, comma)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.closer = file
	return r, nil
}

// NewReader wraps src and reads its header row.
func NewReader(src io.Reader, comma rune) (*Reader, error) {
	buffered := bufio.NewReader(src)
	if prefix, err := buffered.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = buffered.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(buffered)
	configureReader(cr, comma)

	r := &Reader{csv: cr}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		if isRowEmpty(row) {
			continue
		}
		r.header = types.NewHeader(row)
		return r, nil
	}
}

// configureReader applies the reader settings shared by every input.
func configureReader(reader *csv.Reader, comma rune) {
	reader.Comma = comma

	// Exports are not always rectangular; rows are fitted to the header.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.ReuseRecord = false
}

// Next advances to the next non-blank row. It returns false at the end of
// input or on error.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	for {
		row, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			r.err = fmt.Errorf("failed to read CSV file: %w", err)
			return false
		}
		if isRowEmpty(row) {
			continue
		}

		line, _ := r.csv.FieldPos(0)
		r.current = types.NewRecord(r.header, row, line)
		return true
	}
}

// Record returns the current record.
func (r *Reader) Record() *types.Record {
	return r.current
}

// Header returns the parsed header.
func (r *Reader) Header() *types.Header {
	return r.header
}

// Err returns the first read error.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// =============================================================================
// WHOLE-FILE READS
// =============================================================================

// ReadAll streams every record from r. It returns ErrHeadersOnly when the
// header is followed by no data rows, and ctx.Err() if ctx is cancelled
// between rows.
func ReadAll(ctx context.Context, r *Reader) ([]*types.Record, error) {
	var records []*types.Record
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, r.Record())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrHeadersOnly
	}
	return records, nil
}

// ReadFile opens path and reads every record.
func ReadFile(ctx context.Context, path string, comma rune) ([]*types.Record, error) {
	r, err := Open(path, comma)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return ReadAll(ctx, r)
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
