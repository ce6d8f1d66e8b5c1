// =============================================================================
// Ticket Sorter - Workbook Adapter
// =============================================================================
//
// This module gives .xlsx exports the same contract as the CSV adapter: the
// first non-blank row of the sheet is the header, every later non-blank row
// is a record, and writing reproduces the header followed by the records.
//
// SHEET SELECTION:
//   - Read  : the configured sheet, or the first sheet of the workbook
//   - Write : the configured sheet name, or "Sheet1"
//
// =============================================================================

package xlsxio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/csvio"
	"github.com/ginjaninja78/jira-ticket-sorter/internal/types"
	"github.com/ginjaninja78/jira-ticket-sorter/pkg/utils"
)

// DefaultSheet is the sheet name used on write when none is configured.
const DefaultSheet = "Sheet1"

// IsWorkbook reports whether path names an .xlsx file.
func IsWorkbook(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// =============================================================================
// READING
// =============================================================================

// ReadFile reads every record of sheet (first sheet when empty). It returns
// csvio.ErrNoData for a sheet without a header row and csvio.ErrHeadersOnly
// when the header has no data rows beneath it.
func ReadFile(ctx context.Context, path, sheet string) ([]*types.Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, csvio.ErrNoData
		}
		sheet = sheets[0]
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var (
		header  *types.Header
		records []*types.Record
		line    int
	)

	for rows.Next() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q row %d: %w", sheet, line, err)
		}
		if isRowEmpty(cells) {
			continue
		}

		if header == nil {
			header = types.NewHeader(cells)
			continue
		}
		records = append(records, types.NewRecord(header, cells, line))
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	switch {
	case header == nil:
		return nil, csvio.ErrNoData
	case len(records) == 0:
		return nil, csvio.ErrHeadersOnly
	}
	return records, nil
}

func isRowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// WRITING
// =============================================================================

// Write serializes records under header into a new workbook.
func Write(w io.Writer, sheet string, header *types.Header, records []*types.Record) error {
	if header == nil {
		return errors.New("workbook header is nil")
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet %q for writing: %w", sheet, err)
	}

	if err := setRow(sw, 1, header.Columns()); err != nil {
		return err
	}
	for i, r := range records {
		if err := setRow(sw, i+2, r.Cells()); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet %q: %w", sheet, err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(sw *excelize.StreamWriter, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// WriteFile creates or overwrites path with the serialized workbook.
func WriteFile(path, sheet string, header *types.Header, records []*types.Record) error {
	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		return Write(w, sheet, header, records)
	})
}
