package csvio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/types"
	"github.com/ginjaninja78/jira-ticket-sorter/pkg/utils"
)

// Write serializes records under header. Only header columns are written,
// so derived annotations never reach the output.
func Write(w io.Writer, header *types.Header, records []*types.Record, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(header.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Cells()); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", r.Line, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteFile creates or overwrites path with the serialized records.
func WriteFile(path string, header *types.Header, records []*types.Record, comma rune) error {
	return utils.WriteFileAtomic(path, func(w io.Writer) error {
		return Write(w, header, records, comma)
	})
}
