package csvio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/jira-ticket-sorter/internal/types"
)

func readString(t *testing.T, data string) ([]*types.Record, error) {
	t.Helper()
	r, err := NewReader(strings.NewReader(data), ',')
	if err != nil {
		return nil, err
	}
	return ReadAll(context.Background(), r)
}

func TestReadAll_PreservesOrderAndColumns(t *testing.T) {
	t.Parallel()
	records, err := readString(t, "Status,Priority,DueDate\nTo Do,High,2024-12-01\nIn Development,Medium,2024-11-01\n")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"Status", "Priority", "DueDate"}, records[0].Header().Columns())
	assert.Equal(t, "To Do", records[0].Value("Status"))
	assert.Equal(t, "In Development", records[1].Value("Status"))
	assert.Equal(t, 2, records[0].Line)
	assert.Equal(t, 3, records[1].Line)
}

func TestReadAll_EmptySource(t *testing.T) {
	t.Parallel()
	_, err := readString(t, "")
	require.ErrorIs(t, err, ErrNoData)
}

func TestReadAll_HeadersOnly(t *testing.T) {
	t.Parallel()
	_, err := readString(t, "Status,Priority,DueDate\n")
	require.ErrorIs(t, err, ErrHeadersOnly)
	assert.NotEqual(t, ErrNoData.Error(), err.Error())
	assert.Contains(t, err.Error(), "only headers")
}

func TestReadAll_BOMBlankAndRaggedRows(t *testing.T) {
	t.Parallel()
	data := "\xEF\xBB\xBFKey,Status,Priority\nT-1,Done\n\n , , \nT-2,To Do,Low,extra\n"
	records, err := readString(t, data)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.True(t, records[0].Header().Has("Key"))
	assert.Equal(t, []string{"T-1", "Done", ""}, records[0].Cells())
	assert.Equal(t, []string{"T-2", "To Do", "Low"}, records[1].Cells())
	assert.Equal(t, 5, records[1].Line)
}

func TestReadAll_QuotedFields(t *testing.T) {
	t.Parallel()
	records, err := readString(t, "Summary,Status\n\"Fix, then ship\",\"Done\"\n\"multi\nline\",To Do\n")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Fix, then ship", records[0].Value("Summary"))
	assert.Equal(t, "multi\nline", records[1].Value("Summary"))
}

func TestReadAll_Cancelled(t *testing.T) {
	t.Parallel()
	r, err := NewReader(strings.NewReader("Status\nDone\n"), ',')
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ReadAll(ctx, r)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "Jira.csv"), ',')
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "failed to read CSV file")
}

func TestStreamingReader(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("Key;Status\nA;Done\nB;To Do\n"), 0o644))

	r, err := Open(path, ';')
	require.NoError(t, err)
	defer r.Close()

	var keys []string
	for r.Next() {
		keys = append(keys, r.Record().Value("Key"))
	}
	require.NoError(t, r.Err())
	assert.Equal(t, []string{"A", "B"}, keys)
	assert.Equal(t, 2, r.Header().Len())
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()
	src := "Key,Labels,Status,Labels\nT-1,a,Done,b\nT-2,\"x,y\",To Do,\n"
	records, err := readString(t, src)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records[0].Header(), records, ','))
	assert.Equal(t, src, buf.String())
}

func TestWriteFile_Overwrites(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "Sorted_Jira_Output.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	records, err := readString(t, "Status\nDone\n")
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, records[0].Header(), records, ','))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Status\nDone\n", string(got))

	again, err := ReadFile(context.Background(), path, ',')
	require.NoError(t, err)
	assert.Equal(t, records[0].Cells(), again[0].Cells())
}
