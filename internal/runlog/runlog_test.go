package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testTime  = time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	testRunID = uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
)

func testEntry() Entry {
	return Entry{
		RunID:      testRunID,
		StartedAt:  testTime,
		File:       "data/contas_a_pagar.xlsx",
		Imported:   120,
		Skipped:    4,
		Errors:     2,
		TableTotal: 980,
	}
}

func TestAppend_NewFileWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "import-runs.csv")
	require.NoError(t, Append(path, testEntry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, "7d444840-9dc0-11d1-b245-5ffdce74fad2,2025-03-15T09:00:00Z,data/contas_a_pagar.xlsx,false,120,4,2,980", lines[1])
}

func TestAppend_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	require.NoError(t, Append(path, testEntry()))

	second := testEntry()
	second.RunID = uuid.New()
	second.DryRun = true
	second.TableTotal = -1
	require.NoError(t, Append(path, second))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, testEntry(), entries[0])
	assert.Equal(t, second.RunID, entries[1].RunID)
	assert.True(t, entries[1].DryRun)
	assert.Equal(t, int64(-1), entries[1].TableTotal)
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "none.csv"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRead_BadRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	content := Header + "\n" + testRunID.String() + ",yesterday,a.xlsx,false,1,0,0,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestUnmarshalEntry_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"a", "b"})
	assert.Error(t, err)
}
