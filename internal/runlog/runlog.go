// Package runlog keeps an append-only CSV history of import runs.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one import run.
type Entry struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	File       string
	DryRun     bool
	Imported   int
	Skipped    int
	Errors     int
	TableTotal int64
}

// Header is the CSV header of the run log.
const Header = "run_id,started_at,file,dry_run,imported,skipped,errors,table_total"

const (
	numFields = 8

	colRunID      = 0
	colStartedAt  = 1
	colFile       = 2
	colDryRun     = 3
	colImported   = 4
	colSkipped    = 5
	colErrors     = 6
	colTableTotal = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID.String()
	row[colStartedAt] = e.StartedAt.UTC().Format(time.RFC3339)
	row[colFile] = e.File
	row[colDryRun] = strconv.FormatBool(e.DryRun)
	row[colImported] = strconv.Itoa(e.Imported)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colErrors] = strconv.Itoa(e.Errors)
	row[colTableTotal] = strconv.FormatInt(e.TableTotal, 10)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	runID, err := uuid.Parse(record[colRunID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}
	ts, err := time.Parse(time.RFC3339, record[colStartedAt])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing started_at %q: %w", record[colStartedAt], err)
	}
	dryRun, err := strconv.ParseBool(record[colDryRun])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing dry_run %q: %w", record[colDryRun], err)
	}

	var counts [3]int
	for i, col := range []int{colImported, colSkipped, colErrors} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing column %d %q: %w", col, record[col], err)
		}
		counts[i] = n
	}
	total, err := strconv.ParseInt(record[colTableTotal], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing table_total %q: %w", record[colTableTotal], err)
	}

	return Entry{
		RunID:      runID,
		StartedAt:  ts,
		File:       record[colFile],
		DryRun:     dryRun,
		Imported:   counts[0],
		Skipped:    counts[1],
		Errors:     counts[2],
		TableTotal: total,
	}, nil
}

// Append adds entries to the log at path, creating the file and header if needed.
func Append(path string, entries ...Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating run log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every entry in the log at path. A missing file is an empty log.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
