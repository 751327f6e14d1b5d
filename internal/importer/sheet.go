package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetReader converts a tabular file into rows of cell text, header included.
type SheetReader interface {
	Read(r io.Reader) ([][]string, error)
	Format() string
}

// Registry holds sheet readers keyed by file extension.
type Registry struct {
	readers map[string]SheetReader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]SheetReader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(sr SheetReader) {
	key := strings.ToLower(sr.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate sheet format: " + key)
	}
	r.readers[key] = sr
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) SheetReader {
	return r.readers[strings.ToLower(strings.TrimPrefix(format, "."))]
}

// DefaultRegistry returns a registry with the xlsx and csv readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXReader{})
	r.Register(&CSVReader{})
	return r
}

// ReadFile opens path and reads it with the reader matching its extension.
func (r *Registry) ReadFile(path string) ([][]string, error) {
	sr := r.Get(filepath.Ext(path))
	if sr == nil {
		return nil, fmt.Errorf("unsupported sheet format %q", filepath.Ext(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sheet: %w", err)
	}
	defer f.Close()

	rows, err := sr.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// XLSXReader reads the first worksheet of an .xlsx workbook. Cells are read
// raw, so dates come through as serial day counts.
type XLSXReader struct{}

// Format returns the file extension handled.
func (x *XLSXReader) Format() string { return "xlsx" }

// Read returns every row of the first worksheet.
func (x *XLSXReader) Read(r io.Reader) ([][]string, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// CSVReader reads comma or semicolon separated exports.
type CSVReader struct{}

// Format returns the file extension handled.
func (c *CSVReader) Format() string { return "csv" }

// Read returns every record. Ragged rows are allowed.
func (c *CSVReader) Read(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.Comma = detectComma(text)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return records, nil
}

// detectComma picks ';' when the header line uses it, as spreadsheet exports
// in pt-BR locales do.
func detectComma(text string) rune {
	header, _, _ := strings.Cut(text, "\n")
	if strings.Count(header, ";") > strings.Count(header, ",") {
		return ';'
	}
	return ','
}
