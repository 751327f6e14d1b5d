package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cleared-dev/backoffice/internal/model"
	"github.com/cleared-dev/backoffice/internal/money"
)

// OutcomeKind classifies what happened to one sheet row.
type OutcomeKind string

const (
	OutcomeReady    OutcomeKind = "ready" // resolved, not yet persisted
	OutcomeImported OutcomeKind = "imported"
	OutcomeSkipped  OutcomeKind = "skipped"
	OutcomeFailed   OutcomeKind = "failed"
)

// RowOutcome is the result of processing one sheet row.
type RowOutcome struct {
	Line               int // 1-based sheet line; the header is line 1
	Kind               OutcomeKind
	Record             *model.PayableRecord
	Message            string
	MissingSubcategory string
}

// RowError is a row that could not be imported.
type RowError struct {
	Line    int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("linha %d: %s", e.Line, e.Message)
}

// DefaultErrorDisplayLimit is the most row errors Print lists individually.
const DefaultErrorDisplayLimit = 50

// Report summarizes an import run.
type Report struct {
	DryRun               bool
	Imported             int
	Skipped              int
	Errors               []RowError
	MissingSubcategories []string
	Records              []model.PayableRecord
	// AmountCents sums the amounts of imported (or, in a dry run, importable) rows.
	AmountCents          int64
	// TableTotal is the payable count after the run, -1 if it could not be read.
	TableTotal           int64

	missingSeen map[string]bool
}

func newReport(dryRun bool) *Report {
	return &Report{DryRun: dryRun, missingSeen: make(map[string]bool)}
}

func (r *Report) add(out RowOutcome) {
	switch out.Kind {
	case OutcomeImported:
		r.Imported++
		if out.Record != nil {
			r.Records = append(r.Records, *out.Record)
			r.AmountCents += out.Record.AmountCents
		}
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Errors = append(r.Errors, RowError{Line: out.Line, Message: out.Message})
		if name := out.MissingSubcategory; name != "" && !r.missingSeen[name] {
			r.missingSeen[name] = true
			r.MissingSubcategories = append(r.MissingSubcategories, name)
		}
	}
}

// Print writes the human-readable summary. Row errors are listed one by one
// only when there are at most limit of them.
func (r *Report) Print(w io.Writer, limit int) {
	if r.DryRun {
		fmt.Fprintln(w, "Simulação concluída (nenhuma linha gravada)")
	} else {
		fmt.Fprintln(w, "Importação concluída")
	}
	fmt.Fprintf(w, "  Importados: %d\n", r.Imported)
	fmt.Fprintf(w, "  Valor:      R$ %s\n", money.Format(r.AmountCents))
	fmt.Fprintf(w, "  Ignorados:  %d\n", r.Skipped)
	fmt.Fprintf(w, "  Erros:      %d\n", len(r.Errors))

	if len(r.MissingSubcategories) > 0 {
		fmt.Fprintln(w, "\nSubcategorias não encontradas (cadastre-as e importe novamente):")
		for _, name := range r.MissingSubcategories {
			fmt.Fprintf(w, "  - %s\n", name)
		}
	}

	if len(r.Errors) > 0 {
		if len(r.Errors) <= limit {
			fmt.Fprintln(w, "\nErros:")
			for _, e := range r.Errors {
				fmt.Fprintf(w, "  %s\n", e.Error())
			}
		} else {
			fmt.Fprintf(w, "\n%d erros; use --errors-csv para a lista completa.\n", len(r.Errors))
		}
	}

	if r.TableTotal >= 0 {
		fmt.Fprintf(w, "\nTotal em contas a pagar: %d\n", r.TableTotal)
	} else {
		fmt.Fprintln(w, "\nTotal em contas a pagar: indisponível")
	}
}

// ErrorsHeader is the CSV header written by WriteErrors.
const ErrorsHeader = "line,message"

// WriteErrors writes row errors as CSV.
func (r *Report) WriteErrors(w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ErrorsHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range r.Errors {
		if err := cw.Write([]string{strconv.Itoa(e.Line), e.Message}); err != nil {
			return fmt.Errorf("writing error %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveErrors writes row errors to a CSV file, creating its directory.
func (r *Report) SaveErrors(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating errors dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating errors file: %w", err)
	}
	defer f.Close()

	if err := r.WriteErrors(f); err != nil {
		return fmt.Errorf("writing errors file: %w", err)
	}
	return nil
}
