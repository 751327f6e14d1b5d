package importer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cleared-dev/backoffice/internal/model"
	"github.com/cleared-dev/backoffice/internal/money"
)

// Store is the persistence the importer reads references from and writes payables to.
type Store interface {
	ActiveEvents(ctx context.Context) ([]model.Event, error)
	ExpenseCategories(ctx context.Context) ([]model.Category, error)
	Subcategories(ctx context.Context) ([]model.Subcategory, error)
	// FirstAdminID returns the lowest-id administrator, if any.
	FirstAdminID(ctx context.Context) (int64, bool, error)
	InsertPayable(ctx context.Context, rec model.PayableRecord) error
	CountPayables(ctx context.Context) (int64, error)
}

// Sheet columns, in file order.
const (
	colDueDate = iota
	colEvent
	colSupplier
	colCategory
	colSubcategory
	colAmount
	colDescription
	colStatus
	colNotes
)

// DefaultFallbackActorID attributes rows when no administrator exists.
const DefaultFallbackActorID int64 = 1

// Options controls resolution policy.
type Options struct {
	// EventResolver resolves event names. Defaults to FirstPartialMatch.
	EventResolver Resolver
	// EnforceSubcategoryParent rejects rows whose subcategory belongs to a
	// different category than the one named on the row.
	EnforceSubcategoryParent bool
	// FallbackActorID is used as created_by when no administrator exists.
	FallbackActorID int64
	// DryRun resolves every row without inserting.
	DryRun bool
}

// Importer runs the payable sheet import against a Store.
type Importer struct {
	store  Store
	logger *zap.Logger
	opts   Options
}

// New creates an Importer. A nil logger discards output.
func New(store Store, logger *zap.Logger, opts Options) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.EventResolver == nil {
		opts.EventResolver = FirstPartialMatch
	}
	if opts.FallbackActorID == 0 {
		opts.FallbackActorID = DefaultFallbackActorID
	}
	return &Importer{store: store, logger: logger, opts: opts}
}

// References are the lookups built once per run.
type References struct {
	Events        *Lookup
	Categories    *Lookup
	Subcategories *Lookup
	ActorID       int64
}

// LoadReferences fetches and indexes events, expense categories, subcategories
// and the default actor. Any failure aborts the run.
func (im *Importer) LoadReferences(ctx context.Context) (*References, error) {
	events, err := im.store.ActiveEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	categories, err := im.store.ExpenseCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}
	subcategories, err := im.store.Subcategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading subcategories: %w", err)
	}
	actorID, ok, err := im.store.FirstAdminID(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading admin user: %w", err)
	}
	if !ok {
		actorID = im.opts.FallbackActorID
		im.logger.Warn("no administrator found, using fallback actor", zap.Int64("actor_id", actorID))
	}

	refs := &References{
		Events:        NewLookup(),
		Categories:    NewLookup(),
		Subcategories: NewLookup(),
		ActorID:       actorID,
	}
	for _, e := range events {
		refs.Events.Add(e.Name, Entry{ID: e.ID})
	}
	for _, c := range categories {
		refs.Categories.Add(c.Name, Entry{ID: c.ID})
	}
	for _, s := range subcategories {
		refs.Subcategories.Add(s.Name, Entry{ID: s.ID, ParentID: s.CategoryID})
	}

	im.logger.Info("references loaded",
		zap.Int("events", refs.Events.Len()),
		zap.Int("categories", refs.Categories.Len()),
		zap.Int("subcategories", refs.Subcategories.Len()),
		zap.Int64("actor_id", actorID),
	)
	return refs, nil
}

// Run imports rows (header first) and returns the run report. Only reference
// loading failures are returned as errors; row problems land in the report.
func (im *Importer) Run(ctx context.Context, rows [][]string) (*Report, error) {
	refs, err := im.LoadReferences(ctx)
	if err != nil {
		return nil, err
	}

	report := newReport(im.opts.DryRun)
	if len(rows) > 1 {
		for i, row := range rows[1:] {
			line := i + 2
			out := im.Classify(refs, line, row)
			if out.Kind == OutcomeReady {
				out = im.persist(ctx, out)
			}
			report.add(out)
		}
	}

	total, err := im.store.CountPayables(ctx)
	if err != nil {
		im.logger.Warn("counting payables failed", zap.Error(err))
		total = -1
	}
	report.TableTotal = total

	im.logger.Info("import finished",
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Errors)),
		zap.Int64("table_total", total),
	)
	return report, nil
}

// Classify turns one sheet row into an outcome without touching the store.
func (im *Importer) Classify(refs *References, line int, row []string) RowOutcome {
	dueCell := cell(row, colDueDate)
	eventName := cell(row, colEvent)
	if blankDate(dueCell) || strings.TrimSpace(eventName) == "" {
		return RowOutcome{Line: line, Kind: OutcomeSkipped}
	}

	dueDate, err := ParseDueDate(dueCell)
	if err != nil {
		return failed(line, "Data inválida: "+dueCell)
	}

	event, ok := im.opts.EventResolver(eventName, refs.Events)
	if !ok {
		return failed(line, "Evento não encontrado: "+eventName)
	}

	categoryName := cell(row, colCategory)
	category, ok := ExactMatch(categoryName, refs.Categories)
	if !ok {
		return failed(line, "Categoria não encontrada: "+categoryName)
	}

	subName := cell(row, colSubcategory)
	sub, ok := ExactMatch(subName, refs.Subcategories)
	if !ok {
		out := failed(line, "Subcategoria não encontrada: "+subName)
		out.MissingSubcategory = strings.TrimSpace(subName)
		return out
	}
	if im.opts.EnforceSubcategoryParent && sub.ParentID != category.ID {
		return failed(line, fmt.Sprintf("Subcategoria %s não pertence à categoria %s", subName, categoryName))
	}

	amountCell := cell(row, colAmount)
	amount, err := money.ParseAmount(amountCell)
	if err != nil {
		return failed(line, "Valor inválido: "+amountCell)
	}

	rec := model.PayableRecord{
		DueDate:       dueDate,
		EventID:       event.ID,
		CategoryID:    category.ID,
		SubcategoryID: sub.ID,
		AmountCents:   money.ToCents(amount),
		Description:   cell(row, colDescription),
		Status:        ParseStatus(cell(row, colStatus)),
		Notes:         cell(row, colNotes),
		CreatedBy:     refs.ActorID,
	}
	return RowOutcome{Line: line, Kind: OutcomeReady, Record: &rec}
}

func (im *Importer) persist(ctx context.Context, out RowOutcome) RowOutcome {
	if im.opts.DryRun {
		out.Kind = OutcomeImported
		return out
	}
	if err := im.store.InsertPayable(ctx, *out.Record); err != nil {
		im.logger.Debug("insert failed", zap.Int("line", out.Line), zap.Error(err))
		return failed(out.Line, err.Error())
	}
	out.Kind = OutcomeImported
	return out
}

func failed(line int, msg string) RowOutcome {
	return RowOutcome{Line: line, Kind: OutcomeFailed, Message: msg}
}

func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}
