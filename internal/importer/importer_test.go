package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/backoffice/internal/model"
)

func TestRun_SingleRowImported(t *testing.T) {
	store := referenceStore()
	im := New(store, nil, Options{})

	report, err := im.Run(context.Background(), [][]string{
		header,
		{"45292", "evento a", "", "Aluguel", "Sala", "100.00", "desc", "Pago", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Empty(t, report.Errors)
	require.Len(t, store.inserted, 1)

	rec := store.inserted[0]
	assert.Equal(t, "2024-01-01", rec.DueDate)
	assert.Equal(t, int64(1), rec.EventID)
	assert.Equal(t, int64(5), rec.CategoryID)
	assert.Equal(t, int64(9), rec.SubcategoryID)
	assert.Equal(t, int64(10000), rec.AmountCents)
	assert.Equal(t, model.PayableStatusPaid, rec.Status)
	assert.Equal(t, "desc", rec.Description)
	assert.Nil(t, rec.SupplierID)
	assert.Equal(t, DefaultFallbackActorID, rec.CreatedBy)
	assert.Equal(t, int64(1), report.TableTotal)
}

func TestRun_MissingSubcategory(t *testing.T) {
	store := referenceStore()
	im := New(store, nil, Options{})

	report, err := im.Run(context.Background(), [][]string{
		header,
		{"45292", "evento a", "", "Aluguel", "Inexistente", "100.00", "desc", "Pago", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Imported)
	assert.Empty(t, store.inserted)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 2, report.Errors[0].Line)
	assert.Equal(t, "Subcategoria não encontrada: Inexistente", report.Errors[0].Message)
	assert.Equal(t, []string{"Inexistente"}, report.MissingSubcategories)
}

func TestRun_MissingSubcategoriesDeduplicated(t *testing.T) {
	store := referenceStore()
	im := New(store, nil, Options{})

	report, err := im.Run(context.Background(), [][]string{
		header,
		{"45292", "evento a", "", "Aluguel", "Limpeza", "1", "", "", ""},
		{"45293", "evento a", "", "Aluguel", "Limpeza", "2", "", "", ""},
		{"45294", "evento a", "", "Aluguel", "", "3", "", "", ""},
		{"45295", "evento a", "", "Aluguel", "Segurança", "4", "", "", ""},
	})
	require.NoError(t, err)

	assert.Len(t, report.Errors, 4)
	assert.Equal(t, []string{"Limpeza", "Segurança"}, report.MissingSubcategories)
}

func TestRun_SkipsBlankRowsSilently(t *testing.T) {
	store := referenceStore()
	im := New(store, nil, Options{})

	report, err := im.Run(context.Background(), [][]string{
		header,
		{"", "evento a", "", "Aluguel", "Sala", "10", "", "", ""},
		{"45292", "", "", "Aluguel", "Sala", "10", "", "", ""},
		{"45292", "   ", "", "Aluguel", "Sala", "10", "", "", ""},
		{},
		{"45292", "evento a", "", "Aluguel", "Sala", "10", "", "", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, report.Skipped)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 1, report.Imported)
}

func TestRun_ErrorMessagesAndLineNumbers(t *testing.T) {
	store := referenceStore()
	im := New(store, nil, Options{})

	report, err := im.Run(context.Background(), [][]string{
		header,
		{"45292", "Festival", "", "Aluguel", "Sala", "10", "", "", ""},
		{"45292", "evento a", "", "Buffet", "Sala", "10", "", "", ""},
		{"abc", "evento a", "", "Aluguel", "Sala", "10", "", "", ""},
		{"45292", "evento a", "", "Aluguel", "Sala", "dez", "", "", ""},
	})
	require.NoError(t, err)

	require.Len(t, report.Errors, 4)
	assert.Equal(t, RowError{Line: 2, Message: "Evento não encontrado: Festival"}, report.Errors[0])
	assert.Equal(t, RowError{Line: 3, Message: "Categoria não encontrada: Buffet"}, report.Errors[1])
	assert.Equal(t, RowError{Line: 4, Message: "Data inválida: abc"}, report.Errors[2])
	assert.Equal(t, RowError{Line: 5, Message: "Valor inválido: dez"}, report.Errors[3])
	assert.Empty(t, report.MissingSubcategories)
}

func TestRun_AmountSeparators(t *testing.T) {
	store := referenceStore()
	im := New(store, nil, Options{})

	report, err := im.Run(context.Background(), [][]string{
		header,
		{"45292", "evento a", "", "Aluguel", "Sala", "1,234.50", "", "", ""},
		{"45292", "evento a", "", "Aluguel", "Sala", "1.234,50", "", "", ""},
		{"45292", "evento a", "", "Aluguel", "Sala", "1,234", "", "", ""},
		{"45292", "evento a", "", "Aluguel", "Sala", "1.234", "", "", ""},
	})
	require.NoError(t, err)

	require.Len(t, store.inserted, 2)
	assert.Equal(t, int64(123450), store.inserted[0].AmountCents)
	assert.Equal(t, int64(123450), store.inserted[1].AmountCents)
	assert.Equal(t, []RowError{
		{Line: 4, Message: "Valor inválido: 1,234"},
		{Line: 5, Message: "Valor inválido: 1.234"},
	}, report.Errors)
}

func TestRun_InsertFailureDoesNotStopBatch(t *testing.T) {
	store := referenceStore()
	store.insertErr = func(rec model.PayableRecord) error {
		if rec.AmountCents < 0 {
			return errConstraint
		}
		return nil
	}
	im := New(store, nil, Options{})

	report, err := im.Run(context.Background(), [][]string{
		header,
		{"45292", "evento a", "", "Aluguel", "Sala", "10", "", "", ""},
		{"45293", "evento a", "", "Aluguel", "Sala", "-5", "", "", ""},
		{"45294", "evento a", "", "Aluguel", "Sala", "20", "", "", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 3, report.Errors[0].Line)
	assert.Equal(t, errConstraint.Error(), report.Errors[0].Message)
	assert.Equal(t, int64(2), report.TableTotal)
}

func TestRun_EventPartialMatch(t *testing.T) {
	store := referenceStore()
	store.events = []model.Event{
		{ID: 1, Name: "Casamento Silva", Active: true},
		{ID: 2, Name: "Casamento Souza", Active: true},
		{ID: 3, Name: "Inativo", Active: false},
	}
	im := New(store, nil, Options{})

	report, err := im.Run(context.Background(), [][]string{
		header,
		{"45292", "Casamento", "", "Aluguel", "Sala", "1", "", "", ""},
		{"45292", "casamento souza 2024", "", "Aluguel", "Sala", "1", "", "", ""},
		{"45292", "Inativo", "", "Aluguel", "Sala", "1", "", "", ""},
	})
	require.NoError(t, err)

	require.Len(t, store.inserted, 2)
	assert.Equal(t, int64(1), store.inserted[0].EventID, "ambiguous partial takes the first key")
	assert.Equal(t, int64(2), store.inserted[1].EventID)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "Evento não encontrado: Inativo", report.Errors[0].Message)
}

func TestRun_UniqueEventResolverRejectsAmbiguity(t *testing.T) {
	store := referenceStore()
	store.events = []model.Event{
		{ID: 1, Name: "Casamento Silva", Active: true},
		{ID: 2, Name: "Casamento Souza", Active: true},
	}
	im := New(store, nil, Options{EventResolver: UniquePartialMatch})

	report, err := im.Run(context.Background(), [][]string{
		header,
		{"45292", "Casamento", "", "Aluguel", "Sala", "1", "", "", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	require.Len(t, report.Errors, 1)
}

func TestRun_SubcategoryParentNotEnforcedByDefault(t *testing.T) {
	store := referenceStore()
	store.categories = append(store.categories, model.Category{ID: 6, Name: "Buffet", Type: model.CategoryTypeExpense})
	rows := [][]string{
		header,
		{"45292", "evento a", "", "Buffet", "Sala", "1", "", "", ""},
	}

	report, err := New(store, nil, Options{}).Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)

	report, err = New(store, nil, Options{EnforceSubcategoryParent: true}).Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "Subcategoria Sala não pertence à categoria Buffet", report.Errors[0].Message)
}

func TestRun_RevenueCategoriesNotResolved(t *testing.T) {
	store := referenceStore()
	store.categories = append(store.categories, model.Category{ID: 7, Name: "Ingressos", Type: model.CategoryTypeRevenue})
	report, err := New(store, nil, Options{}).Run(context.Background(), [][]string{
		header,
		{"45292", "evento a", "", "Ingressos", "Sala", "1", "", "", ""},
	})
	require.NoError(t, err)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "Categoria não encontrada: Ingressos", report.Errors[0].Message)
}

func TestRun_AdminActor(t *testing.T) {
	store := referenceStore()
	store.adminID, store.hasAdmin = 42, true
	_, err := New(store, nil, Options{FallbackActorID: 7}).Run(context.Background(), [][]string{
		header,
		{"45292", "evento a", "", "Aluguel", "Sala", "1", "", "", ""},
	})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, int64(42), store.inserted[0].CreatedBy)
}

func TestRun_FallbackActor(t *testing.T) {
	store := referenceStore()
	_, err := New(store, nil, Options{FallbackActorID: 7}).Run(context.Background(), [][]string{
		header,
		{"45292", "evento a", "", "Aluguel", "Sala", "1", "", "", ""},
	})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, int64(7), store.inserted[0].CreatedBy)
}

func TestRun_DryRunInsertsNothing(t *testing.T) {
	store := referenceStore()
	store.preexist = 10
	report, err := New(store, nil, Options{DryRun: true}).Run(context.Background(), [][]string{
		header,
		{"45292", "evento a", "", "Aluguel", "Sala", "1", "", "", ""},
	})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Imported)
	assert.Len(t, report.Records, 1)
	assert.Empty(t, store.inserted)
	assert.Equal(t, int64(10), report.TableTotal)
}

func TestRun_ReferenceLoadFailureIsFatal(t *testing.T) {
	store := referenceStore()
	store.loadErr = errors.New("connection refused")

	report, err := New(store, nil, Options{}).Run(context.Background(), [][]string{header})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "loading events")
	assert.Empty(t, store.inserted)
}

func TestRun_CountFailureIsReported(t *testing.T) {
	store := referenceStore()
	store.countErr = errors.New("timeout")

	report, err := New(store, nil, Options{}).Run(context.Background(), [][]string{header})
	require.NoError(t, err)
	assert.Equal(t, int64(-1), report.TableTotal)
}

func TestRun_HeaderOnlyAndEmpty(t *testing.T) {
	for _, rows := range [][][]string{nil, {header}} {
		report, err := New(referenceStore(), nil, Options{}).Run(context.Background(), rows)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Imported)
		assert.Empty(t, report.Errors)
	}
}

func TestClassify_ShortRow(t *testing.T) {
	im := New(referenceStore(), nil, Options{})
	refs, err := im.LoadReferences(context.Background())
	require.NoError(t, err)

	out := im.Classify(refs, 2, []string{"45292", "evento a", "", "aluguel", "sala"})
	require.Equal(t, OutcomeReady, out.Kind)
	assert.Equal(t, int64(0), out.Record.AmountCents)
	assert.Equal(t, model.PayableStatusPending, out.Record.Status)
	assert.Empty(t, out.Record.Notes)
}
