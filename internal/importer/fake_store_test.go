package importer

import (
	"context"
	"errors"

	"github.com/cleared-dev/backoffice/internal/model"
)

type fakeStore struct {
	events        []model.Event
	categories    []model.Category
	subcategories []model.Subcategory
	adminID       int64
	hasAdmin      bool

	inserted  []model.PayableRecord
	preexist  int64
	insertErr func(model.PayableRecord) error
	loadErr   error
	countErr  error
}

func (f *fakeStore) ActiveEvents(context.Context) ([]model.Event, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	var out []model.Event
	for _, e := range f.events {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ExpenseCategories(context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range f.categories {
		if c.Type == model.CategoryTypeExpense {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) Subcategories(context.Context) ([]model.Subcategory, error) {
	return f.subcategories, nil
}

func (f *fakeStore) FirstAdminID(context.Context) (int64, bool, error) {
	return f.adminID, f.hasAdmin, nil
}

func (f *fakeStore) InsertPayable(_ context.Context, rec model.PayableRecord) error {
	if f.insertErr != nil {
		if err := f.insertErr(rec); err != nil {
			return err
		}
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeStore) CountPayables(context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.preexist + int64(len(f.inserted)), nil
}

var errConstraint = errors.New(`ERROR: new row violates check constraint "amount_positive" (SQLSTATE 23514)`)

func referenceStore() *fakeStore {
	return &fakeStore{
		events:        []model.Event{{ID: 1, Name: "Evento A", Active: true}},
		categories:    []model.Category{{ID: 5, Name: "aluguel", Type: model.CategoryTypeExpense}},
		subcategories: []model.Subcategory{{ID: 9, Name: "sala", CategoryID: 5}},
	}
}

var header = []string{"Vencimento", "Evento", "Fornecedor", "Categoria", "Subcategoria", "Valor", "Descrição", "Status", "Observações"}
