package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cleared-dev/backoffice/internal/model"
)

const dateFormat = "2006-01-02"

// ActiveEvents returns active events ordered by id.
func (s *Store) ActiveEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, active
		FROM events
		WHERE active
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Event, error) {
		var e model.Event
		err := row.Scan(&e.ID, &e.Name, &e.Active)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning events: %w", err)
	}
	return events, nil
}

// ExpenseCategories returns expense categories ordered by id.
func (s *Store) ExpenseCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, type
		FROM categories
		WHERE type = $1
		ORDER BY id
	`, string(model.CategoryTypeExpense))
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Category, error) {
		var c model.Category
		var typ string
		err := row.Scan(&c.ID, &c.Name, &typ)
		c.Type = model.CategoryType(typ)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning categories: %w", err)
	}
	return categories, nil
}

// Subcategories returns every subcategory ordered by id.
func (s *Store) Subcategories(ctx context.Context) ([]model.Subcategory, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, category_id
		FROM subcategories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying subcategories: %w", err)
	}
	subs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Subcategory, error) {
		var sc model.Subcategory
		err := row.Scan(&sc.ID, &sc.Name, &sc.CategoryID)
		return sc, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning subcategories: %w", err)
	}
	return subs, nil
}

// FirstAdminID returns the administrator with the lowest id.
func (s *Store) FirstAdminID(ctx context.Context) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		SELECT id
		FROM users
		WHERE profile = $1
		ORDER BY id
		LIMIT 1
	`, string(model.ProfileAdmin)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying admin user: %w", err)
	}
	return id, true, nil
}

// InsertPayable appends one account payable.
func (s *Store) InsertPayable(ctx context.Context, rec model.PayableRecord) error {
	due, err := time.Parse(dateFormat, rec.DueDate)
	if err != nil {
		return fmt.Errorf("parsing due date %q: %w", rec.DueDate, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO accounts_payable
			(due_date, event_id, supplier_id, category_id, subcategory_id,
			 amount_cents, description, status, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
	`, due, rec.EventID, rec.SupplierID, rec.CategoryID, rec.SubcategoryID,
		rec.AmountCents, rec.Description, string(rec.Status), rec.Notes, rec.CreatedBy)
	if err != nil {
		s.logger.Debug("insert payable failed",
			zap.String("due_date", rec.DueDate),
			zap.Int64("event_id", rec.EventID),
			zap.Error(err),
		)
		return serverError("inserting payable", err)
	}
	return nil
}

// CountPayables returns the number of rows in accounts_payable.
func (s *Store) CountPayables(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM accounts_payable`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting payables: %w", err)
	}
	return n, nil
}
