package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cleared-dev/backoffice/internal/model"
)

// Modules returns the module catalog in display order.
func (s *Store) Modules(ctx context.Context) ([]model.Module, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, available
		FROM modules
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying modules: %w", err)
	}
	modules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Module, error) {
		var m model.Module
		err := row.Scan(&m.ID, &m.Name, &m.Available)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning modules: %w", err)
	}
	return modules, nil
}

// UserExists reports whether a user id is present.
func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1`, userID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying user %d: %w", userID, err)
	}
	return true, nil
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// UserPermissions returns a user's module grants in the order they were enabled.
func (s *Store) UserPermissions(ctx context.Context, userID int64) ([]model.ModulePermission, error) {
	return queryPermissions(ctx, s.db, userID)
}

// SaveUserPermissions replaces all of a user's module grants with perms.
func (s *Store) SaveUserPermissions(ctx context.Context, userID int64, perms []model.ModulePermission) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return replacePermissions(ctx, tx, userID, perms)
	})
	if err != nil {
		s.logger.Error("saving permissions failed", zap.Int64("user_id", userID), zap.Error(err))
		return err
	}
	s.logger.Info("permissions saved", zap.Int64("user_id", userID), zap.Int("modules", len(perms)))
	return nil
}

// UpdateUserPermissions applies fn to a user's current grants and stores the
// result in one transaction. The user row is locked for the duration, so
// concurrent updates for the same user are applied one after the other.
func (s *Store) UpdateUserPermissions(ctx context.Context, userID int64, fn func([]model.ModulePermission) []model.ModulePermission) ([]model.ModulePermission, error) {
	var next []model.ModulePermission
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		var id int64
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&id); err != nil {
			return fmt.Errorf("locking user %d: %w", userID, err)
		}
		current, err := queryPermissions(ctx, tx, userID)
		if err != nil {
			return err
		}
		next = fn(current)
		return replacePermissions(ctx, tx, userID, next)
	})
	if err != nil {
		s.logger.Error("updating permissions failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("permissions updated", zap.Int64("user_id", userID), zap.Int("modules", len(next)))
	return next, nil
}

func queryPermissions(ctx context.Context, q querier, userID int64) ([]model.ModulePermission, error) {
	rows, err := q.Query(ctx, `
		SELECT module_id, can_view, can_create, can_edit, can_delete, can_approve, can_export
		FROM user_module_permissions
		WHERE user_id = $1
		ORDER BY position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying permissions for user %d: %w", userID, err)
	}
	perms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ModulePermission, error) {
		var p model.ModulePermission
		err := row.Scan(&p.ModuleID, &p.CanView, &p.CanCreate, &p.CanEdit, &p.CanDelete, &p.CanApprove, &p.CanExport)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning permissions: %w", err)
	}
	return perms, nil
}

func replacePermissions(ctx context.Context, tx pgx.Tx, userID int64, perms []model.ModulePermission) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_module_permissions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clearing permissions: %w", err)
	}
	batch := &pgx.Batch{}
	for i, p := range perms {
		batch.Queue(`
			INSERT INTO user_module_permissions
				(user_id, module_id, position, can_view, can_create, can_edit, can_delete, can_approve, can_export)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, userID, p.ModuleID, i, p.CanView, p.CanCreate, p.CanEdit, p.CanDelete, p.CanApprove, p.CanExport)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return serverError("inserting permissions", err)
	}
	return nil
}
