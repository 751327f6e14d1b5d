package schema

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/cleared-dev/backoffice/internal/model"
)

// Open connects gorm to Postgres for schema work.
func Open(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table and installs the module catalog.
// Existing modules are left untouched.
func Migrate(db *gorm.DB, modules []model.Module) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrating tables: %w", err)
	}
	if len(modules) == 0 {
		return nil
	}
	rows := CatalogRows(modules)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("installing modules: %w", err)
	}
	return nil
}

// CatalogRows converts catalog modules to table rows, numbering them in order.
func CatalogRows(modules []model.Module) []Module {
	rows := make([]Module, len(modules))
	for i, m := range modules {
		rows[i] = Module{ID: m.ID, Name: m.Name, Available: m.Available, SortOrder: i + 1}
	}
	return rows
}
