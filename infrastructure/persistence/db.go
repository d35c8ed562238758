// Package persistence provides database storage for reconciliation runs.
package persistence

import (
	"github.com/helixml/cgc/internal/database"
)

// AutoMigrate runs GORM auto migration for all models.
func AutoMigrate(db database.Database) error {
	return db.GORM().AutoMigrate(allModels()...)
}

// allModels returns every GORM model that AutoMigrate manages.
func allModels() []any {
	return []any{
		&RunModel{},
		&LocusModel{},
		&LocusMemberModel{},
	}
}
