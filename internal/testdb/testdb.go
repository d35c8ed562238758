// Package testdb provides a migrated SQLite database for tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/helixml/cgc/infrastructure/persistence"
	"github.com/helixml/cgc/internal/database"
)

// New creates a SQLite database file under t.TempDir with all migrations
// applied. The database is closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, URL(t), nil)
	if err != nil {
		t.Fatalf("testdb.New: open database: %v", err)
	}
	if err := persistence.AutoMigrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("testdb.New: auto migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// URL returns a fresh sqlite URL under t.TempDir.
func URL(t *testing.T) string {
	t.Helper()
	return "sqlite:///" + filepath.Join(t.TempDir(), "cgc.db")
}
