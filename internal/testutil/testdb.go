package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/pulse/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated in-memory store, closed at test cleanup.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return open(t, db.MemoryPath)
}

// OpenFileDB opens (or reopens) the store named name under dir. Tests use
// it to check that state survives a restart.
func OpenFileDB(t *testing.T, dir, name string) *sql.DB {
	t.Helper()
	return open(t, filepath.Join(dir, name))
}

func open(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening store %s", path)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
