package index

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/arrname/pkg/release"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err, "open db")
	// A single connection keeps every query on the same in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db), "apply schema")
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

func parsedEntry(t *testing.T, kind release.Kind, path, scanID string) *Entry {
	t.Helper()
	info, ok := release.MustNew(kind).ParsePath(path)
	require.True(t, ok, "parse %s", path)
	return NewEntry(kind, "", info, scanID)
}
