// Package sqlitetest opens throwaway SQLite databases with the production
// schema applied, for use in tests.
package sqlitetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophdrive/internal/server/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// Open returns a migrated database file under t.TempDir, closed on cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "gophdrive.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.Up(db, "sqlite"))

	return db
}

// InsertUser adds a bare user row and returns its id.
func InsertUser(t testing.TB, db *sql.DB, name string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) RETURNING id`,
		name, []byte("x")).Scan(&id)
	require.NoError(t, err)
	return id
}
