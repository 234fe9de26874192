package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_CreatesFileAndTables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "console.db")

	db, abs, err := Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, filepath.IsAbs(abs))
	_, err = os.Stat(abs)
	require.NoError(t, err)

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "local_storage"))
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db), "second run must be a no-op")
	assert.True(t, tableExists(t, db, "local_storage"))
}

func TestOpen_SharedBetweenHandles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "console.db")

	a, _, err := Open(ctx, path)
	require.NoError(t, err)
	defer a.Close()
	b, _, err := Open(ctx, path)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, NewSQLiteStore(a).Set(ctx, "userData", "v1.abc"))

	got, err := NewSQLiteStore(b).Get(ctx, "userData")
	require.NoError(t, err)
	assert.Equal(t, "v1.abc", got)
}
