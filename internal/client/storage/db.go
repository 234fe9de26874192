package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aydevelopers/adminconsole/internal/client/storage/migrations"
	"github.com/aydevelopers/adminconsole/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// busyTimeoutMs lets concurrent console processes wait for each other's
// write locks instead of failing with SQLITE_BUSY.
const busyTimeoutMs = 5000

// RunMigrations applies the embedded migrations. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the SQLite database at path and migrates it.
// The returned path is the absolute location of the database file.
func Open(ctx context.Context, path string) (*sql.DB, string, error) {
	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, "", err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", abs, busyTimeoutMs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, "", err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, "", err
	}

	return db, abs, nil
}
