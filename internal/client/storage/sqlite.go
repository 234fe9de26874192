package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aydevelopers/adminconsole/internal/common"
	"github.com/aydevelopers/adminconsole/internal/dbx"
)

type SQLiteStore struct {
	db dbx.DBTX
}

func NewSQLiteStore(db dbx.DBTX) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("storage[%s]: %w", key, common.ErrorNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get storage[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Has(ctx context.Context, key string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM local_storage WHERE key = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check storage[%s]: %w", key, err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set storage[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete storage[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM local_storage`)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan storage row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate storage rows: %w", err)
	}

	return result, nil
}

// DeleteKeys runs the deletes in one transaction when the handle can begin
// one, and directly on the handle when it already is a transaction.
func (s *SQLiteStore) DeleteKeys(ctx context.Context, keys ...string) error {
	db, ok := s.db.(dbx.TxBeginner)
	if !ok {
		return deleteKeys(ctx, s.db, keys)
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return deleteKeys(ctx, tx, keys)
	})
}

func deleteKeys(ctx context.Context, db dbx.DBTX, keys []string) error {
	for _, key := range keys {
		if _, err := db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete storage[%s]: %w", key, err)
		}
	}
	return nil
}
