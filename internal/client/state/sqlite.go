package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/freightdesk/presence/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// LookupBool reads a flag and reports whether the key has ever been
// written. Callers that treat a missing flag differently from a stored
// false, such as the startup reconciliation, use this instead of GetBool.
func (r *SQLiteRepository) LookupBool(ctx context.Context, key string) (bool, bool, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to get state[%s]: %w", key, err)
	}
	return len(value) == 1 && value[0] == '1', true, nil
}

// GetBool reads a flag. A missing key reads as false, matching the
// behavior of a fresh install.
func (r *SQLiteRepository) GetBool(ctx context.Context, key string) (bool, error) {
	value, _, err := r.LookupBool(ctx, key)
	return value, err
}

func (r *SQLiteRepository) SetBool(ctx context.Context, key string, value bool) error {
	encoded := []byte("0")
	if value {
		encoded = []byte("1")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, encoded)
	if err != nil {
		return fmt.Errorf("failed to set state[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete state[%s]: %w", key, err)
	}
	return nil
}
