package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedgate/pkg/clock"
)

// SettingRepository handles key-value settings
type SettingRepository struct {
	db    *sqlx.DB
	clock clock.Clock
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *sqlx.DB, clk clock.Clock) *SettingRepository {
	return &SettingRepository{db: db, clock: clk}
}

// GetSetting retrieves a setting value, empty string if not set
func (r *SettingRepository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// GetSettings retrieves values of the given keys, missing keys are absent from the result
func (r *SettingRepository) GetSettings(ctx context.Context, keys ...string) (map[string]string, error) {
	res := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return res, nil
	}
	query, args, err := sqlx.In("SELECT key, value FROM settings WHERE key IN (?)", keys)
	if err != nil {
		return nil, fmt.Errorf("build settings query: %w", err)
	}
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	for _, row := range rows {
		res[row.Key] = row.Value
	}
	return res, nil
}

// SetSetting stores a setting value
func (r *SettingRepository) SetSetting(ctx context.Context, key, value string) error {
	return r.SetSettings(ctx, map[string]string{key: value})
}

// SetSettings stores several values atomically
func (r *SettingRepository) SetSettings(ctx context.Context, values map[string]string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	return withLockRetry(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		now := r.clock.Now().UTC()
		for k, v := range values {
			if _, err := tx.ExecContext(ctx, query, k, v, now); err != nil {
				return fmt.Errorf("set setting %s: %w", k, err)
			}
		}
		return tx.Commit()
	})
}
