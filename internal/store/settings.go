package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/cartconsole/internal/model"
)

// Setting keys.
const (
	KeyAPIBaseURL = "api_base_url"
	KeyAPIPrefix  = "api_prefix"
)

const upsertSetting = `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// GetSetting returns the stored value for key. ok is false when none is stored.
func GetSetting(ctx context.Context, db *sql.DB, key string) (value string, ok bool, err error) {
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func SetSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx, upsertSetting, key, value)
	if err != nil {
		return fmt.Errorf("storing setting %s: %w", key, err)
	}
	return nil
}

// GetAPISettings returns the stored API location, using defaults for anything
// not stored.
func GetAPISettings(ctx context.Context, db *sql.DB, defaults model.APISettings) (model.APISettings, error) {
	settings := defaults

	baseURL, ok, err := GetSetting(ctx, db, KeyAPIBaseURL)
	if err != nil {
		return defaults, err
	}
	if ok {
		settings.BaseURL = baseURL
	}

	prefix, ok, err := GetSetting(ctx, db, KeyAPIPrefix)
	if err != nil {
		return defaults, err
	}
	if ok {
		settings.Prefix = prefix
	}

	return settings, nil
}

// SaveAPISettings stores both API settings in one transaction.
func SaveAPISettings(ctx context.Context, db *sql.DB, settings model.APISettings) error {
	baseURL := strings.TrimRight(strings.TrimSpace(settings.BaseURL), "/")
	if baseURL == "" {
		return errors.New("base URL is required")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertSetting, KeyAPIBaseURL, baseURL); err != nil {
		return fmt.Errorf("storing setting %s: %w", KeyAPIBaseURL, err)
	}
	if _, err := tx.ExecContext(ctx, upsertSetting, KeyAPIPrefix, strings.TrimSpace(settings.Prefix)); err != nil {
		return fmt.Errorf("storing setting %s: %w", KeyAPIPrefix, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing settings: %w", err)
	}
	return nil
}
