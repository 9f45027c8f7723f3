package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const settingLastExportPath = "last_blocked_keyword_export_path"

// BlockedKeywords returns the persisted keywords in stored order.
func (d *DB) BlockedKeywords(ctx context.Context) ([]string, error) {
	rows, err := d.Pool.Query(ctx, `SELECT keyword FROM blocked_keywords ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked keywords: %w", err)
	}
	keywords, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan blocked keywords: %w", err)
	}
	return keywords, nil
}

// SetBlockedKeywords replaces the persisted keywords in a single transaction.
func (d *DB) SetBlockedKeywords(ctx context.Context, keywords []string) error {
	return pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM blocked_keywords`); err != nil {
			return fmt.Errorf("failed to clear blocked keywords: %w", err)
		}
		if len(keywords) == 0 {
			return nil
		}

		rows := make([][]any, len(keywords))
		for i, k := range keywords {
			rows[i] = []any{k, i}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"blocked_keywords"},
			[]string{"keyword", "position"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("failed to write blocked keywords: %w", err)
		}
		return nil
	})
}

// LastBlockedKeywordExportPath returns the last export path, or "" if unset.
func (d *DB) LastBlockedKeywordExportPath(ctx context.Context) (string, error) {
	path, err := d.getSetting(ctx, settingLastExportPath)
	if errors.Is(err, ErrSettingNotFound) {
		return "", nil
	}
	return path, err
}

// SetLastBlockedKeywordExportPath stores the last export path.
func (d *DB) SetLastBlockedKeywordExportPath(ctx context.Context, path string) error {
	return d.setSetting(ctx, settingLastExportPath, path)
}

func (d *DB) getSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := d.Pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

func (d *DB) setSetting(ctx context.Context, key, value string) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}
