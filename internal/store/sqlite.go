package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/andy/caterbook/internal/db"
	"github.com/pkg/errors"
)

// SQLite stores items in the kv_items table of the encrypted database.
// Writes bump a per-key version that Update uses for compare-and-swap.
type SQLite struct {
	db     *db.DB
	logger *slog.Logger
}

// NewSQLite wraps an opened, migrated database
func NewSQLite(database *db.DB, logger *slog.Logger) *SQLite {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLite{db: database, logger: logger}
}

func (s *SQLite) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, _, ok, err := s.get(ctx, key)
	return value, ok, err
}

func (s *SQLite) get(ctx context.Context, key string) (string, int64, bool, error) {
	var (
		value   string
		version int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, version FROM kv_items WHERE key = ?`, key,
	).Scan(&value, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, false, nil
		}
		return "", 0, false, errors.Wrapf(err, "read %q", key)
	}
	return value, version, true, nil
}

func (s *SQLite) SetItem(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_items (key, value, version, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = kv_items.version + 1,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, now()); err != nil {
		return errors.Wrapf(err, "write %q", key)
	}
	return nil
}

func (s *SQLite) Update(ctx context.Context, key string, fn UpdateFunc) error {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		current, version, ok, err := s.get(ctx, key)
		if err != nil {
			return err
		}

		next, err := fn(current, ok)
		if err != nil {
			return err
		}

		swapped, err := s.swap(ctx, key, next, version, ok)
		if err != nil {
			return err
		}
		if swapped {
			return nil
		}
		s.logger.Warn("kv compare-and-swap lost, retrying",
			slog.String("key", key),
			slog.Int("attempt", attempt),
		)
	}
	return errors.Wrapf(ErrConflict, "update %q", key)
}

// swap writes value only if the row still carries the version that was read
func (s *SQLite) swap(ctx context.Context, key, value string, version int64, existed bool) (bool, error) {
	var (
		result sql.Result
		err    error
	)
	if existed {
		result, err = s.db.ExecContext(ctx, `
			UPDATE kv_items
			SET value = ?, version = version + 1, updated_at = ?
			WHERE key = ? AND version = ?
		`, value, now(), key, version)
	} else {
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO kv_items (key, value, version, updated_at)
			VALUES (?, ?, 1, ?)
			ON CONFLICT(key) DO NOTHING
		`, key, value, now())
	}
	if err != nil {
		return false, errors.Wrapf(err, "write %q", key)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "rows affected")
	}
	return rows == 1, nil
}

// Close closes the underlying database
func (s *SQLite) Close() error {
	return s.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
