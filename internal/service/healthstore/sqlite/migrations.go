package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	up      string
}

// migrations in chronological order.
var migrations = []migration{
	{
		version: 1,
		up: `CREATE TABLE IF NOT EXISTS samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sample_type TEXT NOT NULL,
			value REAL NOT NULL,
			start_time INTEGER NOT NULL,
			end_time INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_samples_type_start ON samples(sample_type, start_time);`,
	},
	{
		version: 2,
		up: `CREATE TABLE IF NOT EXISTS authorizations (
			sample_type TEXT PRIMARY KEY,
			granted INTEGER NOT NULL
		);`,
	},
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at INTEGER DEFAULT (strftime('%s', 'now'))
	);`)
	if err != nil {
		return fmt.Errorf("could not create migrations table: %w", err)
	}

	var current int
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("could not get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, m.up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("could not record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
