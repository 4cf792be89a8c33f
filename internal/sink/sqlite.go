package sink

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	bake_id  TEXT NOT NULL,
	frame    INTEGER NOT NULL,
	time     REAL NOT NULL,
	channel  TEXT NOT NULL,
	value    REAL NOT NULL,
	text     TEXT
);

CREATE INDEX IF NOT EXISTS samples_bake_channel ON samples (bake_id, channel, frame);
`

// SQLite stores samples in the samples table of a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens the database at path and creates the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Keep :memory: databases alive across statements.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLite{db: db}, nil
}

// DB returns the underlying database.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

func (s *SQLite) Write(ctx context.Context, frame []Sample) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (bake_id, frame, time, channel, value, text) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, smp := range frame {
		if _, err := stmt.ExecContext(ctx, smp.Bake, smp.Frame, smp.Time, smp.Channel, smp.Value, nullIfEmpty(smp.Text)); err != nil {
			return fmt.Errorf("insert sample: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
