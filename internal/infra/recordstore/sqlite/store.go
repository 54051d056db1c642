// Package sqlite implements a durable RecordStore on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"mousetrack/pkg/domain"
)

// Store persists the registry to a single SQLite table. Save replaces the
// whole table inside one transaction, mirroring the replace-all contract of
// the tabular backends.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// New opens (creating if needed) a SQLite-backed record store at path.
func New(path string) (*Store, error) {
	if path == "" {
		path = "mousetrack.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS mice (
		position   INTEGER PRIMARY KEY,
		mouse_id   TEXT NOT NULL UNIQUE,
		remark     TEXT NOT NULL DEFAULT '',
		date_added TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create mice table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Load returns all records ordered by insertion position.
func (s *Store) Load(ctx context.Context) ([]domain.MouseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mouse_id, remark, date_added FROM mice ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("select mice: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.MouseRecord
	for rows.Next() {
		var rec domain.MouseRecord
		if err := rows.Scan(&rec.MouseID, &rec.Remark, &rec.DateAdded); err != nil {
			return nil, fmt.Errorf("scan mouse row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mice: %w", err)
	}
	return records, nil
}

// Save replaces the table contents with the supplied record set.
func (s *Store) Save(ctx context.Context, records []domain.MouseRecord) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mice`); err != nil {
		return fmt.Errorf("clear mice: %w", err)
	}
	for i, rec := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mice (position, mouse_id, remark, date_added) VALUES (?, ?, ?, ?)`,
			i, rec.MouseID, rec.Remark, string(rec.DateAdded)); err != nil {
			return fmt.Errorf("insert mouse %s: %w", rec.MouseID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Guarantee reports full durable persistence.
func (s *Store) Guarantee() domain.Guarantee { return domain.GuaranteeDurable }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

var _ domain.RecordStore = (*Store)(nil)
