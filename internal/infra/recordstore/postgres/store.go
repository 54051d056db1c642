// Package postgres implements a durable RecordStore on Postgres via the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"mousetrack/pkg/domain"
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/mousetrack?sslmode=disable"
)

// Store persists the registry in a single mice table. Save replaces the
// table contents transactionally; Load preserves insertion order.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens a Postgres-backed record store using the provided DSN (falls
// back to defaultDSN) and ensures the mice table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sql.Open(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS mice (
		position   INTEGER PRIMARY KEY,
		mouse_id   TEXT NOT NULL UNIQUE,
		remark     TEXT NOT NULL DEFAULT '',
		date_added TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure mice table: %w", err)
	}
	return &Store{db: db}, nil
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
			`INSERT INTO mice (position, mouse_id, remark, date_added) VALUES ($1, $2, $3, $4)`,
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

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

var _ domain.RecordStore = (*Store)(nil)
