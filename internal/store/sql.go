package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"syscall"

	"jokebox/internal/config"
	"jokebox/internal/model"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const listJokesQuery = `SELECT id, title, body FROM jokes`

// SQLStore reads jokes from a relational database through a bounded pool.
type SQLStore struct {
	db *sql.DB
}

// Open builds the connection pool. It does not dial; use Probe for that.
func Open(cfg config.DB) (*SQLStore, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s pool: %w", cfg.Driver, err)
	}

	// Callers past the cap wait in database/sql's queue.
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)

	return NewSQLStore(db), nil
}

// NewSQLStore wraps an existing pool.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Close releases the pool.
func (s *SQLStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stats exposes pool counters.
func (s *SQLStore) Stats() sql.DBStats {
	return s.db.Stats()
}

// Probe checks out one connection and hands it straight back.
func (s *SQLStore) Probe(ctx context.Context) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	return conn.PingContext(ctx)
}

// ListJokes returns every row of the jokes table.
func (s *SQLStore) ListJokes(ctx context.Context) ([]model.Joke, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, listJokesQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	jokes := []model.Joke{}
	for rows.Next() {
		var j model.Joke
		if err := rows.Scan(&j.ID, &j.Title, &j.Body); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrQuery, err)
		}
		jokes = append(jokes, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	return jokes, nil
}

// ConnectionHints returns troubleshooting lines for a refused connection.
func ConnectionHints(err error) []string {
	if !errors.Is(err, syscall.ECONNREFUSED) {
		return nil
	}
	return []string{
		"Database server is running",
		"Database credentials are correct",
		"Database host is accessible from this machine",
	}
}
