package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS ksctl_invocations (
	id UUID PRIMARY KEY,
	tool TEXT NOT NULL,
	operation TEXT NOT NULL,
	argv TEXT[] NOT NULL,
	success BOOLEAN NOT NULL,
	exit_code INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	duration_ms BIGINT NOT NULL DEFAULT 0,
	request_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
)`

// PostgresStore implements Store on a shared PostgreSQL database, for
// deployments where several operators need one audit trail.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the invocations
// table exists.
func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure invocations table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Append writes one entry.
func (s *PostgresStore) Append(ctx context.Context, entry *Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ksctl_invocations
		 (id, tool, operation, argv, success, exit_code, error, duration_ms, request_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		entry.ID, entry.Tool, entry.Operation, entry.Argv, entry.Success,
		entry.ExitCode, entry.Error, entry.DurationMS, entry.RequestID, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, up to the given limit, newest first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]*Entry, error) {
	query := `SELECT id, tool, operation, argv, success, exit_code, error, duration_ms, request_id, created_at
		  FROM ksctl_invocations ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID, &entry.Tool, &entry.Operation, &entry.Argv, &entry.Success,
			&entry.ExitCode, &entry.Error, &entry.DurationMS, &entry.RequestID, &entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// Cleanup removes entries older than the given age.
func (s *PostgresStore) Cleanup(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	if _, err := s.pool.Exec(ctx, `DELETE FROM ksctl_invocations WHERE created_at < $1`, cutoff); err != nil {
		return fmt.Errorf("cleanup audit entries: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
