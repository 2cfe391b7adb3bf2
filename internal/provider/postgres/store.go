// Package postgres implements the Provider interface on a Postgres database
// using pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kvanzyl/shedwatch/internal/provider"
)

// Compile-time interface satisfaction check.
var _ provider.Provider = (*Store)(nil)

// Store is a Postgres-backed reference store.
type Store struct {
	pool *pgxpool.Pool
	dsn  string
}

// New creates a Store. The connection is established by Start.
func New(dsn string) *Store {
	return &Store{dsn: dsn}
}

// Start opens the connection pool and verifies connectivity.
func (s *Store) Start(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, s.dsn)
	if err != nil {
		return fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("postgres ping: %w", err)
	}
	s.pool = pool
	return nil
}

// Migrate runs the schema DDL to create tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// Stop closes the connection pool.
func (s *Store) Stop(context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("postgres store not started")
	}
	return s.pool.Ping(ctx)
}
