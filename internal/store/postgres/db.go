// Package postgres implements the sonar store on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spiffcs/sonar/internal/store"
)

// DB is a store.Store backed by a pgx connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

var (
	_ store.Store  = (*DB)(nil)
	_ store.Pinger = (*DB)(nil)
)

// Connect opens a pool for url and verifies it with a ping.
func Connect(ctx context.Context, url string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Ping checks the connection.
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

// Close releases the pool.
func (db *DB) Close() { db.Pool.Close() }
