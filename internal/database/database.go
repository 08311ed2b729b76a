package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the Postgres connection pool
type DB struct {
	Pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS dim_dataset (
	id             BIGSERIAL PRIMARY KEY,
	name           TEXT NOT NULL UNIQUE,
	description    TEXT NOT NULL DEFAULT '',
	risk_free_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	updated        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS fact_asset_stat (
	dataset_id      BIGINT NOT NULL REFERENCES dim_dataset(id) ON DELETE CASCADE,
	position        INT NOT NULL,
	asset           TEXT NOT NULL,
	volatility      DOUBLE PRECISION NOT NULL,
	expected_return DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (dataset_id, position)
);

CREATE TABLE IF NOT EXISTS fact_covariance (
	dataset_id BIGINT NOT NULL REFERENCES dim_dataset(id) ON DELETE CASCADE,
	row_idx    INT NOT NULL,
	col_idx    INT NOT NULL,
	value      DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (dataset_id, row_idx, col_idx),
	CHECK (row_idx < col_idx)
);
`

// New connects to Postgres and verifies the connection
func New(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// EnsureSchema creates the dataset tables if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close releases all pooled connections
func (db *DB) Close() {
	db.Pool.Close()
}
