// Package audit keeps an optional trail of prediction outcomes in Postgres.
// Patient measurements are never stored, only which panel ran and how it
// ended.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ID        uuid.UUID
	RequestID string
	Panel     string
	Outcome   string // "positive", "negative" or "error"
	CreatedAt time.Time
}

type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards entries. It is used when the database is disabled.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

const schema = `CREATE TABLE IF NOT EXISTS prediction_audit (
	id         UUID PRIMARY KEY,
	request_id TEXT NOT NULL,
	panel      TEXT NOT NULL,
	outcome    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// connectTimeout bounds the ping and the schema setup together.
var connectTimeout = 5 * time.Second

type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// Connect opens a pool, checks it answers and ensures the audit table exists.
func Connect(ctx context.Context, url string) (*PostgresRecorder, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	setupCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := pool.Ping(setupCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := pool.Exec(setupCtx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create audit table: %w", err)
	}

	return &PostgresRecorder{pool: pool}, nil
}

func (r *PostgresRecorder) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO prediction_audit (id, request_id, panel, outcome, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.RequestID, e.Panel, e.Outcome, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRecorder) Close() {
	r.pool.Close()
}
