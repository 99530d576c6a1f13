// Package postgres provides pgvector-backed storage implementations for
// sitedex services: pages, chunks, and semantic search.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultDimension is the vector dimension the schema is created with.
// It must match the embedding model's output dimension.
const DefaultDimension = 1024

// Pool is the subset of pgxpool.Pool the services use. pgxmock satisfies
// it, so every service is testable without a live database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Ping(ctx context.Context) error
	Close()
}

// DB represents a Postgres database connection pool.
type DB struct {
	pool Pool
	dsn  string

	// Dimension is the vector width used when creating the schema.
	Dimension int

	// Now returns the current time. Overridable in tests.
	Now func() time.Time
}

// NewDB creates a new DB instance with the given DSN.
func NewDB(dsn string) *DB {
	return &DB{
		dsn:       dsn,
		Dimension: DefaultDimension,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewDBWithPool constructs a DB from an existing pool (primarily for
// testing with pgxmock).
func NewDBWithPool(pool Pool) *DB {
	return &DB{
		pool:      pool,
		Dimension: DefaultDimension,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Open connects the pool and verifies the connection. It does not create
// the schema; call EnsureSchema for that.
func (db *DB) Open(ctx context.Context) error {
	if db.dsn == "" {
		return fmt.Errorf("dsn required")
	}

	cfg, err := pgxpool.ParseConfig(db.dsn)
	if err != nil {
		return fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	db.pool = pool
	return nil
}

// Close releases the underlying pool resources.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the vector extension, tables, and indexes if they
// don't exist. The chunks index uses HNSW with cosine distance, matching
// the operator the search service queries with.
func (db *DB) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS pages (
			url                    text PRIMARY KEY,
			title                  text NOT NULL DEFAULT '',
			clean_text             text NOT NULL DEFAULT '',
			raw_html               text NOT NULL DEFAULT '',
			metadata               jsonb,
			fingerprint            text NOT NULL DEFAULT '',
			fingerprint_changed_at timestamptz,
			markup_checksum        text NOT NULL DEFAULT '',
			last_seen              timestamptz NOT NULL,
			summary_vec            vector(%d),
			embedded_at            timestamptz,
			category               text NOT NULL DEFAULT '',
			category_confidence    double precision NOT NULL DEFAULT 0
		)`, db.Dimension),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			page_url    text REFERENCES pages(url) ON DELETE CASCADE,
			chunk_index int,
			text        text NOT NULL DEFAULT '',
			vec         vector(%d),
			PRIMARY KEY (page_url, chunk_index)
		)`, db.Dimension),

		`CREATE INDEX IF NOT EXISTS chunks_vec_idx ON chunks
			USING hnsw (vec vector_cosine_ops)
			WITH (m = 16, ef_construction = 64)`,

		`CREATE INDEX IF NOT EXISTS pages_embedding_targets_idx ON pages (url)
			WHERE embedded_at IS NULL`,

		`CREATE INDEX IF NOT EXISTS pages_fingerprint_idx ON pages (fingerprint)`,
	}

	for _, stmt := range stmts {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func (db *DB) now() time.Time {
	if db.Now != nil {
		return db.Now()
	}
	return time.Now().UTC()
}
