package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sitedex/sitedex"
)

// Compile-time interface verification.
var _ sitedex.ChunkService = (*ChunkService)(nil)

// ChunkService implements sitedex.ChunkService using Postgres.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// CreateChunks inserts chunks in bulk using a pgx batch, one round trip
// for the whole page.
func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*sitedex.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(`
			INSERT INTO chunks (page_url, chunk_index, text, vec)
			VALUES ($1, $2, $3, $4::vector)
		`, c.PageURL, c.Index, c.Text, encodeVector(c.Vec))
	}

	results := s.db.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("inserting chunk: %w", err)
		}
	}
	return nil
}

// DeleteChunksByPage removes all chunks belonging to a page. Deleting
// chunks of an unknown page is not an error; there is simply nothing to do.
func (s *ChunkService) DeleteChunksByPage(ctx context.Context, pageURL string) error {
	if _, err := s.db.pool.Exec(ctx, `DELETE FROM chunks WHERE page_url = $1`, pageURL); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// FindChunksByPage retrieves a page's chunks ordered by index.
func (s *ChunkService) FindChunksByPage(ctx context.Context, pageURL string) ([]*sitedex.Chunk, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT page_url, chunk_index, text, vec::text
		FROM chunks
		WHERE page_url = $1
		ORDER BY chunk_index ASC
	`, pageURL)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*sitedex.Chunk
	for rows.Next() {
		var (
			chunk sitedex.Chunk
			vec   *string
		)
		if err := rows.Scan(&chunk.PageURL, &chunk.Index, &chunk.Text, &vec); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		if vec != nil {
			chunk.Vec, err = parseVector(*vec)
			if err != nil {
				return nil, err
			}
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}
