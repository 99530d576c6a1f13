package sitedex

import "context"

// Chunk is a bounded-size segment of a page's clean text, embedded
// independently for fine-grained search. Chunks are keyed by
// (PageURL, Index) and live only as long as their page.
type Chunk struct {
	PageURL string    `json:"pageUrl"`
	Index   int       `json:"index"`
	Text    string    `json:"text"`
	Vec     []float32 `json:"vec,omitempty"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.PageURL == "" {
		return Errorf(EINVALID, "chunk page URL required")
	}
	if c.Index < 0 {
		return Errorf(EINVALID, "chunk index must be non-negative")
	}
	if c.Text == "" {
		return Errorf(EINVALID, "chunk text required")
	}
	return nil
}

// ChunkService represents a service for managing chunks.
type ChunkService interface {
	// CreateChunks inserts chunks in bulk.
	CreateChunks(ctx context.Context, chunks []*Chunk) error

	// DeleteChunksByPage removes all chunks belonging to a page.
	DeleteChunksByPage(ctx context.Context, pageURL string) error

	// FindChunksByPage retrieves a page's chunks ordered by index.
	FindChunksByPage(ctx context.Context, pageURL string) ([]*Chunk, error)
}

// SearchService provides semantic search over the index.
type SearchService interface {
	// Search encodes the query and returns the closest chunks, ordered
	// by descending similarity with ties broken by URL.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Maximum number of results to return.
	Limit int `json:"limit,omitempty"`

	// Minimum similarity score (0-1).
	MinScore float64 `json:"minScore,omitempty"`
}

// SearchResult represents a single search match.
type SearchResult struct {
	URL string `json:"url"`
	// Score is a normalized similarity in [0,1]; 1.0 is an exact match.
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}
