package postgres

import (
	"context"
	"fmt"

	"github.com/sitedex/sitedex"
)

// DefaultSearchLimit caps results when the caller doesn't ask for a
// specific count.
const DefaultSearchLimit = 5

// snippetLength bounds how much chunk text a search result carries.
const snippetLength = 300

// Compile-time interface verification.
var _ sitedex.SearchService = (*SearchService)(nil)

// SearchService implements sitedex.SearchService: it encodes the query
// with the embedder and ranks chunks by cosine similarity in Postgres,
// letting the HNSW index do the heavy lifting.
type SearchService struct {
	db       *DB
	embedder sitedex.Embedder
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB, embedder sitedex.Embedder) *SearchService {
	return &SearchService{db: db, embedder: embedder}
}

// Search encodes the query and returns the closest chunks. Scores are
// cosine similarity in [0,1]; ordering is score descending with URL then
// chunk index as tiebreakers so identical queries return identical lists.
func (s *SearchService) Search(ctx context.Context, query string, opts sitedex.SearchOptions) ([]sitedex.SearchResult, error) {
	if query == "" {
		return nil, sitedex.Errorf(sitedex.EINVALID, "search query required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	rows, err := s.db.pool.Query(ctx, `
		SELECT page_url, text, 1 - (vec <=> $1::vector) AS score
		FROM chunks
		ORDER BY score DESC, page_url ASC, chunk_index ASC
		LIMIT $2
	`, encodeVector(qvec), limit)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	results := []sitedex.SearchResult{}
	for rows.Next() {
		var (
			r    sitedex.SearchResult
			text string
		)
		if err := rows.Scan(&r.URL, &text, &r.Score); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		if r.Score < opts.MinScore {
			continue
		}
		r.Snippet = snippet(text)
		results = append(results, r)
	}
	return results, rows.Err()
}

// snippet truncates chunk text to a preview without splitting a rune.
func snippet(text string) string {
	if len(text) <= snippetLength {
		return text
	}
	runes := []rune(text)
	if len(runes) <= snippetLength {
		return text
	}
	return string(runes[:snippetLength])
}
