package mock

import (
	"context"

	"github.com/sitedex/sitedex"
)

var _ sitedex.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of sitedex.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts sitedex.SearchOptions) ([]sitedex.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts sitedex.SearchOptions) ([]sitedex.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
