package mock

import (
	"context"

	"github.com/sitedex/sitedex"
)

var _ sitedex.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of sitedex.ChunkService.
type ChunkService struct {
	CreateChunksFn       func(ctx context.Context, chunks []*sitedex.Chunk) error
	DeleteChunksByPageFn func(ctx context.Context, pageURL string) error
	FindChunksByPageFn   func(ctx context.Context, pageURL string) ([]*sitedex.Chunk, error)
}

func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*sitedex.Chunk) error {
	return s.CreateChunksFn(ctx, chunks)
}

func (s *ChunkService) DeleteChunksByPage(ctx context.Context, pageURL string) error {
	return s.DeleteChunksByPageFn(ctx, pageURL)
}

func (s *ChunkService) FindChunksByPage(ctx context.Context, pageURL string) ([]*sitedex.Chunk, error) {
	return s.FindChunksByPageFn(ctx, pageURL)
}
