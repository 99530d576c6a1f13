package mock

import (
	"context"

	"github.com/sitedex/sitedex"
)

var _ sitedex.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of sitedex.Embedder.
type Embedder struct {
	EmbedFn      func(ctx context.Context, text string) ([]float32, error)
	EmbedBatchFn func(ctx context.Context, texts []string) ([][]float32, error)
	DimensionFn  func() int
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedBatchFn(ctx, texts)
}

func (e *Embedder) Dimension() int {
	return e.DimensionFn()
}
