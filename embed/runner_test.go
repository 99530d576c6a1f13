package embed_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sitedex/sitedex"
	"github.com/sitedex/sitedex/embed"
	"github.com/sitedex/sitedex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// wordCounter approximates tokens as whitespace-separated words.
func wordCounter() *mock.TokenCounter {
	return &mock.TokenCounter{
		CountTokensFn: func(_ context.Context, text string) (int, error) {
			return len(strings.Fields(text)), nil
		},
	}
}

// unitEmbedder returns a fixed-dimension vector per text, distinguishable
// by the first element.
func unitEmbedder(dim int) *mock.Embedder {
	return &mock.Embedder{
		EmbedBatchFn: func(_ context.Context, texts []string) ([][]float32, error) {
			vecs := make([][]float32, len(texts))
			for i := range texts {
				v := make([]float32, dim)
				v[i%dim] = 1
				vecs[i] = v
			}
			return vecs, nil
		},
		DimensionFn: func() int { return dim },
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("embeds pending pages and stores the summary vector", func(t *testing.T) {
		t.Parallel()

		var (
			deleted  []string
			created  []*sitedex.Chunk
			markedAt time.Time
			summary  []float32
		)

		pages := &mock.PageService{
			EmbeddingTargetsFn: func(context.Context) ([]*sitedex.Page, error) {
				return []*sitedex.Page{
					{URL: "https://a.example", CleanText: "First sentence here. Second sentence here."},
				}, nil
			},
			MarkEmbeddedFn: func(_ context.Context, url string, vec []float32, at time.Time) error {
				require.Equal(t, "https://a.example", url)
				summary = vec
				markedAt = at
				return nil
			},
		}
		chunkSvc := &mock.ChunkService{
			DeleteChunksByPageFn: func(_ context.Context, pageURL string) error {
				deleted = append(deleted, pageURL)
				return nil
			},
			CreateChunksFn: func(_ context.Context, chunks []*sitedex.Chunk) error {
				created = chunks
				return nil
			},
		}

		runner := &embed.Runner{
			Pages:   pages,
			Chunks:  chunkSvc,
			Encoder: unitEmbedder(2),
			Chunker: &sitedex.Chunker{Tokens: wordCounter(), MaxTokens: 3},
			Now:     func() time.Time { return testNow },
		}

		result, err := runner.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, result.Embedded)
		assert.Equal(t, []string{"https://a.example"}, deleted, "stale chunks replaced")
		require.Len(t, created, 2)
		assert.Equal(t, 0, created[0].Index)
		assert.Equal(t, 1, created[1].Index)
		assert.Equal(t, []float32{1, 0}, created[0].Vec)
		assert.Equal(t, testNow, markedAt)

		// Mean of [1,0] and [0,1], normalized.
		require.Len(t, summary, 2)
		assert.InDelta(t, 0.7071, summary[0], 1e-3)
		assert.InDelta(t, 0.7071, summary[1], 1e-3)
	})

	t.Run("skips pages with no embeddable text", func(t *testing.T) {
		t.Parallel()

		pages := &mock.PageService{
			EmbeddingTargetsFn: func(context.Context) ([]*sitedex.Page, error) {
				return []*sitedex.Page{{URL: "https://a.example/empty", CleanText: "   "}}, nil
			},
		}

		runner := &embed.Runner{
			Pages:   pages,
			Chunks:  &mock.ChunkService{},
			Encoder: unitEmbedder(2),
			Chunker: &sitedex.Chunker{Tokens: wordCounter()},
		}

		result, err := runner.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, result.Skipped)
		assert.Zero(t, result.Embedded)
	})

	t.Run("one failing page does not stop the run", func(t *testing.T) {
		t.Parallel()

		var marked []string
		pages := &mock.PageService{
			EmbeddingTargetsFn: func(context.Context) ([]*sitedex.Page, error) {
				return []*sitedex.Page{
					{URL: "https://a.example/bad", CleanText: "bad page text"},
					{URL: "https://a.example/good", CleanText: "good page text"},
				}, nil
			},
			MarkEmbeddedFn: func(_ context.Context, url string, _ []float32, _ time.Time) error {
				marked = append(marked, url)
				return nil
			},
		}
		encoder := &mock.Embedder{
			EmbedBatchFn: func(_ context.Context, texts []string) ([][]float32, error) {
				if strings.Contains(texts[0], "bad") {
					return nil, errors.New("model overloaded")
				}
				return [][]float32{{1, 0}}, nil
			},
			DimensionFn: func() int { return 2 },
		}

		runner := &embed.Runner{
			Pages: pages,
			Chunks: &mock.ChunkService{
				DeleteChunksByPageFn: func(context.Context, string) error { return nil },
				CreateChunksFn:       func(context.Context, []*sitedex.Chunk) error { return nil },
			},
			Encoder: encoder,
			Chunker: &sitedex.Chunker{Tokens: wordCounter()},
		}

		result, err := runner.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 1, result.Embedded)
		assert.Equal(t, []string{"https://a.example/good"}, marked)
	})

	t.Run("chunk storage failure leaves the page pending", func(t *testing.T) {
		t.Parallel()

		markCalled := false
		pages := &mock.PageService{
			EmbeddingTargetsFn: func(context.Context) ([]*sitedex.Page, error) {
				return []*sitedex.Page{{URL: "https://a.example", CleanText: "some text"}}, nil
			},
			MarkEmbeddedFn: func(context.Context, string, []float32, time.Time) error {
				markCalled = true
				return nil
			},
		}

		runner := &embed.Runner{
			Pages: pages,
			Chunks: &mock.ChunkService{
				DeleteChunksByPageFn: func(context.Context, string) error { return nil },
				CreateChunksFn: func(context.Context, []*sitedex.Chunk) error {
					return sitedex.Errorf(sitedex.EUNAVAILABLE, "database unreachable")
				},
			},
			Encoder: unitEmbedder(2),
			Chunker: &sitedex.Chunker{Tokens: wordCounter()},
		}

		result, err := runner.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.False(t, markCalled, "a page with unstored chunks must stay pending")
	})

	t.Run("propagates target listing errors", func(t *testing.T) {
		t.Parallel()

		pages := &mock.PageService{
			EmbeddingTargetsFn: func(context.Context) ([]*sitedex.Page, error) {
				return nil, sitedex.Errorf(sitedex.EUNAVAILABLE, "database unreachable")
			},
		}

		runner := &embed.Runner{
			Pages:   pages,
			Chunks:  &mock.ChunkService{},
			Encoder: unitEmbedder(2),
			Chunker: &sitedex.Chunker{Tokens: wordCounter()},
		}

		_, err := runner.Run(context.Background())
		require.Error(t, err)
	})

	t.Run("stops between pages on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		pages := &mock.PageService{
			EmbeddingTargetsFn: func(context.Context) ([]*sitedex.Page, error) {
				return []*sitedex.Page{
					{URL: "https://a.example/1", CleanText: "text one"},
					{URL: "https://a.example/2", CleanText: "text two"},
				}, nil
			},
			MarkEmbeddedFn: func(context.Context, string, []float32, time.Time) error {
				cancel()
				return nil
			},
		}

		runner := &embed.Runner{
			Pages: pages,
			Chunks: &mock.ChunkService{
				DeleteChunksByPageFn: func(context.Context, string) error { return nil },
				CreateChunksFn:       func(context.Context, []*sitedex.Chunk) error { return nil },
			},
			Encoder: unitEmbedder(2),
			Chunker: &sitedex.Chunker{Tokens: wordCounter()},
		}

		result, err := runner.Run(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, result.Embedded)
	})
}
