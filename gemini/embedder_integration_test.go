//go:build integration

package gemini_test

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/sitedex/sitedex/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestEmbedder_Integration_EmbedBatch(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	embedder := gemini.NewEmbedder(client, gemini.WithDimension(256))

	vecs, err := embedder.EmbedBatch(ctx, []string{
		"custom software development services",
		"chocolate chip cookie recipe",
	})
	require.NoError(t, err)
	require.Len(t, vecs, 2)

	for _, v := range vecs {
		require.Len(t, v, 256)
		var norm float64
		for _, x := range v {
			norm += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-3, "vectors must be unit-normalized")
	}
}
