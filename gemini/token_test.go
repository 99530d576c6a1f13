package gemini_test

import (
	"context"
	"testing"

	"github.com/sitedex/sitedex/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("gemini-2.0-flash")
	require.NoError(t, err)

	t.Run("counts tokens in text", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "Hello, world!")
		require.NoError(t, err)
		assert.Positive(t, count)
	})

	t.Run("empty string returns zero", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		first, err := tc.CountTokens(context.Background(), "the same text twice")
		require.NoError(t, err)
		second, err := tc.CountTokens(context.Background(), "the same text twice")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
