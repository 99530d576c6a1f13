package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/sitedex/sitedex/mock"
	sitedexslog "github.com/sitedex/sitedex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string) ([]string, error) {
			return []string{"https://a.example/p1", "https://a.example/p2"}, nil
		},
	}

	svc := sitedexslog.NewLoggingSitemapService(inner, logger)
	urls, err := svc.DiscoverURLs(context.Background(), "https://a.example")

	require.NoError(t, err)
	assert.Len(t, urls, 2)
	output := buf.String()
	assert.Contains(t, output, "sitemap discovery")
	assert.Contains(t, output, "count=2")
}
