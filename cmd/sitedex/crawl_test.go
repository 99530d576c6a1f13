package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/sitedex/sitedex"
	main "github.com/sitedex/sitedex/cmd/sitedex"
	"github.com/sitedex/sitedex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("crawls and prints summary", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*sitedex.FetchResult, error) {
				return &sitedex.FetchResult{
					URL:      url,
					Title:    "Home",
					Markdown: "welcome",
					HTML:     "<p>welcome</p>",
				}, nil
			},
			CloseFn: func() error { return nil },
		}
		pages := &mock.PageService{
			UpsertPageFn: func(_ context.Context, _ *sitedex.Page) (sitedex.UpsertResult, error) {
				return sitedex.PageCreated, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Fetcher: fetcher,
			Pages:   pages,
		}

		cmd := &main.CrawlCmd{URL: "https://example.com", Depth: 1, Pages: 10, Concurrency: 1}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "1 pages (1 created, 0 updated, 0 unchanged, 0 failed)")
	})

	t.Run("seeds frontier from sitemaps", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string) ([]string, error) {
				assert.Equal(t, "https://example.com", baseURL)
				return []string{"https://example.com/docs"}, nil
			},
		}
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*sitedex.FetchResult, error) {
				return &sitedex.FetchResult{URL: url, Markdown: "text"}, nil
			},
			CloseFn: func() error { return nil },
		}
		pages := &mock.PageService{
			UpsertPageFn: func(_ context.Context, _ *sitedex.Page) (sitedex.UpsertResult, error) {
				return sitedex.PageCreated, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Fetcher:  fetcher,
			Pages:    pages,
			Sitemaps: sitemaps,
		}

		cmd := &main.CrawlCmd{URL: "https://example.com", Depth: 0, Pages: 10, Concurrency: 1, Sitemap: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Seeded 1 URLs from sitemaps")
		assert.Contains(t, stdout.String(), "2 pages (2 created, 0 updated, 0 unchanged, 0 failed)")
	})

	t.Run("warns and continues when sitemap discovery fails", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string) ([]string, error) {
				return nil, sitedex.Errorf(sitedex.EUNAVAILABLE, "robots.txt unreachable")
			},
		}
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*sitedex.FetchResult, error) {
				return &sitedex.FetchResult{URL: url, Markdown: "text"}, nil
			},
			CloseFn: func() error { return nil },
		}
		pages := &mock.PageService{
			UpsertPageFn: func(_ context.Context, _ *sitedex.Page) (sitedex.UpsertResult, error) {
				return sitedex.PageCreated, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   stderr,
			Fetcher:  fetcher,
			Pages:    pages,
			Sitemaps: sitemaps,
		}

		cmd := &main.CrawlCmd{URL: "https://example.com", Depth: 0, Pages: 10, Concurrency: 1, Sitemap: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "warning: sitemap discovery failed")
		assert.Contains(t, stdout.String(), "1 pages")
	})

	t.Run("returns error for unfetchable start URL", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
		}

		cmd := &main.CrawlCmd{URL: "mailto:hello@example.com", Depth: 1, Pages: 10, Concurrency: 1}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, sitedex.EINVALID, sitedex.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
