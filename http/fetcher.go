// Package http provides HTTP-based implementations of sitedex.Fetcher and
// sitedex.SitemapService. The fetcher retrieves pages directly without a
// scrape service; it cannot execute JavaScript, so it suits static sites
// and environments where no Firecrawl server is available.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sitedex/sitedex"
	"github.com/sitedex/sitedex/goquery"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response we read; anything larger is
// not a page worth indexing.
const maxBodyBytes = 10 << 20

// Ensure Fetcher implements sitedex.Fetcher at compile time.
var _ sitedex.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages over plain HTTP and runs extraction locally:
// main-content extraction, markdown conversion, and link discovery.
type Fetcher struct {
	client    *http.Client
	extractor sitedex.Extractor
	converter sitedex.Converter
	timeout   time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a direct Fetcher. The extractor isolates main
// content from raw markup; the converter renders it as markdown.
func NewFetcher(extractor sitedex.Extractor, converter sitedex.Converter, opts ...Option) *Fetcher {
	f := &Fetcher{
		extractor: extractor,
		converter: converter,
		timeout:   DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch retrieves url and returns its parsed content. Failures are
// reported as *sitedex.FetchError, classified the same way the scrape
// client classifies them so the gateway's retry decisions carry over.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitedex.FetchResult, error) {
	rawHTML, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}

	extracted, err := f.extractor.Extract(rawHTML)
	if err != nil {
		return nil, &sitedex.FetchError{Kind: sitedex.FetchRejected, URL: url, Err: fmt.Errorf("extracting content: %w", err)}
	}

	markdown := ""
	if extracted.ContentHTML != "" {
		markdown, err = f.converter.Convert(extracted.ContentHTML)
		if err != nil {
			return nil, &sitedex.FetchError{Kind: sitedex.FetchRejected, URL: url, Err: fmt.Errorf("converting to markdown: %w", err)}
		}
	}

	// Links come from the full page, not just the extracted content;
	// navigation anchors are exactly what the crawler needs.
	links, err := goquery.ExtractLinks(rawHTML, url)
	if err != nil {
		return nil, &sitedex.FetchError{Kind: sitedex.FetchRejected, URL: url, Err: err}
	}

	return &sitedex.FetchResult{
		URL:      url,
		Title:    extracted.Title,
		Markdown: markdown,
		HTML:     rawHTML,
		Links:    links,
		Metadata: map[string]any{"title": extracted.Title},
	}, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &sitedex.FetchError{Kind: sitedex.FetchRejected, URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		kind := sitedex.FetchTransient
		var ne interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			kind = sitedex.FetchTimeout
		}
		return "", &sitedex.FetchError{Kind: kind, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
		kind := sitedex.FetchUpstream
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			kind = sitedex.FetchRejected
		}
		return "", &sitedex.FetchError{Kind: kind, URL: url, Err: err}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &sitedex.FetchError{Kind: sitedex.FetchTransient, URL: url, Err: err}
	}

	return string(body), nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
