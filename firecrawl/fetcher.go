// Package firecrawl provides a sitedex.Fetcher backed by a Firecrawl
// scrape server. The server renders the page, extracts clean markdown, and
// reports outbound links, so callers never parse HTML themselves.
package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sitedex/sitedex"
)

// DefaultBaseURL is where a locally hosted Firecrawl server listens.
const DefaultBaseURL = "http://localhost:3002"

// DefaultFetchTimeout bounds one scrape round trip, including the time the
// server spends rendering the page.
const DefaultFetchTimeout = 60 * time.Second

// DefaultScrapeTimeoutMS is the render budget passed to the server itself.
const DefaultScrapeTimeoutMS = 30000

// Ensure Fetcher implements sitedex.Fetcher at compile time.
var _ sitedex.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves parsed page content via Firecrawl's /v1/scrape
// endpoint. It performs a single attempt per call; pacing and retries are
// the crawl gateway's job.
type Fetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithAPIKey sets the bearer token sent with each request. Self-hosted
// servers typically run without one.
func WithAPIKey(key string) Option {
	return func(f *Fetcher) {
		f.apiKey = key
	}
}

// WithTimeout sets the HTTP timeout for scrape requests.
// Defaults to DefaultFetchTimeout (60s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a Fetcher talking to the Firecrawl server at baseURL.
// An empty baseURL falls back to DefaultBaseURL.
func NewFetcher(baseURL string, opts ...Option) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	f := &Fetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}
	return f
}

// scrapeRequest is the /v1/scrape request body.
type scrapeRequest struct {
	URL                string   `json:"url"`
	Formats            []string `json:"formats"`
	OnlyMainContent    bool     `json:"onlyMainContent"`
	ExcludeTags        []string `json:"excludeTags,omitempty"`
	RemoveBase64Images bool     `json:"removeBase64Images"`
	BlockAds           bool     `json:"blockAds"`
	TimeoutMS          int      `json:"timeout"`
}

// scrapeResponse is the /v1/scrape response envelope.
type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Markdown string         `json:"markdown"`
		HTML     string         `json:"html"`
		Links    []string       `json:"links"`
		Metadata map[string]any `json:"metadata"`
	} `json:"data"`
}

// Fetch scrapes a single URL. All failures are returned as
// *sitedex.FetchError so the gateway can decide whether to retry.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitedex.FetchResult, error) {
	body, err := json.Marshal(scrapeRequest{
		URL:                url,
		Formats:            []string{"markdown", "html", "links"},
		OnlyMainContent:    false,
		ExcludeTags:        []string{"img", "video"},
		RemoveBase64Images: true,
		BlockAds:           true,
		TimeoutMS:          DefaultScrapeTimeoutMS,
	})
	if err != nil {
		return nil, &sitedex.FetchError{Kind: sitedex.FetchRejected, URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, &sitedex.FetchError{Kind: sitedex.FetchRejected, URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &sitedex.FetchError{Kind: classifyTransportError(err), URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("firecrawl returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		return nil, &sitedex.FetchError{Kind: classifyStatus(resp.StatusCode), URL: url, Err: err}
	}

	var sr scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &sitedex.FetchError{Kind: sitedex.FetchUpstream, URL: url, Err: fmt.Errorf("decoding scrape response: %w", err)}
	}
	if !sr.Success {
		msg := sr.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &sitedex.FetchError{Kind: sitedex.FetchUpstream, URL: url, Err: fmt.Errorf("firecrawl scrape failed: %s", msg)}
	}

	result := &sitedex.FetchResult{
		URL:      url,
		Markdown: sr.Data.Markdown,
		HTML:     sr.Data.HTML,
		Links:    sr.Data.Links,
		Metadata: sr.Data.Metadata,
	}
	if t, ok := sr.Data.Metadata["title"].(string); ok {
		result.Title = t
	}
	return result, nil
}

// Close releases resources. The shared HTTP client needs no cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// classifyStatus maps HTTP status codes to fetch error kinds: client
// errors mean the request itself is bad and must not be retried, server
// errors mean Firecrawl (or the target site) failed.
func classifyStatus(status int) sitedex.FetchErrorKind {
	switch {
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return sitedex.FetchTimeout
	case status >= 400 && status < 500:
		return sitedex.FetchRejected
	default:
		return sitedex.FetchUpstream
	}
}

// classifyTransportError maps client-side transport failures, separating
// deadline expiry from network faults.
func classifyTransportError(err error) sitedex.FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return sitedex.FetchTimeout
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return sitedex.FetchTimeout
	}
	return sitedex.FetchTransient
}
