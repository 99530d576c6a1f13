package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/sitedex/sitedex"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Gateway defaults. Both are tunable policy, not design constants.
const (
	DefaultConcurrency = 8
	DefaultSpacing     = 200 * time.Millisecond
)

// Compile-time interface verification.
var _ sitedex.Fetcher = (*Gateway)(nil)

// Gateway wraps a Fetcher with a global concurrency cap, minimum
// inter-request spacing, optional per-host pacing, and bounded retry.
// It is stateless beyond its limiter accounting and is safe for
// concurrent use.
type Gateway struct {
	next    sitedex.Fetcher
	sem     *semaphore.Weighted
	pace    *rate.Limiter
	domains *DomainLimiter
	delays  []time.Duration
	logger  *slog.Logger
}

// GatewayOption configures a Gateway.
type GatewayOption func(*gatewayConfig)

type gatewayConfig struct {
	concurrency int
	spacing     time.Duration
	domains     *DomainLimiter
	delays      []time.Duration
	logger      *slog.Logger
}

// WithConcurrency caps the number of in-flight fetches.
func WithConcurrency(n int) GatewayOption {
	return func(c *gatewayConfig) { c.concurrency = n }
}

// WithSpacing sets the minimum interval between request starts.
func WithSpacing(d time.Duration) GatewayOption {
	return func(c *gatewayConfig) { c.spacing = d }
}

// WithDomainLimiter adds per-host pacing on top of the global spacing.
func WithDomainLimiter(d *DomainLimiter) GatewayOption {
	return func(c *gatewayConfig) { c.domains = d }
}

// WithRetryDelays sets the backoff schedule; len(delays) is the retry count.
func WithRetryDelays(delays []time.Duration) GatewayOption {
	return func(c *gatewayConfig) { c.delays = delays }
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(l *slog.Logger) GatewayOption {
	return func(c *gatewayConfig) { c.logger = l }
}

// NewGateway creates a Gateway over next.
func NewGateway(next sitedex.Fetcher, opts ...GatewayOption) *Gateway {
	cfg := &gatewayConfig{
		concurrency: DefaultConcurrency,
		spacing:     DefaultSpacing,
		delays:      DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.concurrency <= 0 {
		cfg.concurrency = DefaultConcurrency
	}

	var pace *rate.Limiter
	if cfg.spacing > 0 {
		pace = rate.NewLimiter(rate.Every(cfg.spacing), 1)
	}

	return &Gateway{
		next:    next,
		sem:     semaphore.NewWeighted(int64(cfg.concurrency)),
		pace:    pace,
		domains: cfg.domains,
		delays:  cfg.delays,
		logger:  cfg.logger,
	}
}

// Fetch acquires a concurrency slot, paces the request, and delegates to
// the wrapped fetcher with bounded retry. Each retry attempt re-paces.
func (g *Gateway) Fetch(ctx context.Context, rawURL string) (*sitedex.FetchResult, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer g.sem.Release(1)

	attempt := func(ctx context.Context, u string) (*sitedex.FetchResult, error) {
		if g.pace != nil {
			if err := g.pace.Wait(ctx); err != nil {
				return nil, err
			}
		}
		if g.domains != nil {
			if parsed, err := url.Parse(u); err == nil {
				if err := g.domains.Wait(ctx, parsed.Hostname()); err != nil {
					return nil, err
				}
			}
		}
		return g.next.Fetch(ctx, u)
	}

	return FetchWithRetryDelays(ctx, rawURL, attempt, g.logger, g.delays)
}

// Close closes the wrapped fetcher.
func (g *Gateway) Close() error {
	return g.next.Close()
}
