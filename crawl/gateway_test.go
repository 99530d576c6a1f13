package crawl_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sitedex/sitedex"
	"github.com/sitedex/sitedex/crawl"
	"github.com/sitedex/sitedex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateway_caps_concurrent_fetches(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int64
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*sitedex.FetchResult, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return &sitedex.FetchResult{URL: url}, nil
		},
		CloseFn: func() error { return nil },
	}

	g := crawl.NewGateway(fetcher, crawl.WithConcurrency(2), crawl.WithSpacing(0))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Fetch(context.Background(), "https://a.example")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2), "no more than 2 fetches in flight")
}

func TestGateway_enforces_request_spacing(t *testing.T) {
	t.Parallel()

	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*sitedex.FetchResult, error) {
			return &sitedex.FetchResult{URL: url}, nil
		},
		CloseFn: func() error { return nil },
	}

	g := crawl.NewGateway(fetcher, crawl.WithSpacing(20*time.Millisecond))

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := g.Fetch(context.Background(), "https://a.example")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestGateway_retries_transient_then_succeeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*sitedex.FetchResult, error) {
			if calls.Add(1) == 1 {
				return nil, &sitedex.FetchError{Kind: sitedex.FetchTransient, URL: url, Err: errors.New("reset")}
			}
			return &sitedex.FetchResult{URL: url}, nil
		},
		CloseFn: func() error { return nil },
	}

	g := crawl.NewGateway(fetcher,
		crawl.WithSpacing(0),
		crawl.WithRetryDelays([]time.Duration{time.Millisecond}),
	)

	result, err := g.Fetch(context.Background(), "https://a.example")
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, int64(2), calls.Load())
}

func TestGateway_does_not_retry_rejected_input(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*sitedex.FetchResult, error) {
			calls.Add(1)
			return nil, &sitedex.FetchError{Kind: sitedex.FetchRejected, URL: url, Err: errors.New("malformed")}
		},
		CloseFn: func() error { return nil },
	}

	g := crawl.NewGateway(fetcher,
		crawl.WithSpacing(0),
		crawl.WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}),
	)

	_, err := g.Fetch(context.Background(), "https://a.example")
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestGateway_Close_closes_wrapped_fetcher(t *testing.T) {
	t.Parallel()

	closed := false
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*sitedex.FetchResult, error) { return nil, nil },
		CloseFn: func() error {
			closed = true
			return nil
		},
	}

	g := crawl.NewGateway(fetcher)
	require.NoError(t, g.Close())
	assert.True(t, closed)
}
