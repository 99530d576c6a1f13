package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sitedex/sitedex"
	"github.com/sitedex/sitedex/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDelays keeps retry tests fast.
func testDelays() []time.Duration {
	return []time.Duration{time.Millisecond, time.Millisecond}
}

func TestFetchWithRetryDelays_returns_first_success(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(_ context.Context, url string) (*sitedex.FetchResult, error) {
		calls++
		return &sitedex.FetchResult{URL: url}, nil
	}

	result, err := crawl.FetchWithRetryDelays(context.Background(), "https://a.example", fetch, nil, testDelays())
	require.NoError(t, err)
	assert.Equal(t, "https://a.example", result.URL)
	assert.Equal(t, 1, calls)
}

func TestFetchWithRetryDelays_retries_transient_errors(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(_ context.Context, url string) (*sitedex.FetchResult, error) {
		calls++
		if calls < 3 {
			return nil, &sitedex.FetchError{Kind: sitedex.FetchTransient, URL: url, Err: errors.New("conn reset")}
		}
		return &sitedex.FetchResult{URL: url}, nil
	}

	result, err := crawl.FetchWithRetryDelays(context.Background(), "https://a.example", fetch, nil, testDelays())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 3, calls)
}

func TestFetchWithRetryDelays_never_retries_rejected_input(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(_ context.Context, url string) (*sitedex.FetchResult, error) {
		calls++
		return nil, &sitedex.FetchError{Kind: sitedex.FetchRejected, URL: url, Err: errors.New("bad input")}
	}

	_, err := crawl.FetchWithRetryDelays(context.Background(), "https://a.example", fetch, nil, testDelays())
	require.Error(t, err)
	assert.Equal(t, 1, calls, "rejected input must fail on the first attempt")
}

func TestFetchWithRetryDelays_gives_up_after_budget(t *testing.T) {
	t.Parallel()

	calls := 0
	fetch := func(_ context.Context, url string) (*sitedex.FetchResult, error) {
		calls++
		return nil, &sitedex.FetchError{Kind: sitedex.FetchTimeout, URL: url, Err: errors.New("deadline")}
	}

	_, err := crawl.FetchWithRetryDelays(context.Background(), "https://a.example", fetch, nil, testDelays())
	require.Error(t, err)
	assert.Equal(t, 3, calls, "1 initial + 2 retries")

	fe, ok := sitedex.AsFetchError(err)
	require.True(t, ok)
	assert.Equal(t, sitedex.FetchTimeout, fe.Kind)
}

func TestFetchWithRetryDelays_stops_on_context_cancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(_ context.Context, url string) (*sitedex.FetchResult, error) {
		cancel()
		return nil, &sitedex.FetchError{Kind: sitedex.FetchTransient, URL: url, Err: errors.New("flaky")}
	}

	_, err := crawl.FetchWithRetryDelays(ctx, "https://a.example", fetch, nil, []time.Duration{time.Minute})
	assert.ErrorIs(t, err, context.Canceled)
}
