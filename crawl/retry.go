package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitedex/sitedex"
)

// FetchFunc is the signature for a single fetch attempt.
type FetchFunc func(ctx context.Context, url string) (*sitedex.FetchResult, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays attempts a fetch with exponential backoff. Only
// retryable failures (transient network errors and timeouts) are retried;
// rejected-input and upstream errors return immediately since retrying
// them wastes a request slot. Untyped errors are treated as retryable.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (*sitedex.FetchResult, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		result, err := fetch(ctx, url)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if fe, ok := sitedex.AsFetchError(err); ok && !fe.Retryable() {
			return nil, err
		}
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger.Debug("retrying fetch",
				"url", url,
				"attempt", attempt+2,
				"err", err,
			)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
