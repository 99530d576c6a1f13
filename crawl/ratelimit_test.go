package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/sitedex/sitedex/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_paces_requests_to_same_host(t *testing.T) {
	t.Parallel()

	d := crawl.NewDomainLimiter(100) // 10ms between requests
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, d.Wait(ctx, "a.example"))
	}
	// First token is free; two more cost ~10ms each.
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestDomainLimiter_hosts_are_independent(t *testing.T) {
	t.Parallel()

	d := crawl.NewDomainLimiter(1) // 1 rps would block a same-host burst
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, d.Wait(ctx, "a.example"))
	require.NoError(t, d.Wait(ctx, "b.example"))
	require.NoError(t, d.Wait(ctx, "c.example"))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestDomainLimiter_respects_context_cancellation(t *testing.T) {
	t.Parallel()

	d := crawl.NewDomainLimiter(0.001)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.NoError(t, d.Wait(ctx, "a.example"))
	assert.Error(t, d.Wait(ctx, "a.example"), "second wait should fail on context timeout")
}
