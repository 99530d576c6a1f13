package mock

import (
	"context"

	"github.com/sitedex/sitedex"
)

var _ sitedex.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of sitedex.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*sitedex.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*sitedex.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
