package mock

import (
	"context"
	"time"

	"github.com/sitedex/sitedex"
)

var _ sitedex.PageService = (*PageService)(nil)

// PageService is a mock implementation of sitedex.PageService.
type PageService struct {
	UpsertPageFn       func(ctx context.Context, page *sitedex.Page) (sitedex.UpsertResult, error)
	FindPageByURLFn    func(ctx context.Context, url string) (*sitedex.Page, error)
	EmbeddingTargetsFn func(ctx context.Context) ([]*sitedex.Page, error)
	MarkEmbeddedFn     func(ctx context.Context, url string, summary []float32, at time.Time) error
	DeletePageFn       func(ctx context.Context, url string) error
}

func (s *PageService) UpsertPage(ctx context.Context, page *sitedex.Page) (sitedex.UpsertResult, error) {
	return s.UpsertPageFn(ctx, page)
}

func (s *PageService) FindPageByURL(ctx context.Context, url string) (*sitedex.Page, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageService) EmbeddingTargets(ctx context.Context) ([]*sitedex.Page, error) {
	return s.EmbeddingTargetsFn(ctx)
}

func (s *PageService) MarkEmbedded(ctx context.Context, url string, summary []float32, at time.Time) error {
	return s.MarkEmbeddedFn(ctx, url, summary, at)
}

func (s *PageService) DeletePage(ctx context.Context, url string) error {
	return s.DeletePageFn(ctx, url)
}
