// Package embed runs the embedding phase: it finds pages whose content is
// new or changed since their last embedding, chunks their text, encodes
// the chunks, and stores vectors. Crawling and embedding are separate
// phases; this package never fetches anything.
package embed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sitedex/sitedex"
)

// Result summarizes one embedding run.
type Result struct {
	Embedded int // pages fully embedded
	Skipped  int // pages with no embeddable text
	Failed   int // pages that errored and were left for the next run
}

// Runner embeds all pending pages. Pages are processed one at a time in
// URL order; a failure on one page is logged and skipped so a single bad
// page can't starve the rest of the site.
type Runner struct {
	Pages   sitedex.PageService
	Chunks  sitedex.ChunkService
	Encoder sitedex.Embedder
	Chunker *sitedex.Chunker
	Logger  *slog.Logger

	// Now returns the embedding timestamp. Overridable in tests.
	Now func() time.Time
}

// Run embeds every page returned by EmbeddingTargets. For each page the
// old chunks are replaced wholesale and the page-level summary vector is
// set to the normalized mean of its chunk vectors. MarkEmbedded runs last
// so a crash mid-page leaves the page still pending.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	targets, err := r.Pages.EmbeddingTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing embedding targets: %w", err)
	}
	logger.Info("embedding run started", "pending", len(targets))

	result := &Result{}
	for _, page := range targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		switch err := r.embedPage(ctx, page); {
		case err == nil:
			result.Embedded++
		case sitedex.ErrorCode(err) == sitedex.EINVALID:
			// Nothing embeddable on the page; not a failure.
			result.Skipped++
			logger.Info("page skipped", "url", page.URL, "reason", sitedex.ErrorMessage(err))
		default:
			result.Failed++
			logger.Warn("page embedding failed", "url", page.URL, "err", err)
		}
	}

	logger.Info("embedding run finished",
		"embedded", result.Embedded,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (r *Runner) embedPage(ctx context.Context, page *sitedex.Page) error {
	texts, err := r.Chunker.Chunk(ctx, page.CleanText)
	if err != nil {
		return fmt.Errorf("chunking: %w", err)
	}
	if len(texts) == 0 {
		return sitedex.Errorf(sitedex.EINVALID, "page has no embeddable text")
	}

	vecs, err := r.Encoder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("encoding chunks: %w", err)
	}

	chunks := make([]*sitedex.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &sitedex.Chunk{
			PageURL: page.URL,
			Index:   i,
			Text:    text,
			Vec:     vecs[i],
		}
	}

	// Replace chunks wholesale; stale chunks from a previous version of
	// the page must not survive.
	if err := r.Chunks.DeleteChunksByPage(ctx, page.URL); err != nil {
		return fmt.Errorf("deleting stale chunks: %w", err)
	}
	if err := r.Chunks.CreateChunks(ctx, chunks); err != nil {
		return fmt.Errorf("storing chunks: %w", err)
	}

	summary := sitedex.NormalizeVector(sitedex.MeanVector(vecs))
	if err := r.Pages.MarkEmbedded(ctx, page.URL, summary, r.now()); err != nil {
		return fmt.Errorf("marking embedded: %w", err)
	}
	return nil
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}
