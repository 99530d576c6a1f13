package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sitedex/sitedex"
	"golang.org/x/sync/errgroup"
)

// Crawler defaults, overridable per invocation.
const (
	DefaultMaxDepth = 3
	DefaultMaxPages = 1000
)

// State describes where a crawl invocation is in its lifecycle.
type State int

// Crawl states.
const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

// String returns a label for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Result summarizes one crawl invocation.
type Result struct {
	RunID     string
	State     State
	Processed int
	Created   int
	Updated   int
	Unchanged int
	Failed    int
	Visited   int
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressLevelStarted ProgressType = iota
	ProgressFetched
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Depth     int
	URL       string
	Upsert    sitedex.UpsertResult
	Processed int
	Queued    int
	Error     error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Crawler orchestrates a breadth-first crawl of a single site. Each level
// of the frontier is dispatched to the Fetcher concurrently (fan-out) and
// the results are folded back into the frontier on the coordinator
// goroutine in dispatch order (fan-in), so the visited set needs no locks
// and duplicate suppression is deterministic.
type Crawler struct {
	Fetcher sitedex.Fetcher // typically a *Gateway
	Pages   sitedex.PageService
	Logger  *slog.Logger

	// SeedURLs are enqueued at depth 0 alongside the start URL,
	// e.g. from sitemap discovery. Off-domain seeds are dropped.
	SeedURLs []string

	MaxDepth    int // links beyond this depth are not enqueued
	MaxPages    int // global page budget across all levels
	Concurrency int // fan-out width within a level

	// FailureThreshold aborts the crawl once this many pages have
	// failed. Zero means per-page failures never abort.
	FailureThreshold int
}

// fetchOutcome carries one page's fetch result back to the coordinator.
type fetchOutcome struct {
	entry  Entry
	result *sitedex.FetchResult
	err    error
}

// Crawl runs a breadth-first crawl from startURL until the frontier
// empties, the page budget is reached, or no candidate remains within the
// depth limit. Per-page fetch failures are recorded and skipped; only
// persistence failures (and the failure threshold) abort the run.
// Cancellation is honored between levels; in-flight fetches inherit ctx.
func (c *Crawler) Crawl(ctx context.Context, startURL string, progress ProgressFunc) (*Result, error) {
	norm, err := NewNormalizer(startURL)
	if err != nil {
		return nil, err
	}
	start, ok := norm.Accept(nil, startURL)
	if !ok {
		return nil, sitedex.Errorf(sitedex.EINVALID, "start URL %q is not crawlable", startURL)
	}

	maxDepth := c.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	frontier := NewFrontier()
	frontier.Push(start, 0)
	for _, seed := range c.SeedURLs {
		if canonical, ok := norm.Accept(nil, seed); ok {
			frontier.Push(canonical, 0)
		}
	}

	result := &Result{RunID: uuid.New().String(), State: StateRunning}
	logger = logger.With("run_id", result.RunID, "domain", norm.Domain())
	logger.Info("crawl started", "start_url", start, "max_depth", maxDepth, "max_pages", maxPages)

	for result.Processed < maxPages {
		// Cancellation point: only between levels.
		if err := ctx.Err(); err != nil {
			result.State = StateAborted
			result.Visited = frontier.VisitedCount()
			return result, err
		}

		batch, ok := frontier.PopLevel()
		if !ok {
			break
		}
		depth := batch[0].Depth
		if remaining := maxPages - result.Processed; len(batch) > remaining {
			batch = batch[:remaining]
		}

		if progress != nil {
			progress(ProgressEvent{Type: ProgressLevelStarted, Depth: depth, Processed: result.Processed, Queued: len(batch)})
		}
		logger.Info("dispatching level", "depth", depth, "batch", len(batch), "queued", frontier.Len())

		outcomes := c.fetchLevel(ctx, batch)

		// Fold results back in dispatch order so duplicate suppression
		// is deterministic regardless of fetch completion order.
		for _, out := range outcomes {
			if err := c.processOutcome(ctx, out, norm, frontier, maxDepth, result, progress, logger); err != nil {
				result.State = StateAborted
				result.Visited = frontier.VisitedCount()
				return result, err
			}
		}
	}

	result.State = StateCompleted
	result.Visited = frontier.VisitedCount()
	logger.Info("crawl finished",
		"state", result.State.String(),
		"processed", result.Processed,
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"failed", result.Failed,
	)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Processed: result.Processed})
	}
	return result, nil
}

// fetchLevel dispatches one level's entries concurrently and returns the
// outcomes indexed by dispatch position.
func (c *Crawler) fetchLevel(ctx context.Context, batch []Entry) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(batch))

	g := &errgroup.Group{}
	g.SetLimit(c.concurrencyLimit())
	for i, entry := range batch {
		g.Go(func() error {
			result, err := c.Fetcher.Fetch(ctx, entry.URL)
			outcomes[i] = fetchOutcome{entry: entry, result: result, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (c *Crawler) concurrencyLimit() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return DefaultConcurrency
}

// processOutcome persists one fetched page and enqueues its links.
// Returns a non-nil error only for fatal conditions.
func (c *Crawler) processOutcome(
	ctx context.Context,
	out fetchOutcome,
	norm *Normalizer,
	frontier *Frontier,
	maxDepth int,
	result *Result,
	progress ProgressFunc,
	logger *slog.Logger,
) error {
	result.Processed++

	if out.err != nil {
		result.Failed++
		logger.Warn("page failed", "url", out.entry.URL, "depth", out.entry.Depth, "err", out.err)
		if progress != nil {
			progress(ProgressEvent{Type: ProgressFailed, Depth: out.entry.Depth, URL: out.entry.URL, Processed: result.Processed, Error: out.err})
		}
		if c.FailureThreshold > 0 && result.Failed > c.FailureThreshold {
			return sitedex.Errorf(sitedex.EUNAVAILABLE, "aborting crawl: %d pages failed", result.Failed)
		}
		return nil
	}

	page := buildPage(out.entry.URL, out.result)
	upsert, err := c.Pages.UpsertPage(ctx, page)
	if err != nil {
		// Persistence failure is fatal: continuing would silently lose data.
		return fmt.Errorf("upsert %s: %w", out.entry.URL, err)
	}

	switch upsert {
	case sitedex.PageCreated:
		result.Created++
	case sitedex.PageUpdated:
		result.Updated++
	case sitedex.PageUnchanged:
		result.Unchanged++
	}

	if out.entry.Depth+1 <= maxDepth {
		base, _ := url.Parse(out.entry.URL)
		for _, link := range out.result.Links {
			if canonical, ok := norm.Accept(base, link); ok {
				frontier.Push(canonical, out.entry.Depth+1)
			}
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFetched,
			Depth:     out.entry.Depth,
			URL:       out.entry.URL,
			Upsert:    upsert,
			Processed: result.Processed,
			Queued:    frontier.Len(),
		})
	}
	return nil
}

// buildPage converts a fetch result into a page record. Embedding fields
// are left untouched; the crawl phase never writes them.
func buildPage(canonicalURL string, fr *sitedex.FetchResult) *sitedex.Page {
	title := fr.Title
	if title == "" {
		if t, ok := fr.Metadata["title"].(string); ok {
			title = t
		}
	}

	category, confidence := sitedex.Categorize(canonicalURL, fr.Markdown)

	return &sitedex.Page{
		URL:                canonicalURL,
		Title:              title,
		CleanText:          fr.Markdown,
		RawHTML:            fr.HTML,
		Metadata:           fr.Metadata,
		Fingerprint:        Fingerprint(fr.Markdown),
		MarkupChecksum:     MarkupChecksum(fr.HTML),
		LastSeen:           time.Now().UTC(),
		Category:           category,
		CategoryConfidence: confidence,
	}
}
