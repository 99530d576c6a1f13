package sitedex

import (
	"context"
	"time"
)

// Page represents one crawled page of a site, keyed by canonical URL.
type Page struct {
	URL       string         `json:"url"`
	Title     string         `json:"title"`
	CleanText string         `json:"cleanText"` // markdown extracted from the page
	RawHTML   string         `json:"rawHtml"`
	Metadata  map[string]any `json:"metadata,omitempty"` // opaque blob from the scrape service

	// Fingerprint is a SHA-256 digest of CleanText. It is set on every
	// successful fetch; FingerprintChangedAt advances only when the
	// digest actually changes.
	Fingerprint          string    `json:"fingerprint"`
	FingerprintChangedAt time.Time `json:"fingerprintChangedAt"`

	// MarkupChecksum tracks raw HTML churn separately from content
	// changes so markup-only edits never trigger re-embedding.
	MarkupChecksum string `json:"markupChecksum"`

	LastSeen time.Time `json:"lastSeen"`

	// Embedding state. SummaryVec is non-nil exactly when EmbeddedAt is
	// non-nil; the crawl phase never touches either.
	SummaryVec []float32  `json:"summaryVec,omitempty"`
	EmbeddedAt *time.Time `json:"embeddedAt,omitempty"`

	Category           Category `json:"category,omitempty"`
	CategoryConfidence float64  `json:"categoryConfidence,omitempty"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	if p.Category != "" && !p.Category.Valid() {
		return Errorf(EINVALID, "unknown page category %q", p.Category)
	}
	return nil
}

// UpsertResult reports what storing a page did to the persisted record.
type UpsertResult int

const (
	// PageCreated means the URL was not in storage before.
	PageCreated UpsertResult = iota
	// PageUpdated means the stored fingerprint differed and the record
	// was overwritten.
	PageUpdated
	// PageUnchanged means the fingerprint matched; only last_seen moved.
	PageUnchanged
)

// String returns a short label for logging and crawl summaries.
func (r UpsertResult) String() string {
	switch r {
	case PageCreated:
		return "created"
	case PageUpdated:
		return "updated"
	case PageUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// PageService represents a service for managing crawled pages.
type PageService interface {
	// UpsertPage creates or updates a page keyed by URL. Embedding
	// fields (SummaryVec, EmbeddedAt) are never modified by upserts.
	UpsertPage(ctx context.Context, page *Page) (UpsertResult, error)

	// FindPageByURL retrieves a page by its canonical URL.
	// Returns ENOTFOUND if the page does not exist.
	FindPageByURL(ctx context.Context, url string) (*Page, error)

	// EmbeddingTargets returns pages that have never been embedded or
	// whose fingerprint changed after the last embedding.
	EmbeddingTargets(ctx context.Context) ([]*Page, error)

	// MarkEmbedded stores the page-level summary vector and records the
	// embedding time.
	MarkEmbedded(ctx context.Context, url string, summary []float32, at time.Time) error

	// DeletePage removes a page and, transitively, all of its chunks.
	// Returns ENOTFOUND if the page does not exist.
	DeletePage(ctx context.Context, url string) error
}
