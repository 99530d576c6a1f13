package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sitedex/sitedex"
)

// Compile-time interface verification.
var _ sitedex.PageService = (*PageService)(nil)

// PageService implements sitedex.PageService using Postgres.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// UpsertPage creates or updates a page keyed by URL. The stored
// fingerprint decides what happens: a new URL inserts, a changed
// fingerprint rewrites the content columns and advances
// fingerprint_changed_at, a matching fingerprint only refreshes last_seen
// and the markup checksum. Embedding columns are never written here.
func (s *PageService) UpsertPage(ctx context.Context, page *sitedex.Page) (sitedex.UpsertResult, error) {
	if err := page.Validate(); err != nil {
		return 0, err
	}

	metadata, err := marshalMetadata(page.Metadata)
	if err != nil {
		return 0, err
	}
	now := s.db.now()

	var existing string
	err = s.db.pool.QueryRow(ctx, `SELECT fingerprint FROM pages WHERE url = $1`, page.URL).Scan(&existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = s.db.pool.Exec(ctx, `
			INSERT INTO pages (url, title, clean_text, raw_html, metadata, fingerprint, fingerprint_changed_at, markup_checksum, last_seen, category, category_confidence)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, page.URL, page.Title, page.CleanText, page.RawHTML, metadata,
			page.Fingerprint, now, page.MarkupChecksum, now, string(page.Category), page.CategoryConfidence)
		if err != nil {
			return 0, fmt.Errorf("inserting page: %w", err)
		}
		return sitedex.PageCreated, nil

	case err != nil:
		return 0, fmt.Errorf("looking up page fingerprint: %w", err)

	case existing != page.Fingerprint:
		_, err = s.db.pool.Exec(ctx, `
			UPDATE pages SET title = $2, clean_text = $3, raw_html = $4, metadata = $5,
				fingerprint = $6, fingerprint_changed_at = $7, markup_checksum = $8,
				last_seen = $9, category = $10, category_confidence = $11
			WHERE url = $1
		`, page.URL, page.Title, page.CleanText, page.RawHTML, metadata,
			page.Fingerprint, now, page.MarkupChecksum, now, string(page.Category), page.CategoryConfidence)
		if err != nil {
			return 0, fmt.Errorf("updating page: %w", err)
		}
		return sitedex.PageUpdated, nil

	default:
		_, err = s.db.pool.Exec(ctx, `
			UPDATE pages SET markup_checksum = $2, last_seen = $3 WHERE url = $1
		`, page.URL, page.MarkupChecksum, now)
		if err != nil {
			return 0, fmt.Errorf("touching page: %w", err)
		}
		return sitedex.PageUnchanged, nil
	}
}

// FindPageByURL retrieves a page by its canonical URL.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*sitedex.Page, error) {
	var (
		page      sitedex.Page
		metadata  []byte
		changedAt *time.Time
		vec       *string
		category  string
	)

	err := s.db.pool.QueryRow(ctx, `
		SELECT url, title, clean_text, raw_html, metadata, fingerprint, fingerprint_changed_at,
			markup_checksum, last_seen, summary_vec::text, embedded_at, category, category_confidence
		FROM pages
		WHERE url = $1
	`, url).Scan(&page.URL, &page.Title, &page.CleanText, &page.RawHTML, &metadata,
		&page.Fingerprint, &changedAt, &page.MarkupChecksum, &page.LastSeen,
		&vec, &page.EmbeddedAt, &category, &page.CategoryConfidence)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sitedex.Errorf(sitedex.ENOTFOUND, "page not found")
	}
	if err != nil {
		return nil, fmt.Errorf("finding page: %w", err)
	}

	if changedAt != nil {
		page.FingerprintChangedAt = *changedAt
	}
	page.Category = sitedex.Category(category)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &page.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling page metadata: %w", err)
		}
	}
	if vec != nil {
		page.SummaryVec, err = parseVector(*vec)
		if err != nil {
			return nil, err
		}
	}

	return &page, nil
}

// EmbeddingTargets returns pages that have never been embedded or whose
// content changed after the last embedding. Results are ordered by URL so
// embedding runs are deterministic.
func (s *PageService) EmbeddingTargets(ctx context.Context) ([]*sitedex.Page, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT url, title, clean_text, fingerprint
		FROM pages
		WHERE embedded_at IS NULL OR fingerprint_changed_at > embedded_at
		ORDER BY url ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying embedding targets: %w", err)
	}
	defer rows.Close()

	var pages []*sitedex.Page
	for rows.Next() {
		var page sitedex.Page
		if err := rows.Scan(&page.URL, &page.Title, &page.CleanText, &page.Fingerprint); err != nil {
			return nil, fmt.Errorf("scanning embedding target: %w", err)
		}
		pages = append(pages, &page)
	}
	return pages, rows.Err()
}

// MarkEmbedded stores the page-level summary vector and records the
// embedding time.
func (s *PageService) MarkEmbedded(ctx context.Context, url string, summary []float32, at time.Time) error {
	tag, err := s.db.pool.Exec(ctx, `
		UPDATE pages SET summary_vec = $2::vector, embedded_at = $3 WHERE url = $1
	`, url, encodeVector(summary), at)
	if err != nil {
		return fmt.Errorf("marking page embedded: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sitedex.Errorf(sitedex.ENOTFOUND, "page not found")
	}
	return nil
}

// DeletePage removes a page; its chunks go with it via ON DELETE CASCADE.
func (s *PageService) DeletePage(ctx context.Context, url string) error {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM pages WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sitedex.Errorf(sitedex.ENOTFOUND, "page not found")
	}
	return nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshaling page metadata: %w", err)
	}
	return b, nil
}
