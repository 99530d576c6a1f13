package sitedex

import "context"

// SitemapService discovers URLs from a site's sitemap. Discovered URLs are
// used to seed the crawl frontier alongside the start URL.
type SitemapService interface {
	// DiscoverURLs finds all URLs reachable from the site's sitemaps.
	// Returns an empty slice (not nil) when no sitemaps exist.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
