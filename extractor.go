package sitedex

// ExtractResult holds content extracted from raw HTML.
type ExtractResult struct {
	Title       string
	ContentHTML string
}

// Extractor pulls the main content out of raw HTML, discarding navigation,
// footers, and other chrome. Used by the direct fetcher; scrape services
// perform their own extraction.
type Extractor interface {
	Extract(rawHTML string) (*ExtractResult, error)
}
