// Package trafilatura implements sitedex.Extractor using the
// go-trafilatura content extraction library.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/sitedex/sitedex"
	"golang.org/x/net/html"
)

// Ensure Extractor implements sitedex.Extractor at compile time.
var _ sitedex.Extractor = (*Extractor)(nil)

// Extractor pulls the main content out of raw page markup, dropping
// navigation, sidebars, and footers. The direct fetcher uses it to get the
// clean text a scrape service would otherwise provide.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the page title and main content.
func (e *Extractor) Extract(rawHTML string) (*sitedex.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, sitedex.Errorf(sitedex.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback: true,
	})
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	}

	return &sitedex.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}
