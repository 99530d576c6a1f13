// Package goquery provides anchor link extraction from raw HTML. The
// direct fetcher uses it to report a page's outbound links the same way a
// scrape service does.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sitedex/sitedex"
)

// ExtractLinks returns the href targets of all anchors in html, resolved
// against baseURL, in document order with duplicates removed. Pseudo-links
// (javascript:, mailto:, tel:, anchors) are skipped; cross-domain links
// are kept because filtering is the crawler's decision, not the parser's.
func ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, sitedex.Errorf(sitedex.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitedex.Errorf(sitedex.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		u, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(u)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if resolved.Host == "" {
			return
		}

		s := resolved.String()
		if !seen[s] {
			seen[s] = true
			links = append(links, s)
		}
	})

	return links, nil
}
