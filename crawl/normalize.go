// Package crawl provides breadth-first crawl orchestration: URL
// normalization, the depth-ordered frontier, content change detection,
// and a fetch gateway that paces and retries calls to the scrape service.
package crawl

import (
	"net/url"
	"strings"

	"github.com/sitedex/sitedex"
)

// Canonicalize normalizes a URL into its deduplication key form:
// lowercased host, default ports and fragments removed, path and query
// preserved byte-for-byte, trailing slash trimmed.
func Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitedex.Errorf(sitedex.EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	host := strings.ToLower(u.Host)
	switch {
	case u.Scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	u.Host = host
	u.Fragment = ""
	u.RawFragment = ""

	// u.String() re-encodes RawQuery verbatim, so parameter order is kept.
	return strings.TrimSuffix(u.String(), "/"), nil
}

// ValidScheme reports whether a URL is fetchable at all. Pseudo-URLs
// (javascript:, mailto:, tel:, data:) and anchor-only references are
// rejected before they ever reach the fetch gateway; the scrape service
// treats them as client errors.
func ValidScheme(u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// SameDomain reports whether host belongs to the reference domain,
// treating "www." prefixed hosts as equivalent in both directions.
func SameDomain(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(domain)
	return host == domain || host == "www."+domain || domain == "www."+host
}

// Normalizer canonicalizes and filters URLs against a crawl's origin.
type Normalizer struct {
	domain string
}

// NewNormalizer creates a Normalizer scoped to startURL's host.
func NewNormalizer(startURL string) (*Normalizer, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, sitedex.Errorf(sitedex.EINVALID, "invalid start URL %q: %v", startURL, err)
	}
	if !ValidScheme(u) {
		return nil, sitedex.Errorf(sitedex.EINVALID, "start URL %q is not fetchable", startURL)
	}
	return &Normalizer{domain: strings.ToLower(u.Hostname())}, nil
}

// Domain returns the normalizer's reference domain.
func (n *Normalizer) Domain() string { return n.domain }

// Accept canonicalizes rawURL, resolving it against base if relative, and
// reports whether it is a fetchable same-domain URL. Rejected URLs return
// ok=false without an error; dropped links are not failures.
func (n *Normalizer) Accept(base *url.URL, rawURL string) (canonical string, ok bool) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" || strings.HasPrefix(rawURL, "#") {
		return "", false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if !ValidScheme(u) {
		return "", false
	}
	if !SameDomain(u.Hostname(), n.domain) {
		return "", false
	}

	canonical, err = Canonicalize(u.String())
	if err != nil {
		return "", false
	}
	return canonical, true
}
