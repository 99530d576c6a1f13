package sitedex

import (
	"context"
	"errors"
	"fmt"
)

// FetchResult is a scrape service's parsed view of one page. The service
// reports outbound links itself; callers never parse RawHTML for links.
type FetchResult struct {
	URL      string
	Title    string
	Markdown string // clean text content
	HTML     string // raw markup
	Links    []string
	Metadata map[string]any
}

// FetchErrorKind classifies fetch failures for retry decisions.
type FetchErrorKind int

const (
	// FetchTransient covers network-level failures likely to succeed on
	// retry (connection reset, DNS hiccup).
	FetchTransient FetchErrorKind = iota
	// FetchRejected means the scrape service rejected the input itself.
	// Retrying wastes a request slot and is never done.
	FetchRejected
	// FetchUpstream means the scrape service failed server-side.
	FetchUpstream
	// FetchTimeout means the request exceeded its deadline.
	FetchTimeout
)

// String returns the kind's wire label.
func (k FetchErrorKind) String() string {
	switch k {
	case FetchTransient:
		return "transient"
	case FetchRejected:
		return "rejected"
	case FetchUpstream:
		return "upstream"
	case FetchTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// FetchError is a typed fetch failure.
type FetchError struct {
	Kind FetchErrorKind
	URL  string
	Err  error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether a bounded retry is worthwhile.
func (e *FetchError) Retryable() bool {
	return e.Kind == FetchTransient || e.Kind == FetchTimeout
}

// AsFetchError unwraps err to a *FetchError if one is in the chain.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Fetcher retrieves parsed page content from URLs. Implementations wrap an
// external scrape service or fetch and extract directly.
type Fetcher interface {
	// Fetch retrieves and parses a single URL. Failures are reported as
	// *FetchError so callers can classify them.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases client resources.
	Close() error
}
