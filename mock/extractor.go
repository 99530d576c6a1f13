package mock

import "github.com/sitedex/sitedex"

var _ sitedex.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of sitedex.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML string) (*sitedex.ExtractResult, error)
}

func (e *Extractor) Extract(rawHTML string) (*sitedex.ExtractResult, error) {
	return e.ExtractFn(rawHTML)
}
