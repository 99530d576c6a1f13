package mock

import "github.com/sitedex/sitedex"

var _ sitedex.Converter = (*Converter)(nil)

// Converter is a mock implementation of sitedex.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
