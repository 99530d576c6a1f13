// Package htmltomarkdown implements sitedex.Converter using the
// html-to-markdown library.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/sitedex/sitedex"
)

// Ensure Converter implements sitedex.Converter at compile time.
var _ sitedex.Converter = (*Converter)(nil)

// Converter turns extracted content HTML into the markdown form that gets
// fingerprinted, chunked, and embedded. The same input must always yield
// the same output or change detection breaks.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", sitedex.Errorf(sitedex.EINVALID, "empty HTML input")
	}

	return c.conv.ConvertString(html)
}
