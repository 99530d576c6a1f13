package sitedex

// Converter transforms HTML content into Markdown.
type Converter interface {
	Convert(html string) (markdown string, err error)
}
