package driven

// Converter turns one HTML fragment into normalised plain text / Markdown.
// Convert must never panic and must terminate for arbitrary input.
type Converter interface {
	Convert(html string) string
}
