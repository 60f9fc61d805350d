package search

import "strings"

// Highlight wraps the first case-insensitive occurrence of query in text with
// open and close markers. Text without a match is returned unchanged.
func Highlight(text, query, open, close string) string {
	q := NormalizeQuery(query)
	if q == "" {
		return text
	}
	lower := strings.ToLower(text)
	i := strings.Index(lower, q)
	if i < 0 || len(lower) != len(text) {
		return text
	}
	end := i + len(q)
	return text[:i] + open + text[i:end] + close + text[end:]
}
