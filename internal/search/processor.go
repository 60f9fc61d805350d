package search

import "strings"

// NormalizeQuery trims and lowercases a query. Every matching path goes through
// it, so a whitespace-only query is the empty query everywhere.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
