// Package search provides the recipe matching rule, the suggestion engine and the
// filter/sort pipeline that run over an in-memory snapshot.
package search

import (
	"strings"

	"github.com/hyperjump/dishhub/internal/models"
)

// MatchRecipe reports whether query occurs, ignoring case, in the recipe's title,
// any ingredient, its style or its mood. It is the single matching rule used by
// suggestions, selection lookup and filtering. The empty query matches every recipe.
func MatchRecipe(r *models.Recipe, query string) bool {
	return matchNormalized(r, NormalizeQuery(query))
}

// matchNormalized expects q to be the output of NormalizeQuery.
func matchNormalized(r *models.Recipe, q string) bool {
	if containsFold(r.Title, q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if containsFold(ing, q) {
			return true
		}
	}
	return containsFold(r.Style, q) || containsFold(r.Mood, q)
}

// containsFold reports whether lowered q is a substring of lowercased s.
func containsFold(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}
