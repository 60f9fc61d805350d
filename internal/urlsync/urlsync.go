// Package urlsync seeds search state from the shareable "search" query parameter
// and builds the links that carry it. Seeding happens once, at mount; local
// state is not written back into the address while the user types.
package urlsync

import (
	"fmt"
	"net/url"
	"strings"
)

// Param is the query parameter carrying the free-text search.
const Param = "search"

// RecipesPath is the recipe-browsing route.
const RecipesPath = "/recipes"

// Seed is the state derived from the address at mount.
type Seed struct {
	Query string
	// Searched marks the view as already searched, so results show at once.
	Searched bool
	// ScrollTop asks the view to scroll the viewport to the top.
	ScrollTop bool
}

// FromValues reads the search parameter. A missing or empty parameter produces
// the zero Seed.
func FromValues(values url.Values) Seed {
	q := values.Get(Param)
	if q == "" {
		return Seed{}
	}
	return Seed{Query: q, Searched: true, ScrollTop: true}
}

// FromURL parses raw (absolute, path-only or a bare "?search=" query string)
// and reads its search parameter.
func FromURL(raw string) (Seed, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Seed{}, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Seed{}, fmt.Errorf("parse url: %w", err)
	}
	return FromValues(u.Query()), nil
}

// Target is what a Seed is applied to.
type Target interface {
	SetText(query string)
}

// Scroller is implemented by views that can scroll to the top.
type Scroller interface {
	ScrollTop()
}

// Apply seeds target with s. It reports whether anything was seeded.
func Apply(s Seed, target Target, scroller Scroller) bool {
	if !s.Searched {
		return false
	}
	target.SetText(s.Query)
	if s.ScrollTop && scroller != nil {
		scroller.ScrollTop()
	}
	return true
}

// Link returns the browse route carrying query, e.g. "/recipes?search=mac+%26+cheese".
// A blank query yields the bare route.
func Link(query string) string {
	if strings.TrimSpace(query) == "" {
		return RecipesPath
	}
	v := url.Values{}
	v.Set(Param, query)
	return RecipesPath + "?" + v.Encode()
}

// RecipeLink returns the detail route of a recipe.
func RecipeLink(id string) string {
	return "/recipe/" + url.PathEscape(id)
}
