package search

import (
	"sort"
	"strings"

	"github.com/hyperjump/dishhub/internal/models"
)

// Result is the ordered output of Filter.
type Result struct {
	Recipes []models.Recipe
	Sort    models.SortKey
	// PlaceholderOrder is set when Sort has no real signal behind it (newest,
	// popular) and the order is only alphabetical by title.
	PlaceholderOrder bool
}

// Filter applies the free-text query, the category filter and the duration bound
// to snap, then orders the survivors by f.Sort. Inputs are never modified.
//
// Recipes whose prep time cannot be parsed are never excluded by the duration
// bound: an unknown duration is treated as unbounded. Under SortQuickest they
// are placed after every recipe with a known duration, keeping snapshot order.
func Filter(snap *models.Snapshot, query string, f models.FilterState) Result {
	key := f.Sort
	if key == "" {
		key = models.SortNewest
	}
	res := Result{Sort: key, PlaceholderOrder: key.IsPlaceholder(), Recipes: []models.Recipe{}}
	if snap == nil {
		return res
	}

	q := NormalizeQuery(query)
	category := strings.TrimSpace(f.Category)
	for i := range snap.Recipes {
		r := &snap.Recipes[i]
		if q != "" && !matchNormalized(r, q) {
			continue
		}
		if f.CategorySet() && !strings.EqualFold(r.Category, category) {
			continue
		}
		if f.DurationSet() && r.PrepTime.Valid && r.PrepTime.Minutes > f.MaxDurationMinutes {
			continue
		}
		res.Recipes = append(res.Recipes, *r)
	}

	sortRecipes(res.Recipes, key)
	return res
}

func sortRecipes(recipes []models.Recipe, key models.SortKey) {
	switch key {
	case models.SortQuickest:
		sort.SliceStable(recipes, func(i, j int) bool {
			a, b := recipes[i].PrepTime, recipes[j].PrepTime
			if a.Valid != b.Valid {
				return a.Valid
			}
			return a.Valid && a.Minutes < b.Minutes
		})
	case models.SortPopular:
		sort.SliceStable(recipes, func(i, j int) bool {
			return compareTitles(recipes[i].Title, recipes[j].Title) > 0
		})
	default:
		sort.SliceStable(recipes, func(i, j int) bool {
			return compareTitles(recipes[i].Title, recipes[j].Title) < 0
		})
	}
}

// compareTitles orders case-insensitively, falling back to byte order on ties.
func compareTitles(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
