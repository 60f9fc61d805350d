package models

import (
	"fmt"
	"strings"
)

// SortKey selects the result ordering.
type SortKey string

const (
	// SortNewest orders by title ascending. The record has no timestamp, so this
	// is a stand-in ordering, not a recency ranking.
	SortNewest SortKey = "newest"
	// SortQuickest orders by parsed prep time ascending.
	SortQuickest SortKey = "quickest"
	// SortPopular orders by title descending. The record has no popularity
	// signal, so this is a stand-in ordering, not a popularity ranking.
	SortPopular SortKey = "popular"
)

// ParseSortKey parses s case-insensitively. An empty string yields SortNewest.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortQuickest:
		return SortQuickest, nil
	case SortPopular:
		return SortPopular, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (use newest, quickest or popular)", s)
	}
}

// IsPlaceholder reports whether the ordering stands in for a ranking the data
// cannot support.
func (k SortKey) IsPlaceholder() bool {
	return k != SortQuickest
}

// AllCategories is the selector value meaning "no category filter".
const AllCategories = "all"

// FilterState is the browse filter. An empty Category or "all" disables the
// category filter; MaxDurationMinutes <= 0 disables the duration bound.
type FilterState struct {
	Category           string  `json:"category,omitempty"`
	MaxDurationMinutes int     `json:"max_duration_minutes,omitempty"`
	Sort               SortKey `json:"sort,omitempty"`
}

// CategorySet reports whether a category filter is active.
func (f FilterState) CategorySet() bool {
	c := strings.TrimSpace(f.Category)
	return c != "" && !strings.EqualFold(c, AllCategories)
}

// DurationSet reports whether a duration bound is active.
func (f FilterState) DurationSet() bool {
	return f.MaxDurationMinutes > 0
}

// Key identifies the filter for change detection.
func (f FilterState) Key() string {
	cat := ""
	if f.CategorySet() {
		cat = strings.ToLower(strings.TrimSpace(f.Category))
	}
	sort := f.Sort
	if sort == "" {
		sort = SortNewest
	}
	return fmt.Sprintf("%s|%d|%s", cat, f.MaxDurationMinutes, sort)
}
