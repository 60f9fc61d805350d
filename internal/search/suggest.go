package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hyperjump/dishhub/internal/models"
)

// DefaultSuggestionLimit caps suggestion lists when the caller has no preference.
const DefaultSuggestionLimit = 8

// Mode selects how suggestions are generated.
type Mode int

const (
	// ModeVocabulary suggests distinct terms (titles, ingredients, styles, moods)
	// containing the query, sorted ascending.
	ModeVocabulary Mode = iota
	// ModeTitle suggests the titles of matching recipes in snapshot order.
	ModeTitle
)

// String returns the flag spelling of m.
func (m Mode) String() string {
	switch m {
	case ModeTitle:
		return "title"
	default:
		return "vocabulary"
	}
}

// ParseMode parses "vocabulary" or "title".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vocabulary", "vocab", "terms":
		return ModeVocabulary, nil
	case "title", "titles":
		return ModeTitle, nil
	default:
		return 0, fmt.Errorf("unknown suggestion mode %q (use vocabulary or title)", s)
	}
}

// Suggester answers suggestion queries against a snapshot. The vocabulary of the
// last snapshot seen is cached and rebuilt only when a different snapshot is passed.
type Suggester struct {
	mu       sync.Mutex
	snap     *models.Snapshot
	vocab    []string
	rebuilds int
}

// NewSuggester creates a suggester with an empty cache.
func NewSuggester() *Suggester {
	return &Suggester{}
}

// Vocabulary returns the distinct titles, ingredients, styles and moods of snap,
// sorted ascending. Deduplication is exact; "Pasta" and "pasta" are both kept.
// The returned slice is shared and must not be modified.
func (s *Suggester) Vocabulary(snap *models.Snapshot) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == s.snap && s.vocab != nil {
		return s.vocab
	}
	s.vocab = buildVocabulary(snap)
	s.snap = snap
	s.rebuilds++
	return s.vocab
}

func buildVocabulary(snap *models.Snapshot) []string {
	seen := make(map[string]struct{})
	add := func(term string) {
		if term != "" {
			seen[term] = struct{}{}
		}
	}
	if snap != nil {
		for i := range snap.Recipes {
			r := &snap.Recipes[i]
			add(r.Title)
			for _, ing := range r.Ingredients {
				add(ing)
			}
			add(r.Style)
			add(r.Mood)
		}
	}
	vocab := make([]string, 0, len(seen))
	for term := range seen {
		vocab = append(vocab, term)
	}
	sort.Strings(vocab)
	return vocab
}

// Suggest returns at most limit suggestions for query. A blank query or a
// non-positive limit yields an empty result.
func (s *Suggester) Suggest(snap *models.Snapshot, query string, mode Mode, limit int) []string {
	q := NormalizeQuery(query)
	if q == "" || limit <= 0 {
		return []string{}
	}
	out := make([]string, 0, limit)
	switch mode {
	case ModeTitle:
		if snap == nil {
			return out
		}
		for i := range snap.Recipes {
			if len(out) == limit {
				break
			}
			if matchNormalized(&snap.Recipes[i], q) {
				out = append(out, snap.Recipes[i].Title)
			}
		}
	default:
		for _, term := range s.Vocabulary(snap) {
			if len(out) == limit {
				break
			}
			if containsFold(term, q) {
				out = append(out, term)
			}
		}
	}
	return out
}

// Resolve maps a committed suggestion to its recipe using the title-mode rule:
// the first recipe in snapshot order that matches the suggestion and carries it
// as its exact title.
func (s *Suggester) Resolve(snap *models.Snapshot, suggestion string) (*models.Recipe, bool) {
	if snap == nil {
		return nil, false
	}
	q := NormalizeQuery(suggestion)
	if q == "" {
		return nil, false
	}
	for i := range snap.Recipes {
		r := &snap.Recipes[i]
		if r.Title == suggestion && matchNormalized(r, q) {
			return r, true
		}
	}
	return nil, false
}
