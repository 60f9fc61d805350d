package search

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/dishhub/internal/models"
)

// MaxCorrectionDistance is the largest edit distance Correct accepts.
const MaxCorrectionDistance = 2

// Correct proposes the vocabulary term closest to query by Damerau-Levenshtein
// distance, for use when a query matches nothing. Queries of four runes or fewer
// allow one edit, longer ones MaxCorrectionDistance. Ties go to the term that
// sorts first. It reports false when query is blank, already a vocabulary term
// or has no term within range.
func (s *Suggester) Correct(snap *models.Snapshot, query string) (string, bool) {
	q := NormalizeQuery(query)
	if q == "" {
		return "", false
	}
	limit := MaxCorrectionDistance
	if utf8.RuneCountInString(q) <= 4 {
		limit = 1
	}
	best, bestDist := "", limit+1
	for _, term := range s.Vocabulary(snap) {
		t := strings.ToLower(term)
		if t == q {
			return "", false
		}
		if abs(utf8.RuneCountInString(t)-utf8.RuneCountInString(q)) > limit {
			continue
		}
		if d := editDistance(q, t); d < bestDist {
			best, bestDist = term, d
		}
	}
	return best, best != ""
}

// editDistance is the Damerau-Levenshtein distance (optimal string alignment):
// insertions, deletions, substitutions and adjacent transpositions each cost one.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	d := make([][]int, len(ra)+1)
	for i := range d {
		d[i] = make([]int, len(rb)+1)
		d[i][0] = i
	}
	for j := range d[0] {
		d[0][j] = j
	}
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d[i][j] = min(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d[i][j] = min(d[i][j], d[i-2][j-2]+cost)
			}
		}
	}
	return d[len(ra)][len(rb)]
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
