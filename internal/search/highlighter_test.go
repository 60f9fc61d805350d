package search

import (
	"testing"
)

func TestHighlight(t *testing.T) {
	if got := Highlight("Pancakes", "pan", "[", "]"); got != "[Pan]cakes" {
		t.Errorf("got %s", got)
	}
	if got := Highlight("Lasagna", "xyz", "[", "]"); got != "Lasagna" {
		t.Errorf("no match should be unchanged, got %s", got)
	}
	if got := Highlight("Lasagna", "  ", "[", "]"); got != "Lasagna" {
		t.Errorf("blank query should be unchanged, got %s", got)
	}
}
