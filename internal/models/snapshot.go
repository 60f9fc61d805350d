package models

import "time"

// Snapshot is an immutable copy of the recipe collection at a point in time.
// A reload produces a new Snapshot; an existing one is never modified, so its
// pointer identifies its contents.
type Snapshot struct {
	Version  uint64
	Recipes  []Recipe
	LoadedAt time.Time
}

// EmptySnapshot is the snapshot held before the first successful load.
var EmptySnapshot = &Snapshot{}

// Len returns the number of recipes.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Recipes)
}

// Find returns the recipe with id.
func (s *Snapshot) Find(id string) (*Recipe, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Recipes {
		if s.Recipes[i].ID == id {
			return &s.Recipes[i], true
		}
	}
	return nil, false
}
