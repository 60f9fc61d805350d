// Package models defines core data structures for recipes, the catalog collaborators,
// browse filters and the in-memory snapshot.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Recipe is a single recipe record. Optional text fields (Category, Style, Mood,
// Image) are trimmed at construction and an empty string means absent, so use
// sites never need presence checks. Matching code treats a Recipe as read-only.
type Recipe struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category,omitempty" yaml:"category"`
	Ingredients  []string `json:"ingredients" yaml:"ingredients"`
	Style        string   `json:"style,omitempty" yaml:"style"`
	Mood         string   `json:"mood,omitempty" yaml:"mood"`
	Instructions string   `json:"instructions" yaml:"instructions"`
	PrepTime     PrepTime `json:"prepTime" yaml:"prepTime"`
	Image        string   `json:"image,omitempty" yaml:"image"`
	CreatedBy    string   `json:"createdBy,omitempty" yaml:"createdBy"`
}

// HasCategory reports whether a category is set.
func (r *Recipe) HasCategory() bool { return r.Category != "" }

// HasStyle reports whether a style is set.
func (r *Recipe) HasStyle() bool { return r.Style != "" }

// HasMood reports whether a mood is set.
func (r *Recipe) HasMood() bool { return r.Mood != "" }

// Normalize trims every optional field and drops blank ingredients.
func (r *Recipe) Normalize() {
	r.ID = strings.TrimSpace(r.ID)
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Style = strings.TrimSpace(r.Style)
	r.Mood = strings.TrimSpace(r.Mood)
	r.Image = strings.TrimSpace(r.Image)
	r.CreatedBy = strings.TrimSpace(r.CreatedBy)
	ingredients := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			ingredients = append(ingredients, ing)
		}
	}
	r.Ingredients = ingredients
}

// recipeWire is the shape the collection service sends. Ids arrive as "_id" or
// "id"; ingredients are names, ids or populated {name} objects.
type recipeWire struct {
	ID           string            `json:"id"`
	MongoID      string            `json:"_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Category     *string           `json:"category"`
	Ingredients  []json.RawMessage `json:"ingredients"`
	Style        *string           `json:"style"`
	Mood         *string           `json:"mood"`
	Instructions string            `json:"instructions"`
	PrepTime     PrepTime          `json:"prepTime"`
	Image        *string           `json:"image"`
	CreatedBy    json.RawMessage   `json:"createdBy"`
}

// UnmarshalJSON decodes the service wire form into a normalized Recipe.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var w recipeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Recipe{
		ID:           w.ID,
		Title:        w.Title,
		Description:  w.Description,
		Category:     deref(w.Category),
		Style:        deref(w.Style),
		Mood:         deref(w.Mood),
		Instructions: w.Instructions,
		PrepTime:     w.PrepTime,
		Image:        deref(w.Image),
	}
	if out.ID == "" {
		out.ID = w.MongoID
	}
	for i, raw := range w.Ingredients {
		name, err := ingredientText(raw)
		if err != nil {
			return fmt.Errorf("ingredient %d: %w", i, err)
		}
		out.Ingredients = append(out.Ingredients, name)
	}
	owner, err := ownerID(w.CreatedBy)
	if err != nil {
		return fmt.Errorf("createdBy: %w", err)
	}
	out.CreatedBy = owner
	out.Normalize()
	*r = out
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ingredientText returns a string element as-is and the name (or id) of an object element.
func ingredientText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj struct {
		ID      string `json:"_id"`
		Name    string `json:"name"`
		AltName string `json:"ingredientName"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", err
	}
	switch {
	case obj.Name != "":
		return obj.Name, nil
	case obj.AltName != "":
		return obj.AltName, nil
	default:
		return obj.ID, nil
	}
}

// ownerID accepts a bare id or a populated user object.
func ownerID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return "", err
	}
	return u.ID, nil
}
