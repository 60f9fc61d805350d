package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Category is a recipe category. Names are unique ignoring case.
type Category struct {
	Name string `json:"categoryName"`
}

// Ingredient is owned by the ingredient repository; only Name is read for display.
type Ingredient struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// User is the identity returned by the session lookup.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// UnmarshalJSON accepts "_id", "id" or "userId" for the identifier.
func (u *User) UnmarshalJSON(data []byte) error {
	var w struct {
		ID       string `json:"_id"`
		AltID    string `json:"id"`
		UserID   string `json:"userId"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	u.ID = firstNonEmpty(w.ID, w.AltID, w.UserID)
	u.Username = w.Username
	u.Email = w.Email
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ValidateCategoryName trims name and rejects it when empty or when it matches an
// existing category ignoring case. It returns the trimmed name.
func ValidateCategoryName(existing []Category, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrEmptyName
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, trimmed) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateCategory, c.Name)
		}
	}
	return trimmed, nil
}

// IngredientInput is the payload for creating an ingredient.
type IngredientInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Validate requires both fields.
func (in *IngredientInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Quantity = strings.TrimSpace(in.Quantity)
	if in.Name == "" || in.Quantity == "" {
		return fmt.Errorf("%w: ingredient name and quantity", ErrMissingField)
	}
	return nil
}

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsObjectID reports whether s is a 24 character hex identifier.
func IsObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}

// RecipeInput is the authoring payload for create and update.
type RecipeInput struct {
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"`
	PrepTime     string   `json:"prepTime" yaml:"prepTime"`
	Image        string   `json:"image,omitempty" yaml:"image"`
	Style        string   `json:"style,omitempty" yaml:"style"`
	Mood         string   `json:"mood,omitempty" yaml:"mood"`
	Ingredients  []string `json:"ingredients" yaml:"ingredients"`
	Steps        []string `json:"-" yaml:"steps"`
	Instructions string   `json:"instructions" yaml:"instructions"`
}

// Validate checks required fields and ingredient identifier format locally so a
// malformed submission never reaches the network. Blank ingredients and steps are
// dropped and Steps are joined into Instructions.
func (in *RecipeInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.PrepTime = strings.TrimSpace(in.PrepTime)
	if in.Title == "" || in.Description == "" || in.Category == "" || in.PrepTime == "" {
		return fmt.Errorf("%w: title, description, category and prepTime are required", ErrMissingField)
	}

	ingredients := compact(in.Ingredients)
	steps := compact(in.Steps)
	if len(steps) == 0 && strings.TrimSpace(in.Instructions) != "" {
		steps = compact(strings.Split(in.Instructions, "\n"))
	}
	if len(ingredients) == 0 || len(steps) == 0 {
		return fmt.Errorf("%w: at least one ingredient and one instruction", ErrMissingField)
	}
	for _, id := range ingredients {
		if !IsObjectID(id) {
			return fmt.Errorf("%w: %s", ErrInvalidIngredientID, id)
		}
	}
	in.Ingredients = ingredients
	in.Steps = steps
	in.Instructions = strings.Join(steps, "\n")
	return nil
}

// ToRecipe builds the stored form of the input.
func (in *RecipeInput) ToRecipe(id, owner string) Recipe {
	r := Recipe{
		ID:           id,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Ingredients:  append([]string(nil), in.Ingredients...),
		Style:        in.Style,
		Mood:         in.Mood,
		Instructions: in.Instructions,
		PrepTime:     ParsePrepTime(in.PrepTime),
		Image:        in.Image,
		CreatedBy:    owner,
	}
	r.Normalize()
	return r
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
