package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParsePrepTime(t *testing.T) {
	tests := []struct {
		raw       string
		wantMin   int
		wantValid bool
	}{
		{"15 minutes", 15, true},
		{"45", 45, true},
		{"  30min", 30, true},
		{"15.5", 15, true},
		{"-5 minutes", -5, true},
		{"about an hour", 0, false},
		{"", 0, false},
		{"+", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParsePrepTime(tt.raw)
			if got.Valid != tt.wantValid || got.Minutes != tt.wantMin {
				t.Errorf("ParsePrepTime(%q) = %+v, want minutes=%d valid=%v", tt.raw, got, tt.wantMin, tt.wantValid)
			}
		})
	}
}

func TestPrepTime_JSON(t *testing.T) {
	var r Recipe
	if err := json.Unmarshal([]byte(`{"_id":"r1","title":"Soup","prepTime":20}`), &r); err != nil {
		t.Fatal(err)
	}
	if !r.PrepTime.Valid || r.PrepTime.Minutes != 20 {
		t.Errorf("numeric prepTime: got %+v", r.PrepTime)
	}
	if err := json.Unmarshal([]byte(`{"_id":"r1","title":"Soup","prepTime":"20 minutes"}`), &r); err != nil {
		t.Fatal(err)
	}
	if !r.PrepTime.Valid || r.PrepTime.Minutes != 20 {
		t.Errorf("text prepTime: got %+v", r.PrepTime)
	}
	out, err := json.Marshal(r.PrepTime)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "20" {
		t.Errorf("marshal: got %s, want 20", out)
	}
	bad := ParsePrepTime("a while")
	out, _ = json.Marshal(bad)
	if string(out) != `"a while"` {
		t.Errorf("marshal invalid: got %s", out)
	}
	out, _ = json.Marshal(PrepTime{})
	if string(out) != "null" {
		t.Errorf("marshal empty: got %s", out)
	}
}

func TestRecipe_UnmarshalWireForm(t *testing.T) {
	data := `{
		"_id": "abc",
		"title": "  Lasagna ",
		"category": null,
		"style": " Italian ",
		"ingredients": ["Pasta", {"_id": "x1", "name": "Cheese"}, "  "],
		"createdBy": {"_id": "u1", "username": "chef"}
	}`
	var r Recipe
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		t.Fatal(err)
	}
	if r.ID != "abc" || r.Title != "Lasagna" {
		t.Errorf("id/title: got %q %q", r.ID, r.Title)
	}
	if r.HasCategory() || r.HasMood() || !r.HasStyle() || r.Style != "Italian" {
		t.Errorf("optional fields: %+v", r)
	}
	if len(r.Ingredients) != 2 || r.Ingredients[1] != "Cheese" {
		t.Errorf("ingredients: got %v", r.Ingredients)
	}
	if r.CreatedBy != "u1" {
		t.Errorf("createdBy: got %q", r.CreatedBy)
	}
}

func TestValidateCategoryName(t *testing.T) {
	existing := []Category{{Name: "Breakfast"}, {Name: "Dinner"}}
	if _, err := ValidateCategoryName(existing, "   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name: got %v", err)
	}
	if _, err := ValidateCategoryName(existing, "breakfast"); !errors.Is(err, ErrDuplicateCategory) {
		t.Errorf("duplicate: got %v", err)
	}
	name, err := ValidateCategoryName(existing, "  Dessert ")
	if err != nil || name != "Dessert" {
		t.Errorf("valid: got %q, %v", name, err)
	}
}

func TestRecipeInput_Validate(t *testing.T) {
	valid := func() RecipeInput {
		return RecipeInput{
			Title: "Pancakes", Description: "Fluffy", Category: "Breakfast", PrepTime: "15",
			Ingredients: []string{"64b7f0c2a1b2c3d4e5f6a7b8", ""},
			Steps:       []string{"Mix", " ", "Fry"},
		}
	}
	tests := []struct {
		name    string
		mutate  func(*RecipeInput)
		wantErr error
	}{
		{"valid", func(*RecipeInput) {}, nil},
		{"missing title", func(in *RecipeInput) { in.Title = " " }, ErrMissingField},
		{"missing prep time", func(in *RecipeInput) { in.PrepTime = "" }, ErrMissingField},
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = []string{" "} }, ErrMissingField},
		{"no steps", func(in *RecipeInput) { in.Steps = nil }, ErrMissingField},
		{"bad ingredient id", func(in *RecipeInput) { in.Ingredients = []string{"flour"} }, ErrInvalidIngredientID},
		{"instructions text", func(in *RecipeInput) { in.Steps = nil; in.Instructions = "Mix\n\nFry" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			err := in.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && in.Instructions != "Mix\nFry" {
				t.Errorf("instructions: got %q", in.Instructions)
			}
		})
	}
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{"": SortNewest, "Quickest": SortQuickest, "popular": SortPopular} {
		got, err := ParseSortKey(in)
		if err != nil || got != want {
			t.Errorf("ParseSortKey(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSortKey("rating"); err == nil {
		t.Error("expected error for unknown key")
	}
	if SortQuickest.IsPlaceholder() || !SortNewest.IsPlaceholder() || !SortPopular.IsPlaceholder() {
		t.Error("only quickest is a real ordering")
	}
}

func TestFilterState_CategorySet(t *testing.T) {
	if (FilterState{}).CategorySet() || (FilterState{Category: "All"}).CategorySet() {
		t.Error("empty and all mean no filter")
	}
	if !(FilterState{Category: "Breakfast"}).CategorySet() {
		t.Error("named category is a filter")
	}
}
