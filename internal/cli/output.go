// Package cli provides output formatting and the interactive search loop for
// the dishhub command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/dishhub/internal/browse"
	"github.com/hyperjump/dishhub/internal/models"
	"github.com/hyperjump/dishhub/internal/search"
	"github.com/hyperjump/dishhub/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one line per item.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat parses s; the empty string is OutputText.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact:
		return OutputCompact, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, compact or json)", s)
	}
}

// Highlight markers used around query matches in text output.
const (
	MarkOpen  = "*"
	MarkClose = "*"
)

const rule = "─────────────────────────────────────────────────────────"

type pageJSON struct {
	Query            string             `json:"query"`
	Filter           models.FilterState `json:"filter"`
	Total            int                `json:"total"`
	Shown            int                `json:"shown"`
	HasMore          bool               `json:"has_more"`
	PlaceholderOrder bool               `json:"placeholder_order"`
	DidYouMean       string             `json:"did_you_mean,omitempty"`
	Recipes          []models.Recipe    `json:"recipes"`
}

// WritePage writes a result page to w in the given format.
func WritePage(w io.Writer, page browse.Page, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, pageJSON{
			Query:            page.Query,
			Filter:           page.Filter,
			Total:            page.Total,
			Shown:            len(page.Recipes),
			HasMore:          page.HasMore,
			PlaceholderOrder: page.PlaceholderOrder,
			DidYouMean:       page.DidYouMean,
			Recipes:          page.Recipes,
		})
	case OutputCompact:
		for _, r := range page.Recipes {
			fmt.Fprintln(w, compactLine(&r))
		}
		return nil
	default:
		writePageText(w, page)
		return nil
	}
}

func writePageText(w io.Writer, page browse.Page) {
	if !page.Shown {
		fmt.Fprintln(w, "Press enter to search.")
		return
	}
	if page.Total == 0 {
		fmt.Fprintln(w, "No recipes found.")
		if page.DidYouMean != "" {
			fmt.Fprintf(w, "Did you mean %q?\n", page.DidYouMean)
		}
		return
	}
	sort := page.Filter.Sort
	if sort == "" {
		sort = models.SortNewest
	}
	fmt.Fprintf(w, "\nShowing %d of %d recipes (sorted by %s", len(page.Recipes), page.Total, sort)
	if page.PlaceholderOrder {
		fmt.Fprint(w, ", alphabetical stand-in")
	}
	fmt.Fprint(w, ")\n\n")
	for i := range page.Recipes {
		writeRecipeSummary(w, &page.Recipes[i], page.Query)
	}
	if page.HasMore {
		fmt.Fprintf(w, "... %d more (load more)\n", page.Total-len(page.Recipes))
	}
}

func writeRecipeSummary(w io.Writer, r *models.Recipe, query string) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s\n", search.Highlight(r.Title, query, MarkOpen, MarkClose))
	var meta []string
	if r.HasCategory() {
		meta = append(meta, r.Category)
	}
	if !r.PrepTime.IsZero() {
		meta = append(meta, r.PrepTime.String())
	}
	if r.HasStyle() {
		meta = append(meta, r.Style)
	}
	if r.HasMood() {
		meta = append(meta, r.Mood)
	}
	if len(meta) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(meta, " · "))
	}
	if len(r.Ingredients) > 0 {
		highlighted := make([]string, len(r.Ingredients))
		for i, ing := range r.Ingredients {
			highlighted[i] = search.Highlight(ing, query, MarkOpen, MarkClose)
		}
		fmt.Fprintf(w, "  %s\n", utils.Truncate(strings.Join(highlighted, ", "), 120))
	}
	fmt.Fprintf(w, "  id: %s\n", r.ID)
}

func compactLine(r *models.Recipe) string {
	prep := "-"
	if !r.PrepTime.IsZero() {
		prep = r.PrepTime.String()
	}
	category := r.Category
	if category == "" {
		category = "-"
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s", r.ID, r.Title, category, prep)
}

// WriteRecipe writes one recipe in full.
func WriteRecipe(w io.Writer, r *models.Recipe, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, r)
	case OutputCompact:
		fmt.Fprintln(w, compactLine(r))
		return nil
	}
	fmt.Fprintf(w, "%s\n%s\n", r.Title, rule)
	if r.Description != "" {
		fmt.Fprintf(w, "%s\n\n", r.Description)
	}
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-10s %s\n", name+":", value)
		}
	}
	field("Category", r.Category)
	if !r.PrepTime.IsZero() {
		field("Prep time", r.PrepTime.String())
	}
	field("Style", r.Style)
	field("Mood", r.Mood)
	field("Image", r.Image)
	field("ID", r.ID)
	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w, "\nIngredients:")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(w, "  - %s\n", ing)
		}
	}
	if r.Instructions != "" {
		fmt.Fprintln(w, "\nInstructions:")
		n := 0
		for _, step := range strings.Split(r.Instructions, "\n") {
			if step = strings.TrimSpace(step); step != "" {
				n++
				fmt.Fprintf(w, "  %d. %s\n", n, step)
			}
		}
	}
	return nil
}

// WriteRecipes writes a plain recipe list, e.g. the user's own recipes.
func WriteRecipes(w io.Writer, recipes []models.Recipe, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, recipes)
	case OutputCompact:
		for i := range recipes {
			fmt.Fprintln(w, compactLine(&recipes[i]))
		}
		return nil
	}
	if len(recipes) == 0 {
		fmt.Fprintln(w, "No recipes.")
		return nil
	}
	for i := range recipes {
		r := &recipes[i]
		fmt.Fprintf(w, "%s  %s", r.ID, r.Title)
		if first := utils.FirstLine(r.Description); first != "" {
			fmt.Fprintf(w, " - %s", utils.Truncate(first, 60))
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteSuggestions writes a suggestion list. highlight is the highlighted index
// or a negative value.
func WriteSuggestions(w io.Writer, query string, suggestions []string, highlight int, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, struct {
			Query       string   `json:"query"`
			Suggestions []string `json:"suggestions"`
			Highlight   int      `json:"highlight"`
		}{query, suggestions, highlight})
	}
	for i, s := range suggestions {
		if format == OutputCompact {
			fmt.Fprintln(w, s)
			continue
		}
		marker := "  "
		if i == highlight {
			marker = "> "
		}
		fmt.Fprintf(w, "%s%d. %s\n", marker, i+1, search.Highlight(s, query, MarkOpen, MarkClose))
	}
	return nil
}

// WriteCategories writes category names.
func WriteCategories(w io.Writer, categories []models.Category, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, categories)
	}
	for _, c := range categories {
		fmt.Fprintln(w, c.Name)
	}
	return nil
}

// WriteIngredients writes ingredients with their ids.
func WriteIngredients(w io.Writer, ingredients []models.Ingredient, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, ingredients)
	}
	for _, ing := range ingredients {
		if format == OutputCompact {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ing.ID, ing.Name, ing.Quantity)
			continue
		}
		fmt.Fprintf(w, "%s  %s (%s)\n", ing.ID, ing.Name, ing.Quantity)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
