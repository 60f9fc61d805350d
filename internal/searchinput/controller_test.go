package searchinput

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vocabulary = []string{"Breakfast", "Cheese", "Flour", "Italian", "Lasagna", "Pancakes", "Pasta"}

func staticSuggest(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, v := range vocabulary {
		if strings.Contains(strings.ToLower(v), q) {
			out = append(out, v)
		}
	}
	return out
}

type recorder struct {
	selected  []string
	submitted []string
}

func newController(r *recorder) *Controller {
	return New(staticSuggest,
		WithOnSelect(func(s string) { r.selected = append(r.selected, s) }),
		WithOnSubmit(func(q string) { r.submitted = append(r.submitted, q) }),
	)
}

func TestController_TextChanged(t *testing.T) {
	c := newController(&recorder{})
	assert.Equal(t, Idle, c.State())

	c.SetText("pa")
	assert.Equal(t, Editing, c.State())
	assert.Equal(t, []string{"Pancakes", "Pasta"}, c.Suggestions())
	assert.Equal(t, NoHighlight, c.Highlight())

	c.SetText("zzz")
	assert.Equal(t, Idle, c.State(), "no suggestions keeps the dropdown closed")

	c.SetText("   ")
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Suggestions())
}

func TestController_TextChangeResetsHighlight(t *testing.T) {
	c := newController(&recorder{})
	c.SetText("a")
	c.ArrowDown()
	c.ArrowDown()
	require.Equal(t, 1, c.Highlight())
	c.SetText("as")
	assert.Equal(t, NoHighlight, c.Highlight())
	assert.Equal(t, Editing, c.State())
}

func TestController_ArrowDownWraps(t *testing.T) {
	c := newController(&recorder{})
	c.SetText("pa")
	n := len(c.Suggestions())
	require.Equal(t, 2, n)

	c.ArrowDown()
	assert.Equal(t, 0, c.Highlight(), "from no highlight lands on first")
	assert.Equal(t, Highlighting, c.State())
	c.ArrowDown()
	assert.Equal(t, 1, c.Highlight())
	c.ArrowDown()
	assert.Equal(t, 0, c.Highlight(), "wraps past the last item")
}

func TestController_ArrowDownCycleOrder(t *testing.T) {
	c := newController(&recorder{})
	c.SetText("a")
	n := len(c.Suggestions())
	require.Greater(t, n, 2)

	c.ArrowDown()
	start := c.Highlight()
	for i := 0; i < n; i++ {
		c.ArrowDown()
	}
	assert.Equal(t, start, c.Highlight(), "n presses form a full cycle")

	for i := 0; i < n; i++ {
		c.ArrowUp()
	}
	assert.Equal(t, start, c.Highlight())
}

func TestController_ArrowUpWraps(t *testing.T) {
	c := newController(&recorder{})
	c.SetText("pa")
	c.ArrowUp()
	assert.Equal(t, 1, c.Highlight(), "from no highlight lands on last")
	c.ArrowUp()
	assert.Equal(t, 0, c.Highlight())
	c.ArrowUp()
	assert.Equal(t, 1, c.Highlight(), "wraps past the first item")
}

func TestController_ArrowsIgnoredWhenClosed(t *testing.T) {
	c := newController(&recorder{})
	c.ArrowDown()
	assert.Equal(t, NoHighlight, c.Highlight())
	c.SetText("pa")
	c.Escape()
	c.ArrowDown()
	c.ArrowUp()
	assert.Equal(t, NoHighlight, c.Highlight())
	assert.Equal(t, Idle, c.State())
}

func TestController_EnterWithoutHighlightSubmitsQuery(t *testing.T) {
	r := &recorder{}
	c := newController(r)
	c.SetText("italian")
	c.Enter()
	assert.Equal(t, []string{"italian"}, r.submitted)
	assert.Empty(t, r.selected)
	assert.False(t, c.IsOpen())
	assert.Equal(t, "italian", c.Query())
}

func TestController_EnterWithHighlightSelects(t *testing.T) {
	r := &recorder{}
	c := newController(r)
	c.SetText("pa")
	c.ArrowDown()
	c.ArrowDown()
	c.Enter()
	assert.Equal(t, []string{"Pasta"}, r.selected)
	assert.Empty(t, r.submitted)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, NoHighlight, c.Highlight())
	assert.Equal(t, "pa", c.Query(), "selection callback owns what happens to the text")
}

func TestController_ActivateIgnoresHighlight(t *testing.T) {
	r := &recorder{}
	c := newController(r)
	c.SetText("pa")
	c.ArrowDown()
	c.Activate(1)
	assert.Equal(t, []string{"Pasta"}, r.selected)
	assert.Equal(t, NoHighlight, c.Highlight())
	assert.False(t, c.IsOpen())

	c.Activate(7)
	assert.Len(t, r.selected, 1, "out of range activation is ignored")
}

func TestController_DefaultSelectionReplacesQuery(t *testing.T) {
	var submitted []string
	c := New(staticSuggest, WithOnSubmit(func(q string) { submitted = append(submitted, q) }))
	c.SetText("pan")
	c.ArrowDown()
	c.Enter()
	assert.Equal(t, "Pancakes", c.Query())
	assert.Equal(t, []string{"Pancakes"}, submitted)
}

func TestController_EscapeAndDismissKeepText(t *testing.T) {
	c := newController(&recorder{})
	c.SetText("pa")
	c.ArrowDown()
	c.Escape()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, NoHighlight, c.Highlight())
	assert.Equal(t, "pa", c.Query())

	c.Focus()
	assert.Equal(t, Editing, c.State(), "focus reopens for a non-blank query")
	c.ArrowUp()
	c.Dismiss()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, NoHighlight, c.Highlight())
	assert.Equal(t, "pa", c.Query())
}

func TestController_HoverAndReset(t *testing.T) {
	c := newController(&recorder{})
	c.SetText("a")
	c.Hover(2)
	assert.Equal(t, 2, c.Highlight())
	c.Hover(99)
	assert.Equal(t, 2, c.Highlight())

	c.Reset()
	assert.Equal(t, "", c.Query())
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Suggestions())
}

func TestController_RefreshClearsStaleHighlight(t *testing.T) {
	items := []string{"a1", "a2", "a3"}
	c := New(func(string) []string { return items })
	c.SetText("a")
	c.ArrowUp()
	require.Equal(t, 2, c.Highlight())
	items = []string{"a1"}
	c.Refresh()
	assert.Equal(t, NoHighlight, c.Highlight())
	assert.True(t, c.IsOpen())

	items = nil
	c.Refresh()
	assert.False(t, c.IsOpen())
}
