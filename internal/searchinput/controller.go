// Package searchinput implements the search box state machine: text entry, the
// suggestion dropdown, keyboard navigation and dismissal.
package searchinput

import (
	"strings"

	"go.uber.org/zap"
)

// NoHighlight is the highlight index when no suggestion is highlighted.
const NoHighlight = -1

// State is the observable state of the controller.
type State int

const (
	// Idle means the dropdown is closed. The query may still hold text after a
	// dismissal or a commit.
	Idle State = iota
	// Editing means the dropdown is open with nothing highlighted.
	Editing
	// Highlighting means the dropdown is open with a suggestion highlighted.
	Highlighting
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Highlighting:
		return "highlighting"
	default:
		return "idle"
	}
}

// SuggestFunc derives the suggestion list for a query.
type SuggestFunc func(query string) []string

// Controller is the search box state machine. It is not safe for concurrent
// use; it belongs to a single view.
type Controller struct {
	suggest     SuggestFunc
	onSelect    func(suggestion string)
	onSubmit    func(query string)
	logger      *zap.Logger
	query       string
	open        bool
	highlight   int
	suggestions []string
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnSelect sets the callback invoked when a suggestion is committed.
func WithOnSelect(fn func(suggestion string)) Option {
	return func(c *Controller) { c.onSelect = fn }
}

// WithOnSubmit sets the callback invoked when the raw query is committed.
func WithOnSubmit(fn func(query string)) Option {
	return func(c *Controller) { c.onSubmit = fn }
}

// WithLogger sets a logger for transition tracing at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New creates an idle controller with an empty query.
func New(suggest SuggestFunc, opts ...Option) *Controller {
	c := &Controller{
		suggest:     suggest,
		logger:      zap.NewNop(),
		highlight:   NoHighlight,
		suggestions: []string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query returns the typed text.
func (c *Controller) Query() string { return c.query }

// IsOpen reports whether the dropdown is shown.
func (c *Controller) IsOpen() bool { return c.open }

// Highlight returns the highlighted index or NoHighlight.
func (c *Controller) Highlight() int { return c.highlight }

// Suggestions returns the suggestions for the current query.
func (c *Controller) Suggestions() []string { return c.suggestions }

// State returns the current state.
func (c *Controller) State() State {
	switch {
	case !c.open:
		return Idle
	case c.highlight >= 0:
		return Highlighting
	default:
		return Editing
	}
}

// SetText handles a text change: suggestions are recomputed, the dropdown opens
// when the query is non-blank and has suggestions, and the highlight resets.
func (c *Controller) SetText(query string) {
	c.query = query
	c.highlight = NoHighlight
	c.recompute()
	c.open = c.canOpen()
	c.trace("text")
}

// Refresh recomputes suggestions for the unchanged query, for example after the
// underlying data was reloaded. A highlight that no longer fits is cleared.
func (c *Controller) Refresh() {
	c.recompute()
	if c.highlight >= len(c.suggestions) {
		c.highlight = NoHighlight
	}
	if c.open && len(c.suggestions) == 0 {
		c.open = false
	}
	c.trace("refresh")
}

// Focus re-opens the dropdown for a non-blank query with suggestions.
func (c *Controller) Focus() {
	if c.canOpen() {
		c.open = true
	}
	c.trace("focus")
}

// ArrowDown moves the highlight forward, wrapping from the last item to the first.
// From NoHighlight it lands on the first item. It does nothing while the dropdown
// is closed or empty.
func (c *Controller) ArrowDown() {
	n := len(c.suggestions)
	if !c.open || n == 0 {
		return
	}
	c.highlight = (c.highlight + 1) % n
	c.trace("down")
}

// ArrowUp moves the highlight backward, wrapping from the first item to the last.
// From NoHighlight it lands on the last item. It does nothing while the dropdown
// is closed or empty.
func (c *Controller) ArrowUp() {
	n := len(c.suggestions)
	if !c.open || n == 0 {
		return
	}
	cur := c.highlight
	if cur < 0 {
		cur = n
	}
	c.highlight = (cur - 1 + n) % n
	c.trace("up")
}

// Hover highlights item i under the pointer.
func (c *Controller) Hover(i int) {
	if !c.open || i < 0 || i >= len(c.suggestions) {
		return
	}
	c.highlight = i
}

// Enter commits the highlighted suggestion when there is one, otherwise the raw
// query. Either way the dropdown closes and the highlight resets.
func (c *Controller) Enter() {
	if c.open && c.highlight >= 0 && c.highlight < len(c.suggestions) {
		c.commitSuggestion(c.suggestions[c.highlight])
		return
	}
	c.close()
	c.trace("submit")
	if c.onSubmit != nil {
		c.onSubmit(c.query)
	}
}

// Activate commits suggestion i as if it were highlighted and Enter pressed,
// regardless of the current highlight.
func (c *Controller) Activate(i int) {
	if i < 0 || i >= len(c.suggestions) {
		return
	}
	c.commitSuggestion(c.suggestions[i])
}

// Escape closes the dropdown and clears the highlight. The query is kept.
func (c *Controller) Escape() {
	c.close()
	c.trace("escape")
}

// Dismiss handles an interaction outside the widget. The query is kept.
func (c *Controller) Dismiss() {
	c.close()
	c.trace("dismiss")
}

// Reset is the explicit external reset: the query is cleared and the controller
// returns to Idle.
func (c *Controller) Reset() {
	c.query = ""
	c.suggestions = []string{}
	c.close()
	c.trace("reset")
}

// commitSuggestion closes the dropdown and hands suggestion to the selection
// callback. Without one, the suggestion replaces the query and is submitted.
func (c *Controller) commitSuggestion(suggestion string) {
	c.close()
	c.trace("select")
	if c.onSelect != nil {
		c.onSelect(suggestion)
		return
	}
	c.query = suggestion
	c.recompute()
	if c.onSubmit != nil {
		c.onSubmit(suggestion)
	}
}

func (c *Controller) close() {
	c.open = false
	c.highlight = NoHighlight
}

func (c *Controller) canOpen() bool {
	return strings.TrimSpace(c.query) != "" && len(c.suggestions) > 0
}

func (c *Controller) recompute() {
	var s []string
	if c.suggest != nil && strings.TrimSpace(c.query) != "" {
		s = c.suggest(c.query)
	}
	if s == nil {
		s = []string{}
	}
	c.suggestions = s
}

func (c *Controller) trace(event string) {
	c.logger.Debug("search input transition",
		zap.String("event", event),
		zap.String("state", c.State().String()),
		zap.Int("highlight", c.highlight),
		zap.Int("suggestions", len(c.suggestions)),
	)
}
