// Package browse composes the search core into a single recipe-browsing view:
// the index snapshot, suggestions, the search box, the filter and sort state and
// the pagination window.
package browse

import (
	"context"
	"fmt"

	"github.com/hyperjump/dishhub/internal/index"
	"github.com/hyperjump/dishhub/internal/models"
	"github.com/hyperjump/dishhub/internal/pagination"
	"github.com/hyperjump/dishhub/internal/search"
	"github.com/hyperjump/dishhub/internal/searchinput"
	"github.com/hyperjump/dishhub/internal/session"
	"github.com/hyperjump/dishhub/internal/urlsync"
	"go.uber.org/zap"
)

// Page is the visible part of the filtered result list.
type Page struct {
	Query   string
	Filter  models.FilterState
	Recipes []models.Recipe
	Total   int
	HasMore bool
	// Shown is false while a submit-gated view has not been searched yet.
	Shown bool
	// PlaceholderOrder marks a sort key whose order is a stand-in.
	PlaceholderOrder bool
	// DidYouMean is a close vocabulary term offered when nothing matched.
	DidYouMean string
}

// View is one browsing screen. It is not safe for concurrent use.
type View struct {
	idx       *index.Index
	suggester *search.Suggester
	input     *searchinput.Controller
	window    *pagination.Window
	session   *session.Session
	logger    *zap.Logger

	mode          search.Mode
	limit         int
	pageSize      int
	requireSubmit bool

	filter    models.FilterState
	searched  bool
	scrolled  bool
	location  string
	submitted string
}

// Option configures a View.
type Option func(*View)

// WithSuggestMode selects vocabulary or title suggestions. In title mode a
// committed suggestion opens the matching recipe.
func WithSuggestMode(m search.Mode) Option {
	return func(v *View) { v.mode = m }
}

// WithSuggestionLimit caps the dropdown length.
func WithSuggestionLimit(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.limit = n
		}
	}
}

// WithPageSize sets the pagination step.
func WithPageSize(n int) Option {
	return func(v *View) { v.pageSize = n }
}

// WithRequireSubmit hides results until the query is submitted or seeded.
func WithRequireSubmit() Option {
	return func(v *View) { v.requireSubmit = true }
}

// WithSession attaches the identity used for ownership checks.
func WithSession(s *session.Session) Option {
	return func(v *View) { v.session = s }
}

// WithSuggester shares a suggester (and its vocabulary cache) between views.
func WithSuggester(s *search.Suggester) Option {
	return func(v *View) { v.suggester = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(v *View) { v.logger = l }
}

// New creates a view over idx.
func New(idx *index.Index, opts ...Option) *View {
	v := &View{
		idx:      idx,
		logger:   zap.NewNop(),
		mode:     search.ModeVocabulary,
		limit:    search.DefaultSuggestionLimit,
		pageSize: pagination.DefaultPageSize,
		filter:   models.FilterState{Category: models.AllCategories, Sort: models.SortNewest},
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.suggester == nil {
		v.suggester = search.NewSuggester()
	}
	if v.session == nil {
		v.session = session.New()
	}
	v.window = pagination.New(v.pageSize)

	inputOpts := []searchinput.Option{
		searchinput.WithOnSubmit(v.submit),
		searchinput.WithLogger(v.logger),
	}
	if v.mode == search.ModeTitle {
		inputOpts = append(inputOpts, searchinput.WithOnSelect(v.open))
	}
	v.input = searchinput.New(v.suggest, inputOpts...)
	return v
}

// Input returns the search box controller.
func (v *View) Input() *searchinput.Controller { return v.input }

// Session returns the identity attached to the view.
func (v *View) Session() *session.Session { return v.session }

// Mount seeds the view from the address it was opened with. It reports whether
// a query was seeded.
func (v *View) Mount(seed urlsync.Seed) bool {
	if !urlsync.Apply(seed, v, v) {
		return false
	}
	v.searched = true
	v.submitted = seed.Query
	v.logger.Debug("View seeded from address", zap.String("query", seed.Query))
	return true
}

// SetText seeds the query without opening the dropdown.
func (v *View) SetText(query string) {
	v.input.SetText(query)
	v.input.Dismiss()
}

// ScrollTop records a request to scroll the viewport to the top.
func (v *View) ScrollTop() { v.scrolled = true }

// ScrolledTop reports and clears a pending scroll request.
func (v *View) ScrolledTop() bool {
	s := v.scrolled
	v.scrolled = false
	return s
}

// Searched reports whether a query was submitted or seeded.
func (v *View) Searched() bool { return v.searched }

// Submitted returns the last submitted query.
func (v *View) Submitted() string { return v.submitted }

// Location returns the route the view navigated to last, or "".
func (v *View) Location() string { return v.location }

// Filter returns the current filter and sort state.
func (v *View) Filter() models.FilterState { return v.filter }

// SetFilter replaces the filter and sort state.
func (v *View) SetFilter(f models.FilterState) {
	if f.Sort == "" {
		f.Sort = models.SortNewest
	}
	v.filter = f
}

// Reload fetches the collection again and refreshes the open dropdown.
func (v *View) Reload(ctx context.Context) error {
	snap, err := v.idx.Load(ctx)
	if err != nil {
		return err
	}
	v.input.Refresh()
	v.logger.Debug("View reloaded", zap.Uint64("version", snap.Version), zap.Int("recipes", snap.Len()))
	return nil
}

// Results applies the current query and filter to the snapshot and returns the
// visible page. The window returns to its first page whenever the result list
// changes.
func (v *View) Results() Page {
	query := v.input.Query()
	page := Page{Query: query, Filter: v.filter, Recipes: []models.Recipe{}}
	if v.requireSubmit && !v.searched {
		return page
	}
	snap := v.idx.Snapshot()
	res := search.Filter(snap, query, v.filter)
	key := fmt.Sprintf("%d|%s|%s", snap.Version, search.NormalizeQuery(query), v.filter.Key())
	v.window.Sync(key, len(res.Recipes))

	page.Shown = true
	page.Recipes = pagination.Slice(v.window, res.Recipes)
	page.Total = len(res.Recipes)
	page.HasMore = v.window.HasMore()
	page.PlaceholderOrder = res.PlaceholderOrder
	if page.Total == 0 {
		page.DidYouMean, _ = v.suggester.Correct(snap, query)
	}
	return page
}

// LoadMore reveals the next page of the current results.
func (v *View) LoadMore() Page {
	v.Results()
	v.window.LoadMore()
	return v.Results()
}

// CanEdit reports whether the session user may edit or delete r.
func (v *View) CanEdit(r *models.Recipe) bool {
	return v.session.Owns(r)
}

func (v *View) suggest(query string) []string {
	return v.suggester.Suggest(v.idx.Snapshot(), query, v.mode, v.limit)
}

func (v *View) submit(query string) {
	v.searched = true
	v.submitted = query
	v.location = urlsync.Link(query)
	v.logger.Debug("Query submitted", zap.String("query", query))
}

// open navigates to the recipe a title suggestion names. An unresolvable
// suggestion is submitted as a query instead.
func (v *View) open(suggestion string) {
	if r, ok := v.suggester.Resolve(v.idx.Snapshot(), suggestion); ok {
		v.location = urlsync.RecipeLink(r.ID)
		v.logger.Debug("Suggestion opened", zap.String("id", r.ID))
		return
	}
	v.SetText(suggestion)
	v.submit(suggestion)
}
