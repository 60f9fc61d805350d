package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/dishhub/internal/browse"
	"github.com/hyperjump/dishhub/internal/cli"
	"github.com/hyperjump/dishhub/internal/client"
	"github.com/hyperjump/dishhub/internal/index"
	"github.com/hyperjump/dishhub/internal/models"
	"github.com/hyperjump/dishhub/internal/search"
	"github.com/hyperjump/dishhub/internal/urlsync"
	"github.com/spf13/cobra"
)

// filterFlags are the filter and sort flags shared by browse and search.
type filterFlags struct {
	category string
	max      int
	sort     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "only recipes in this category (\"all\" for any)")
	cmd.Flags().IntVar(&f.max, "max", 0, "only recipes taking at most this many minutes (0 for any)")
	cmd.Flags().StringVar(&f.sort, "sort", "newest", "order: newest, quickest or popular")
}

func (f *filterFlags) state() (models.FilterState, error) {
	sort, err := models.ParseSortKey(f.sort)
	if err != nil {
		return models.FilterState{}, err
	}
	return models.FilterState{Category: f.category, MaxDurationMinutes: f.max, Sort: sort}, nil
}

// buildQuery joins the positional arguments into one query.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// loadView fetches the collection through c and builds a browsing view over it.
func loadView(ctx context.Context, a *app, c *client.Client, opts ...browse.Option) (*browse.View, error) {
	mode, err := search.ParseMode(a.cfg.Browse.SuggestMode)
	if err != nil {
		return nil, err
	}
	idx := index.New(c, index.WithLogger(a.logger))
	base := []browse.Option{
		browse.WithSuggestMode(mode),
		browse.WithSuggestionLimit(a.cfg.Browse.SuggestionLimit),
		browse.WithPageSize(a.cfg.Browse.PageSize),
		browse.WithSession(c.Session()),
		browse.WithLogger(a.logger),
	}
	view := browse.New(idx, append(base, opts...)...)
	if err := view.Reload(ctx); err != nil {
		return nil, err
	}
	return view, nil
}

func newBrowseCmd(a *app) *cobra.Command {
	var (
		filters       filterFlags
		address       string
		mode          string
		requireSubmit bool
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse recipes interactively",
		Long: `Browse recipes interactively. Each input line edits the query; lines
starting with / drive the suggestion list and the filters. Type /help inside
the loop for the list of commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != "" {
				a.cfg.Browse.SuggestMode = mode
			}
			f, err := filters.state()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			var opts []browse.Option
			if requireSubmit {
				opts = append(opts, browse.WithRequireSubmit())
			}
			view, err := loadView(cmd.Context(), a, c, opts...)
			if err != nil {
				return err
			}
			view.SetFilter(f)
			if address != "" {
				seed, err := urlsync.FromURL(address)
				if err != nil {
					return err
				}
				view.Mount(seed)
			}
			return cli.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), view)
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&address, "url", "", "open at an address such as /recipes?search=pasta")
	cmd.Flags().StringVar(&mode, "mode", "", "suggestion mode: vocabulary or title")
	cmd.Flags().BoolVar(&requireSubmit, "require-submit", false, "hide results until a query is submitted")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		filters filterFlags
		all     bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search recipes by title, ingredient, style or mood",
		Long: `Search recipes. The query is all remaining arguments joined by spaces and
matches case-insensitively against titles, ingredients, style and mood. An empty
query lists every recipe that passes the filters.

Examples:
  dishhub search pasta
  dishhub search --category Dinner --max 30 --sort quickest
  dishhub search "spicy soup" --all -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			f, err := filters.state()
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			view, err := loadView(cmd.Context(), a, c)
			if err != nil {
				return err
			}
			view.SetFilter(f)
			view.SetText(buildQuery(args))
			page := view.Results()
			for all && page.HasMore {
				page = view.LoadMore()
			}
			return cli.WritePage(cmd.OutOrStdout(), page, format)
		},
	}
	filters.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "show every result instead of the first page")
	return cmd
}

func newSuggestCmd(a *app) *cobra.Command {
	var (
		mode  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "List search suggestions for a partial query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.outputFormat()
			if err != nil {
				return err
			}
			if mode == "" {
				mode = a.cfg.Browse.SuggestMode
			}
			m, err := search.ParseMode(mode)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = a.cfg.Browse.SuggestionLimit
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			idx := index.New(c, index.WithLogger(a.logger))
			snap, err := idx.Load(cmd.Context())
			if err != nil {
				return err
			}
			query := buildQuery(args)
			suggestions := search.NewSuggester().Suggest(snap, query, m, limit)
			if len(suggestions) == 0 && format == cli.OutputText {
				fmt.Fprintln(cmd.OutOrStdout(), "No suggestions.")
				return nil
			}
			return cli.WriteSuggestions(cmd.OutOrStdout(), query, suggestions, -1, format)
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "suggestion mode: vocabulary or title")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of suggestions")
	return cmd
}
