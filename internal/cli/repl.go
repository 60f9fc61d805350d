package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hyperjump/dishhub/internal/browse"
	"github.com/hyperjump/dishhub/internal/models"
)

const replHelp = `Type text to edit the query. Commands:
  /down /up        move the suggestion highlight
  /enter           commit the highlight or submit the query
  /esc             close the suggestions
  /click N         commit suggestion N
  /hover N         highlight suggestion N
  /focus /out      focus the box or click outside it
  /reset           clear the query
  /more            load more results
  /filter k=v ...  category=NAME max=MINUTES sort=newest|quickest|popular
  /reload          fetch the collection again
  /help /quit`

// Run drives view from line-oriented input until EOF, /quit or ctx is done.
// Each line is one interaction; the state is rendered after every line.
func Run(ctx context.Context, in io.Reader, out io.Writer, view *browse.View) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "Type /help for commands.")
	Render(out, view)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		quit, err := Dispatch(ctx, view, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
		if strings.TrimSpace(line) == "/help" {
			fmt.Fprintln(out, replHelp)
			continue
		}
		Render(out, view)
	}
	return scanner.Err()
}

// Dispatch applies one input line to view. It reports whether the loop should end.
func Dispatch(ctx context.Context, view *browse.View, line string) (bool, error) {
	input := view.Input()
	if !strings.HasPrefix(line, "/") {
		input.SetText(line)
		return false, nil
	}
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "/quit", "/q":
		return true, nil
	case "/help":
	case "/down":
		input.ArrowDown()
	case "/up":
		input.ArrowUp()
	case "/enter":
		input.Enter()
	case "/esc":
		input.Escape()
	case "/focus":
		input.Focus()
	case "/out":
		input.Dismiss()
	case "/reset":
		input.Reset()
	case "/click", "/hover":
		n, err := itemArg(args)
		if err != nil {
			return false, err
		}
		if cmd == "/click" {
			input.Activate(n)
		} else {
			input.Hover(n)
		}
	case "/more":
		view.LoadMore()
	case "/filter":
		f, err := parseFilter(view.Filter(), args)
		if err != nil {
			return false, err
		}
		view.SetFilter(f)
	case "/reload":
		return false, view.Reload(ctx)
	default:
		return false, fmt.Errorf("unknown command %s", cmd)
	}
	return false, nil
}

// itemArg parses a 1-based suggestion number into an index.
func itemArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected a suggestion number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid suggestion number %q", args[0])
	}
	return n - 1, nil
}

func parseFilter(f models.FilterState, args []string) (models.FilterState, error) {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return f, fmt.Errorf("expected key=value, got %q", arg)
		}
		switch strings.ToLower(key) {
		case "category":
			f.Category = value
		case "max":
			if value == "" {
				f.MaxDurationMinutes = 0
				continue
			}
			m, err := strconv.Atoi(value)
			if err != nil {
				return f, fmt.Errorf("invalid max duration %q", value)
			}
			f.MaxDurationMinutes = m
		case "sort":
			k, err := models.ParseSortKey(value)
			if err != nil {
				return f, err
			}
			f.Sort = k
		default:
			return f, fmt.Errorf("unknown filter %q", key)
		}
	}
	return f, nil
}

// Render writes the search box, the dropdown, the current page and the last
// navigation target.
func Render(out io.Writer, view *browse.View) {
	input := view.Input()
	fmt.Fprintf(out, "\nsearch> %s  [%s]\n", input.Query(), input.State())
	if input.IsOpen() {
		_ = WriteSuggestions(out, input.Query(), input.Suggestions(), input.Highlight(), OutputText)
	}
	if view.ScrolledTop() {
		fmt.Fprintln(out, "(scrolled to top)")
	}
	_ = WritePage(out, view.Results(), OutputText)
	if loc := view.Location(); loc != "" {
		fmt.Fprintf(out, "location: %s\n", loc)
	}
}
