// Package pagination reveals a growing prefix of a result list.
package pagination

// DefaultPageSize is the number of items revealed initially and per LoadMore.
const DefaultPageSize = 3

// Window tracks how much of a list is visible. It is bound to a list identity
// (any string that changes whenever the underlying list changes); binding a new
// identity resets the window to its first page.
type Window struct {
	pageSize int
	visible  int
	total    int
	key      string
	bound    bool
}

// New creates a window revealing pageSize items per step. A non-positive
// pageSize falls back to DefaultPageSize.
func New(pageSize int) *Window {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Window{pageSize: pageSize, visible: pageSize}
}

// Sync binds the window to the list identified by key with total items. When key
// differs from the bound identity the window resets to the first page; otherwise
// only the total is refreshed.
func (w *Window) Sync(key string, total int) {
	if total < 0 {
		total = 0
	}
	if !w.bound || key != w.key {
		w.key = key
		w.bound = true
		w.visible = w.pageSize
	}
	w.total = total
}

// Reset returns to the first page without changing the bound identity.
func (w *Window) Reset() {
	w.visible = w.pageSize
}

// LoadMore reveals the next page, never past the total. It is a no-op once
// every item is visible.
func (w *Window) LoadMore() {
	if w.visible >= w.total {
		return
	}
	w.visible += w.pageSize
	if w.visible > w.total {
		w.visible = w.total
	}
}

// HasMore reports whether items remain hidden.
func (w *Window) HasMore() bool {
	return w.visible < w.total
}

// Visible returns the number of items to show.
func (w *Window) Visible() int {
	if w.visible > w.total {
		return w.total
	}
	return w.visible
}

// Total returns the bound list length.
func (w *Window) Total() int { return w.total }

// PageSize returns the step size.
func (w *Window) PageSize() int { return w.pageSize }

// Slice returns the visible prefix of items.
func Slice[T any](w *Window, items []T) []T {
	n := w.Visible()
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
