package pagination

import (
	"testing"
)

func TestWindow_LoadMore(t *testing.T) {
	w := New(3)
	w.Sync("list", 7)
	if w.Visible() != 3 || !w.HasMore() {
		t.Fatalf("initial: visible=%d hasMore=%v", w.Visible(), w.HasMore())
	}
	w.LoadMore()
	if w.Visible() != 6 {
		t.Errorf("after one LoadMore: got %d, want 6", w.Visible())
	}
	w.LoadMore()
	if w.Visible() != 7 || w.HasMore() {
		t.Errorf("after two LoadMore: visible=%d hasMore=%v", w.Visible(), w.HasMore())
	}
}

func TestWindow_LoadMoreIdempotentAtEnd(t *testing.T) {
	w := New(3)
	w.Sync("list", 4)
	w.LoadMore()
	if w.Visible() != 4 {
		t.Fatalf("visible = %d, want 4", w.Visible())
	}
	for i := 0; i < 5; i++ {
		w.LoadMore()
		if w.Visible() != 4 || w.HasMore() {
			t.Fatalf("LoadMore at end changed state: visible=%d hasMore=%v", w.Visible(), w.HasMore())
		}
	}
}

func TestWindow_ShortList(t *testing.T) {
	w := New(3)
	w.Sync("list", 2)
	if w.Visible() != 2 || w.HasMore() {
		t.Errorf("short list: visible=%d hasMore=%v", w.Visible(), w.HasMore())
	}
	w.LoadMore()
	if w.Visible() != 2 {
		t.Errorf("LoadMore on short list: visible=%d", w.Visible())
	}
	w.Sync("list", 0)
	if w.Visible() != 0 || w.HasMore() {
		t.Errorf("empty list: visible=%d hasMore=%v", w.Visible(), w.HasMore())
	}
}

func TestWindow_ResetsWhenListChanges(t *testing.T) {
	w := New(3)
	w.Sync("q=pasta", 10)
	w.LoadMore()
	w.LoadMore()
	if w.Visible() != 9 {
		t.Fatalf("visible = %d, want 9", w.Visible())
	}
	w.Sync("q=pasta", 10)
	if w.Visible() != 9 {
		t.Errorf("same identity must keep position, got %d", w.Visible())
	}
	w.Sync("q=pasta|cat=dinner", 5)
	if w.Visible() != 3 || !w.HasMore() {
		t.Errorf("new identity must reset: visible=%d hasMore=%v", w.Visible(), w.HasMore())
	}
}

func TestSlice(t *testing.T) {
	w := New(2)
	items := []string{"a", "b", "c"}
	w.Sync("k", len(items))
	if got := Slice(w, items); len(got) != 2 || got[1] != "b" {
		t.Errorf("Slice = %v", got)
	}
	w.LoadMore()
	if got := Slice(w, items); len(got) != 3 {
		t.Errorf("Slice after LoadMore = %v", got)
	}
}

func TestNew_DefaultPageSize(t *testing.T) {
	if New(0).PageSize() != DefaultPageSize {
		t.Errorf("page size: got %d", New(0).PageSize())
	}
}
