// Package index holds the in-memory recipe snapshot fetched from the recipe
// repository. The snapshot is replaced whole on every successful load.
package index

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hyperjump/dishhub/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrClosed is returned when a load completes after the index was closed.
	// The response is discarded.
	ErrClosed = errors.New("index closed")
	// ErrSuperseded is returned when a newer load started before this one
	// completed. The older response is discarded.
	ErrSuperseded = errors.New("load superseded by a newer load")
)

// RecipeSource fetches the full recipe collection.
type RecipeSource interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
}

// FetchError wraps any failure of Load. The previous snapshot stays in place.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load recipes: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Index is the recipe snapshot holder. Readers never block and always see a
// complete snapshot.
type Index struct {
	source  RecipeSource
	logger  *zap.Logger
	now     func() time.Time
	snap    atomic.Pointer[models.Snapshot]
	lastErr atomic.Pointer[FetchError]
	seq     atomic.Uint64
	version atomic.Uint64
	closed  atomic.Bool
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(i *Index) { i.logger = l }
}

// New creates an index holding the empty snapshot.
func New(source RecipeSource, opts ...Option) *Index {
	i := &Index{source: source, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	i.snap.Store(models.EmptySnapshot)
	return i
}

// Snapshot returns the current snapshot. It is never nil.
func (i *Index) Snapshot() *models.Snapshot {
	return i.snap.Load()
}

// Err returns the failure of the most recent load, or nil after a success.
func (i *Index) Err() error {
	if e := i.lastErr.Load(); e != nil {
		return e
	}
	return nil
}

// Load fetches the full collection and swaps it in as the new snapshot.
// On failure the previous snapshot is kept and a *FetchError is returned.
// A response that arrives after Close or after a newer Load started is
// discarded without touching the index.
func (i *Index) Load(ctx context.Context) (*models.Snapshot, error) {
	if i.closed.Load() {
		return nil, ErrClosed
	}
	seq := i.seq.Add(1)
	recipes, err := i.source.ListRecipes(ctx)

	if i.closed.Load() {
		i.logger.Debug("discarding recipe load after close", zap.Uint64("seq", seq))
		return nil, ErrClosed
	}
	if seq != i.seq.Load() {
		i.logger.Debug("discarding superseded recipe load", zap.Uint64("seq", seq))
		return nil, ErrSuperseded
	}
	if err != nil {
		fe := &FetchError{Err: err}
		i.lastErr.Store(fe)
		i.logger.Warn("recipe load failed, keeping previous snapshot",
			zap.Uint64("version", i.Snapshot().Version),
			zap.Error(err))
		return nil, fe
	}

	snap := &models.Snapshot{
		Version:  i.version.Add(1),
		Recipes:  dedupe(recipes, i.logger),
		LoadedAt: i.now(),
	}
	i.snap.Store(snap)
	i.lastErr.Store(nil)
	i.logger.Debug("recipe snapshot loaded",
		zap.Uint64("version", snap.Version),
		zap.Int("recipes", len(snap.Recipes)))
	return snap, nil
}

// Close detaches the index from its view. Loads in flight are discarded when
// they complete and later loads fail with ErrClosed. The last snapshot stays
// readable.
func (i *Index) Close() {
	i.closed.Store(true)
}

// Closed reports whether Close was called.
func (i *Index) Closed() bool {
	return i.closed.Load()
}

// dedupe copies recipes, normalizing each and keeping the first record of every id.
func dedupe(recipes []models.Recipe, logger *zap.Logger) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	seen := make(map[string]struct{}, len(recipes))
	for _, r := range recipes {
		r.Ingredients = append([]string(nil), r.Ingredients...)
		r.Normalize()
		if _, dup := seen[r.ID]; dup {
			logger.Warn("dropping recipe with duplicate id", zap.String("id", r.ID), zap.String("title", r.Title))
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
