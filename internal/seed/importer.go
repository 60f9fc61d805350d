package seed

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hyperjump/dishhub/internal/models"
	"go.uber.org/zap"
)

// RecipeStore is the part of the storage layer the importer writes to.
type RecipeStore interface {
	UpsertRecipe(ctx context.Context, r *models.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
}

// Importer upserts fixture recipes and remembers which file each came from, so
// a removed file takes its recipes with it.
type Importer struct {
	store  RecipeStore
	logger *zap.Logger

	mu    sync.Mutex
	files map[string][]string
}

// NewImporter creates an importer writing to store.
func NewImporter(store RecipeStore, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{store: store, logger: logger, files: make(map[string][]string)}
}

// FixtureID derives a stable object id for the i-th recipe of path, so that
// re-importing a file updates its recipes instead of duplicating them.
func FixtureID(path string, i int) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs+"#"+strconv.Itoa(i)))
	return strings.ReplaceAll(id.String(), "-", "")[:24]
}

// ImportFile parses path and upserts its recipes. Recipes that disappeared from
// the file since the last import are deleted. It returns the number of recipes
// written.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	recipes, err := ParseFile(path)
	if err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		if r.ID == "" {
			r.ID = FixtureID(path, i)
		}
		if err := im.store.UpsertRecipe(ctx, r); err != nil {
			return i, fmt.Errorf("failed to store %q: %w", r.Title, err)
		}
		ids = append(ids, r.ID)
	}

	im.mu.Lock()
	stale := difference(im.files[path], ids)
	im.files[path] = ids
	im.mu.Unlock()
	for _, id := range stale {
		if err := im.store.DeleteRecipe(ctx, id); err != nil && !errors.Is(err, models.ErrNotFound) {
			return len(ids), fmt.Errorf("failed to delete stale recipe %s: %w", id, err)
		}
	}

	im.logger.Info("Imported recipes", zap.String("path", path), zap.Int("count", len(ids)))
	return len(ids), nil
}

// RemoveFile deletes the recipes last imported from path.
func (im *Importer) RemoveFile(ctx context.Context, path string) error {
	im.mu.Lock()
	ids := im.files[path]
	delete(im.files, path)
	im.mu.Unlock()
	for _, id := range ids {
		if err := im.store.DeleteRecipe(ctx, id); err != nil && !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("failed to delete recipe %s: %w", id, err)
		}
	}
	if len(ids) > 0 {
		im.logger.Info("Removed recipes", zap.String("path", path), zap.Int("count", len(ids)))
	}
	return nil
}

// Files returns the number of files currently tracked.
func (im *Importer) Files() int {
	im.mu.Lock()
	defer im.mu.Unlock()
	return len(im.files)
}

func difference(old, current []string) []string {
	keep := make(map[string]struct{}, len(current))
	for _, id := range current {
		keep[id] = struct{}{}
	}
	var out []string
	for _, id := range old {
		if _, ok := keep[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
