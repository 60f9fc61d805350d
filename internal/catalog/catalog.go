// Package catalog keeps the locally held category and ingredient lists used by
// the authoring commands.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hyperjump/dishhub/internal/models"
	"go.uber.org/zap"
)

// CategoryRepository is the remote category store.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
}

// IngredientRepository is the remote ingredient store.
type IngredientRepository interface {
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	CreateIngredient(ctx context.Context, in models.IngredientInput) (*models.Ingredient, error)
	DeleteIngredient(ctx context.Context, id string) error
}

// Categories is the fetched category list. Add appends the created category
// without refetching.
type Categories struct {
	mu     sync.RWMutex
	repo   CategoryRepository
	items  []models.Category
	logger *zap.Logger
}

// NewCategories creates an empty list backed by repo.
func NewCategories(repo CategoryRepository, logger *zap.Logger) *Categories {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Categories{repo: repo, logger: logger}
}

// Refresh replaces the local list with the repository contents.
func (c *Categories) Refresh(ctx context.Context) error {
	items, err := c.repo.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
	return nil
}

// List returns a copy of the local list.
func (c *Categories) List() []models.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Category(nil), c.items...)
}

// Names returns the category names in list order.
func (c *Categories) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(c.items))
	for i, item := range c.items {
		names[i] = item.Name
	}
	return names
}

// Add validates name against the local list, creates it and appends it.
// An empty or duplicate name is rejected before the repository is called.
func (c *Categories) Add(ctx context.Context, name string) (models.Category, error) {
	trimmed, err := models.ValidateCategoryName(c.List(), name)
	if err != nil {
		return models.Category{}, err
	}
	created, err := c.repo.CreateCategory(ctx, trimmed)
	if err != nil {
		return models.Category{}, err
	}
	c.mu.Lock()
	c.items = append(c.items, *created)
	c.mu.Unlock()
	c.logger.Info("Category added", zap.String("name", created.Name))
	return *created, nil
}

// Ingredients is the fetched ingredient list.
type Ingredients struct {
	mu    sync.RWMutex
	repo  IngredientRepository
	items []models.Ingredient
}

// NewIngredients creates an empty list backed by repo.
func NewIngredients(repo IngredientRepository) *Ingredients {
	return &Ingredients{repo: repo}
}

// Refresh replaces the local list with the repository contents.
func (in *Ingredients) Refresh(ctx context.Context) error {
	items, err := in.repo.ListIngredients(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ingredients: %w", err)
	}
	in.mu.Lock()
	in.items = items
	in.mu.Unlock()
	return nil
}

// List returns a copy of the local list.
func (in *Ingredients) List() []models.Ingredient {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return append([]models.Ingredient(nil), in.items...)
}

// Add creates an ingredient and appends it.
func (in *Ingredients) Add(ctx context.Context, input models.IngredientInput) (models.Ingredient, error) {
	created, err := in.repo.CreateIngredient(ctx, input)
	if err != nil {
		return models.Ingredient{}, err
	}
	in.mu.Lock()
	in.items = append(in.items, *created)
	in.mu.Unlock()
	return *created, nil
}

// Remove deletes the ingredient with id and drops it from the list.
func (in *Ingredients) Remove(ctx context.Context, id string) error {
	if err := in.repo.DeleteIngredient(ctx, id); err != nil {
		return err
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	for i, item := range in.items {
		if item.ID == id {
			in.items = append(in.items[:i], in.items[i+1:]...)
			break
		}
	}
	return nil
}

// Names maps ingredient ids to names, falling back to the id when unknown.
func (in *Ingredients) Names(ids []string) []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	byID := make(map[string]string, len(in.items))
	for _, item := range in.items {
		byID[item.ID] = item.Name
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := byID[id]; ok {
			out[i] = name
		} else {
			out[i] = id
		}
	}
	return out
}

// IDs maps ingredient references to ids. A reference that is already an id is
// kept; anything else is looked up by name, case-insensitively.
func (in *Ingredients) IDs(refs []string) ([]string, error) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	byName := make(map[string]string, len(in.items))
	for _, item := range in.items {
		key := strings.ToLower(strings.TrimSpace(item.Name))
		if _, ok := byName[key]; !ok {
			byName[key] = item.ID
		}
	}
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if models.IsObjectID(ref) {
			out = append(out, ref)
			continue
		}
		id, ok := byName[strings.ToLower(ref)]
		if !ok {
			return nil, fmt.Errorf("%w: ingredient %q", models.ErrNotFound, ref)
		}
		out = append(out, id)
	}
	return out, nil
}
