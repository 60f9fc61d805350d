package catalog

import (
	"context"
	"testing"

	"github.com/hyperjump/dishhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	categories  []models.Category
	ingredients []models.Ingredient
	creates     int
	deletes     []string
}

func (f *fakeRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeRepo) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	f.creates++
	return &models.Category{Name: name}, nil
}

func (f *fakeRepo) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	return f.ingredients, nil
}

func (f *fakeRepo) CreateIngredient(ctx context.Context, in models.IngredientInput) (*models.Ingredient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &models.Ingredient{ID: "0123456789abcdef01234567", Name: in.Name, Quantity: in.Quantity}, nil
}

func (f *fakeRepo) DeleteIngredient(ctx context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return nil
}

func TestCategories_Add(t *testing.T) {
	repo := &fakeRepo{categories: []models.Category{{Name: "Dinner"}}}
	c := NewCategories(repo, nil)
	require.NoError(t, c.Refresh(context.Background()))

	_, err := c.Add(context.Background(), "  ")
	assert.ErrorIs(t, err, models.ErrEmptyName)

	_, err = c.Add(context.Background(), "dinner")
	assert.ErrorIs(t, err, models.ErrDuplicateCategory)
	assert.Zero(t, repo.creates)

	added, err := c.Add(context.Background(), "  Dessert ")
	require.NoError(t, err)
	assert.Equal(t, "Dessert", added.Name)
	assert.Equal(t, []string{"Dinner", "Dessert"}, c.Names())
	assert.Equal(t, 1, repo.creates)
}

func TestIngredients_AddRemoveNames(t *testing.T) {
	repo := &fakeRepo{ingredients: []models.Ingredient{{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "pasta"}}}
	in := NewIngredients(repo)
	require.NoError(t, in.Refresh(context.Background()))

	_, err := in.Add(context.Background(), models.IngredientInput{Name: "salt"})
	assert.ErrorIs(t, err, models.ErrMissingField)

	added, err := in.Add(context.Background(), models.IngredientInput{Name: "salt", Quantity: "1 tsp"})
	require.NoError(t, err)
	assert.Len(t, in.List(), 2)

	assert.Equal(t, []string{"pasta", "salt", "bbbbbbbbbbbbbbbbbbbbbbbb"},
		in.Names([]string{"aaaaaaaaaaaaaaaaaaaaaaaa", added.ID, "bbbbbbbbbbbbbbbbbbbbbbbb"}))

	require.NoError(t, in.Remove(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaa"))
	assert.Len(t, in.List(), 1)
	assert.Equal(t, []string{"aaaaaaaaaaaaaaaaaaaaaaaa"}, repo.deletes)
}

func TestIngredients_IDs(t *testing.T) {
	repo := &fakeRepo{ingredients: []models.Ingredient{
		{ID: "aaaaaaaaaaaaaaaaaaaaaaaa", Name: "Pasta"},
		{ID: "cccccccccccccccccccccccc", Name: "Cheese"},
	}}
	in := NewIngredients(repo)
	require.NoError(t, in.Refresh(context.Background()))

	ids, err := in.IDs([]string{" pasta ", "bbbbbbbbbbbbbbbbbbbbbbbb", "", "CHEESE"})
	require.NoError(t, err)
	assert.Equal(t, []string{"aaaaaaaaaaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbbbbbbbbbb", "cccccccccccccccccccccccc"}, ids)

	_, err = in.IDs([]string{"saffron"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
