package seed

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hyperjump/dishhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseFile_YAMLList(t *testing.T) {
	path := writeFile(t, t.TempDir(), "recipes.yaml", `
- title: Lasagna
  ingredients: [Pasta, Cheese]
  style: Italian
  prepTime: 60 minutes
  steps:
    - Layer
    - Bake
- title: Pancakes
  ingredients: [Flour]
  mood: Breakfast
  prepTime: 20
`)
	recipes, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Lasagna", recipes[0].Title)
	assert.Equal(t, []string{"Pasta", "Cheese"}, recipes[0].Ingredients)
	assert.Equal(t, "Layer\nBake", recipes[0].Instructions)
	assert.Equal(t, 60, recipes[0].PrepTime.Minutes)
	assert.True(t, recipes[1].PrepTime.Valid)
	assert.Equal(t, 20, recipes[1].PrepTime.Minutes)
	assert.Equal(t, "Breakfast", recipes[1].Mood)
}

func TestParseFile_YAMLSingle(t *testing.T) {
	path := writeFile(t, t.TempDir(), "soup.yml", "title: '  Soup '\ncategory: Lunch\nprepTime: overnight\n")
	recipes, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Soup", recipes[0].Title)
	assert.False(t, recipes[0].PrepTime.Valid)
	assert.Equal(t, "overnight", recipes[0].PrepTime.Raw)
}

func TestParseFile_JSON(t *testing.T) {
	dir := t.TempDir()
	list := writeFile(t, dir, "list.json", `[{"_id":"r1","title":"Salad","prepTime":"10"}]`)
	single := writeFile(t, dir, "one.json", `{"title":"Tea","ingredients":[{"name":"Leaves"}]}`)

	recipes, err := ParseFile(list)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "r1", recipes[0].ID)
	assert.Equal(t, 10, recipes[0].PrepTime.Minutes)

	recipes, err = ParseFile(single)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, []string{"Leaves"}, recipes[0].Ingredients)
}

func TestParseFile_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := ParseFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = ParseFile(writeFile(t, dir, "bad.json", `{"title":`))
	assert.Error(t, err)

	_, err = ParseFile(writeFile(t, dir, "untitled.yaml", "description: no title\n"))
	assert.ErrorIs(t, err, models.ErrMissingField)

	recipes, err := ParseFile(writeFile(t, dir, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

type memStore struct {
	mu      sync.Mutex
	recipes map[string]models.Recipe
}

func newMemStore() *memStore {
	return &memStore{recipes: make(map[string]models.Recipe)}
}

func (m *memStore) UpsertRecipe(ctx context.Context, r *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes[r.ID] = *r
	return nil
}

func (m *memStore) DeleteRecipe(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.recipes, id)
	return nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recipes)
}

func TestImporter_ImportReimportRemove(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "recipes.yaml", "- title: A\n- title: B\n")
	store := newMemStore()
	im := NewImporter(store, nil)
	ctx := context.Background()

	n, err := im.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, store.len())

	n, err = im.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, store.len(), "re-import must not duplicate")

	writeFile(t, dir, "recipes.yaml", "- title: A\n")
	_, err = im.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, store.len(), "recipes dropped from the file are deleted")

	require.NoError(t, im.RemoveFile(ctx, path))
	assert.Zero(t, store.len())
	assert.Zero(t, im.Files())
}

func TestFixtureID(t *testing.T) {
	a := FixtureID("/tmp/x.yaml", 0)
	assert.True(t, models.IsObjectID(a))
	assert.Equal(t, a, FixtureID("/tmp/x.yaml", 0))
	assert.NotEqual(t, a, FixtureID("/tmp/x.yaml", 1))
}

func TestNotifier(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "title: Good\n")
	bad := writeFile(t, dir, "bad.json", "{")
	store := newMemStore()
	n := NewImporter(store, nil).Notifier(context.Background())

	n.FileChanged(good)
	n.FileChanged(bad)
	assert.Equal(t, 1, store.len())

	n.FileRemoved(good)
	assert.Zero(t, store.len())
}
