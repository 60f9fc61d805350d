package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hyperjump/dishhub/internal/models"
	"go.uber.org/zap"
)

// ListRecipes fetches the whole collection. It satisfies index.RecipeSource.
func (c *Client) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if _, err := c.do(ctx, http.MethodGet, "/api/recipe", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// MyRecipes fetches the recipes authored by the current user.
func (c *Client) MyRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if _, err := c.do(ctx, http.MethodGet, "/api/recipe/my", nil, &recipes); err != nil {
		return nil, mapStatus(err)
	}
	return recipes, nil
}

// GetRecipe fetches one recipe by id.
func (c *Client) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var r models.Recipe
	if _, err := c.do(ctx, http.MethodGet, "/api/recipe/"+escape(id), nil, &r); err != nil {
		return nil, mapStatus(err)
	}
	return &r, nil
}

// CreateRecipe validates in locally and submits it.
func (c *Client) CreateRecipe(ctx context.Context, in models.RecipeInput) (*models.Recipe, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var r models.Recipe
	if _, err := c.do(ctx, http.MethodPost, "/api/recipe", in, &r); err != nil {
		return nil, mapStatus(err)
	}
	c.logger.Info("Recipe created", zap.String("id", r.ID), zap.String("title", r.Title))
	return &r, nil
}

// UpdateRecipe validates in locally and replaces the recipe with id.
func (c *Client) UpdateRecipe(ctx context.Context, id string, in models.RecipeInput) (*models.Recipe, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var r models.Recipe
	if _, err := c.do(ctx, http.MethodPut, "/api/recipe/"+escape(id), in, &r); err != nil {
		return nil, mapStatus(err)
	}
	return &r, nil
}

// DeleteRecipe removes the recipe with id.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/recipe/"+escape(id), nil, nil)
	return mapStatus(err)
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if _, err := c.do(ctx, http.MethodGet, "/api/category", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory submits a new category name.
func (c *Client) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	var out models.Category
	if _, err := c.do(ctx, http.MethodPost, "/api/category", models.Category{Name: name}, &out); err != nil {
		return nil, mapStatus(err)
	}
	if out.Name == "" {
		out.Name = name
	}
	return &out, nil
}

// ListIngredients fetches all ingredients.
func (c *Client) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if _, err := c.do(ctx, http.MethodGet, "/api/ingredient", nil, &ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

// CreateIngredient validates in locally and submits it.
func (c *Client) CreateIngredient(ctx context.Context, in models.IngredientInput) (*models.Ingredient, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out models.Ingredient
	if _, err := c.do(ctx, http.MethodPost, "/api/ingredient", in, &out); err != nil {
		return nil, mapStatus(err)
	}
	return &out, nil
}

// DeleteIngredient removes the ingredient with id.
func (c *Client) DeleteIngredient(ctx context.Context, id string) error {
	if !models.IsObjectID(id) {
		return fmt.Errorf("%w: %s", models.ErrInvalidIngredientID, id)
	}
	_, err := c.do(ctx, http.MethodDelete, "/api/ingredient/"+escape(id), nil, nil)
	return mapStatus(err)
}

// mapStatus wraps well-known statuses with the shared sentinel errors so callers
// can use errors.Is without inspecting codes.
func mapStatus(err error) error {
	var se *StatusError
	if !errors.As(err, &se) {
		return err
	}
	switch se.Status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %w", models.ErrUnauthorized, se)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %w", models.ErrForbidden, se)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", models.ErrNotFound, se)
	case http.StatusConflict:
		return fmt.Errorf("%w: %w", models.ErrDuplicateCategory, se)
	}
	return err
}
