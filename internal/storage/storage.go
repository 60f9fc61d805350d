// Package storage defines the persistence interface of the collection service.
package storage

import (
	"context"
	"time"

	"github.com/hyperjump/dishhub/internal/models"
)

// Account is a user with its password hash. The hash never leaves the service.
type Account struct {
	models.User
	PasswordHash string
}

// Storage defines user, session, recipe, category and ingredient persistence.
type Storage interface {
	// Accounts and sessions
	CreateAccount(ctx context.Context, acc *Account) error
	GetAccountByUsername(ctx context.Context, username string) (*Account, error)
	CreateSession(ctx context.Context, token, userID string, expires time.Time) error
	GetSessionUser(ctx context.Context, token string) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error

	// Recipes
	CreateRecipe(ctx context.Context, r *models.Recipe) error
	UpsertRecipe(ctx context.Context, r *models.Recipe) error
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, r *models.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	ListRecipesByOwner(ctx context.Context, owner string) ([]models.Recipe, error)

	// Catalog
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateIngredient(ctx context.Context, ing *models.Ingredient) error
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	DeleteIngredient(ctx context.Context, id string) error

	// Stats
	CountRecipes(ctx context.Context) (int64, error)

	Close() error
}
