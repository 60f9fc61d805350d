package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/hyperjump/dishhub/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist. ":memory:" opens a private
// in-memory database.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would open a separate in-memory database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		email TEXT,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT,
		ingredients TEXT,
		style TEXT,
		mood TEXT,
		instructions TEXT,
		prep_time TEXT,
		image TEXT,
		created_by TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_recipes_created_by ON recipes(created_by);

	CREATE TABLE IF NOT EXISTS categories (
		name TEXT PRIMARY KEY COLLATE NOCASE
	);

	CREATE TABLE IF NOT EXISTS ingredients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		quantity TEXT
	);
	`
	_, err := db.Exec(schema)
	return err
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// CreateAccount inserts a user. The username must be unique ignoring case.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, acc *Account) error {
	if acc.ID == "" {
		acc.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)`,
		acc.ID, acc.Username, acc.Email, acc.PasswordHash,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("username already taken: %s", acc.Username)
	}
	return err
}

// GetAccountByUsername returns the account with username, ignoring case.
func (s *SQLiteStorage) GetAccountByUsername(ctx context.Context, username string) (*Account, error) {
	var acc Account
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE username = ?`, username,
	).Scan(&acc.ID, &acc.Username, &email, &acc.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s: %w", username, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	acc.Email = email.String
	return &acc, nil
}

// CreateSession stores a session token for userID.
func (s *SQLiteStorage) CreateSession(ctx context.Context, token, userID string, expires time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expires.UTC(),
	)
	return err
}

// GetSessionUser returns the user an unexpired token belongs to.
func (s *SQLiteStorage) GetSessionUser(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	var email sql.NullString
	var expires time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.username, u.email, s.expires_at
		 FROM sessions s JOIN users u ON u.id = s.user_id WHERE s.token = ?`, token,
	).Scan(&u.ID, &u.Username, &email, &expires)
	if err == sql.ErrNoRows {
		return nil, models.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(expires) {
		_ = s.DeleteSession(ctx, token)
		return nil, models.ErrUnauthorized
	}
	u.Email = email.String
	return &u, nil
}

// DeleteSession removes a session token.
func (s *SQLiteStorage) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}

const recipeColumns = `id, title, description, category, ingredients, style, mood, instructions, prep_time, image, created_by`

func recipeArgs(r *models.Recipe) ([]interface{}, error) {
	ingredients, err := json.Marshal(r.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	return []interface{}{
		r.ID, r.Title, r.Description, r.Category, string(ingredients),
		r.Style, r.Mood, r.Instructions, prepText(r.PrepTime), r.Image, r.CreatedBy,
	}, nil
}

func prepText(p models.PrepTime) string {
	if p.Valid && p.Raw == "" {
		return strconv.Itoa(p.Minutes)
	}
	return p.Raw
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	var r models.Recipe
	var description, category, ingredients, style, mood, instructions, prep, image, owner sql.NullString
	if err := row.Scan(&r.ID, &r.Title, &description, &category, &ingredients,
		&style, &mood, &instructions, &prep, &image, &owner); err != nil {
		return nil, err
	}
	r.Description = description.String
	r.Category = category.String
	r.Style = style.String
	r.Mood = mood.String
	r.Instructions = instructions.String
	r.PrepTime = models.ParsePrepTime(prep.String)
	r.Image = image.String
	r.CreatedBy = owner.String
	if ingredients.String != "" {
		if err := json.Unmarshal([]byte(ingredients.String), &r.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
		}
	}
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	return &r, nil
}

// CreateRecipe inserts a recipe, assigning an id when none is set.
func (s *SQLiteStorage) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	args, err := recipeArgs(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recipes (`+recipeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	return err
}

// UpsertRecipe inserts r or replaces the recipe with the same id, keeping its
// original creation time.
func (s *SQLiteStorage) UpsertRecipe(ctx context.Context, r *models.Recipe) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	args, err := recipeArgs(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recipes (`+recipeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, description = excluded.description,
			category = excluded.category, ingredients = excluded.ingredients,
			style = excluded.style, mood = excluded.mood,
			instructions = excluded.instructions, prep_time = excluded.prep_time,
			image = excluded.image, created_by = excluded.created_by,
			updated_at = CURRENT_TIMESTAMP`, args...)
	return err
}

// GetRecipe returns a recipe by ID.
func (s *SQLiteStorage) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	r, err := scanRecipe(s.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recipe %s: %w", id, models.ErrNotFound)
	}
	return r, err
}

// UpdateRecipe replaces an existing recipe.
func (s *SQLiteStorage) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	args, err := recipeArgs(r)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE recipes SET title = ?, description = ?, category = ?, ingredients = ?,
			style = ?, mood = ?, instructions = ?, prep_time = ?, image = ?, created_by = ?,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		append(args[1:], r.ID)...,
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("recipe %s: %w", r.ID, models.ErrNotFound)
	}
	return nil
}

// DeleteRecipe removes a recipe by ID.
func (s *SQLiteStorage) DeleteRecipe(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("recipe %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// ListRecipes returns every recipe in insertion order.
func (s *SQLiteStorage) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	return s.queryRecipes(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY rowid`)
}

// ListRecipesByOwner returns the recipes created by owner in insertion order.
func (s *SQLiteStorage) ListRecipesByOwner(ctx context.Context, owner string) ([]models.Recipe, error) {
	return s.queryRecipes(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE created_by = ? ORDER BY rowid`, owner)
}

func (s *SQLiteStorage) queryRecipes(ctx context.Context, query string, args ...interface{}) ([]models.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recipes := []models.Recipe{}
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

// CreateCategory inserts a category. A name that exists ignoring case fails with
// models.ErrDuplicateCategory.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %s", models.ErrDuplicateCategory, name)
	}
	if err != nil {
		return nil, err
	}
	return &models.Category{Name: name}, nil
}

// ListCategories returns every category in insertion order.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateIngredient inserts an ingredient, assigning an id when none is set.
func (s *SQLiteStorage) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	if ing.ID == "" {
		ing.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingredients (id, name, quantity) VALUES (?, ?, ?)`,
		ing.ID, ing.Name, ing.Quantity,
	)
	return err
}

// ListIngredients returns every ingredient in insertion order.
func (s *SQLiteStorage) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, quantity FROM ingredients ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ingredients := []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		var quantity sql.NullString
		if err := rows.Scan(&ing.ID, &ing.Name, &quantity); err != nil {
			return nil, err
		}
		ing.Quantity = quantity.String
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

// DeleteIngredient removes an ingredient by ID.
func (s *SQLiteStorage) DeleteIngredient(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ingredients WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("ingredient %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// CountRecipes returns the total number of recipes.
func (s *SQLiteStorage) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
