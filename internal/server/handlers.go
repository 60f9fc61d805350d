package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/dishhub/internal/config"
	"github.com/hyperjump/dishhub/internal/models"
	"github.com/hyperjump/dishhub/internal/storage"
	"go.uber.org/zap"
)

// populate replaces ingredient ids with ingredient names. Entries that are not
// known ids (for example names from imported fixtures) are kept as they are.
func (s *Server) populate(r *http.Request, recipes []models.Recipe) ([]models.Recipe, error) {
	ingredients, err := s.storage.ListIngredients(r.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ingredients))
	for _, ing := range ingredients {
		names[ing.ID] = ing.Name
	}
	for i := range recipes {
		for j, ing := range recipes[i].Ingredients {
			if name, ok := names[ing]; ok {
				recipes[i].Ingredients[j] = name
			}
		}
	}
	return recipes, nil
}

func (s *Server) respondRecipes(w http.ResponseWriter, r *http.Request, status int, recipes []models.Recipe) {
	recipes, err := s.populate(r, recipes)
	if err != nil {
		s.logger.Error("populate ingredients failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, status, recipes)
}

func (s *Server) respondRecipe(w http.ResponseWriter, r *http.Request, status int, recipe *models.Recipe) {
	recipes, err := s.populate(r, []models.Recipe{*recipe})
	if err != nil {
		s.logger.Error("populate ingredients failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, status, recipes[0])
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.storage.ListRecipes(r.Context())
	if err != nil {
		s.logger.Error("list recipes failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondRecipes(w, r, http.StatusOK, recipes)
}

func (s *Server) handleMyRecipes(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	recipes, err := s.storage.ListRecipesByOwner(r.Context(), user.ID)
	if err != nil {
		s.logger.Error("list own recipes failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondRecipes(w, r, http.StatusOK, recipes)
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	recipe, err := s.storage.GetRecipe(r.Context(), id)
	if err != nil {
		s.respondStorageError(w, err, "recipe not found")
		return
	}
	s.respondRecipe(w, r, http.StatusOK, recipe)
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var input models.RecipeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	user := userFrom(r.Context())
	recipe := input.ToRecipe(storage.NewID(), user.ID)
	s.logger.Debug("create recipe request", zap.String("id", recipe.ID), zap.String("title", recipe.Title))
	if err := s.storage.CreateRecipe(r.Context(), &recipe); err != nil {
		s.logger.Error("create recipe failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondRecipe(w, r, http.StatusCreated, &recipe)
}

// ownedRecipe loads the recipe named in the route and checks that the session
// user created it. It writes the error response and returns nil otherwise.
func (s *Server) ownedRecipe(w http.ResponseWriter, r *http.Request) *models.Recipe {
	id := chi.URLParam(r, "id")
	recipe, err := s.storage.GetRecipe(r.Context(), id)
	if err != nil {
		s.respondStorageError(w, err, "recipe not found")
		return nil
	}
	if user := userFrom(r.Context()); recipe.CreatedBy != user.ID {
		s.respondError(w, http.StatusForbidden, models.ErrForbidden.Error())
		return nil
	}
	return recipe
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	existing := s.ownedRecipe(w, r)
	if existing == nil {
		return
	}
	var input models.RecipeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	recipe := input.ToRecipe(existing.ID, existing.CreatedBy)
	s.logger.Debug("update recipe request", zap.String("id", recipe.ID))
	if err := s.storage.UpdateRecipe(r.Context(), &recipe); err != nil {
		s.respondStorageError(w, err, "recipe not found")
		return
	}
	s.respondRecipe(w, r, http.StatusOK, &recipe)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	existing := s.ownedRecipe(w, r)
	if existing == nil {
		return
	}
	s.logger.Debug("delete recipe request", zap.String("id", existing.ID))
	if err := s.storage.DeleteRecipe(r.Context(), existing.ID); err != nil {
		s.respondStorageError(w, err, "recipe not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "recipe deleted"})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.storage.ListCategories(r.Context())
	if err != nil {
		s.logger.Error("list categories failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.Category
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.respondError(w, http.StatusBadRequest, models.ErrEmptyName.Error())
		return
	}
	category, err := s.storage.CreateCategory(r.Context(), name)
	if errors.Is(err, models.ErrDuplicateCategory) {
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("create category failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, category)
}

func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.storage.ListIngredients(r.Context())
	if err != nil {
		s.logger.Error("list ingredients failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, ingredients)
}

func (s *Server) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var input models.IngredientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := input.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	ing := &models.Ingredient{Name: input.Name, Quantity: input.Quantity}
	if err := s.storage.CreateIngredient(r.Context(), ing); err != nil {
		s.logger.Error("create ingredient failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, ing)
}

func (s *Server) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !models.IsObjectID(id) {
		s.respondError(w, http.StatusBadRequest, models.ErrInvalidIngredientID.Error())
		return
	}
	if err := s.storage.DeleteIngredient(r.Context(), id); err != nil {
		s.respondStorageError(w, err, "ingredient not found")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "ingredient deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.storage.CountRecipes(r.Context())
	if err != nil {
		s.logger.Error("status: count recipes failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{"recipes": count}
	if s.config != nil {
		if size, err := storage.DatabaseSize(s.config.Storage.DatabasePath); err == nil {
			resp["database_bytes"] = size
		}
	}
	if s.seeds != nil {
		resp["seed_directories"] = s.seeds.Directories()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeedDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.seeds == nil {
		s.respondError(w, http.StatusNotImplemented, "seed watching not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.seeds.Directories()})
}

type seedAddRequest struct {
	Path   string `json:"path"`
	Import *bool  `json:"import,omitempty"`
}

func (s *Server) handleSeedDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.seeds == nil {
		s.respondError(w, http.StatusNotImplemented, "seed watching not enabled")
		return
	}
	var req seedAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	importExisting := true
	if req.Import != nil {
		importExisting = *req.Import
	}
	s.logger.Debug("seed add directory request", zap.String("path", abs), zap.Bool("import_existing", importExisting))
	if err := s.seeds.AddDirectory(abs, importExisting); err != nil {
		s.logger.Error("seed add directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistSeedDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleSeedDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.seeds == nil {
		s.respondError(w, http.StatusNotImplemented, "seed watching not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	s.logger.Debug("seed remove directory request", zap.String("path", abs))
	if err := s.seeds.RemoveDirectory(abs); err != nil {
		s.logger.Error("seed remove directory failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.persistSeedDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

func (s *Server) persistSeedDirectories() {
	if s.configPath == "" || s.config == nil {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config.Seed.Directories = s.seeds.Directories()
	if err := config.Save(s.configPath, s.config); err != nil {
		s.logger.Warn("failed to persist seed directories", zap.Error(err))
	}
}

func (s *Server) respondStorageError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, models.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, notFound)
		return
	}
	s.logger.Error("storage operation failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"message": message})
}
