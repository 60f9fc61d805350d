// Package server provides the HTTP API of the recipe collection service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/dishhub/internal/config"
	"github.com/hyperjump/dishhub/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SeedService manages the fixture directories imported into the collection.
type SeedService interface {
	Directories() []string
	AddDirectory(path string, importExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the collection API.
type Server struct {
	storage    storage.Storage
	config     *config.Config
	configPath string
	configMu   sync.Mutex
	seeds      SeedService
	logger     *zap.Logger
	server     *http.Server
	now        func() time.Time

	// authLimiter throttles register and login across all clients.
	authLimiter *rate.Limiter
}

// NewServer creates a server with the given dependencies. seeds may be nil when
// seed watching is disabled; configPath may be empty when seed directory
// changes should not be persisted.
func NewServer(
	store storage.Storage,
	cfg *config.Config,
	configPath string,
	seeds SeedService,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Limit(cfg.Server.AuthRateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}
	return &Server{
		storage:    store,
		config:     cfg,
		configPath: configPath,
		seeds:      seeds,
		logger:     logger,
		now:        time.Now,

		authLimiter: rate.NewLimiter(limit, cfg.Server.AuthBurst),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.With(s.limitAuth).Post("/auth/register", s.handleRegister)
	r.With(s.limitAuth).Post("/auth/login", s.handleLogin)
	r.Get("/auth/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/recipe", s.handleListRecipes)
		r.Get("/recipe/{id}", s.handleGetRecipe)
		r.Get("/category", s.handleListCategories)
		r.Get("/ingredient", s.handleListIngredients)
		r.Get("/status", s.handleStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Get("/user/me", s.handleMe)
			r.Get("/recipe/my", s.handleMyRecipes)
			r.Post("/recipe", s.handleCreateRecipe)
			r.Put("/recipe/{id}", s.handleUpdateRecipe)
			r.Delete("/recipe/{id}", s.handleDeleteRecipe)
			r.Post("/category", s.handleCreateCategory)
			r.Post("/ingredient", s.handleCreateIngredient)
			r.Delete("/ingredient/{id}", s.handleDeleteIngredient)

			r.Get("/seed/directories", s.handleSeedDirectoriesList)
			r.Post("/seed/directories", s.handleSeedDirectoriesAdd)
			r.Delete("/seed/directories", s.handleSeedDirectoriesRemove)
		})
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
