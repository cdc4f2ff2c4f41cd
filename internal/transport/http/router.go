package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskmate/internal/handler"
	"taskmate/internal/httputil"
	authmw "taskmate/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler     *handler.AuthHandler
	TodoHandler     *handler.TodoHandler
	CategoryHandler *handler.CategoryHandler
	SongHandler     *handler.SongHandler
	TokenVerifier   authmw.TokenVerifier
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Post("/signup", cfg.AuthHandler.Signup)
	r.Post("/signin", cfg.AuthHandler.Signin)

	// The song catalog is readable by anyone
	r.Get("/songs", cfg.SongHandler.List)
	r.Get("/songs/{id}", cfg.SongHandler.Get)

	// Protected routes - require a signature-valid, non-revoked token
	r.Group(func(r chi.Router) {
		r.Use(authmw.Auth(cfg.TokenVerifier))

		r.Post("/logout", cfg.AuthHandler.Logout)

		r.Route("/todos", func(r chi.Router) {
			r.Post("/", cfg.TodoHandler.Create)
			r.Get("/", cfg.TodoHandler.List)
			r.Get("/search", cfg.TodoHandler.Search)
			r.Get("/{id}", cfg.TodoHandler.Get)
			r.Put("/{id}", cfg.TodoHandler.Update)
			r.Delete("/{id}", cfg.TodoHandler.Delete)
			r.Post("/{id}/complete", cfg.TodoHandler.Complete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", cfg.CategoryHandler.Create)
			r.Get("/", cfg.CategoryHandler.List)
			r.Get("/{id}", cfg.CategoryHandler.Get)
			r.Put("/{id}", cfg.CategoryHandler.Update)
			r.Delete("/{id}", cfg.CategoryHandler.Delete)
		})

		// Catalog writes need an account
		r.Post("/songs", cfg.SongHandler.Create)
	})

	return r
}
