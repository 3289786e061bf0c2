package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig wires the API handlers together with the auxiliary endpoints
// served on the same port.
type RouterConfig struct {
	Handlers *Handlers
	Health   http.HandlerFunc
	Landing  http.HandlerFunc
	// MCP, when set, is mounted at /mcp.
	MCP http.Handler
}

// NewRouter builds the full route tree for the server binary.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/query", cfg.Handlers.Query)
		api.Get("/documents", cfg.Handlers.Documents)
	})

	if cfg.Health != nil {
		r.Get("/health", cfg.Health)
	}
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}
	if cfg.Landing != nil {
		r.Get("/", cfg.Landing)
	}

	return r
}
