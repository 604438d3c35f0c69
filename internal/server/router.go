// internal/server/router.go
// Router chi untuk binary MCP mandiri (cmd/mcp-router): hanya tool + /route.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	hh "dca-oilgas/internal/handlers/http"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/middleware"
)

// NewRouter: g sudah berisi tool (lihat app.RegisterMCPTools).
func NewRouter(g *mcp.Registry, planner mcp.Planner) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.AccessLog)

	// Healthcheck (biar gampang cek port/path)
	r.Get("/healthz", hh.HealthHandler)
	r.Get("/metrics", hh.MetricsHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth)

		route := mcp.NewRouter(g, planner)
		r.Method(http.MethodPost, "/route", route)
		r.Method(http.MethodGet, "/route", route)

		r.Get("/tools", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"tools": mcp.RegisteredDefs(g)})
		})
		r.HandleFunc("/tools/{tool}", func(w http.ResponseWriter, req *http.Request) {
			g.Serve(w, req, chi.URLParam(req, "tool"))
		})
	})
	return r
}
