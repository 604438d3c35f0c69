// internal/app/routes.go
package app

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"

	hh "dca-oilgas/internal/handlers/http"
	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/middleware"
)

type RegisterDeps struct {
	Registry    *mcp.Registry       // nil = registry baru
	Planner     mcp.Planner         // nil = routing keyword saja
	Upload      hh.ProductionWriter // nil = upload admin 503
	DB          hh.Pinger           // nil = /readyz tanpa cek DB
	StreamBatch int
	NoGzip      bool
}

// RegisterMCPTools mendaftarkan semua tool MCP ke registry.
func RegisterMCPTools(g *mcp.Registry) {
	g.RegisterFunc("forecast_decline", mcphandlers.ForecastDeclineHandler)
	g.RegisterFunc("normalize_production", mcphandlers.NormalizeProductionHandler)
	g.RegisterFunc("get_production", mcphandlers.GetProductionHandler)
	g.RegisterFunc("compare_production", mcphandlers.CompareProductionHandler)
}

func gzipMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// RegisterRoutes menambahkan semua route HTTP + MCP ke r.
func RegisterRoutes(r *mux.Router, deps RegisterDeps) {
	if deps.Registry == nil {
		deps.Registry = mcp.NewRegistry()
	}
	RegisterMCPTools(deps.Registry)
	router := mcp.NewRouter(deps.Registry, deps.Planner)

	r.Use(middleware.RequestID, middleware.AccessLog, middleware.CORS)

	// Preflight untuk semua path; didaftarkan pertama supaya OPTIONS tidak sampai ke handler tool
	r.Methods(http.MethodOptions).HandlerFunc(hh.PreflightHandler)

	// --- no prefix ---
	r.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", hh.NewReadyHandler(deps.DB)).Methods(http.MethodGet)
	r.HandleFunc("/metrics", hh.MetricsHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", hh.LoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/debug/repos", hh.ReposStatusHandler).Methods(http.MethodGet)

	// SSE didaftarkan sebelum subrouter /api supaya tidak ikut dibungkus gzip
	r.Handle("/api/forecast/stream", middleware.Auth(hh.NewForecastStreamHandler(deps.StreamBatch))).
		Methods(http.MethodGet, http.MethodPost)

	// --- MCP (API key sama dengan /api: tool get_production membaca data yang sama) ---
	mcpr := r.PathPrefix("/mcp").Subrouter()
	mcpr.Use(middleware.Auth)
	mcpr.Handle("/route", router).Methods(http.MethodGet, http.MethodPost)
	mcpr.HandleFunc("/tools", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"tools": mcp.RegisteredDefs(deps.Registry)})
	}).Methods(http.MethodGet)
	// Endpoint tool langsung (memudahkan debug/manual curl)
	mcpr.HandleFunc("/{tool}", func(w http.ResponseWriter, req *http.Request) {
		deps.Registry.Serve(w, req, mux.Vars(req)["tool"])
	}).Methods(http.MethodGet, http.MethodPost)

	// --- /api prefix (supaya FE bisa pakai /api/...) ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth)
	if !deps.NoGzip {
		api.Use(gzipMiddleware)
	}
	api.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	api.HandleFunc("/readyz", hh.NewReadyHandler(deps.DB)).Methods(http.MethodGet)

	api.HandleFunc("/forecast", mcphandlers.ForecastDeclineHandler).
		Methods(http.MethodGet, http.MethodPost)

	api.HandleFunc("/production/normalize", mcphandlers.NormalizeProductionHandler).
		Methods(http.MethodPost)

	api.HandleFunc("/production/compare", mcphandlers.CompareProductionHandler).
		Methods(http.MethodPost)

	api.HandleFunc("/production", mcphandlers.GetProductionHandler).
		Methods(http.MethodGet, http.MethodPost)

	// Admin (JWT atau Basic)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth)
	admin.HandleFunc("/production/upload", hh.NewAdminUploadHandler(deps.Upload)).Methods(http.MethodPost)
}
