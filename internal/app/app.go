// internal/app/app.go
package app

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"dca-oilgas/internal/config"
	hh "dca-oilgas/internal/handlers/http"
	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/mcp/llm"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/util"
	"dca-oilgas/pkg/db"
)

// App menampung router utama + resource yang perlu ditutup.
type App struct {
	Router   *mux.Router
	Registry *mcp.Registry
	DB       *sql.DB
}

// New membuat instance App + registrasi semua routes (HTTP & MCP).
// DB & LLM opsional: tanpa keduanya forecast/normalize tetap jalan.
func New(cfg *config.Config) *App {
	r := mux.NewRouter()
	util.SetLogging(cfg.LogFormat, cfg.LogLevel)

	mcphandlers.SetDefaults(mcphandlers.Defaults{
		StartMonths:      cfg.Forecast.StartMonths,
		StepMonths:       cfg.Forecast.StepMonths,
		HorizonMonths:    cfg.Forecast.HorizonMonths,
		MaxSamples:       cfg.Forecast.MaxSamples,
		AvgDaysPerMonth:  cfg.Forecast.AvgDaysPerMonth,
		AnomalyMinZScore: cfg.Forecast.AnomalyMinZScore,
	})

	a := &App{Router: r, Registry: mcp.Default}
	deps := RegisterDeps{
		Registry:    a.Registry,
		StreamBatch: cfg.Forecast.StreamBatchSize,
		NoGzip:      cfg.NoGzip,
	}

	// === init DB ===
	if dsn := cfg.MySQLDSN(); dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		conn, err := db.Open(ctx, dsn, db.Options{MaxOpen: cfg.MySQL.MaxOpen, MaxIdle: cfg.MySQL.MaxIdle})
		cancel()
		if err != nil {
			log.Printf("[ERROR] mysql not ready after retries: %v", err)
		} else {
			a.DB = conn
			repo := &mysqlrepo.ProductionRepo{DB: conn}
			mcphandlers.SetProductionRepo(repo)
			deps.Upload = repo
			deps.DB = conn
		}
	} else {
		log.Printf("[WARN] DB_DSN/MYSQL_HOST empty; skipping DB init (get_production disabled)")
	}

	// === LLM planner (opsional) ===
	if cfg.LLM.APIKey != "" {
		client, err := llm.New(llm.Config{APIKey: cfg.LLM.APIKey, BaseURL: cfg.LLM.APIBase, Model: cfg.LLM.Model})
		if err != nil {
			log.Printf("[WARN] init llm client: %v", err)
		} else {
			deps.Planner = mcp.LLMPlanner{Route: llm.NewRoutePlanner(client)}
			mcphandlers.SetPlannerReady(true)
		}
	}

	RegisterRoutes(r, deps)
	return a
}

// Handler router utama sebagai http.Handler.
func (a *App) Handler() http.Handler { return a.Router }

// Close menutup koneksi DB kalau ada.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

var _ hh.ProductionWriter = (*mysqlrepo.ProductionRepo)(nil)
