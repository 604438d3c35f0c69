// internal/handlers/mcp/get_production.go
// MCP Tool: get_production - ambil data produksi bulanan sumur + normalisasi rate harian

package mcp

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dca-oilgas/internal/metrics"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

const toolGetProduction = "get_production"

// ProductionSource sumber baris produksi bulanan (MySQL di produksi, fake di test).
type ProductionSource interface {
	ListMonthly(ctx context.Context, f mysqlrepo.ProdFilter) ([]mysqlrepo.MonthlyRow, error)
}

// inject dari app
var productionRepo ProductionSource

func SetProductionRepo(r ProductionSource) {
	productionRepo = r
	readyProduction = r != nil // lihat ready_flags.go
}

type prodReq struct {
	WellID     string `json:"well_id,omitempty"`
	FromPeriod *int   `json:"from_period,omitempty"`
	ToPeriod   *int   `json:"to_period,omitempty"` // exclusive
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// loadHistorical ambil baris produksi sumur dari repo.
func loadHistorical(ctx context.Context, in prodReq) ([]services.HistoricalProductionRow, error) {
	if productionRepo == nil {
		return nil, util.Unavailable("production repo not configured")
	}
	if strings.TrimSpace(in.WellID) == "" {
		return nil, util.BadInput("well_id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()

	rows, err := productionRepo.ListMonthly(ctx, mysqlrepo.ProdFilter{
		WellID:     in.WellID,
		FromPeriod: in.FromPeriod,
		ToPeriod:   in.ToPeriod,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, util.NotFound("no production rows for well " + in.WellID)
	}
	return mysqlrepo.ToHistorical(rows), nil
}

func GetProductionHandler(w http.ResponseWriter, r *http.Request) {
	var in prodReq
	if err := decodeJSONBody(r, &in); err != nil {
		writeError(w, toolGetProduction, err)
		return
	}

	q := r.URL.Query()
	// Terima well_id dan well (alias)
	if in.WellID == "" {
		in.WellID = strings.TrimSpace(q.Get("well_id"))
	}
	if in.WellID == "" {
		in.WellID = strings.TrimSpace(q.Get("well"))
	}
	if v := q.Get("from_period"); v != "" && in.FromPeriod == nil {
		if n, err := strconv.Atoi(v); err == nil {
			in.FromPeriod = &n
		}
	}
	if v := q.Get("to_period"); v != "" && in.ToPeriod == nil {
		if n, err := strconv.Atoi(v); err == nil {
			in.ToPeriod = &n
		}
	}
	if v := q.Get("limit"); v != "" && in.Limit == 0 {
		if n, _ := strconv.Atoi(v); n > 0 {
			in.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" && in.Offset == 0 {
		if n, _ := strconv.Atoi(v); n >= 0 {
			in.Offset = n
		}
	}

	hist, err := loadHistorical(r.Context(), in)
	if err != nil {
		writeError(w, toolGetProduction, err)
		return
	}
	out, err := services.Normalize(hist, defaults.AvgDaysPerMonth)
	if err != nil {
		writeError(w, toolGetProduction, err)
		return
	}
	metrics.Observe(toolGetProduction, "ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"well_id":    in.WellID,
		"count":      out.Len(),
		"rows":       hist,
		"normalized": out,
	})
}
