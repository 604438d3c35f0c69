// internal/handlers/mcp/normalize_production.go
// MCP Tool: normalize_production - volume bulanan mentah -> rate harian

package mcp

import (
	"net/http"
	"strconv"
	"strings"

	"dca-oilgas/internal/metrics"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

const toolNormalize = "normalize_production"

type normalizeReq struct {
	Rows                []ProductionRowIn `json:"rows"`
	AverageDaysPerMonth float64           `json:"average_days_per_month,omitempty"`
}

func NormalizeProductionHandler(w http.ResponseWriter, r *http.Request) {
	var in normalizeReq
	if err := decodeJSONBody(r, &in); err != nil {
		writeError(w, toolNormalize, err)
		return
	}
	avg := in.AverageDaysPerMonth
	if v := strings.TrimSpace(r.URL.Query().Get("average_days_per_month")); v != "" && avg == 0 {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, toolNormalize, util.BadInput("average_days_per_month must be a number"))
			return
		}
		avg = f
	}
	if avg == 0 {
		avg = defaults.AvgDaysPerMonth
	}

	out, err := services.Normalize(toHistorical(in.Rows), avg)
	if err != nil {
		writeError(w, toolNormalize, err)
		return
	}
	metrics.Observe(toolNormalize, "ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"count":                  out.Len(),
		"average_days_per_month": avg,
		"period_index":           out.PeriodIndex,
		"oil_rate":               out.OilRate,
		"water_rate":             out.WaterRate,
		"gas_rate":               out.GasRate,
	})
}
