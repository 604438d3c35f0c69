// internal/handlers/mcp/compare_production.go
// MCP Tool: compare_production - overlay forecast decline vs produksi historis

package mcp

import (
	"net/http"

	"dca-oilgas/internal/metrics"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

const toolCompare = "compare_production"

type compareReq struct {
	forecastParams
	Rows                []ProductionRowIn `json:"rows,omitempty"`
	WellID              string            `json:"well_id,omitempty"` // alternatif rows: ambil dari DB
	Stream              string            `json:"stream,omitempty"`  // oil|water|gas
	OffsetMonths        float64           `json:"offset_months,omitempty"`
	AverageDaysPerMonth float64           `json:"average_days_per_month,omitempty"`
	MinZScore           float64           `json:"min_zscore,omitempty"`
}

type CompareResponse struct {
	ID          string                        `json:"id"`
	Title       string                        `json:"title"`
	Axes        Axes                          `json:"axes"`
	DeclineRate float64                       `json:"decline_rate"`
	DeclineKind services.DeclineKind          `json:"decline_kind"`
	Stream      services.Stream               `json:"stream"`
	Points      []ForecastPoint               `json:"points"`
	Historical  services.NormalizedProduction `json:"historical"`
	Variance    []services.Variance           `json:"variance"`
	Anomalies   []services.Anomaly            `json:"anomalies"`
	Correlation *float64                      `json:"correlation,omitempty"`
}

func CompareProductionHandler(w http.ResponseWriter, r *http.Request) {
	var in compareReq
	if err := decodeJSONBody(r, &in); err != nil {
		writeError(w, toolCompare, err)
		return
	}
	if err := in.fillFromQuery(r.URL.Query()); err != nil {
		writeError(w, toolCompare, err)
		return
	}
	if in.WellID == "" {
		in.WellID = r.URL.Query().Get("well_id")
	}

	res, err := in.resolve()
	if err != nil {
		writeError(w, toolCompare, err)
		return
	}
	stream, err := services.ParseStream(in.Stream)
	if err != nil {
		writeError(w, toolCompare, err)
		return
	}

	rows := toHistorical(in.Rows)
	if len(rows) == 0 {
		if in.WellID == "" {
			writeError(w, toolCompare, util.BadInput("rows or well_id is required"))
			return
		}
		rows, err = loadHistorical(r.Context(), prodReq{WellID: in.WellID})
		if err != nil {
			writeError(w, toolCompare, err)
			return
		}
	}

	avg := in.AverageDaysPerMonth
	if avg == 0 {
		avg = defaults.AvgDaysPerMonth
	}
	minZ := in.MinZScore
	if minZ <= 0 {
		minZ = defaults.AnomalyMinZScore
	}

	cmp, err := services.Compare(services.CompareInput{
		Observation:  res.Observation,
		DeclineRate:  in.DeclineRate, // nil = derivasi dari rate_at_t/elapsed_months
		B:            res.B,
		Times:        res.Times,
		Rows:         rows,
		AvgDays:      avg,
		Stream:       stream,
		OffsetMonths: in.OffsetMonths,
		MinZScore:    minZ,
	})
	if err != nil {
		writeError(w, toolCompare, err)
		return
	}
	metrics.Observe(toolCompare, "ok")

	writeJSON(w, http.StatusOK, CompareResponse{
		ID:          util.NewID(),
		Title:       cmp.Forecast.DeclineKind.Title(),
		Axes:        ChartAxes,
		DeclineRate: cmp.DeclineRate,
		DeclineKind: cmp.Forecast.DeclineKind,
		Stream:      cmp.Stream,
		Points:      ToPoints(cmp.Forecast),
		Historical:  cmp.Historical,
		Variance:    cmp.Variance,
		Anomalies:   cmp.Anomalies,
		Correlation: cmp.Correlation,
	})
}
