// internal/handlers/mcp/forecast_decline.go
// MCP Tool: forecast_decline - forecast rate & kumulatif Arps dari 2 observasi

package mcp

import (
	"net/http"
	"time"

	"dca-oilgas/internal/metrics"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

const toolForecast = "forecast_decline"

type ForecastResponse struct {
	ID          string               `json:"id"`
	DeclineRate float64              `json:"decline_rate"`
	DeclineKind services.DeclineKind `json:"decline_kind"`
	Title       string               `json:"title"`
	Axes        Axes                 `json:"axes"`
	Count       int                  `json:"count"`
	Points      []ForecastPoint      `json:"points"`
	GeneratedAt string               `json:"generated_at"`
}

// BuildForecast parse params dari request (JSON body, fallback querystring) lalu forecast.
// Dipakai juga oleh handler SSE.
func BuildForecast(r *http.Request) (services.ForecastSeries, float64, error) {
	var p forecastParams
	if err := decodeJSONBody(r, &p); err != nil {
		return services.ForecastSeries{}, 0, err
	}
	if err := p.fillFromQuery(r.URL.Query()); err != nil {
		return services.ForecastSeries{}, 0, err
	}
	res, err := p.resolve()
	if err != nil {
		return services.ForecastSeries{}, 0, err
	}
	s, err := services.Forecast(res.Observation.RateInitial, res.DeclineRate, res.B, res.Times)
	if err != nil {
		return services.ForecastSeries{}, 0, err
	}
	return s, res.DeclineRate, nil
}

func ForecastDeclineHandler(w http.ResponseWriter, r *http.Request) {
	s, d, err := BuildForecast(r)
	if err != nil {
		writeError(w, toolForecast, err)
		return
	}
	metrics.Observe(toolForecast, "ok")

	writeJSON(w, http.StatusOK, ForecastResponse{
		ID:          util.NewID(),
		DeclineRate: d,
		DeclineKind: s.DeclineKind,
		Title:       s.DeclineKind.Title(),
		Axes:        ChartAxes,
		Count:       s.Len(),
		Points:      ToPoints(s),
		GeneratedAt: clock.Now().UTC().Format(time.RFC3339),
	})
}
