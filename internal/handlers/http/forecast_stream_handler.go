// internal/handlers/http/forecast_stream_handler.go
// Stream hasil forecast via SSE: meta -> points (batch) -> done | error.

package http

import (
	"log"
	"net/http"

	mcphandlers "dca-oilgas/internal/handlers/mcp"
	"dca-oilgas/internal/metrics"
	"dca-oilgas/internal/util"
	"dca-oilgas/internal/util/sse"
)

const toolForecastStream = "forecast_stream"

type streamMeta struct {
	ID          string           `json:"id"`
	DeclineRate float64          `json:"decline_rate"`
	DeclineKind string           `json:"decline_kind"`
	Title       string           `json:"title"`
	Axes        mcphandlers.Axes `json:"axes"`
	Count       int              `json:"count"`
	BatchSize   int              `json:"batch_size"`
}

// NewForecastStreamHandler batch = jumlah titik per event "points".
func NewForecastStreamHandler(batch int) http.HandlerFunc {
	if batch <= 0 {
		batch = 60
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s, d, ferr := mcphandlers.BuildForecast(r)

		stream, err := sse.Prepare(w)
		if err != nil {
			http.Error(w, "stream unsupported", http.StatusInternalServerError)
			return
		}

		if ferr != nil {
			outcome := "error"
			payload := map[string]string{"error": util.CodeInternal, "message": ferr.Error()}
			if ae, ok := util.AsAppError(ferr); ok && util.IsClientError(ferr) {
				outcome = "client_error"
				payload = map[string]string{"error": ae.Code, "message": ae.Message}
			}
			metrics.Observe(toolForecastStream, outcome)
			_ = stream.Event("error", payload)
			return
		}

		if err := stream.Event("meta", streamMeta{
			ID:          util.NewID(),
			DeclineRate: d,
			DeclineKind: string(s.DeclineKind),
			Title:       s.DeclineKind.Title(),
			Axes:        mcphandlers.ChartAxes,
			Count:       s.Len(),
			BatchSize:   batch,
		}); err != nil {
			return
		}

		points := mcphandlers.ToPoints(s)
		ctx := r.Context()
		for lo := 0; lo < len(points); lo += batch {
			if ctx.Err() != nil {
				log.Printf("[WARN] forecast stream aborted at %d/%d: %v", lo, len(points), ctx.Err())
				metrics.Observe(toolForecastStream, "aborted")
				return
			}
			hi := min(lo+batch, len(points))
			if err := stream.Event("points", map[string]any{"offset": lo, "points": points[lo:hi]}); err != nil {
				log.Printf("[WARN] forecast stream write: %v", err)
				metrics.Observe(toolForecastStream, "aborted")
				return
			}
		}

		metrics.Observe(toolForecastStream, "ok")
		_ = stream.Event("done", map[string]int{"count": len(points)})
	}
}
