// internal/handlers/http/health_handler.go
// Handler sederhana untuk health & readiness check

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Pinger dipenuhi *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewReadyHandler 200 jika DB (kalau dikonfigurasi) bisa di-ping, 503 jika tidak.
// Tanpa DB service tetap siap: forecast & normalize tidak butuh storage.
func NewReadyHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{"status": "ready", "db": "disabled"}
		status := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				resp["status"], resp["db"], resp["error"] = "not_ready", "down", err.Error()
				status = http.StatusServiceUnavailable
			} else {
				resp["db"] = "up"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
