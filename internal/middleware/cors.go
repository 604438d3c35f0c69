// middleware/cors.go
// CORS untuk frontend dashboard (origin dari CORS_ALLOW_ORIGIN, default *).
// Hanya set header; OPTIONS dijawab route preflight (handlers/http.PreflightHandler).

package middleware

import (
	"net/http"
	"os"
)

func CORS(next http.Handler) http.Handler {
	origin := os.Getenv("CORS_ALLOW_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", "X-Request-ID")
		h.Set("Access-Control-Max-Age", "600")
		next.ServeHTTP(w, r)
	})
}
