// middleware/request_id.go
// Middleware untuk inject X-Request-ID + access log JSON satu baris

package middleware

import (
	"net/http"
	"time"

	"dca-oilgas/internal/util"
)

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if !util.ValidRequestID(reqID) {
			reqID = util.NewID()
			r.Header.Set("X-Request-ID", reqID)
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}

type accessLog struct {
	At         string `json:"@t"`
	Level      string `json:"level"`
	Event      string `json:"event"`
	RequestID  string `json:"request_id,omitempty"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	DurationMS int64  `json:"duration_ms"`
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush diteruskan supaya SSE tetap jalan di balik middleware ini.
func (s *statusWriter) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		level := "info"
		if sw.status >= 500 {
			level = "error"
		} else if sw.status >= 400 {
			level = "warn"
		}
		util.LogEvent(level, accessLog{
			At:         time.Now().Format(time.RFC3339Nano),
			Level:      level,
			Event:      "http.access",
			RequestID:  r.Header.Get("X-Request-ID"),
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     sw.status,
			DurationMS: time.Since(start).Milliseconds(),
		})
	})
}
