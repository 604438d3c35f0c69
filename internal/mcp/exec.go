// internal/mcp/exec.go
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ExecResult struct {
	Route  Route  `json:"route"`
	Status int    `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ExecuteRoutes menjalankan semua rute in-process secara berurutan.
// Header dari base (mis. X-Request-ID) ikut diteruskan ke tiap tool.
func ExecuteRoutes(ctx context.Context, g *Registry, routes []Route, base http.Header) []ExecResult {
	out := make([]ExecResult, 0, len(routes))
	for _, r := range routes {
		if r.Kind != "" && r.Kind != RouteMCP {
			out = append(out, ExecResult{Route: r, Status: http.StatusBadRequest, Error: "unsupported kind: " + string(r.Kind)})
			continue
		}
		h, ok := g.Get(r.Tool)
		if !ok {
			out = append(out, ExecResult{Route: r, Status: http.StatusNotFound, Error: "tool not found: " + r.Tool})
			continue
		}

		body := []byte("{}")
		if !isJSONNullOrEmpty(r.Params) {
			body = r.Params
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/mcp/"+r.Tool, bytes.NewReader(body))
		if err != nil {
			out = append(out, ExecResult{Route: r, Status: http.StatusInternalServerError, Error: err.Error()})
			continue
		}
		for k, v := range base {
			req.Header[k] = v
		}
		req.Header.Set("Content-Type", "application/json")

		rr := newMemRecorder()
		h.ServeHTTP(rr, req)
		out = append(out, rr.result(r))
	}
	return out
}

// ---- mini response recorder (in-memory) ----
type memRecorder struct {
	buf    []byte
	status int
	header http.Header
}

func newMemRecorder() *memRecorder { return &memRecorder{header: http.Header{}, status: http.StatusOK} }
func (m *memRecorder) Header() http.Header { return m.header }
func (m *memRecorder) Write(b []byte) (int, error) {
	m.buf = append(m.buf, b...)
	return len(b), nil
}
func (m *memRecorder) WriteHeader(code int) { m.status = code }

// result: decode JSON kalau bisa, kalau tidak kirim raw string biar gampang debug.
func (m *memRecorder) result(r Route) ExecResult {
	res := ExecResult{Route: r, Status: m.status}
	var data any
	if len(m.buf) > 0 {
		if err := json.Unmarshal(m.buf, &data); err != nil {
			data = strings.TrimSpace(string(m.buf))
		}
	}
	if m.status >= 400 {
		if obj, ok := data.(map[string]any); ok {
			if msg, ok := obj["message"].(string); ok {
				res.Error = msg
				res.Data = obj
				return res
			}
		}
		res.Error = fmt.Sprintf("status %d", m.status)
		if s, ok := data.(string); ok && s != "" {
			res.Error = s
		}
		return res
	}
	if data == nil {
		data = map[string]any{}
	}
	res.Data = data
	return res
}
