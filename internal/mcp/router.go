// internal/mcp/router.go
// Router MCP: menerima request lalu memilih & mengeksekusi tool.

package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"dca-oilgas/internal/util"
)

// ====== Structured log payload ======

type mcpLog struct {
	At              string `json:"@t,omitempty"`         // RFC3339 timestamp
	Level           string `json:"level,omitempty"`      // info|warn|error
	Event           string `json:"event,omitempty"`      // mcp.route
	RequestID       string `json:"request_id,omitempty"` // X-Request-ID jika ada
	Question        string `json:"question,omitempty"`
	RequestTool     string `json:"request_tool,omitempty"`
	ChosenTool      string `json:"chosen_tool,omitempty"`
	DecisionBy      string `json:"decision_by,omitempty"` // explicit|explicit-plan|llm|keyword
	RoutesExecuted  int    `json:"routes_executed,omitempty"`
	CatalogCount    int    `json:"catalog_count,omitempty"`
	RegisteredCount int    `json:"registered_count,omitempty"`
	HasPlanner      bool   `json:"has_planner"`
	DurationMS      int64  `json:"duration_ms,omitempty"`
	Error           string `json:"error,omitempty"`
}

func logJSON(l mcpLog) {
	l.At = time.Now().Format(time.RFC3339Nano)
	if l.Level == "" {
		l.Level = "info"
	}
	util.LogEvent(l.Level, l)
}

const maxRouteBody = 4 << 20

// Router handler /mcp/route. Planner nil = hanya keyword.
type Router struct {
	Registry *Registry
	Planner  Planner
}

func NewRouter(g *Registry, p Planner) *Router {
	if g == nil {
		g = Default
	}
	return &Router{Registry: g, Planner: p}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry := mcpLog{
		Event:           "mcp.route",
		RequestID:       r.Header.Get("X-Request-ID"),
		RegisteredCount: len(rt.Registry.List()),
		HasPlanner:      rt.Planner != nil,
	}
	if defs, err := LoadToolDefs(); err == nil {
		entry.CatalogCount = len(defs)
	}
	done := func(level, errMsg string) {
		entry.Level = level
		entry.Error = errMsg
		entry.DurationMS = time.Since(start).Milliseconds()
		logJSON(entry)
	}

	req, err := readToolRequest(r)
	if err != nil {
		writeRouteError(w, http.StatusBadRequest, "bad_input", err.Error())
		done("error", err.Error())
		return
	}
	entry.Question = req.Question
	entry.RequestTool = req.Tool

	// ===== 0) Plan eksplisit (plan.routes atau routes di root) =====
	var p Plan
	switch {
	case req.Plan != nil && len(req.Plan.Routes) > 0:
		p = *req.Plan
	case len(req.Routes) > 0:
		p = Plan{Mode: string(RouteMCP), Routes: req.Routes}
	}
	if len(p.Routes) > 0 {
		requested := len(p.Routes)
		p = NormalizePlan(rt.Registry, req.Question, p)
		entry.DecisionBy = "explicit-plan"
		if len(p.Routes) == 0 {
			writeRouteError(w, http.StatusNotFound, "not_found", fmt.Sprintf("none of the %d routes names a registered tool", requested))
			done("warn", "no registered tool in plan")
			return
		}
		rt.serveMulti(w, r, p)
		entry.RoutesExecuted = len(p.Routes)
		done("", "")
		return
	}

	// ===== 1) Tool eksplisit: payload diteruskan apa adanya =====
	if tool := strings.TrimSpace(req.Tool); tool != "" {
		entry.DecisionBy = "explicit"
		entry.ChosenTool = tool
		if !rt.serveOne(w, r, Route{Kind: RouteMCP, Tool: tool, Params: req.body()}, "explicit") {
			done("warn", "tool not found")
			return
		}
		done("", "")
		return
	}

	// ===== 2) Pertanyaan: LLM planner, fallback keyword =====
	q := strings.TrimSpace(req.Question)
	if q == "" {
		writeRouteError(w, http.StatusBadRequest, "bad_input", "tool, question or plan is required")
		done("warn", "empty request")
		return
	}
	defs := RegisteredDefs(rt.Registry)

	decision := ""
	if rt.Planner != nil {
		lp, perr := rt.Planner.Plan(r.Context(), q, defs)
		if perr != nil {
			log.Printf("[WARN] mcp planner: %v", perr)
		} else if lp = NormalizePlan(rt.Registry, q, lp); len(lp.Routes) > 0 {
			p, decision = lp, "llm"
		}
	}
	if decision == "" {
		if kp := NormalizePlan(rt.Registry, q, KeywordPlan(q, defs)); len(kp.Routes) > 0 {
			p, decision = kp, "keyword"
		}
	}
	entry.DecisionBy = decision
	if decision == "" {
		writeRouteError(w, http.StatusUnprocessableEntity, "no_tool", "no tool matches the question; name one of: "+strings.Join(rt.Registry.List(), ", "))
		done("warn", "no tool matched")
		return
	}

	if len(p.Routes) == 1 {
		entry.ChosenTool = p.Routes[0].Tool
		rt.serveOne(w, r, p.Routes[0], decision)
	} else {
		rt.serveMulti(w, r, p)
		entry.RoutesExecuted = len(p.Routes)
	}
	done("", "")
}

// serveOne meneruskan request ke satu tool; output handler langsung ke klien.
func (rt *Router) serveOne(w http.ResponseWriter, r *http.Request, route Route, decision string) bool {
	h, ok := rt.Registry.Get(route.Tool)
	if !ok {
		writeRouteError(w, http.StatusNotFound, "not_found", "tool not found: "+route.Tool)
		return false
	}
	body := route.Params
	if isJSONNullOrEmpty(body) {
		body = json.RawMessage("{}")
	}
	r2 := r.Clone(r.Context())
	r2.Method = http.MethodPost
	r2.Body = io.NopCloser(bytes.NewReader(body))
	r2.ContentLength = int64(len(body))
	r2.Header.Set("Content-Type", "application/json") // ensure JSON

	w.Header().Set("X-MCP-Tool", route.Tool)
	w.Header().Set("X-MCP-Decision", decision)
	h.ServeHTTP(w, r2)
	return true
}

func (rt *Router) serveMulti(w http.ResponseWriter, r *http.Request, p Plan) {
	items := ExecuteRoutes(r.Context(), rt.Registry, p.Routes, r.Header)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"mode":            p.Mode,
		"reason":          p.Reason,
		"routes_executed": len(items),
		"items":           items,
	})
}

func readToolRequest(r *http.Request) (ToolRequest, error) {
	var req ToolRequest
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req.Tool = q.Get("tool")
		req.Question = q.Get("question")
		if req.Question == "" {
			req.Question = q.Get("q")
		}
		return req, nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRouteBody))
	if err != nil {
		return req, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("invalid json: %w", err)
	}
	return req, nil
}

func writeRouteError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": msg})
}
