// internal/mcp/plan.go
package mcp

import (
	"context"
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"strings"
)

type RouteKind string

const RouteMCP RouteKind = "mcp"

type Route struct {
	Kind   RouteKind       `json:"kind,omitempty"`   // hanya "mcp"; kosong = mcp
	Tool   string          `json:"tool"`             // nama tool di registry
	Params json.RawMessage `json:"params,omitempty"` // payload JSON utk handler tool (RAW)
}

type Plan struct {
	Mode     string  `json:"mode"`               // "mcp"
	Routes   []Route `json:"routes"`             // bisa banyak tool
	Reason   string  `json:"reason,omitempty"`   // penjelasan singkat
	Fallback bool    `json:"fallback,omitempty"` // true jika hasil keyword fallback
}

// Planner memilih rute dari pertanyaan bebas.
type Planner interface {
	Plan(ctx context.Context, question string, tools []ToolDef) (Plan, error)
}

var maxRoutes = func() int {
	if v := os.Getenv("PLAN_MAX_ROUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 8
}()

// NormalizePlan membuang rute ke tool yang tidak terdaftar / kind asing,
// mengisi params kosong dari angka di pertanyaan, dan membatasi jumlah rute.
func NormalizePlan(g *Registry, question string, p Plan) Plan {
	extracted := ExtractParams(question)

	out := make([]Route, 0, len(p.Routes))
	seen := map[string]bool{}
	for _, r := range p.Routes {
		kind := RouteKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))
		if kind != "" && kind != RouteMCP {
			continue
		}
		r.Kind = RouteMCP
		r.Tool = strings.TrimSpace(r.Tool)
		if _, ok := g.Get(r.Tool); !ok {
			continue
		}
		if isJSONNullOrEmpty(r.Params) && len(extracted) > 0 {
			r.Params = mustJSON(extracted)
		} else if len(extracted) > 0 {
			r.Params = mergeMissing(r.Params, extracted)
		}
		key := r.Tool + string(r.Params)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
		if len(out) == maxRoutes {
			break
		}
	}
	p.Routes = out
	if p.Mode == "" {
		p.Mode = string(RouteMCP)
	}
	return p
}

// mergeMissing menambahkan key dari extra yang belum ada di raw.
func mergeMissing(raw json.RawMessage, extra map[string]any) json.RawMessage {
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return raw
	}
	changed := false
	for k, v := range extra {
		if _, ok := m[k]; !ok {
			m[k] = v
			changed = true
		}
	}
	if !changed {
		return raw
	}
	return mustJSON(m)
}

// ------------------------------
// Keyword planner (tanpa LLM)
// ------------------------------

const num = `(-?\d+(?:[.,]\d+)?)`

var (
	reQi      = regexp.MustCompile(`\b(?:qi|q_i|q0|q_init|initial rate|rate awal|laju awal)\s*(?:=|:|of|is|adalah)?\s*` + num)
	reQt      = regexp.MustCompile(`\b(?:qt|q_t|q1|q_next|rate at t|later rate|rate akhir|laju akhir)\s*(?:=|:|of|is|adalah)?\s*` + num)
	reMonths  = regexp.MustCompile(`\b(?:after|setelah|t|elapsed)\s*(?:=|:)?\s*` + num + `\s*(?:months?|bulan)?`)
	reB       = regexp.MustCompile(`\bb(?:[_ ]?(?:value|factor))?\s*(?:=|:|of|is)\s*` + num)
	reD       = regexp.MustCompile(`\b(?:decline rate|decline_rate|d)\s*(?:=|:)\s*` + num)
	reHorizon = regexp.MustCompile(`\b(?:horizon|for|selama)\s*(?:=|:)?\s*` + num + `\s*(?:months?|bulan)`)
	reWater   = regexp.MustCompile(`\b(?:water|air)\b`)
	reGas     = regexp.MustCompile(`\bgas\b`)
	reWell    = regexp.MustCompile(`(?i)\b(?:well|sumur)(?:[_ ]?id)?\s*(?:=|:)?\s*([a-z0-9][a-z0-9_\-]*\d[a-z0-9_\-]*)`)
)

func parseNum(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return f, err == nil
}

// ExtractParams mengambil parameter decline-curve yang disebut eksplisit di pertanyaan.
func ExtractParams(question string) map[string]any {
	q := strings.ToLower(strings.TrimSpace(question))
	out := map[string]any{}
	if q == "" {
		return out
	}
	set := func(re *regexp.Regexp, key string) {
		if m := re.FindStringSubmatch(q); len(m) >= 2 {
			if f, ok := parseNum(m[1]); ok {
				out[key] = f
			}
		}
	}
	set(reQi, "rate_initial")
	set(reQt, "rate_at_t")
	set(reMonths, "elapsed_months")
	set(reB, "b")
	set(reD, "decline_rate")
	set(reHorizon, "horizon_months")

	if _, ok := out["b"]; !ok {
		switch {
		case strings.Contains(q, "harmonic") || strings.Contains(q, "harmonik"):
			out["b"] = 1.0
		case strings.Contains(q, "exponential") || strings.Contains(q, "eksponensial"):
			out["b"] = 0.0
		}
	}
	if m := reWell.FindStringSubmatch(question); len(m) >= 2 {
		out["well_id"] = strings.ToUpper(m[1])
	}
	if reWater.MatchString(q) {
		out["stream"] = "water"
	} else if reGas.MatchString(q) {
		out["stream"] = "gas"
	}
	return out
}

// KeywordPlan planner deterministik berbasis kata kunci katalog.
// Plan kosong berarti tidak ada tool yang cocok.
func KeywordPlan(question string, tools []ToolDef) Plan {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return Plan{Mode: string(RouteMCP)}
	}
	params := ExtractParams(question)
	_, hasWell := params["well_id"]
	_, hasQi := params["rate_initial"]

	avail := map[string]bool{}
	for _, t := range tools {
		avail[t.Name] = true
	}
	hits := func(name string) bool {
		for _, t := range tools {
			if t.Name != name {
				continue
			}
			for _, k := range t.Keywords {
				if strings.Contains(q, strings.ToLower(k)) {
					return true
				}
			}
		}
		return false
	}

	var tool string
	switch {
	case avail["compare_production"] && hits("compare_production") && (hasWell || hasQi):
		tool = "compare_production"
	case avail["normalize_production"] && hits("normalize_production"):
		tool = "normalize_production"
	case avail["forecast_decline"] && hits("forecast_decline") && hasQi:
		tool = "forecast_decline"
	case avail["get_production"] && hits("get_production") && hasWell:
		tool = "get_production"
	}
	if tool == "" {
		return Plan{Mode: string(RouteMCP), Reason: "no keyword match"}
	}
	return Plan{
		Mode:     string(RouteMCP),
		Routes:   []Route{{Kind: RouteMCP, Tool: tool, Params: mustJSON(params)}},
		Reason:   "keyword",
		Fallback: true,
	}
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// Util: cek apakah raw = null / {} / whitespace
func isJSONNullOrEmpty(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "{}"
}
