package mcp_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/mcp"
)

func TestExtractParams(t *testing.T) {
	p := mcp.ExtractParams("Exponential decline: qi=1000, qt=900, t=1 month, horizon 60 months")
	assert.Equal(t, 1000.0, p["rate_initial"])
	assert.Equal(t, 900.0, p["rate_at_t"])
	assert.Equal(t, 1.0, p["elapsed_months"])
	assert.Equal(t, 60.0, p["horizon_months"])
	assert.Equal(t, 0.0, p["b"])

	p = mcp.ExtractParams("hyperbolic b = 0,5 untuk sumur W-12 produksi air")
	assert.Equal(t, 0.5, p["b"])
	assert.Equal(t, "W-12", p["well_id"])
	assert.Equal(t, "water", p["stream"])

	assert.Empty(t, mcp.ExtractParams("   "))
}

func TestNormalizePlan_FillsAndCaps(t *testing.T) {
	g := newTestRegistry()
	p := mcp.NormalizePlan(g, "qi 800 b: 0.3", mcp.Plan{Routes: []mcp.Route{
		{Tool: "forecast_decline"},
		{Tool: "forecast_decline"}, // duplikat
		{Tool: "compare_production", Params: json.RawMessage(`{"rate_initial":10}`)},
		{Tool: "unknown"},
	}})
	require.Len(t, p.Routes, 2)
	assert.Equal(t, "mcp", p.Mode)
	assert.Equal(t, mcp.RouteMCP, p.Routes[0].Kind)
	assert.JSONEq(t, `{"rate_initial":800,"b":0.3}`, string(p.Routes[0].Params))
	// nilai eksplisit dari planner tidak ditimpa
	assert.JSONEq(t, `{"rate_initial":10,"b":0.3}`, string(p.Routes[1].Params))
}

func TestKeywordPlan_NoMatch(t *testing.T) {
	defs, err := mcp.LoadToolDefs()
	require.NoError(t, err)
	p := mcp.KeywordPlan("forecast something without numbers", defs)
	assert.Empty(t, p.Routes)
}

func TestKeywordPlan_Normalize(t *testing.T) {
	defs, err := mcp.LoadToolDefs()
	require.NoError(t, err)
	p := mcp.KeywordPlan("normalize these monthly volumes", defs)
	require.Len(t, p.Routes, 1)
	assert.Equal(t, "normalize_production", p.Routes[0].Tool)
	assert.True(t, p.Fallback)
}
