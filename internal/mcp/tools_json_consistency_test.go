// internal/mcp/tools_json_consistency_test.go

package mcp_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/app"
	"dca-oilgas/internal/mcp"
)

// Katalog mcp-tools.json dan registry app harus sama persis.
func TestToolsJsonMatchesRegistry(t *testing.T) {
	defs, err := mcp.LoadToolDefs()
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	g := mcp.NewRegistry()
	app.RegisterMCPTools(g)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
		_, ok := g.Get(d.Name)
		assert.True(t, ok, "tool %q exists in mcp-tools.json but NOT registered", d.Name)

		var schema map[string]any
		assert.NoError(t, json.Unmarshal(d.InputSchema, &schema), "tool %q input_schema", d.Name)
		assert.NotEmpty(t, d.Keywords, "tool %q has no keywords for fallback routing", d.Name)
	}
	assert.ElementsMatch(t, names, g.List())
	assert.Len(t, mcp.RegisteredDefs(g), len(defs))
}
