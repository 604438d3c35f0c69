// internal/mcp/tools_def.go
package mcp

import (
	_ "embed"
	"encoding/json"
	"sync"
)

//go:embed mcp-tools.json
var toolsJSON []byte

type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Keywords    []string        `json:"keywords,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}
type ToolCatalog struct {
	Tools []ToolDef `json:"tools"`
}

var (
	toolDefs     []ToolDef
	toolDefsOnce sync.Once
	toolDefsErr  error
)

// LoadToolDefs katalog tool (embedded), di-parse sekali.
func LoadToolDefs() ([]ToolDef, error) {
	toolDefsOnce.Do(func() {
		var cat ToolCatalog
		if err := json.Unmarshal(toolsJSON, &cat); err != nil {
			toolDefsErr = err
			return
		}
		toolDefs = cat.Tools
	})
	return toolDefs, toolDefsErr
}

// RegisteredDefs katalog yang tool-nya memang ada di registry g.
func RegisteredDefs(g *Registry) []ToolDef {
	defs, err := LoadToolDefs()
	if err != nil {
		return nil
	}
	out := make([]ToolDef, 0, len(defs))
	for _, d := range defs {
		if _, ok := g.Get(d.Name); ok {
			out = append(out, d)
		}
	}
	return out
}
