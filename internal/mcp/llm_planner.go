// internal/mcp/llm_planner.go
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"dca-oilgas/internal/mcp/llm"
)

// LLMPlanner adaptor llm.RoutePlanner -> Planner.
type LLMPlanner struct {
	Route *llm.RoutePlanner
}

func (p LLMPlanner) Plan(ctx context.Context, question string, tools []ToolDef) (Plan, error) {
	lite := make([]llm.ToolLite, 0, len(tools))
	for _, t := range tools {
		lite = append(lite, llm.ToolLite{Name: t.Name, Description: t.Description, ParamsSchema: t.InputSchema})
	}
	raw, err := p.Route.PlanRaw(ctx, lite, question)
	if err != nil {
		return Plan{}, err
	}
	var out Plan
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Plan{}, fmt.Errorf("planner unmarshal: %w", err)
	}
	return out, nil
}
