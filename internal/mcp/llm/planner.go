// internal/mcp/llm/planner.go
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ToolLite: representasi tool dari katalog (tanpa import mcp untuk hindari cycle)
type ToolLite struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ParamsSchema json.RawMessage `json:"params_schema,omitempty"`
}

type schemaDoc struct {
	Properties map[string]any   `json:"properties"`
	Required   []string         `json:"required"`
	Examples   []map[string]any `json:"examples"`
}

// RoutePlanner bertumpu pada Client
type RoutePlanner struct{ client Client }

func NewRoutePlanner(c Client) *RoutePlanner { return &RoutePlanner{client: c} }

const plannerSystem = `You are a ROUTER for an oil & gas decline-curve service. Reply ONLY with valid JSON.
Rules:
- Choose ONLY from the tools in "tools". Never invent tool names or params fields.
- Copy numbers from the question exactly; do not guess missing values.
- rate_initial is qi, rate_at_t is the later rate, elapsed_months the months between them.
- b: 0 for exponential, 1 for harmonic, between 0 and 1 for hyperbolic.
- A question about a specific well's history uses get_production; actual vs forecast uses compare_production.
- Output MUST be a JSON object, no markdown, no other text.
Output schema:
{
  "mode": "mcp",
  "routes": [ { "kind": "mcp", "tool": "<tool name>", "params": { } } ],
  "reason": "short string"
}`

// PlanRaw menyusun prompt dari katalog lalu memanggil JSON mode; hasil berupa JSON mentah.
func (p *RoutePlanner) PlanRaw(ctx context.Context, tools []ToolLite, question string) (string, error) {
	type toolForLLM struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Fields      []string       `json:"fields,omitempty"`
		Required    []string       `json:"required,omitempty"`
		Example     map[string]any `json:"example_params,omitempty"`
	}
	llmTools := make([]toolForLLM, 0, len(tools))
	for _, t := range tools {
		var sc schemaDoc
		_ = json.Unmarshal(t.ParamsSchema, &sc)

		fields := make([]string, 0, len(sc.Properties))
		for k := range sc.Properties {
			fields = append(fields, k)
		}
		sort.Strings(fields)

		var ex map[string]any
		if len(sc.Examples) > 0 {
			ex = sc.Examples[0]
		}
		llmTools = append(llmTools, toolForLLM{
			Name:        t.Name,
			Description: t.Description,
			Fields:      fields,
			Required:    sc.Required,
			Example:     ex,
		})
	}

	payload := struct {
		Question string       `json:"question"`
		Tools    []toolForLLM `json:"tools"`
	}{Question: question, Tools: llmTools}
	ub, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 8*time.Second)
		defer cancel()
	}

	raw, err := p.client.AnswerJSON(ctx, string(ub), plannerSystem)
	if err != nil {
		return "", fmt.Errorf("planner AnswerJSON: %w", err)
	}
	return strings.TrimSpace(raw), nil
}
