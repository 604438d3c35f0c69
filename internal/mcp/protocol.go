// mcp/protocol.go
// Definisi struktur dasar MCP protocol

package mcp

import "encoding/json"

// ToolRequest envelope /mcp/route. Payload (atau Params, alias lama) diteruskan
// apa adanya sebagai body JSON ke handler tool.
type ToolRequest struct {
	Tool     string          `json:"tool,omitempty"`
	Question string          `json:"question,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
	Plan     *Plan           `json:"plan,omitempty"`
	Routes   []Route         `json:"routes,omitempty"`
}

// body yang diteruskan ke tool: payload > params > {}.
func (t ToolRequest) body() json.RawMessage {
	if !isJSONNullOrEmpty(t.Payload) {
		return t.Payload
	}
	if !isJSONNullOrEmpty(t.Params) {
		return t.Params
	}
	return json.RawMessage("{}")
}

type ToolResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
