// internal/handlers/mcp/ready_flags.go
package mcp

// Flag readiness per dependensi; diset dari Set*(..) masing-masing handler.
var (
	readyProduction bool
	readyPlanner    bool
)

// SetPlannerReady dipanggil app saat LLM planner terkonfigurasi.
func SetPlannerReady(ok bool) { readyPlanner = ok }

// ReposStatus mengembalikan status siap/tidaknya setiap dependensi.
// forecast & normalize murni komputasi, selalu siap.
func ReposStatus() map[string]bool {
	return map[string]bool{
		"forecast":   true,
		"normalize":  true,
		"production": readyProduction,
		"llm":        readyPlanner,
	}
}
