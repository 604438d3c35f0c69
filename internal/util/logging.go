// internal/util/logging.go
// Event log satu baris (access log, mcp.route): JSON atau key=value, dengan filter level.

package util

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

var logLevels = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

var logCfg = struct {
	mu   sync.RWMutex
	text bool
	min  int
}{min: logLevels["info"]}

// SetLogging dari LOG_FORMAT (json|text) dan LOG_LEVEL (debug|info|warn|error).
// Nilai tidak dikenal: json / info.
func SetLogging(format, level string) {
	logCfg.mu.Lock()
	defer logCfg.mu.Unlock()
	logCfg.text = strings.EqualFold(strings.TrimSpace(format), "text")
	min, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		min = logLevels["info"]
	}
	logCfg.min = min
}

// LogEnabled true kalau level lolos LOG_LEVEL.
func LogEnabled(level string) bool {
	logCfg.mu.RLock()
	defer logCfg.mu.RUnlock()
	l, ok := logLevels[level]
	if !ok {
		l = logLevels["info"]
	}
	return l >= logCfg.min
}

// LogEvent menulis v (struct ber-tag json) sebagai satu baris.
func LogEvent(level string, v any) {
	if !LogEnabled(level) {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[ERROR] log event: %v", err)
		return
	}
	logCfg.mu.RLock()
	text := logCfg.text
	logCfg.mu.RUnlock()
	if !text {
		log.Println(string(b))
		return
	}
	log.Println(FormatText(b))
}

// FormatText mengubah object JSON jadi "k=v k=v" urut key.
func FormatText(obj []byte) string {
	var m map[string]any
	if err := json.Unmarshal(obj, &m); err != nil {
		return string(obj)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := m[k]
		if s, ok := v.(string); ok && strings.ContainsAny(s, " =\"") {
			v = fmt.Sprintf("%q", s)
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, " ")
}
