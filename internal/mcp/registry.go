// mcp/registry.go
// Registri mapping nama tool ke handler function

package mcp

import (
	"net/http"
	"sort"
	"sync"
)

// Registry menyimpan peta nama tool -> http.Handler secara thread-safe.
type Registry struct {
	mu   sync.RWMutex
	data map[string]http.Handler
}

func NewRegistry() *Registry {
	return &Registry{data: make(map[string]http.Handler)}
}

// Default registry dipakai app & cmd/mcp-router.
var Default = NewRegistry()

// Register mendaftarkan handler untuk sebuah tool; nama yang sama ditimpa.
func (g *Registry) Register(name string, h http.Handler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data[name] = h
}

func (g *Registry) RegisterFunc(name string, fn func(http.ResponseWriter, *http.Request)) {
	g.Register(name, http.HandlerFunc(fn))
}

// Get mengambil handler berdasarkan nama tool.
func (g *Registry) Get(name string) (http.Handler, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	h, ok := g.data[name]
	return h, ok
}

// List nama tool terdaftar, urut alfabet.
func (g *Registry) List() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]string, 0, len(g.data))
	for k := range g.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Serve mengeksekusi handler untuk tool 'name'; 404 jika tidak ada.
func (g *Registry) Serve(w http.ResponseWriter, r *http.Request, name string) {
	if h, ok := g.Get(name); ok {
		h.ServeHTTP(w, r)
		return
	}
	http.Error(w, "tool not found: "+name, http.StatusNotFound)
}

// Shortcut ke Default.

func Register(name string, h http.Handler) { Default.Register(name, h) }

func RegisterFunc(name string, fn func(http.ResponseWriter, *http.Request)) {
	Default.RegisterFunc(name, fn)
}

func Get(name string) (http.Handler, bool) { return Default.Get(name) }

func List() []string { return Default.List() }
