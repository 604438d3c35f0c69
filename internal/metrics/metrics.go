// internal/metrics/metrics.go
// Counter sederhana (in-memory) untuk endpoint /metrics format Prometheus text.

package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
)

type counterKey struct {
	name    string
	outcome string
}

var counters sync.Map // counterKey -> *atomic.Int64

// Observe menambah counter <name>{outcome="ok"|"client_error"|"error"}.
func Observe(name, outcome string) {
	k := counterKey{name: name, outcome: outcome}
	v, _ := counters.LoadOrStore(k, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}

// Value nilai counter saat ini (0 jika belum ada).
func Value(name, outcome string) int64 {
	v, ok := counters.Load(counterKey{name: name, outcome: outcome})
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

// WriteText menulis semua counter sebagai dca_requests_total dengan label tool/outcome.
func WriteText(w io.Writer) {
	type row struct {
		k counterKey
		v int64
	}
	var rows []row
	counters.Range(func(k, v any) bool {
		rows = append(rows, row{k: k.(counterKey), v: v.(*atomic.Int64).Load()})
		return true
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].k.name == rows[j].k.name {
			return rows[i].k.outcome < rows[j].k.outcome
		}
		return rows[i].k.name < rows[j].k.name
	})

	fmt.Fprintf(w, "# HELP dca_requests_total Requests handled per tool and outcome\n# TYPE dca_requests_total counter\n")
	for _, r := range rows {
		fmt.Fprintf(w, "dca_requests_total{tool=%q,outcome=%q} %d\n", r.k.name, r.k.outcome, r.v)
	}
}
