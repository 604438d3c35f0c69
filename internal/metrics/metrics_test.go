package metrics_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"dca-oilgas/internal/metrics"
)

func TestObserveAndWriteText(t *testing.T) {
	before := metrics.Value("metrics_test_tool", "ok")
	metrics.Observe("metrics_test_tool", "ok")
	metrics.Observe("metrics_test_tool", "ok")
	metrics.Observe("metrics_test_tool", "client_error")

	assert.Equal(t, before+2, metrics.Value("metrics_test_tool", "ok"))

	var sb strings.Builder
	metrics.WriteText(&sb)
	out := sb.String()
	assert.Contains(t, out, "# TYPE dca_requests_total counter")
	assert.Contains(t, out, `dca_requests_total{tool="metrics_test_tool",outcome="client_error"} 1`)
}
