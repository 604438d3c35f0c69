package util_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"dca-oilgas/internal/util"
)

type event struct {
	Level  string `json:"level"`
	Event  string `json:"event"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		util.SetLogging("json", "info")
	})
	return &buf
}

func TestLogEvent_Formats(t *testing.T) {
	ev := event{Level: "info", Event: "http.access", Path: "/api/forecast", Status: 200}

	tests := []struct {
		name, format, want string
	}{
		{name: "json", format: "json", want: `{"level":"info","event":"http.access","path":"/api/forecast","status":200}` + "\n"},
		{name: "text", format: "text", want: "event=http.access level=info path=/api/forecast status=200\n"},
		{name: "unknown falls back to json", format: "xml", want: `{"level":"info","event":"http.access","path":"/api/forecast","status":200}` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			util.SetLogging(tt.format, "info")
			util.LogEvent("info", ev)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogEvent_LevelFilter(t *testing.T) {
	buf := captureLog(t)
	util.SetLogging("json", "warn")

	util.LogEvent("info", event{Event: "skip"})
	assert.Empty(t, buf.String())

	util.LogEvent("error", event{Event: "keep"})
	assert.Contains(t, buf.String(), `"event":"keep"`)

	assert.True(t, util.LogEnabled("warn"))
	assert.False(t, util.LogEnabled("debug"))
}

func TestFormatText_QuotesSpaces(t *testing.T) {
	assert.Equal(t, `message="no tool matched" status=422`, util.FormatText([]byte(`{"status":422,"message":"no tool matched"}`)))
}
