// [FILE] internal/util/sse/sse.go
// Helper util untuk menulis SSE secara aman.

package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnsupported writer tidak bisa di-flush (SSE tidak akan sampai ke klien tepat waktu).
var ErrUnsupported = errors.New("sse: streaming unsupported")

// Writer menulis event SSE berurutan; error tulis pertama disimpan dan event berikutnya diabaikan.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
	seq     int
	err     error
}

// Prepare set header SSE + no-cache dan mengembalikan Writer.
func Prepare(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrUnsupported
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Nginx: disable buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &Writer{w: w, flusher: flusher}, nil
}

// Event menulis satu event. String dikirim apa adanya, selain itu di-marshal JSON.
func (s *Writer) Event(event string, v any) error {
	if s.err != nil {
		return s.err
	}
	var payload string
	switch data := v.(type) {
	case string:
		payload = data
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	s.seq++
	if _, err := fmt.Fprintf(s.w, "id: %d\n", s.seq); err != nil {
		s.err = err
		return err
	}
	if event != "" {
		if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
			s.err = err
			return err
		}
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		s.err = err
		return err
	}
	s.flusher.Flush()
	return nil
}

// Sent jumlah event yang sudah ditulis.
func (s *Writer) Sent() int { return s.seq }
