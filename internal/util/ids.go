// internal/util/ids.go
// ID untuk request & hasil forecast

package util

import (
	"github.com/google/uuid"
)

// NewID UUID v4.
func NewID() string {
	return uuid.New().String()
}

// ValidRequestID menerima X-Request-ID dari klien hanya jika berbentuk UUID.
func ValidRequestID(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
