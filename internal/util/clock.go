// internal/util/clock.go
// Abstraksi waktu; generated_at di response forecast diambil dari sini supaya bisa di-pin di test.

package util

import "time"

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock selalu mengembalikan waktu yang sama.
type FixedClock struct{ At time.Time }

func (c FixedClock) Now() time.Time { return c.At }
