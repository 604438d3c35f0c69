// internal/util/errors.go
// Definisi error aplikasi standar + kode error domain decline-curve

package util

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code    string // e.g., "bad_input", "not_found", "internal", "invalid_observation"
	Message string
}

func (e AppError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is membuat errors.Is cocok berdasarkan Code saja, jadi sentinel di bawah
// bisa dipakai untuk mengecek jenis error tanpa peduli pesannya.
func (e AppError) Is(target error) bool {
	t, ok := target.(AppError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

const (
	CodeBadInput               = "bad_input"
	CodeNotFound               = "not_found"
	CodeInternal               = "internal"
	CodeUnavailable            = "unavailable"
	CodeInvalidObservation     = "invalid_observation"
	CodeInvalidShapeParameter  = "invalid_shape_parameter"
	CodeInvalidTimeAxis        = "invalid_time_axis"
	CodeMalformedProductionRow = "malformed_production_row"
)

// Sentinel untuk errors.Is.
var (
	ErrBadInput               = AppError{Code: CodeBadInput}
	ErrInvalidObservation     = AppError{Code: CodeInvalidObservation}
	ErrInvalidShapeParameter  = AppError{Code: CodeInvalidShapeParameter}
	ErrInvalidTimeAxis        = AppError{Code: CodeInvalidTimeAxis}
	ErrMalformedProductionRow = AppError{Code: CodeMalformedProductionRow}
)

func BadInput(msg string) AppError { return AppError{Code: CodeBadInput, Message: msg} }
func NotFound(msg string) AppError { return AppError{Code: CodeNotFound, Message: msg} }
func Internal(msg string) AppError { return AppError{Code: CodeInternal, Message: msg} }
func Unavailable(msg string) AppError {
	return AppError{Code: CodeUnavailable, Message: msg}
}

func InvalidObservation(format string, args ...any) AppError {
	return AppError{Code: CodeInvalidObservation, Message: fmt.Sprintf(format, args...)}
}

func InvalidShapeParameter(format string, args ...any) AppError {
	return AppError{Code: CodeInvalidShapeParameter, Message: fmt.Sprintf(format, args...)}
}

func InvalidTimeAxis(format string, args ...any) AppError {
	return AppError{Code: CodeInvalidTimeAxis, Message: fmt.Sprintf(format, args...)}
}

func MalformedProductionRow(format string, args ...any) AppError {
	return AppError{Code: CodeMalformedProductionRow, Message: fmt.Sprintf(format, args...)}
}

// IsClientError true untuk semua error yang berasal dari input pemanggil.
func IsClientError(err error) bool {
	ae, ok := AsAppError(err)
	if !ok {
		return false
	}
	switch ae.Code {
	case "", CodeInternal, CodeUnavailable:
		return false
	}
	return true
}

// AsAppError mengambil AppError dari rantai error (kalau ada).
func AsAppError(err error) (AppError, bool) {
	var ae AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return AppError{}, false
}
