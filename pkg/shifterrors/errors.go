// Package shifterrors provides the error taxonomy used across the
// scheduling core: validation, configuration, pre-solve infeasibility,
// and solver-backend faults all surface as *AppError.
package shifterrors

import (
	"errors"
	"fmt"
)

// Code identifies the kind of error raised by the core.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Config errors (spec §7 ConfigError)
	CodeBadHorizon        Code = "BAD_HORIZON"
	CodeInvalidTime       Code = "INVALID_TIME"
	CodeUnknownConstraint Code = "UNKNOWN_CONSTRAINT"
	CodeBadWeight         Code = "BAD_WEIGHT"

	// Validation errors (spec §7 ValidationError)
	CodeInvalidWorker              Code = "INVALID_WORKER"
	CodeInvalidShiftType           Code = "INVALID_SHIFT_TYPE"
	CodeInvalidRequest             Code = "INVALID_REQUEST"
	CodeInvalidFrequencyReq        Code = "INVALID_FREQUENCY_REQ"
	CodeInvalidOrderPreference     Code = "INVALID_ORDER_PREFERENCE"

	// Variable-builder accessor errors (spec §4.3 KeyError)
	CodeUnknownWorker Code = "UNKNOWN_WORKER"
	CodeUnknownShift  Code = "UNKNOWN_SHIFT"
	CodeBadPeriod     Code = "BAD_PERIOD"

	// Pre-solve / solve / invariant errors (spec §7)
	CodePreSolveInfeasible Code = "PRE_SOLVE_INFEASIBLE"
	CodeBackendError       Code = "BACKEND_ERROR"
	CodeCoreInvariantBroken Code = "CORE_INVARIANT_BROKEN"
)

// AppError is the single error type the core raises. It carries a Code
// for programmatic dispatch and an optional Cause for wrapping.
type AppError struct {
	Code    Code
	Message string
	Cause   error
	Fields  map[string]any
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithField attaches a diagnostic field (e.g. the offending worker or
// shift-type identifier) and returns the receiver for chaining.
func (e *AppError) WithField(key string, value any) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// New creates an AppError with the given code and message.
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates an AppError with a formatted message.
func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an underlying error with a code and message.
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is reports whether err is an *AppError carrying the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the Code from err, or CodeUnknown if err isn't an
// *AppError.
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}
