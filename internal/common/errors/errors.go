// Package errors provides the error taxonomy surfaced by the evaluation controller.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInput      ErrorCode = "INPUT_ERROR"
	ErrCodeTransport  ErrorCode = "TRANSPORT_ERROR"
	ErrCodeLogical    ErrorCode = "LOGICAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeRender     ErrorCode = "RENDER_ERROR"

	ErrCodeRequestInFlight ErrorCode = "REQUEST_IN_FLIGHT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// User-facing messages.
const (
	MsgEnterURL          = "Please enter a URL"
	MsgEvaluateFailed    = "Failed to evaluate URL"
	MsgMissingCoreScores = "Missing core score data in response"
	MsgRenderPrefix      = "Error displaying results: "
	MsgRequestInFlight   = "An evaluation is already in progress"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInputError reports an empty or whitespace-only URL.
func NewInputError() *StandardError {
	return &StandardError{
		Code:      ErrCodeInput,
		Message:   MsgEnterURL,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError reports a network failure or a non-success HTTP status.
// An empty message falls back to the generic failure text.
func NewTransportError(message string, cause error) *StandardError {
	if strings.TrimSpace(message) == "" {
		message = MsgEvaluateFailed
	}
	e := &StandardError{
		Code:      ErrCodeTransport,
		Message:   message,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// NewStatusError is a TransportError for a completed exchange with a failing status.
func NewStatusError(status int, message string) *StandardError {
	e := NewTransportError(message, nil)
	e.Details = fmt.Sprintf("status: %d", status)
	return e.WithMetadata("status", status)
}

// NewLogicalError reports a success status whose body carries an error field.
func NewLogicalError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLogical,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError reports missing mandatory score fields.
func NewValidationError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidation,
		Message:   MsgMissingCoreScores,
		Details:   fmt.Sprintf("missing: %s", strings.Join(missing, ", ")),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRenderError reports a failure while projecting a payload onto the view.
func NewRenderError(details string, cause error) *StandardError {
	if details == "" && cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      ErrCodeRender,
		Message:   MsgRenderPrefix + details,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewRequestInFlightError rejects a submission while another is pending.
func NewRequestInFlightError(attemptID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestInFlight,
		Message:   MsgRequestInFlight,
		Details:   fmt.Sprintf("attemptId: %s", attemptID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// CodeOf returns the code carried by err, or "" for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return Normalize(err).Code
}

// Is reports whether err carries code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeTransport, ErrCodeRequestInFlight:
		return true
	default:
		return false
	}
}

func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeInput:
		return "INPUT"
	case ErrCodeTransport:
		return "TRANSPORT"
	case ErrCodeLogical:
		return "BACKEND"
	case ErrCodeValidation, ErrCodeRender:
		return "PAYLOAD"
	case ErrCodeRequestInFlight:
		return "CONCURRENCY"
	default:
		return "OTHER"
	}
}
