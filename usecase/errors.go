package usecase

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrorValidation      ErrorCode = "VALIDATION_ERROR"
	ErrorContentTooShort ErrorCode = "CONTENT_TOO_SHORT"
	ErrorAuth            ErrorCode = "AUTH_ERROR"
	ErrorRateLimit       ErrorCode = "RATE_LIMIT_ERROR"
	ErrorModel           ErrorCode = "MODEL_ERROR"
	ErrorTokenLimit      ErrorCode = "TOKEN_LIMIT_ERROR"
	ErrorTTS             ErrorCode = "TTS_ERROR"
)

// FallbackCode returns the generic code of an endpoint, e.g. CHAT_ERROR.
func FallbackCode(ep Endpoint) ErrorCode {
	return ErrorCode(ep.upper() + "_ERROR")
}

// Error is the externally visible outcome of a failed request. Err keeps the
// underlying cause for logging; it is never rendered to the caller.
type Error struct {
	Status  int
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Message)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsCallerError reports whether the failure was caused by the request input.
func (e *Error) IsCallerError() bool {
	return e.Code == ErrorValidation || e.Code == ErrorContentTooShort
}

func newError(status int, code ErrorCode, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

// InvalidPayload is returned for bodies that cannot be decoded or violate
// the payload field constraints.
func InvalidPayload(err error) *Error {
	return newError(http.StatusBadRequest, ErrorValidation, "Invalid request payload", err)
}
