package apperr

import (
	"errors"
	"fmt"
)

// Code discriminates application errors so callers can branch on the kind
// of failure instead of matching message strings.
type Code string

const (
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeInsufficientCredits Code = "INSUFFICIENT_CREDITS"
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodeConfiguration       Code = "CONFIGURATION_ERROR"
	CodeExternalAPI         Code = "EXTERNAL_API_ERROR"
	CodeDatabase            Code = "DATABASE_ERROR"
	CodeNotFound            Code = "NOT_FOUND"
	CodeRateLimited         Code = "RATE_LIMITED"
	CodeDuplicateEvent      Code = "DUPLICATE_EVENT"
	CodeUnknown             Code = "UNKNOWN_ERROR"
)

var statusByCode = map[Code]int{
	CodeUnauthorized:        401,
	CodeInsufficientCredits: 402,
	CodeInvalidInput:        400,
	CodeConfiguration:       500,
	CodeExternalAPI:         502,
	CodeDatabase:            500,
	CodeNotFound:            404,
	CodeRateLimited:         429,
	CodeDuplicateEvent:      200,
	CodeUnknown:             500,
}

// Error is a tagged application error. Two Errors are considered equal by
// errors.Is when their codes match, so sentinel values below can be used
// as targets for wrapped errors.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Status returns the HTTP status the error maps to.
func (e *Error) Status() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return 500
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Sentinels for the error kinds the ledger core deals in.
var (
	ErrInsufficientFunds = New(CodeInsufficientCredits, "insufficient credits")
	ErrInvalidInput      = New(CodeInvalidInput, "invalid input")
	ErrConfiguration     = New(CodeConfiguration, "server configuration error")
	ErrDuplicateEvent    = New(CodeDuplicateEvent, "event already processed")
	ErrNotFound          = New(CodeNotFound, "resource not found")
	ErrRateLimited       = New(CodeRateLimited, "rate limit exceeded")
	ErrUnauthorized      = New(CodeUnauthorized, "authentication required")
)

// CodeOf extracts the application error code, defaulting to UNKNOWN_ERROR
// for untagged errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// StatusOf maps any error to an HTTP status code.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status()
	}
	return 500
}
