// Package domainerrors provides coded errors shared by services and the HTTP
// layer. Services attach a Code describing the failure class; the transport
// layer maps codes onto HTTP statuses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	// CodeUnauthorized covers missing or malformed credentials (401).
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden covers rejected credentials and failed role or
	// ownership checks (403).
	CodeForbidden Code = "forbidden"
	// CodeBadRequest covers requests that are well-formed but cannot be
	// applied, such as a lost confirmation race (400).
	CodeBadRequest Code = "bad_request"
	// CodeValidation covers malformed identifiers and bad input shapes (400).
	CodeValidation Code = "validation_error"
	// CodeNotFound covers absent records (404).
	CodeNotFound Code = "not_found"
	// CodeConflict covers duplicate writes such as re-registration (409).
	CodeConflict Code = "conflict"
	// CodeInternal covers store or upstream failures (500).
	CodeInternal Code = "internal_error"
)

// Error is a domain error with a classification code. Message is safe to show
// to callers for every code except CodeInternal.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with the given code and caller-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error. The cause is kept
// for logs and errors.Is/As; only code and message cross the API boundary.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in a service.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-facing message from err. Internal errors and
// uncoded errors collapse to a generic message so store details never leak.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Code != CodeInternal {
		return de.Message
	}
	return "internal server error"
}

// ToHTTPStatus maps a domain code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeBadRequest, CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
