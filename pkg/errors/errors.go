// Package errors provides coded errors shared by the graph parser, the
// renderers and the transports.
//
// Every transport maps a [Code] to its own surface: the HTTP server to a
// status, the Kafka worker to a reply field, the chat dialogue to a limit
// message. Notation errors also carry the offending line and token so a
// user can be pointed at the mistake.
//
// # Error Codes
//
//   - INVALID_*: request or configuration validation failures
//   - TOO_MANY_LINES, LABEL_TOO_LONG: graph notation limits
//   - *_NOT_FOUND: missing resources
//   - RENDER_FAILED: the Graphviz backend failed
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.Syntax(errors.ErrCodeLabelTooLong, 2, label, "%q is too long", label)
//	if errors.IsSyntax(err) {
//	    fmt.Println(errors.UserMessage(err)) // line 2: "..." is too long
//	}
//
//	err = errors.Wrap(errors.ErrCodeRenderFailed, cause, "render %s", format)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// Validation
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidSessionID Code = "INVALID_SESSION_ID"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Graph notation
	ErrCodeTooManyLines Code = "TOO_MANY_LINES"
	ErrCodeLabelTooLong Code = "LABEL_TOO_LONG"

	// Lookup
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Rendering
	ErrCodeRenderFailed Code = "RENDER_FAILED"

	// Internal
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error.
type Error struct {
	Code    Code
	Message string
	Cause   error

	// Line is the 1-based input line of a notation error, 0 otherwise.
	Line int
	// Token is the offending token of a notation error, if any.
	Token string
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.where() + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) where() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: ", e.Line)
	}
	return ""
}

// New creates an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Syntax creates a notation error located at line and token.
func Syntax(code Code, line int, token, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Line: line, Token: token}
}

// as returns the first *Error in err's chain.
func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// LineOf returns the input line of a notation error, or 0.
func LineOf(err error) int {
	if e, ok := as(err); ok {
		return e.Line
	}
	return 0
}

// UserMessage returns the message to show an end user: the location and
// message of an *Error without its code and cause, or err.Error() for
// other errors. A nil err yields "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e, ok := as(err); ok {
		return e.where() + e.Message
	}
	return err.Error()
}

// IsSyntax reports whether err is one of the graph notation errors.
func IsSyntax(err error) bool {
	switch GetCode(err) {
	case ErrCodeTooManyLines, ErrCodeLabelTooLong:
		return true
	}
	return false
}
