// Package apperrors defines the error taxonomy shared by services and
// handlers. Every code maps to a fixed HTTP status and public message.
package apperrors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeDuplicateEmail     Code = "DUPLICATE_EMAIL"
	CodeNotFound           Code = "NOT_FOUND"
	CodeRoleMismatch       Code = "ROLE_MISMATCH"
	CodeInvalidRating      Code = "INVALID_RATING"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeInternal           Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeValidation:         http.StatusBadRequest,
	CodeBadRequest:         http.StatusBadRequest,
	CodeInvalidCredentials: http.StatusBadRequest,
	CodeDuplicateEmail:     http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeRoleMismatch:       http.StatusBadRequest,
	CodeInvalidRating:      http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeInternal:           http.StatusInternalServerError,
}

// HTTPStatus returns the status code a response for code should carry.
func HTTPStatus(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is an application error with a stable code, a public message and
// optional per-field details.
type Error struct {
	code    Code
	message string
	details []string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() []string {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) HTTPStatus() int {
	return HTTPStatus(e.Code())
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts an *Error from err's chain, or returns nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}

// Validation carries the full list of rule violations.
func Validation(messages []string) *Error {
	return &Error{code: CodeValidation, message: "validation failed", details: messages}
}

func BadRequest(message string) *Error {
	return New(CodeBadRequest, message)
}

// InvalidCredentials never says which of email or password was wrong.
func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, "Invalid credentials")
}

func DuplicateEmail(email string) *Error {
	return New(CodeDuplicateEmail, fmt.Sprintf("email '%s' already registered", email))
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func RoleMismatch(message string) *Error {
	return New(CodeRoleMismatch, message)
}

func InvalidRating() *Error {
	return New(CodeInvalidRating, "Rating must be between 1 and 5.")
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

func Internal(err error) *Error {
	return Wrap(CodeInternal, err, "internal server error")
}
