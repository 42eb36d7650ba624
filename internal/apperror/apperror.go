// Package apperror defines the application's domain-error taxonomy.
//
// Services return these errors; only the handler layer translates them to
// HTTP status codes. That keeps the service layer protocol-agnostic — a CLI
// or a gRPC surface would map the same sentinels differently.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers check them with errors.Is, which walks the wrap
// chain via AppError.Unwrap.
var (
	ErrBadRequest   = errors.New("bad request")   // malformed input, 400
	ErrValidation   = errors.New("validation")    // failed business rules, 422
	ErrUnauthorized = errors.New("unauthorized")  // missing/invalid credentials, 401
	ErrForbidden    = errors.New("forbidden")     // authenticated but not allowed, 403
	ErrNotFound     = errors.New("not found")     // resource id absent, 404
	ErrConfig       = errors.New("configuration") // operator-fixable fault, 500
	ErrUpstream     = errors.New("upstream")      // third-party API failure, 500
)

// AppError carries a sentinel plus the human-readable message returned to
// the client.
//
// Detail holds server-side context (raw upstream bodies, wrapped persistence
// errors) that is logged, and only surfaced to callers outside production.
type AppError struct {
	Err     error  // sentinel, for errors.Is
	Message string // client-facing message
	Field   string // optional: input field that failed validation
	Detail  string // optional: server-side detail, environment-gated
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// BadRequest reports malformed input rejected before any work is done.
func BadRequest(message string) *AppError {
	return &AppError{Err: ErrBadRequest, Message: message}
}

// ValidationFailed reports a business-rule violation on a named field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// Unauthorized reports missing or invalid credentials. The message is kept
// deliberately vague so callers cannot distinguish "unknown email" from
// "wrong password".
func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// Forbidden reports that the caller is authenticated but not permitted to
// act on the resource.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

// NotFound reports an absent resource, e.g. NotFound("Post") → "Post not found".
func NotFound(resource string) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NotFoundMessage reports an absent resource with a verbatim message, for
// cases where the wording is part of the API contract.
func NotFoundMessage(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

// Config reports an operator-fixable misconfiguration (e.g. a missing API
// key). Detail stays server-side.
func Config(message, detail string) *AppError {
	return &AppError{Err: ErrConfig, Message: message, Detail: detail}
}

// Upstream reports a third-party API failure. Detail carries the raw
// upstream error for logs and non-production responses.
func Upstream(message, detail string) *AppError {
	return &AppError{Err: ErrUpstream, Message: message, Detail: detail}
}
