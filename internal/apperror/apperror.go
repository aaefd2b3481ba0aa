// Package apperror defines the error taxonomy shared by the API client, the
// view services and the HTTP handlers.
//
// Three families of failure reach a page (network failure, non-2xx response,
// missing credential) and they are all handled the same shallow way: logged
// at the call site and turned into a notification. The sentinels below let a
// handler pick the status code with errors.Is without parsing messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream error")
	ErrTransport    = errors.New("transport error")
)

type AppError struct {
	Err     error  // sentinel (or wrapped cause)
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Status  int    // Optional: upstream HTTP status
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel so errors.Is works through an AppError.
func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
		Status:  http.StatusNotFound,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized reports a missing or rejected credential.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// Upstream wraps a non-2xx answer from the backend API. The message is the
// backend's own message field when it sent one.
func Upstream(status int, message string) *AppError {
	if message == "" {
		message = fmt.Sprintf("backend returned status %d", status)
	}
	return &AppError{
		Err:     &upstreamError{status: status},
		Message: message,
		Status:  status,
	}
}

// Transport wraps a failure to reach the backend at all.
func Transport(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrTransport, cause),
		Message: fmt.Sprintf("%s: backend unreachable", op),
	}
}

// upstreamError lets a single Upstream error match ErrUpstream and, for the
// statuses that have their own sentinel, that sentinel as well.
type upstreamError struct {
	status int
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("upstream status %d", e.status)
}

func (e *upstreamError) Is(target error) bool {
	switch target {
	case ErrUpstream:
		return true
	case ErrNotFound:
		return e.status == http.StatusNotFound
	case ErrUnauthorized:
		return e.status == http.StatusUnauthorized || e.status == http.StatusForbidden
	case ErrConflict:
		return e.status == http.StatusConflict
	case ErrValidation:
		return e.status == http.StatusBadRequest || e.status == http.StatusUnprocessableEntity
	}
	return false
}

// StatusOf returns the upstream status carried by err, or 0.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// MessageOf returns the human-readable message carried by err, or fallback
// when err is not an AppError.
func MessageOf(err error, fallback string) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
