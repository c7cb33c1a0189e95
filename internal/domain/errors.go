package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// InvalidContextError indicates a malformed or unauthorized markup context
	// (linked_type/linked_id pairing that is not a current link of the document).
	InvalidContextError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string       { return e.Message }
func (e *ValidationError) Error() string     { return e.Message }
func (e *InvalidContextError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int       { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int     { return http.StatusBadRequest }
func (e *InvalidContextError) StatusCode() int { return http.StatusBadRequest }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrInvalidContext = errors.New("invalid markup context")
	ErrUnauthorized   = errors.New("unauthorized")
)

func (e *NotFoundError) Is(target error) bool       { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool     { return target == ErrValidation }
func (e *InvalidContextError) Is(target error) bool { return target == ErrInvalidContext }
