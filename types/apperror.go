package types

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

// ErrorKind is the machine-checkable category of a failed operation.
type ErrorKind string

const (
	KindInvalidFormat         ErrorKind = "InvalidFormat"
	KindInvalid               ErrorKind = "Invalid"
	KindRateLimited           ErrorKind = "RateLimited"
	KindUpstreamUnavailable   ErrorKind = "UpstreamUnavailable"
	KindExpired               ErrorKind = "Expired"
	KindAttemptsExhausted     ErrorKind = "AttemptsExhausted"
	KindDuplicateRegistration ErrorKind = "DuplicateRegistration"
	KindUnauthorized          ErrorKind = "Unauthorized"
	KindForbidden             ErrorKind = "Forbidden"
	KindNotFound              ErrorKind = "NotFound"
	KindConflict              ErrorKind = "Conflict"
	KindInternal              ErrorKind = "Internal"
)

var kindStatus = map[ErrorKind]int{
	KindInvalidFormat:         http.StatusBadRequest,
	KindInvalid:               http.StatusBadRequest,
	KindRateLimited:           http.StatusTooManyRequests,
	KindUpstreamUnavailable:   http.StatusBadGateway,
	KindExpired:               http.StatusBadRequest,
	KindAttemptsExhausted:     http.StatusTooManyRequests,
	KindDuplicateRegistration: http.StatusConflict,
	KindUnauthorized:          http.StatusUnauthorized,
	KindForbidden:             http.StatusForbidden,
	KindNotFound:              http.StatusNotFound,
	KindConflict:              http.StatusConflict,
	KindInternal:              http.StatusInternalServerError,
}

// AppError is returned by services for every failure a caller can act on.
type AppError struct {
	Kind       ErrorKind
	Message    string
	RetryAfter time.Duration
	Err        error

	status int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError of the same kind, so errors.Is(err, ErrExpired) works.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Kind == e.Kind
}

// HTTPStatus returns the response status for the error.
func (e *AppError) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WithStatus overrides the default status of the kind.
func (e *AppError) WithStatus(status int) *AppError {
	e.status = status
	return e
}

// RetryAfterSeconds rounds the retry window up to whole seconds.
func (e *AppError) RetryAfterSeconds() int {
	if e.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

func NewError(kind ErrorKind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func RateLimitedError(message string, retryAfter time.Duration) *AppError {
	return &AppError{Kind: KindRateLimited, Message: message, RetryAfter: retryAfter}
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidFormat         = NewError(KindInvalidFormat, "invalid format")
	ErrInvalid               = NewError(KindInvalid, "invalid")
	ErrRateLimited           = NewError(KindRateLimited, "rate limited")
	ErrUpstreamUnavailable   = NewError(KindUpstreamUnavailable, "upstream unavailable")
	ErrExpired               = NewError(KindExpired, "expired")
	ErrAttemptsExhausted     = NewError(KindAttemptsExhausted, "attempts exhausted")
	ErrDuplicateRegistration = NewError(KindDuplicateRegistration, "duplicate registration")
	ErrUnauthorized          = NewError(KindUnauthorized, "unauthorized")
	ErrForbidden             = NewError(KindForbidden, "forbidden")
	ErrNotFound              = NewError(KindNotFound, "not found")
	ErrConflict              = NewError(KindConflict, "conflict")
)

// AsAppError extracts an *AppError from err, wrapping anything else as Internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return WrapError(KindInternal, "Internal server error", err)
}
