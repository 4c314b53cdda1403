package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors used throughout the application.
var (
	ErrNotFound            = errors.New("not found")
	ErrAuth                = errors.New("authentication failed")
	ErrServer              = errors.New("server error")
	ErrUpstreamUnavailable = errors.New("address lookup unavailable")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrFetchFailed         = errors.New("fetching firewall failed")
	ErrUpdateFailed        = errors.New("updating firewall rules failed")
	ErrDeliveryFailed      = errors.New("notification delivery failed")
)

// StatusError is a non-success HTTP status returned by a remote service.
// It unwraps to its operation sentinel (Op), its status class (ErrAuth, ErrServer,
// ErrNotFound) and the underlying cause, so callers can use errors.Is on any of them.
type StatusError struct {
	Op         error
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%v: status %d", e.Op, e.StatusCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the wrapped errors.
func (e *StatusError) Unwrap() []error {
	errs := []error{e.Op}
	if class := StatusClass(e.StatusCode); class != nil {
		errs = append(errs, class)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// StatusClass maps an HTTP status code to ErrAuth, ErrServer or ErrNotFound.
// It returns nil for statuses outside those classes.
func StatusClass(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrAuth
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return ErrServer
	}
	return nil
}

// StatusCode extracts the HTTP status code carried by err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}

// APIError represents an error response from the status API.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}
