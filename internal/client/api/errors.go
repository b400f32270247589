package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found on server")
	ErrRejected     = errors.New("rejected by server")
	ErrConflict     = errors.New("conflict")
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Code    int
	Message string
	Fields  map[string]string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Message)
}

// Unwrap exposes the sentinel for the status class.
func (e *StatusError) Unwrap() error {
	return sentinelFor(e.Code)
}

func sentinelFor(code int) error {
	switch {
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusConflict:
		return ErrConflict
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return ErrRejected
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= 500:
		return ErrUnavailable
	default:
		return ErrRejected
	}
}

// IsTransient reports whether err is worth retrying later.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
