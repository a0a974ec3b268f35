package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the server reports a missing entity.
	// Terminal for the requesting view: no retry, static message.
	ErrNotFound = errors.New("not found")

	// ErrSessionExpired is returned after a failed token refresh. The
	// persisted session has already been cleared when this surfaces.
	ErrSessionExpired = errors.New("session expired")
)

// Error is a non-2xx response from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Is maps 404 responses onto ErrNotFound so call sites can use errors.Is.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// IsNotFound reports whether err represents a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an
// *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the server-provided message carried by err, or the
// fallback when there is none.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
