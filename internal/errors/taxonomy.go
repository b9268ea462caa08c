package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the API rejects the session (401/403)
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransport wraps network-level failures reaching the API
	ErrTransport = errors.New("transport failure")
	// ErrPersistence wraps local snapshot read/write failures
	ErrPersistence = errors.New("local persistence failure")
	// ErrNotFound marks mutations addressed at an id that no longer exists
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response other than 401/403, carrying the server's detail when it sent one
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 from the server
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// ErrKind classifies a failure for logging and for the single policy decision
// that depends on it: only KindUnauthorized changes application state.
type ErrKind string

const (
	KindNone         ErrKind = ""
	KindTransport    ErrKind = "transport"
	KindUnauthorized ErrKind = "unauthorized"
	KindValidation   ErrKind = "validation"
	KindPersistence  ErrKind = "persistence"
	KindNotFound     ErrKind = "not_found"
	KindUnknown      ErrKind = "unknown"
)

// Kind classifies err into the taxonomy
func Kind(err error) ErrKind {
	if err == nil {
		return KindNone
	}
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.As(err, &apiErr):
		return KindValidation
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	}
	return KindUnknown
}
