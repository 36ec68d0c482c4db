package spotr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any error reporting a missing backend entity.
var ErrNotFound = errors.New("not found")

// BackendError is a failed backend call. StatusCode is zero when the request
// never produced a response (DNS, refused connection, timeout).
type BackendError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	RequestID  string
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("spotr %s %s failed: %v", e.Method, e.Path, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("Fetch error [%d] %s: %v", e.StatusCode, e.Status, e.Err)
	}
	return fmt.Sprintf("Fetch error [%d] %s", e.StatusCode, e.Status)
}

func (e *BackendError) Unwrap() error { return e.Err }

func (e *BackendError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Transport reports whether the call failed before any response arrived.
func (e *BackendError) Transport() bool { return e.StatusCode == 0 }

// NotFoundError reports a missing entity of the given kind.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFound reports whether err means the entity does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
