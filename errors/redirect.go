package errors

import (
	"fmt"
	"net/http"
)

// RedirectError aborts a handler with a redirect instead of an error body.
type RedirectError struct {
	Location string
	Status   int
	Cause    error
}

// Redirect creates a RedirectError. A zero status means 303 See Other.
func Redirect(location string, status int) *RedirectError {
	if status == 0 {
		status = http.StatusSeeOther
	}
	return &RedirectError{Location: location, Status: status}
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect %d to %s", e.Status, e.Location)
}

func (e *RedirectError) Unwrap() error { return e.Cause }
