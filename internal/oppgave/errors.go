package oppgave

import (
	"errors"
	"fmt"
)

var ErrPurgeNotAllowed = errors.New("oppgave: purging tasks is only allowed in dev")

// APIError is a non-success response from the task system.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oppgave: %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}
