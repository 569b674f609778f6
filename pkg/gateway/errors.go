package gateway

import (
	"errors"
	"fmt"
)

var (
	ErrBackendUnavailable = errors.New("detection backend unavailable")
	ErrInvalidResponse    = errors.New("invalid response from detection backend")
)

// HTTPError is returned when the backend answers with a non-2xx status.
// Message holds the backend "error" field when there is one.
type HTTPError struct {
	Status  int
	Message string
	Body    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend HTTP %d: %s", e.Status, e.Body)
}

// IsHTTPError reports whether err carries a backend status equal to status.
func IsHTTPError(err error, status int) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status == status
	}
	return false
}
