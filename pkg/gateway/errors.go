package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the service has no session for us.
	ErrUnauthorized = errors.New("gateway: not logged in")
	// ErrRejected is returned when the service answered success=false.
	ErrRejected = errors.New("gateway: request rejected")
)

// Error describes a failed remote operation. Status is zero for transport
// failures that never produced a response.
type Error struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": " + e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnsupported reports whether err says the service does not offer the
// operation at all (404 or 405).
func IsUnsupported(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Status == http.StatusNotFound || e.Status == http.StatusMethodNotAllowed
}
