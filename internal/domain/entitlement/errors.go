package entitlement

import "fmt"

// ServiceError indicates a failed call to the remote entitlement service:
// transport failure, auth rejection, or a non-2xx server response.
type ServiceError struct {
	Op         string // e.g. "get account", "bind"
	StatusCode int    // 0 when the request never reached the server
	Err        error
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("entitlement service: %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("entitlement service: %s failed: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
