package remote

import "fmt"

// ServiceError wraps any failure of the remote analyze/optimize calls:
// transport errors, timeouts, malformed or schema-invalid responses,
// and responses that report success=false.
type ServiceError struct {
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("remote service: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("remote service: %s", e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
