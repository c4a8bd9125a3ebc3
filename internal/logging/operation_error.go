package logging

import "fmt"

// OperationError records which upload step failed and for which attempt.
// The attempt id matches the X-Request-ID header sent to the recognizer.
type OperationError struct {
	Operation string
	AttemptID string
	Err       error
}

func (e *OperationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.AttemptID == "" {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s (attempt_id=%s): %v", e.Operation, e.AttemptID, e.Err)
}

// Unwrap exposes the cause so callers can match StatusError or ErrMalformedPayload.
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewOperationError tags err with the step and attempt. A nil err stays nil.
func NewOperationError(operation, attemptID string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, AttemptID: attemptID, Err: err}
}
