package api

import "fmt"

// ValidationError reports a malformed create-request call. It is always
// surfaced synchronously to the caller; no file is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid approval request: %s: %s", e.Field, e.Reason)
}

// DuplicateIDError reports that request id generation collided with an
// existing record after exhausting retries. Fatal to the single creation
// call only.
type DuplicateIDError struct {
	RequestID string
	Attempts  int
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("request id %q already exists after %d attempts", e.RequestID, e.Attempts)
}
