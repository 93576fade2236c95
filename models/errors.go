package models

import "fmt"

// ValidationError reports a missing or malformed field in a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidTimeRangeError means the end instant is not after the start
// instant once any next-day rollover has been applied.
type InvalidTimeRangeError struct{}

func (e *InvalidTimeRangeError) Error() string {
	return "end time must be after start time"
}

// ForbiddenError means the caller's role or ownership does not allow
// the requested operation.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return "not authorized"
	}
	return e.Reason
}

// InvalidStateError means the log's current status does not permit the
// requested transition or mutation.
type InvalidStateError struct {
	Current   LogStatus
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a log in status %q", e.Operation, e.Current)
}

// NotFoundError means no record exists for the given id.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "record not found"
	}
	return e.Resource + " not found"
}
