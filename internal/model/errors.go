package model

import "fmt"

// ValidationError reports malformed source data. It is recoverable only by
// fixing the order or shipment records it names.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid shipment data: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConsistencyError reports an internal invariant violation discovered after
// aggregation or at render time. It indicates a bug, not bad input.
type ConsistencyError struct {
	Field   string
	Message string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("internal error: %s: %s", e.Field, e.Message)
}

// NewConsistencyError creates a new consistency error
func NewConsistencyError(field, message string) *ConsistencyError {
	return &ConsistencyError{Field: field, Message: message}
}

// ResourceError reports a missing or unreadable embedded asset (logo or
// signature image). Fatal for the request; never retried.
type ResourceError struct {
	Path  string
	Cause error
}

func (e *ResourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resource unavailable: %s (%v)", e.Path, e.Cause)
	}
	return fmt.Sprintf("resource unavailable: %s", e.Path)
}

func (e *ResourceError) Unwrap() error {
	return e.Cause
}

// NewResourceError creates a new resource error
func NewResourceError(path string, cause error) *ResourceError {
	return &ResourceError{Path: path, Cause: cause}
}
