package sim

import "fmt"

// A ValidationError reports rejected input, such as a nameless event or a
// scheduling time that is not in the future. It is only produced by queues
// and registries operating in strict mode.
type ValidationError struct {
	Msg string
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Error returns the message of the error.
func (e *ValidationError) Error() string {
	return e.Msg
}

// An InvariantViolation reports a broken internal invariant. It indicates a
// defect rather than bad input.
type InvariantViolation struct {
	Msg string
}

// NewInvariantViolation creates an InvariantViolation with a formatted
// message.
func NewInvariantViolation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Msg: fmt.Sprintf(format, args...)}
}

// Error returns the message of the error.
func (e *InvariantViolation) Error() string {
	return e.Msg
}

// A HandlerError wraps an error returned, or a panic raised, by one entity
// handler, together with where it happened. The Key is the event name for
// event handlers and the other entity's name for lifecycle handlers.
type HandlerError struct {
	EntityName string
	EntityID   string
	Key        string
	Err        error
}

// Error returns the message of the error.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler on entity %s (id %s) for %q failed: %v",
		e.EntityName, e.EntityID, e.Key, e.Err)
}

// Unwrap returns the underlying handler error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
