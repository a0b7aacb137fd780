package alternatives

// GenerationError wraps any failure raised by the external generator so
// the batch driver's catch-and-skip logic does not have to enumerate
// client-internal error types.
type GenerationError struct {
	Cause error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return "generate alternatives: " + e.Cause.Error()
}

// Unwrap exposes the underlying cause.
func (e *GenerationError) Unwrap() error { return e.Cause }
