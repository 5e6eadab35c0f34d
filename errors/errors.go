package errors

// PathError extends the standard error interface with structured information
// about a failed path operation.
//
// PathError provides an error code for categorization, a classification for
// retry decisions, the operation and path involved, contextual metadata, and
// compatibility with standard library error handling (errors.Is, errors.As,
// errors.Unwrap).
type PathError interface {
	error

	// Code returns the error code identifying the failure condition.
	Code() ErrorCode

	// Classification returns whether the error is retryable or permanent.
	Classification() ErrorClassification

	// Op returns the operation that failed, or "" if none was recorded.
	Op() string

	// Path returns the path the operation acted on, or "" if none was recorded.
	Path() string

	// Message returns the human-readable error message.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]any

	// Unwrap returns the underlying backend failure.
	// Returns nil if this error does not wrap another error.
	Unwrap() error
}

// Context keys recorded by ForPath.
const (
	ContextOp   = "op"
	ContextPath = "path"
)
