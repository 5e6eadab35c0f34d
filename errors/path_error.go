package errors

import (
	"fmt"
	"io/fs"
)

// pathError is the concrete implementation of PathError.
// It is private to enforce construction through package functions.
type pathError struct {
	code           ErrorCode
	classification ErrorClassification
	message        string
	context        map[string]any
	cause          error
}

// Error returns the string representation of the error.
// Format: "[CODE] message" or "[CODE] message: cause" if cause is present.
func (e *pathError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code returns the error code.
func (e *pathError) Code() ErrorCode {
	return e.code
}

// Classification returns the error classification.
func (e *pathError) Classification() ErrorClassification {
	return e.classification
}

// Op returns the recorded operation name.
func (e *pathError) Op() string {
	s, _ := e.context[ContextOp].(string)
	return s
}

// Path returns the recorded path.
func (e *pathError) Path() string {
	s, _ := e.context[ContextPath].(string)
	return s
}

// Message returns the error message.
func (e *pathError) Message() string {
	return e.message
}

// Context returns a copy of the context map.
func (e *pathError) Context() map[string]any {
	return copyContext(e.context)
}

// Unwrap returns the wrapped error for standard library compatibility.
func (e *pathError) Unwrap() error {
	return e.cause
}

// Is reports whether the error code corresponds to one of the io/fs sentinel
// errors, so callers can use errors.Is(err, fs.ErrNotExist) regardless of backend.
func (e *pathError) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return e.code == CodeNotFound
	case fs.ErrExist:
		return e.code == CodeAlreadyExists
	case fs.ErrPermission:
		return e.code == CodePermissionDenied
	case fs.ErrInvalid:
		return e.code == CodeInvalidArgument
	}
	return false
}

func copyContext(ctx map[string]any) map[string]any {
	if ctx == nil {
		return nil
	}
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
