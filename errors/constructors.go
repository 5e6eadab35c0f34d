package errors

import "fmt"

// New creates a new PathError with the given code and message.
// The error classification is determined by the error code using default mappings.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidArgument, "empty pattern")
func New(code ErrorCode, message string) PathError {
	return &pathError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a new PathError with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidArgument, "invalid suffix %q", suffix)
func Newf(code ErrorCode, format string, args ...any) PathError {
	return New(code, fmt.Sprintf(format, args...))
}

// ForPath creates a PathError describing a failed operation on a path.
// The message is "<op> <path>" and both values are recorded as context.
// cause may be nil.
//
// Example:
//
//	return errors.ForPath(errors.CodeNotFound, "read", "/etc/missing", err)
func ForPath(code ErrorCode, op, path string, cause error) PathError {
	classification := getDefaultClassification(code)
	var pathErr PathError
	if cause != nil && As(cause, &pathErr) && pathErr.Code() == code {
		classification = pathErr.Classification()
	}

	return &pathError{
		code:           code,
		classification: classification,
		message:        op + " " + path,
		context:        map[string]any{ContextOp: op, ContextPath: path},
		cause:          cause,
	}
}
