package errors

import "fmt"

// Wrap wraps an error with a code and message while preserving the original error.
// The wrapped error is accessible via Unwrap() and compatible with errors.Is and errors.As.
//
// If the wrapped error is a PathError, its classification is preserved.
// Returns nil if err is nil.
//
// Example:
//
//	if err := utf8Check(data); err != nil {
//	    return errors.Wrap(err, errors.CodeDecoding, "read text")
//	}
func Wrap(err error, code ErrorCode, message string) PathError {
	return WrapWithContext(err, code, message, nil)
}

// Wrapf wraps an error with a formatted message. Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...any) PathError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps an error and attaches context metadata in a single operation.
// The context map is copied. Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]any) PathError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var pathErr PathError
	if As(err, &pathErr) {
		classification = pathErr.Classification()
	}

	return &pathError{
		code:           code,
		classification: classification,
		message:        message,
		context:        copyContext(ctx),
		cause:          err,
	}
}
