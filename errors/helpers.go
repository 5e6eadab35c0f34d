package errors

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard library errors.As.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join is a convenience wrapper around the standard library errors.Join.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// GetCode extracts the ErrorCode from the outermost PathError in err's chain.
// Returns CodeUnknown if the error is nil or not a PathError.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeDirectoryNotEmpty {
//	    return pathops.RemovePath(p, true)
//	}
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var pathErr PathError
	if stderrors.As(err, &pathErr) {
		return pathErr.Code()
	}

	return CodeUnknown
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// GetClassification extracts the ErrorClassification from an error.
// Returns ClassificationPermanent if the error is nil or not a PathError.
func GetClassification(err error) ErrorClassification {
	if err == nil {
		return ClassificationPermanent
	}

	var pathErr PathError
	if stderrors.As(err, &pathErr) {
		return pathErr.Classification()
	}

	return ClassificationPermanent
}

// IsRetryable returns true if the error is classified as retryable.
// Returns false if the error is nil or not a PathError.
func IsRetryable(err error) bool {
	return GetClassification(err).IsRetryable()
}
