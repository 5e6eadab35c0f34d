package errors

// ErrorClassification indicates whether an error may succeed if attempted again.
type ErrorClassification string

const (
	// ClassificationRetryable indicates temporary failures that may succeed on retry.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent indicates failures that will not succeed on retry.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps error codes to their default classification.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeUnreachable: ClassificationRetryable,

	CodeNotFound:          ClassificationPermanent,
	CodeAlreadyExists:     ClassificationPermanent,
	CodeNotADirectory:     ClassificationPermanent,
	CodeIsADirectory:      ClassificationPermanent,
	CodeDirectoryNotEmpty: ClassificationPermanent,
	CodeTooManySymlinks:   ClassificationPermanent,
	CodePermissionDenied:  ClassificationPermanent,
	CodeLookupFailed:      ClassificationPermanent,
	CodeDecoding:          ClassificationPermanent,
	CodeInvalidArgument:   ClassificationPermanent,
	CodeUnknown:           ClassificationPermanent,
}

// getDefaultClassification returns the default classification for an error code.
// Returns ClassificationPermanent if the code is not in the map.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
