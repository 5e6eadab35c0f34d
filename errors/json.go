package errors

import (
	"encoding/json"
)

// ErrorResponse is a flat, serializable representation of an error.
// The wrapped error chain is excluded; Code, Message and Context carry the
// information a caller needs.
type ErrorResponse struct {
	// Code is the error code identifying the failure condition.
	Code string `json:"code"`

	// Message is the human-readable error message.
	Message string `json:"message"`

	// Classification indicates whether the error is retryable or permanent.
	Classification string `json:"classification"`

	// Context contains optional metadata such as op, path and container.
	Context map[string]any `json:"context,omitempty"`
}

// ToJSON converts any error to an ErrorResponse suitable for JSON serialization.
// Returns nil if err is nil.
//
// For standard errors, CodeUnknown, ClassificationPermanent and the error text are used.
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	message := err.Error()
	var context map[string]any

	var pathErr PathError
	if As(err, &pathErr) {
		message = pathErr.Message()
		context = pathErr.Context()
	}

	return &ErrorResponse{
		Code:           string(GetCode(err)),
		Message:        message,
		Classification: string(GetClassification(err)),
		Context:        context,
	}
}

// MarshalJSON implements json.Marshaler so a PathError can be encoded directly.
func (e *pathError) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(&ErrorResponse{
		Code:           string(e.code),
		Message:        e.message,
		Classification: string(e.classification),
		Context:        e.context,
	})
	if err != nil {
		return nil, Wrap(err, CodeUnknown, "marshal error response")
	}
	return data, nil
}
