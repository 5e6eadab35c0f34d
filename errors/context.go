package errors

// WithContext returns a copy of err with one more context field.
// Existing fields are preserved. A non-PathError is converted to one with
// CodeUnknown. Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "container", c.Name())
func WithContext(err error, key string, value any) PathError {
	return WithContextMap(err, map[string]any{key: value})
}

// WithContextMap returns a copy of err with the given context fields merged in.
// New fields override existing ones with the same key. Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]any) PathError {
	if err == nil {
		return nil
	}

	base := asPathError(err)
	merged := copyContext(base.context)
	if merged == nil {
		merged = make(map[string]any, len(ctx))
	}
	for k, v := range ctx {
		merged[k] = v
	}

	out := *base
	out.context = merged
	return &out
}

// WithClassification returns a copy of err with the given classification.
// Returns nil if err is nil.
//
// Example:
//
//	// A listing that raced with a removal is worth repeating.
//	err = errors.WithClassification(err, errors.ClassificationRetryable)
func WithClassification(err error, classification ErrorClassification) PathError {
	if err == nil {
		return nil
	}

	out := *asPathError(err)
	out.context = copyContext(out.context)
	out.classification = classification
	return &out
}

// asPathError returns the outermost *pathError in err's chain, or converts err
// to one with CodeUnknown.
func asPathError(err error) *pathError {
	var pe *pathError
	if As(err, &pe) {
		return pe
	}
	return &pathError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
