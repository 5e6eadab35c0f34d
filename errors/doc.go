// Package errors provides the structured error taxonomy shared by every path backend.
//
// Each failure surfaced by a path operation carries an error code naming the
// filesystem condition (not found, already exists, permission denied, ...), a
// classification (retryable or permanent), the operation and path involved, and
// the original backend failure as its cause. Errors stay compatible with the
// standard library: errors.Is, errors.As and errors.Unwrap all work, and the
// common codes also match the io/fs sentinels:
//
//	_, err := p.ReadBytes()
//	if errors.Is(err, fs.ErrNotExist) {
//	    // same as errors.GetCode(err) == errors.CodeNotFound
//	}
//
// # Creating errors
//
// Backends report failures with ForPath, which records the operation and path as
// context and formats the message as "<op> <path>":
//
//	return errors.ForPath(errors.CodeNotADirectory, "mkdir", "/etc/hosts/x", cause)
//
// General purpose constructors mirror the usual wrapping helpers:
//
//	err := errors.New(errors.CodeInvalidArgument, "empty pattern")
//	err = errors.Wrapf(cause, errors.CodeDecoding, "read %s as text", p)
//	err = errors.WithContext(err, "container", "workload")
//
// # Classification
//
// Only CodeUnreachable is retryable by default. The library itself never
// retries; the classification exists so that callers can decide.
//
// # Serialization
//
// ToJSON converts any error to a flat ErrorResponse with the code, message,
// classification and context. The cause chain is not serialized.
package errors
