package errors

// ErrorCode represents a specific filesystem failure condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates the path, or one of its ancestors, does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates the target of a create operation already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeNotADirectory indicates a directory was required but something else was found.
	CodeNotADirectory ErrorCode = "NOT_A_DIRECTORY"

	// CodeIsADirectory indicates a non-directory was required but a directory was found.
	CodeIsADirectory ErrorCode = "IS_A_DIRECTORY"

	// CodeDirectoryNotEmpty indicates a non-recursive removal of a populated directory.
	CodeDirectoryNotEmpty ErrorCode = "DIRECTORY_NOT_EMPTY"

	// CodeTooManySymlinks indicates symlink resolution exceeded the system limit.
	CodeTooManySymlinks ErrorCode = "TOO_MANY_SYMLINKS"

	// Permission errors.

	// CodePermissionDenied indicates the backend refused access to the path.
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// CodeLookupFailed indicates a user or group name could not be resolved.
	CodeLookupFailed ErrorCode = "LOOKUP_FAILED"

	// Transport errors.

	// CodeUnreachable indicates the remote agent could not be contacted.
	CodeUnreachable ErrorCode = "CONNECTION_UNREACHABLE"

	// Validation errors.

	// CodeDecoding indicates file contents were not valid UTF-8 text.
	CodeDecoding ErrorCode = "DECODING_ERROR"

	// CodeInvalidArgument indicates a malformed pattern, name, suffix or path.
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// Generic errors.

	// CodeUnknown indicates a failure that could not be classified.
	CodeUnknown ErrorCode = "UNKNOWN"
)
