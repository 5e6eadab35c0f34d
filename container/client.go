package container

import (
	"context"
	"fmt"
	"io/fs"
	"time"
)

// Client is the file-management protocol spoken by a remote agent. The
// container package never opens or closes the underlying connection; a Client
// is borrowed for the lifetime of the Container that wraps it.
//
// Implementations report failures as *Error or *ConnectionError.
type Client interface {
	// ListFiles returns the entries of a directory, or the path itself when
	// it is not a directory or when Itself is set.
	ListFiles(ctx context.Context, opts ListFilesOptions) ([]*FileInfo, error)

	// ReadFile returns the contents of a regular file.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFile creates or replaces a file.
	WriteFile(ctx context.Context, opts WriteFileOptions) error

	// MakeDir creates a directory.
	MakeDir(ctx context.Context, opts MakeDirOptions) error

	// RemovePath removes a file or directory.
	RemovePath(ctx context.Context, opts RemovePathOptions) error
}

// ListFilesOptions configures Client.ListFiles.
type ListFilesOptions struct {
	// Path is the absolute path to list.
	Path string
	// Pattern, if set, filters entries by name using path.Match syntax.
	Pattern string
	// Itself returns the directory's own entry instead of its children.
	Itself bool
}

// WriteFileOptions configures Client.WriteFile.
type WriteFileOptions struct {
	Path string
	Data []byte
	// MakeDirs creates missing parent directories.
	MakeDirs    bool
	Permissions fs.FileMode
	// User and Group are names; empty leaves the agent's default.
	User  string
	Group string
}

// MakeDirOptions configures Client.MakeDir.
type MakeDirOptions struct {
	Path string
	// MakeParents creates missing parents and accepts an existing directory.
	MakeParents bool
	Permissions fs.FileMode
	User        string
	Group       string
}

// RemovePathOptions configures Client.RemovePath.
type RemovePathOptions struct {
	Path string
	// Recursive removes a directory and its contents. Removing a missing
	// path recursively succeeds.
	Recursive bool
}

// FileType is the entry type reported by the agent.
type FileType string

// File types reported by agents.
const (
	TypeFile      FileType = "file"
	TypeDirectory FileType = "directory"
	TypeSymlink   FileType = "symlink"
	TypeSocket    FileType = "socket"
	TypeNamedPipe FileType = "named-pipe"
	TypeDevice    FileType = "device"
	TypeUnknown   FileType = "unknown"
)

// FileInfo describes one entry returned by Client.ListFiles.
type FileInfo struct {
	// Path is the absolute path of the entry.
	Path         string
	Name         string
	Type         FileType
	Size         int64
	Permissions  fs.FileMode
	LastModified time.Time
	// UserID and GroupID are nil when the agent does not report them.
	UserID  *int
	User    string
	GroupID *int
	Group   string
}

// ErrorKind categorizes an agent failure.
type ErrorKind string

// Error kinds reported by agents. An empty kind is a request-level failure
// described by Error.StatusCode.
const (
	KindNotFound         ErrorKind = "not-found"
	KindPermissionDenied ErrorKind = "permission-denied"
	KindGenericFileError ErrorKind = "generic-file-error"
)

// Error is a structured failure returned by the agent. It never escapes the
// container package untranslated.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("agent error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ConnectionError reports that the agent could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "cannot reach agent: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
