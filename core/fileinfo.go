package core

import (
	"io/fs"
	"time"
)

// FileKind classifies the target of a path after following symlinks.
type FileKind int

const (
	// KindOther covers anything that is not one of the kinds below,
	// including device nodes and unresolved symlinks.
	KindOther FileKind = iota
	// KindRegular is a regular file.
	KindRegular
	// KindDirectory is a directory.
	KindDirectory
	// KindFIFO is a named pipe.
	KindFIFO
	// KindSocket is a Unix domain socket.
	KindSocket
)

// String returns a string representation of the FileKind.
func (k FileKind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	case KindFIFO:
		return "fifo"
	case KindSocket:
		return "socket"
	default:
		return "other"
	}
}

// KindOf classifies an fs.FileMode type.
func KindOf(mode fs.FileMode) FileKind {
	switch {
	case mode.IsRegular():
		return KindRegular
	case mode.IsDir():
		return KindDirectory
	case mode&fs.ModeNamedPipe != 0:
		return KindFIFO
	case mode&fs.ModeSocket != 0:
		return KindSocket
	default:
		return KindOther
	}
}

// FileInfo is the normalized metadata record produced by every backend.
// A FileInfo is a snapshot taken when it was requested; backends never cache it.
type FileInfo struct {
	// Path is the path the record was produced for.
	Path string
	// Name is the final component of Path.
	Name string
	// Kind is the file type after following symlinks.
	Kind FileKind
	// Permissions holds the permission bits only (fs.ModePerm).
	Permissions fs.FileMode
	// User is the owning user's name, or "" if it could not be resolved.
	User string
	// Group is the owning group's name, or "" if it could not be resolved.
	Group string
	// Size is the size in bytes.
	Size int64
	// ModTime is the last modification time.
	ModTime time.Time
}

// IsDir reports whether the record describes a directory.
func (fi *FileInfo) IsDir() bool {
	return fi.Kind == KindDirectory
}

// IsRegular reports whether the record describes a regular file.
func (fi *FileInfo) IsRegular() bool {
	return fi.Kind == KindRegular
}
