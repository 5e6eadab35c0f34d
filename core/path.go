package core

import "iter"

// Path is the full capability set every backend implements.
//
// Paths are immutable values. Derived paths (Join, Parent, WithName, ...) share
// the backend root of the path they were derived from.
type Path interface {
	PurePath
	ReadPath
	WritePath
}

// PurePath defines lexical operations. None of them touch the filesystem.
type PurePath interface {
	// String returns the normalized path in the backend's own namespace.
	String() string

	// Backend reports which implementation the path belongs to.
	Backend() Backend

	// Equal reports whether other names the same location on the same
	// backend root. Paths from different backends are never equal.
	Equal(other Path) bool

	// Compare orders paths component by component, returning -1, 0 or +1.
	// Paths from different backends or different containers cannot be
	// ordered and yield an invalid-argument error.
	Compare(other Path) (int, error)

	// Join appends each segment. An absolute segment replaces everything before it.
	Join(segments ...string) Path

	// IsAbsolute reports whether the path is absolute.
	IsAbsolute() bool

	// Match reports whether the path matches pattern. Relative patterns
	// match from the right; absolute patterns must match the whole path.
	// The recursive wildcard "**" yields an invalid-argument error.
	Match(pattern string) (bool, error)

	// WithName returns the path with its final component replaced.
	WithName(name string) (Path, error)

	// WithSuffix returns the path with its final suffix replaced. The suffix
	// must be empty or start with "."; an empty suffix removes it.
	WithSuffix(suffix string) (Path, error)

	// Parent returns the logical parent. The parent of the root is the root.
	Parent() Path

	// Parents returns every logical ancestor, nearest first.
	Parents() []Path

	// Parts returns the path components; an absolute path starts with "/".
	Parts() []string

	// Name returns the final component, or "" for the root.
	Name() string

	// Suffix returns the final dotted extension of Name, including the dot.
	Suffix() string

	// Suffixes returns every dotted extension of Name.
	Suffixes() []string

	// Stem returns Name without its final suffix.
	Stem() string
}

// ReadPath defines operations that query the filesystem.
type ReadPath interface {
	// ReadBytes returns the full contents of the file.
	ReadBytes() ([]byte, error)

	// ReadText returns the full contents of the file as UTF-8 text.
	// Invalid UTF-8 yields a decoding error.
	ReadText() (string, error)

	// IterDir yields the children of the directory, excluding "." and "..",
	// in no particular order. A missing path or a non-directory yields a
	// single error.
	IterDir() iter.Seq2[Path, error]

	// Glob yields the paths below this directory matching a relative,
	// non-recursive pattern. Absolute patterns and "**" yield a single
	// invalid-argument error.
	Glob(pattern string) iter.Seq2[Path, error]

	// Owner returns the name of the user owning the file.
	Owner() (string, error)

	// Group returns the name of the group owning the file.
	Group() (string, error)

	// Exists reports whether the path exists, following symlinks.
	Exists() (bool, error)

	// IsDir reports whether the path is a directory, following symlinks.
	IsDir() (bool, error)

	// IsFile reports whether the path is a regular file, following symlinks.
	IsFile() (bool, error)

	// IsFIFO reports whether the path is a named pipe, following symlinks.
	IsFIFO() (bool, error)

	// IsSocket reports whether the path is a Unix socket, following symlinks.
	IsSocket() (bool, error)
}

// WritePath defines operations that modify the filesystem.
type WritePath interface {
	// WriteBytes creates or truncates the file and writes data. The file's
	// permissions are set to exactly the requested mode, and ownership is
	// applied when WithUser or WithGroup is given. Returns the number of
	// bytes written.
	WriteBytes(data []byte, opts ...Option) (int, error)

	// WriteText is WriteBytes for UTF-8 text.
	WriteText(data string, opts ...Option) (int, error)

	// Mkdir creates the directory. See WithParents and WithExistOK.
	// Intermediate directories created by WithParents always receive the
	// backend's default directory mode; only the leaf receives the requested
	// mode and ownership.
	Mkdir(opts ...Option) error
}

// Stater is implemented by paths that can produce a normalized FileInfo.
type Stater interface {
	// Info returns fresh metadata for the path, following symlinks.
	Info() (*FileInfo, error)
}

// Remover is implemented by paths that can be removed.
type Remover interface {
	// Remove deletes the path. Without recursion the path must be a file or
	// an empty directory. With recursion the whole subtree is removed and a
	// missing path is not an error.
	Remove(recursive bool) error
}

// Configured is implemented by paths that expose their root's default modes.
type Configured interface {
	Modes() Modes
}
