package local

import (
	"path/filepath"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
	"github.com/jmgilman/go/pathops/internal/pattern"
	"github.com/jmgilman/go/pathops/internal/posixpath"
)

// Path is a location on the local filesystem. Paths are created with New or
// FS.Path; a zero Path refers to "." on the default root.
type Path struct {
	fs   *FS
	path string
}

var _ core.Path = Path{}

func clean(path string) string {
	return posixpath.Clean(filepath.ToSlash(path))
}

func (p Path) root() *FS {
	if p.fs == nil {
		return defaultFS
	}
	return p.fs
}

func (p Path) with(path string) Path {
	return Path{fs: p.fs, path: path}
}

// String returns the normalized path.
func (p Path) String() string {
	if p.path == "" {
		return "."
	}
	return p.path
}

// Backend returns core.BackendLocal.
func (p Path) Backend() core.Backend {
	return core.BackendLocal
}

// Modes returns the default permissions of the path's root.
func (p Path) Modes() core.Modes {
	return p.root().modes
}

// Equal reports whether other is a local path with the same normalized form.
// The zero Path equals New(".").
func (p Path) Equal(other core.Path) bool {
	o, ok := other.(Path)
	return ok && o.String() == p.String()
}

// Compare orders two local paths by their components.
func (p Path) Compare(other core.Path) (int, error) {
	o, ok := other.(Path)
	if !ok {
		return 0, errors.Newf(errors.CodeInvalidArgument,
			"unsupported comparison between %s path %q and %s path %q",
			p.Backend(), p.String(), other.Backend(), other.String())
	}
	return posixpath.Compare(p.String(), o.String()), nil
}

// Join appends segments to the path.
func (p Path) Join(segments ...string) core.Path {
	return p.with(posixpath.Join(p.String(), segments...))
}

// IsAbsolute reports whether the path is absolute.
func (p Path) IsAbsolute() bool {
	return posixpath.IsAbs(p.String())
}

// Match reports whether the path matches pattern.
func (p Path) Match(pat string) (bool, error) {
	return pattern.Match(p.String(), pat)
}

// WithName returns the path with its final component replaced.
func (p Path) WithName(name string) (core.Path, error) {
	out, err := posixpath.WithName(p.String(), name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidArgument, "with name %q on %s", name, p.String())
	}
	return p.with(out), nil
}

// WithSuffix returns the path with its final suffix replaced.
func (p Path) WithSuffix(suffix string) (core.Path, error) {
	out, err := posixpath.WithSuffix(p.String(), suffix)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidArgument, "with suffix %q on %s", suffix, p.String())
	}
	return p.with(out), nil
}

// Parent returns the logical parent.
func (p Path) Parent() core.Path {
	return p.with(posixpath.Dir(p.String()))
}

// Parents returns every logical ancestor, nearest first.
func (p Path) Parents() []core.Path {
	parents := posixpath.Parents(p.String())
	out := make([]core.Path, len(parents))
	for i, s := range parents {
		out[i] = p.with(s)
	}
	return out
}

// Parts returns the path components.
func (p Path) Parts() []string {
	return posixpath.Parts(p.String())
}

// Name returns the final component.
func (p Path) Name() string {
	return posixpath.Name(p.String())
}

// Suffix returns the final dotted extension of Name.
func (p Path) Suffix() string {
	return posixpath.Suffix(p.Name())
}

// Suffixes returns every dotted extension of Name.
func (p Path) Suffixes() []string {
	return posixpath.Suffixes(p.Name())
}

// Stem returns Name without its final suffix.
func (p Path) Stem() string {
	return posixpath.Stem(p.Name())
}

// abs resolves the path against the working directory.
func (p Path) abs() (string, error) {
	if p.IsAbsolute() {
		return p.String(), nil
	}
	abs, err := filepath.Abs(filepath.FromSlash(p.String()))
	if err != nil {
		return "", translate("abs", p.String(), err)
	}
	return filepath.ToSlash(abs), nil
}
