package container

import (
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
	"github.com/jmgilman/go/pathops/internal/pattern"
	"github.com/jmgilman/go/pathops/internal/posixpath"
)

// Path is an absolute location inside a container. Create paths with
// Container.Path; derived paths share the same *Container.
type Path struct {
	c    *Container
	path string
}

var _ core.Path = Path{}

func (p Path) with(path string) Path {
	return Path{c: p.c, path: path}
}

// Container returns the container the path belongs to.
func (p Path) Container() *Container {
	return p.c
}

// String returns the normalized absolute path.
func (p Path) String() string {
	return p.path
}

// Backend returns core.BackendContainer.
func (p Path) Backend() core.Backend {
	return core.BackendContainer
}

// Modes returns the default permissions of the path's container.
func (p Path) Modes() core.Modes {
	return p.c.modes
}

// Equal reports whether other is a path in the same container with the same
// normalized form.
func (p Path) Equal(other core.Path) bool {
	o, ok := other.(Path)
	return ok && o.c == p.c && o.path == p.path
}

// Compare orders two paths of the same container by their components.
func (p Path) Compare(other core.Path) (int, error) {
	o, ok := other.(Path)
	switch {
	case !ok:
		return 0, errors.Newf(errors.CodeInvalidArgument,
			"unsupported comparison between %s path %q and %s path %q",
			p.Backend(), p.path, other.Backend(), other.String())
	case o.c != p.c:
		return 0, errors.Newf(errors.CodeInvalidArgument,
			"unsupported comparison between paths of containers %q and %q", p.c.name, o.c.name)
	}
	return posixpath.Compare(p.path, o.path), nil
}

// Join appends segments to the path.
func (p Path) Join(segments ...string) core.Path {
	return p.with(posixpath.Join(p.path, segments...))
}

// IsAbsolute always returns true.
func (p Path) IsAbsolute() bool {
	return true
}

// Match reports whether the path matches pattern.
func (p Path) Match(pat string) (bool, error) {
	return pattern.Match(p.path, pat)
}

// WithName returns the path with its final component replaced.
func (p Path) WithName(name string) (core.Path, error) {
	out, err := posixpath.WithName(p.path, name)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidArgument, "with name %q on %s", name, p.path)
	}
	return p.with(out), nil
}

// WithSuffix returns the path with its final suffix replaced.
func (p Path) WithSuffix(suffix string) (core.Path, error) {
	out, err := posixpath.WithSuffix(p.path, suffix)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidArgument, "with suffix %q on %s", suffix, p.path)
	}
	return p.with(out), nil
}

// Parent returns the logical parent. The parent of "/" is "/".
func (p Path) Parent() core.Path {
	return p.with(posixpath.Dir(p.path))
}

// Parents returns every logical ancestor, nearest first.
func (p Path) Parents() []core.Path {
	parents := posixpath.Parents(p.path)
	out := make([]core.Path, len(parents))
	for i, s := range parents {
		out[i] = p.with(s)
	}
	return out
}

// Parts returns the path components, starting with "/".
func (p Path) Parts() []string {
	return posixpath.Parts(p.path)
}

// Name returns the final component.
func (p Path) Name() string {
	return posixpath.Name(p.path)
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
