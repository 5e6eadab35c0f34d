// Package pattern implements the glob-lite matching shared by every backend:
// right-anchored Match and a bounded, non-recursive Glob walk.
//
// Patterns use shell wildcards per path component ("*", "?", "[...]", with
// "[!...]" accepted for negation). The recursive wildcard "**" is rejected.
package pattern

import (
	"iter"
	"path"
	"strings"

	"github.com/jmgilman/go/pathops/errors"
	"github.com/jmgilman/go/pathops/internal/posixpath"
)

// Recursive is the unsupported recursive wildcard component.
const Recursive = "**"

// Entry is a single directory child reported by a Lister.
type Entry struct {
	Name  string
	IsDir bool
}

// Lister returns the children of dir whose names match the single-component
// pattern seg, given in path.Match syntax. Backends that filter server-side may
// pass seg along; the walker re-checks every name, so a Lister may also return
// unfiltered entries.
type Lister func(dir, seg string) ([]Entry, error)

// Split validates pattern and returns its components.
func Split(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, errors.New(errors.CodeInvalidArgument, "empty pattern")
	}
	parts := posixpath.Parts(pattern)
	if len(parts) == 0 {
		return nil, errors.Newf(errors.CodeInvalidArgument, "empty pattern %q", pattern)
	}
	for _, part := range parts {
		if part == Recursive {
			return nil, errors.Newf(errors.CodeInvalidArgument, "recursive wildcard %q is not supported: %q", Recursive, pattern)
		}
		if _, err := path.Match(translate(part), ""); err != nil {
			return nil, errors.Wrapf(err, errors.CodeInvalidArgument, "malformed pattern %q", pattern)
		}
	}
	return parts, nil
}

// Match reports whether p matches pattern. Relative patterns are matched from
// the right, one component at a time; absolute patterns must match every component.
func Match(p, pattern string) (bool, error) {
	patParts, err := Split(pattern)
	if err != nil {
		return false, err
	}
	parts := posixpath.Parts(p)

	if patParts[0] == posixpath.Separator {
		if len(parts) != len(patParts) || parts[0] != posixpath.Separator {
			return false, nil
		}
		patParts, parts = patParts[1:], parts[1:]
	} else if len(patParts) > len(parts) {
		return false, nil
	}

	offset := len(parts) - len(patParts)
	for i, seg := range patParts {
		if !matchComponent(seg, parts[offset+i]) {
			return false, nil
		}
	}
	return true, nil
}

// Glob yields every path below root matching the relative pattern, descending
// one directory level per pattern component. Absolute or recursive patterns
// yield a single invalid-argument error.
//
// A root that is not a directory yields nothing. Listing failures on the root
// are yielded; failures below the root that mean "no such directory" are
// skipped, and anything else is yielded and ends the walk.
func Glob(root, pattern string, list Lister) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		parts, err := Split(pattern)
		if err == nil && parts[0] == posixpath.Separator {
			err = errors.Newf(errors.CodeInvalidArgument, "non-relative pattern %q is not supported", pattern)
		}
		if err != nil {
			yield("", err)
			return
		}

		w := walker{list: list, parts: parts, yield: yield}
		w.walk(root, 0)
	}
}

type walker struct {
	list  Lister
	parts []string
	yield func(string, error) bool
}

// walk returns false once iteration must stop.
func (w *walker) walk(dir string, depth int) bool {
	seg := w.parts[depth]
	entries, err := w.list(dir, translate(seg))
	if err != nil {
		switch errors.GetCode(err) {
		case errors.CodeNotADirectory:
			return true
		case errors.CodeNotFound, errors.CodePermissionDenied:
			if depth > 0 {
				return true
			}
		}
		w.yield("", err)
		return false
	}

	last := depth == len(w.parts)-1
	for _, e := range entries {
		if !matchComponent(seg, e.Name) {
			continue
		}
		child := posixpath.Join(dir, e.Name)
		if last {
			if !w.yield(child, nil) {
				return false
			}
			continue
		}
		if e.IsDir && !w.walk(child, depth+1) {
			return false
		}
	}
	return true
}

func matchComponent(seg, name string) bool {
	ok, err := path.Match(translate(seg), name)
	return err == nil && ok
}

// translate converts shell-style "[!...]" negation to the "[^...]" form path.Match expects.
func translate(seg string) string {
	if !strings.Contains(seg, "[!") {
		return seg
	}
	return strings.ReplaceAll(seg, "[!", "[^")
}
