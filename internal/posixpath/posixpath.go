// Package posixpath implements the pure, lexical half of the path contract:
// normalization, joining and name/suffix decomposition of slash-separated paths.
//
// Normalization collapses repeated separators, drops "." components and
// trailing slashes, but keeps ".." components untouched since resolving them
// would require filesystem access. The empty path normalizes to ".".
package posixpath

import (
	"errors"
	"slices"
	"strings"
)

// Separator is the path separator used by every backend.
const Separator = "/"

var (
	// ErrEmptyName is returned when a name-based transform is applied to a path with no name.
	ErrEmptyName = errors.New("path has an empty name")

	// ErrInvalidName is returned by WithName for names that are empty or contain a separator.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidSuffix is returned by WithSuffix for suffixes not starting with ".".
	ErrInvalidSuffix = errors.New("invalid suffix")
)

// Clean returns the normalized form of p.
func Clean(p string) string {
	return joinParts(Parts(p))
}

// Parts splits p into its components. An absolute path has Separator as its
// first component; "." has no components.
func Parts(p string) []string {
	var parts []string
	if strings.HasPrefix(p, Separator) {
		parts = append(parts, Separator)
	}
	for _, seg := range strings.Split(p, Separator) {
		if seg == "" || seg == "." {
			continue
		}
		parts = append(parts, seg)
	}
	return parts
}

// IsAbs reports whether p is absolute.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, Separator)
}

// Join appends each segment to base. An absolute segment replaces everything before it.
func Join(base string, segments ...string) string {
	out := base
	for _, seg := range segments {
		switch {
		case IsAbs(seg):
			out = seg
		case seg == "":
		case out == "":
			out = seg
		default:
			out = out + Separator + seg
		}
	}
	return Clean(out)
}

// Name returns the final component of p, or "" for the root and for ".".
func Name(p string) string {
	parts := Parts(p)
	if len(parts) == 0 || (len(parts) == 1 && parts[0] == Separator) {
		return ""
	}
	return parts[len(parts)-1]
}

// Dir returns the logical parent of p. The parent of the root is the root and
// the parent of a single relative component is ".".
func Dir(p string) string {
	parts := Parts(p)
	switch {
	case len(parts) == 0:
		return "."
	case len(parts) == 1 && parts[0] == Separator:
		return Separator
	}
	return joinParts(parts[:len(parts)-1])
}

// Parents returns the logical ancestors of p, nearest first, excluding p itself.
func Parents(p string) []string {
	parts := Parts(p)
	anchored := len(parts) > 0 && parts[0] == Separator
	stop := 0
	if anchored {
		stop = 1
	}

	var out []string
	for i := len(parts) - 1; i > stop; i-- {
		out = append(out, joinParts(parts[:i]))
	}
	if len(parts) > stop {
		out = append(out, joinParts(parts[:stop]))
	}
	return out
}

// Suffix returns the final dotted extension of name, including the leading dot.
// Names starting with a dot (".bashrc") and names ending in a dot have no suffix.
func Suffix(name string) string {
	i := strings.LastIndex(name, ".")
	if 0 < i && i < len(name)-1 {
		return name[i:]
	}
	return ""
}

// Suffixes returns every dotted extension of name, in order.
func Suffixes(name string) []string {
	if strings.HasSuffix(name, ".") {
		return nil
	}
	segs := strings.Split(strings.TrimLeft(name, "."), ".")[1:]
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		out = append(out, "."+s)
	}
	return out
}

// Stem returns name without its final suffix.
func Stem(name string) string {
	if s := Suffix(name); s != "" {
		return name[:len(name)-len(s)]
	}
	return name
}

// WithName returns p with its final component replaced by name.
func WithName(p, name string) (string, error) {
	if Name(p) == "" {
		return "", ErrEmptyName
	}
	if name == "" || name == "." || strings.Contains(name, Separator) {
		return "", ErrInvalidName
	}
	return Join(Dir(p), name), nil
}

// WithSuffix returns p with its final suffix replaced by suffix. An empty
// suffix removes the existing one.
func WithSuffix(p, suffix string) (string, error) {
	if strings.Contains(suffix, Separator) || suffix == "." ||
		(suffix != "" && !strings.HasPrefix(suffix, ".")) {
		return "", ErrInvalidSuffix
	}
	name := Name(p)
	if name == "" {
		return "", ErrEmptyName
	}
	return Join(Dir(p), Stem(name)+suffix), nil
}

// Compare orders two paths component by component.
func Compare(a, b string) int {
	return slices.Compare(Parts(a), Parts(b))
}

func joinParts(parts []string) string {
	if len(parts) == 0 {
		return "."
	}
	if parts[0] == Separator {
		return Separator + strings.Join(parts[1:], Separator)
	}
	return strings.Join(parts, Separator)
}
