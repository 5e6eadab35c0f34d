// Package keys maps absolute container paths to S3 object keys.
//
// A file at /a/b is stored as the object "<prefix>/a/b". A directory is
// stored as a zero-length marker object "<prefix>/a/b/". The root directory
// has no marker and always exists.
package keys

import (
	"path"
	"strings"
)

// NormalizePrefix converts backslashes to forward slashes, cleans the prefix
// and trims leading and trailing slashes. It returns "" for an empty prefix
// or ".".
func NormalizePrefix(prefix string) string {
	if prefix == "" || prefix == "." {
		return ""
	}
	prefix = strings.ReplaceAll(prefix, "\\", "/")
	prefix = strings.Trim(path.Clean(prefix), "/")
	if prefix == "." {
		return ""
	}
	return prefix
}

// Object returns the key of the object storing the file at the absolute
// path p. The root maps to the prefix itself.
func Object(prefix, p string) string {
	rel := strings.Trim(path.Clean("/"+p), "/")
	switch {
	case rel == "":
		return prefix
	case prefix == "":
		return rel
	default:
		return prefix + "/" + rel
	}
}

// Dir returns the key of the directory marker for p, which is also the
// listing prefix of its children. The root without a prefix maps to "".
func Dir(prefix, p string) string {
	key := Object(prefix, p)
	if key == "" {
		return ""
	}
	return key + "/"
}

// Path converts an object key back into an absolute path. Keys outside the
// prefix yield false.
func Path(prefix, key string) (string, bool) {
	if prefix != "" {
		if key != prefix && !strings.HasPrefix(key, prefix+"/") {
			return "", false
		}
		key = strings.TrimPrefix(key, prefix)
	}
	return path.Clean("/" + key), true
}

// Child returns the name of the immediate child of the listing prefix
// dirKey that key refers to, and whether key denotes a directory (a common
// prefix or a marker). The marker of dirKey itself yields "".
func Child(dirKey, key string) (name string, isDir bool) {
	rel := strings.TrimPrefix(key, dirKey)
	if rel == "" {
		return "", false
	}
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i], true
	}
	return rel, false
}
