package pathops

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

// backend is the capability set the helpers need beyond core.Path. Both
// local.Path and container.Path satisfy it.
type backend interface {
	core.Path
	core.Stater
	core.Remover
	core.Configured
}

// backendOf is the single place that inspects concrete path capabilities.
func backendOf(p core.Path) (backend, error) {
	if b, ok := p.(backend); ok {
		return b, nil
	}
	return nil, errors.Newf(errors.CodeInvalidArgument, "unsupported path implementation %T", p)
}

// Stat returns fresh metadata for p, following symlinks.
func Stat(p core.Path) (*core.FileInfo, error) {
	b, err := backendOf(p)
	if err != nil {
		return nil, err
	}
	return b.Info()
}

// RemovePath removes p. Without recursion p must be a file or an empty
// directory, and a missing path is a not-found error. With recursion the whole
// subtree is removed and a missing path is not an error.
func RemovePath(p core.Path, recursive bool) error {
	b, err := backendOf(p)
	if err != nil {
		return err
	}
	err = b.Remove(recursive)
	if recursive && errors.HasCode(err, errors.CodeNotFound) {
		return nil
	}
	return err
}

// EnsureContents makes p a file holding exactly data, with exactly the
// requested mode and, when given, the requested owner and group. It reports
// whether anything had to change.
//
// The mode defaults to the file mode of p's backend root. Owner and group are
// only compared when requested. Missing parent directories are created with
// the root's default directory mode, but only when a write is needed.
func EnsureContents(p core.Path, data []byte, opts ...core.Option) (bool, error) {
	b, err := backendOf(p)
	if err != nil {
		return false, err
	}
	o := b.Modes().FileOptions(opts...)

	info, err := b.Info()
	switch {
	case err == nil:
		if matches(info, o) {
			current, err := p.ReadBytes()
			if err != nil {
				return false, err
			}
			if bytes.Equal(current, data) {
				return false, nil
			}
		}
	case errors.HasCode(err, errors.CodeNotFound):
	default:
		return false, err
	}

	if err := p.Parent().Mkdir(core.WithParents(), core.WithExistOK()); err != nil {
		return false, err
	}
	if _, err := p.WriteBytes(data, core.WithMode(o.Mode), core.WithUser(o.User), core.WithGroup(o.Group)); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureText is EnsureContents for UTF-8 text.
func EnsureText(p core.Path, text string, opts ...core.Option) (bool, error) {
	if !utf8.ValidString(text) {
		return false, errors.ForPath(errors.CodeDecoding, "ensure", p.String(), nil)
	}
	return EnsureContents(p, []byte(text), opts...)
}

// EnsureContentsFrom is EnsureContents with the desired content read from r.
func EnsureContentsFrom(p core.Path, r io.Reader, opts ...core.Option) (bool, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, errors.Wrapf(err, errors.CodeUnknown, "read desired contents for %s", p)
	}
	return EnsureContents(p, data, opts...)
}

func matches(info *core.FileInfo, o core.Options) bool {
	if info.Permissions != o.Mode.Perm() {
		return false
	}
	if o.User != "" && info.User != o.User {
		return false
	}
	if o.Group != "" && info.Group != o.Group {
		return false
	}
	return true
}
