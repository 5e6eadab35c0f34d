package container

import (
	"context"
	"iter"
	"strconv"
	"unicode/utf8"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
	"github.com/jmgilman/go/pathops/internal/pattern"
	"github.com/jmgilman/go/pathops/internal/posixpath"
)

const (
	opStat   = "stat"
	opList   = "list"
	opRead   = "read"
	opWrite  = "write"
	opMkdir  = "mkdir"
	opRemove = "remove"
	opOwner  = "owner"
	opGroup  = "group"
)

// entry fetches the agent's record for the path itself.
func (p Path) entry() (*FileInfo, error) {
	entries, err := p.c.list(opStat, ListFilesOptions{Path: p.path, Itself: true})
	if err != nil {
		return nil, err
	}
	if len(entries) != 1 {
		return nil, p.c.pathError(errors.CodeNotFound, opStat, p.path, nil)
	}
	return entries[0], nil
}

// Info returns fresh metadata for the path as reported by the agent.
func (p Path) Info() (*core.FileInfo, error) {
	e, err := p.entry()
	if err != nil {
		return nil, err
	}
	return &core.FileInfo{
		Path:        p.path,
		Name:        p.Name(),
		Kind:        kindOf(e.Type),
		Permissions: e.Permissions.Perm(),
		User:        nameOrID(e.User, e.UserID),
		Group:       nameOrID(e.Group, e.GroupID),
		Size:        e.Size,
		ModTime:     e.LastModified,
	}, nil
}

func kindOf(t FileType) core.FileKind {
	switch t {
	case TypeFile:
		return core.KindRegular
	case TypeDirectory:
		return core.KindDirectory
	case TypeNamedPipe:
		return core.KindFIFO
	case TypeSocket:
		return core.KindSocket
	default:
		return core.KindOther
	}
}

func nameOrID(name string, id *int) string {
	if name != "" || id == nil {
		return name
	}
	return strconv.Itoa(*id)
}

// kind reports the path's kind. Missing paths, missing ancestors and symlink
// loops report exists=false without an error.
func (p Path) kind() (kind core.FileKind, exists bool, err error) {
	e, err := p.entry()
	if err != nil {
		switch errors.GetCode(err) {
		case errors.CodeNotFound, errors.CodeNotADirectory, errors.CodeTooManySymlinks:
			return core.KindOther, false, nil
		}
		return core.KindOther, false, err
	}
	return kindOf(e.Type), true, nil
}

func (p Path) isKind(want core.FileKind) (bool, error) {
	kind, exists, err := p.kind()
	return exists && kind == want, err
}

// Exists reports whether the path exists.
func (p Path) Exists() (bool, error) {
	_, exists, err := p.kind()
	return exists, err
}

// IsDir reports whether the path is a directory.
func (p Path) IsDir() (bool, error) {
	return p.isKind(core.KindDirectory)
}

// IsFile reports whether the path is a regular file.
func (p Path) IsFile() (bool, error) {
	return p.isKind(core.KindRegular)
}

// IsFIFO reports whether the path is a named pipe.
func (p Path) IsFIFO() (bool, error) {
	return p.isKind(core.KindFIFO)
}

// IsSocket reports whether the path is a Unix socket.
func (p Path) IsSocket() (bool, error) {
	return p.isKind(core.KindSocket)
}

// Owner returns the name of the owning user.
func (p Path) Owner() (string, error) {
	e, err := p.entry()
	if err != nil {
		return "", err
	}
	if e.User == "" {
		return "", p.c.pathError(errors.CodeLookupFailed, opOwner, p.path, nil)
	}
	return e.User, nil
}

// Group returns the name of the owning group.
func (p Path) Group() (string, error) {
	e, err := p.entry()
	if err != nil {
		return "", err
	}
	if e.Group == "" {
		return "", p.c.pathError(errors.CodeLookupFailed, opGroup, p.path, nil)
	}
	return e.Group, nil
}

// ReadBytes returns the full contents of the file.
func (p Path) ReadBytes() ([]byte, error) {
	var data []byte
	err := p.c.do(opRead, p.path, func(ctx context.Context) error {
		var err error
		data, err = p.c.client.ReadFile(ctx, p.path)
		return err
	})
	return data, err
}

// ReadText returns the full contents of the file as UTF-8 text.
func (p Path) ReadText() (string, error) {
	data, err := p.ReadBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", p.c.pathError(errors.CodeDecoding, opRead, p.path, nil)
	}
	return string(data), nil
}

// WriteBytes creates or replaces the file in a single agent call, with the
// requested permissions and ownership. The parent directory must exist.
func (p Path) WriteBytes(data []byte, opts ...core.Option) (int, error) {
	o := p.c.modes.FileOptions(opts...)
	err := p.c.do(opWrite, p.path, func(ctx context.Context) error {
		return p.c.client.WriteFile(ctx, WriteFileOptions{
			Path:        p.path,
			Data:        data,
			Permissions: o.Mode,
			User:        o.User,
			Group:       o.Group,
		})
	})
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// WriteText writes UTF-8 text to the file.
func (p Path) WriteText(data string, opts ...core.Option) (int, error) {
	if !utf8.ValidString(data) {
		return 0, p.c.pathError(errors.CodeDecoding, opWrite, p.path, nil)
	}
	return p.WriteBytes([]byte(data), opts...)
}

// Mkdir creates the directory. With WithParents, a missing parent chain is
// created in one extra call using the container's default directory mode.
// WithParents and WithExistOK together, with the default mode and no owner,
// take a single call.
func (p Path) Mkdir(opts ...core.Option) error {
	o := p.c.modes.DirOptions(opts...)
	if o.Parents && o.ExistOK && o.Mode == p.c.modes.Dir && o.User == "" && o.Group == "" {
		err := p.c.do(opMkdir, p.path, func(ctx context.Context) error {
			return p.c.client.MakeDir(ctx, MakeDirOptions{
				Path:        p.path,
				MakeParents: true,
				Permissions: o.Mode,
			})
		})
		// A non-directory at the leaf is reported below as already-exists.
		if !errors.HasCode(err, errors.CodeNotADirectory) && !errors.HasCode(err, errors.CodeAlreadyExists) {
			return err
		}
	}

	makeLeaf := func() error {
		return p.c.do(opMkdir, p.path, func(ctx context.Context) error {
			return p.c.client.MakeDir(ctx, MakeDirOptions{
				Path:        p.path,
				Permissions: o.Mode,
				User:        o.User,
				Group:       o.Group,
			})
		})
	}

	err := makeLeaf()
	if errors.HasCode(err, errors.CodeNotFound) && o.Parents && p.path != posixpath.Separator {
		parent := posixpath.Dir(p.path)
		err = p.c.do(opMkdir, parent, func(ctx context.Context) error {
			return p.c.client.MakeDir(ctx, MakeDirOptions{
				Path:        parent,
				MakeParents: true,
				Permissions: p.c.modes.Dir,
			})
		})
		if err != nil {
			return err
		}
		err = makeLeaf()
	}

	if err == nil || !o.ExistOK || !errors.HasCode(err, errors.CodeAlreadyExists) {
		return err
	}
	// exist_ok only forgives an existing directory.
	if isDir, dirErr := p.IsDir(); dirErr == nil && isDir {
		return nil
	}
	return err
}

// IterDir yields the children of the directory from a single listing.
func (p Path) IterDir() iter.Seq2[core.Path, error] {
	return func(yield func(core.Path, error) bool) {
		entries, err := p.children(p.path, "")
		if err != nil {
			yield(nil, err)
			return
		}
		for _, e := range entries {
			if !yield(p.Join(e.Name), nil) {
				return
			}
		}
	}
}

// children lists dir. A listing that returns dir itself as a non-directory
// means dir is not a directory.
func (p Path) children(dir, pat string) ([]pattern.Entry, error) {
	entries, err := p.c.list(opList, ListFilesOptions{Path: dir, Pattern: pat})
	if err != nil {
		return nil, err
	}
	if len(entries) == 1 && posixpath.Clean(entries[0].Path) == dir && entries[0].Type != TypeDirectory {
		return nil, p.c.pathError(errors.CodeNotADirectory, opList, dir, nil)
	}

	out := make([]pattern.Entry, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = posixpath.Name(e.Path)
		}
		if name == "." || name == ".." {
			continue
		}
		out = append(out, pattern.Entry{Name: name, IsDir: e.Type == TypeDirectory})
	}
	return out, nil
}

// Glob yields the paths below this directory matching a relative pattern.
// The agent filters each directory listing by the pattern component.
func (p Path) Glob(pat string) iter.Seq2[core.Path, error] {
	return func(yield func(core.Path, error) bool) {
		for match, err := range pattern.Glob(p.path, pat, p.children) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(p.with(match), nil) {
				return
			}
		}
	}
}

// Remove deletes the path in a single agent call. Whether a directory is
// empty is decided by the agent; with recursion a missing path is not an error.
func (p Path) Remove(recursive bool) error {
	err := p.c.do(opRemove, p.path, func(ctx context.Context) error {
		return p.c.client.RemovePath(ctx, RemovePathOptions{Path: p.path, Recursive: recursive})
	})
	if recursive && errors.HasCode(err, errors.CodeNotFound) {
		return nil
	}
	return err
}
