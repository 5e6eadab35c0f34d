package local

import (
	"io/fs"
	"iter"
	"os"
	"time"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
	"github.com/jmgilman/go/pathops/internal/pattern"
	"github.com/jmgilman/go/pathops/internal/posixpath"
)

// ReadBytes returns the full contents of the file.
func (p Path) ReadBytes() ([]byte, error) {
	abs, err := p.abs()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	data, err := util.ReadFile(p.root().bfs, abs)
	err = translate(opRead, p.String(), err)
	p.root().record(opRead, abs, start, err)
	return data, err
}

// ReadText returns the full contents of the file as UTF-8 text.
func (p Path) ReadText() (string, error) {
	data, err := p.ReadBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errors.ForPath(errors.CodeDecoding, opRead, p.String(), nil)
	}
	return string(data), nil
}

// WriteText writes UTF-8 text to the file. Invalid UTF-8 is rejected before
// the file is touched.
func (p Path) WriteText(data string, opts ...core.Option) (int, error) {
	if !utf8.ValidString(data) {
		return 0, errors.ForPath(errors.CodeDecoding, opWrite, p.String(), nil)
	}
	return p.WriteBytes([]byte(data), opts...)
}

// WriteBytes creates or truncates the file, writes data, then sets the exact
// permission bits and, if requested, ownership. The parent directory must exist.
func (p Path) WriteBytes(data []byte, opts ...core.Option) (int, error) {
	o := p.root().modes.FileOptions(opts...)
	abs, err := p.abs()
	if err != nil {
		return 0, err
	}
	uid, gid, err := lookupIDs(o.User, o.Group)
	if err != nil {
		return 0, translate(opWrite, p.String(), err)
	}
	// osfs creates missing parents on open; the contract requires they exist.
	if err := p.requireDir(posixpath.Dir(abs), opWrite); err != nil {
		return 0, err
	}

	start := time.Now()
	n, err := p.writeFile(abs, data, o.Mode)
	err = translate(opWrite, p.String(), err)
	p.root().record(opWrite, abs, start, err)
	if err != nil {
		return n, err
	}
	if err := p.applyAttrs(abs, o.Mode, uid, gid); err != nil {
		return n, err
	}
	return n, nil
}

func (p Path) writeFile(abs string, data []byte, mode fs.FileMode) (n int, err error) {
	f, err := p.root().bfs.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return f.Write(data)
}

// requireDir checks that dir exists and is a directory, reporting failures
// against this path.
func (p Path) requireDir(dir, op string) error {
	info, err := p.root().bfs.Stat(dir)
	if err != nil {
		return translate(op, p.String(), err)
	}
	if !info.IsDir() {
		return errors.ForPath(errors.CodeNotADirectory, op, p.String(), nil)
	}
	return nil
}

// Mkdir creates the directory.
func (p Path) Mkdir(opts ...core.Option) error {
	o := p.root().modes.DirOptions(opts...)
	abs, err := p.abs()
	if err != nil {
		return err
	}
	uid, gid, err := lookupIDs(o.User, o.Group)
	if err != nil {
		return translate(opMkdir, p.String(), err)
	}

	err = p.mkdir(abs, o.Mode, uid, gid)
	switch {
	case err == nil:
		return nil
	case errors.GetCode(err) == errors.CodeNotFound && o.Parents && posixpath.Dir(abs) != abs:
		parent := p.with(posixpath.Dir(abs))
		if err := parent.Mkdir(core.WithParents(), core.WithExistOK(), core.WithMode(p.root().modes.Dir)); err != nil {
			return err
		}
		err = p.mkdir(abs, o.Mode, uid, gid)
		if err == nil || !o.ExistOK {
			return err
		}
	case !o.ExistOK:
		return err
	}

	// exist_ok only forgives an existing directory.
	if errors.GetCode(err) == errors.CodeAlreadyExists {
		if isDir, dirErr := p.IsDir(); dirErr == nil && isDir {
			return nil
		}
	}
	return err
}

// mkdir creates a single directory whose parent must already exist.
func (p Path) mkdir(abs string, mode fs.FileMode, uid, gid int) error {
	bfs := p.root().bfs
	if _, err := bfs.Lstat(abs); err == nil {
		return errors.ForPath(errors.CodeAlreadyExists, opMkdir, p.String(), nil)
	}
	if err := p.requireDir(posixpath.Dir(abs), opMkdir); err != nil {
		return err
	}

	start := time.Now()
	err := translate(opMkdir, p.String(), bfs.MkdirAll(abs, mode))
	p.root().record(opMkdir, abs, start, err)
	if err != nil {
		return err
	}
	return p.applyAttrs(abs, mode, uid, gid)
}

// applyAttrs sets exact permission bits and optional ownership.
func (p Path) applyAttrs(abs string, mode fs.FileMode, uid, gid int) error {
	bfs := p.root().bfs
	chmod, chown := os.Chmod, os.Chown
	if change, ok := bfs.(billy.Change); ok {
		chmod, chown = change.Chmod, change.Chown
	}

	if err := chmod(abs, mode.Perm()); err != nil {
		return translate(opChmod, p.String(), err)
	}
	if uid == -1 && gid == -1 {
		return nil
	}
	return translate(opChown, p.String(), chown(abs, uid, gid))
}

// IterDir yields the children of the directory.
func (p Path) IterDir() iter.Seq2[core.Path, error] {
	return func(yield func(core.Path, error) bool) {
		entries, err := p.list(p.String())
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

// list reads a directory given in this path's namespace.
func (p Path) list(dir string) ([]pattern.Entry, error) {
	target := p.with(dir)
	abs, err := target.abs()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	infos, err := p.root().bfs.ReadDir(abs)
	err = translate(opList, dir, err)
	p.root().record(opList, abs, start, err)
	if err != nil {
		return nil, err
	}

	entries := make([]pattern.Entry, 0, len(infos))
	for _, info := range infos {
		isDir := info.IsDir()
		if info.Mode()&fs.ModeSymlink != 0 {
			// ReadDir reports the link itself; globbing descends into its target.
			isDir, _ = target.with(posixpath.Join(dir, info.Name())).IsDir()
		}
		entries = append(entries, pattern.Entry{Name: info.Name(), IsDir: isDir})
	}
	return entries, nil
}

// Glob yields the paths below this directory matching a relative pattern.
func (p Path) Glob(pat string) iter.Seq2[core.Path, error] {
	return func(yield func(core.Path, error) bool) {
		list := func(dir, _ string) ([]pattern.Entry, error) {
			return p.list(dir)
		}
		for match, err := range pattern.Glob(p.String(), pat, list) {
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

// Remove deletes the path. Without recursion the path must be a file or an
// empty directory; with recursion a missing path is not an error.
func (p Path) Remove(recursive bool) error {
	abs, err := p.abs()
	if err != nil {
		return err
	}
	bfs := p.root().bfs

	start := time.Now()
	if recursive {
		err = util.RemoveAll(bfs, abs)
	} else {
		err = bfs.Remove(abs)
	}
	err = translate(opRemove, p.String(), err)
	p.root().record(opRemove, abs, start, err)
	return err
}
