package local

import (
	"io/fs"
	"os/user"
	"strconv"
	"time"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
)

const (
	opStat   = "stat"
	opRead   = "read"
	opWrite  = "write"
	opMkdir  = "mkdir"
	opList   = "list"
	opRemove = "remove"
	opChmod  = "chmod"
	opChown  = "chown"
	opOwner  = "owner"
	opGroup  = "group"
)

func (p Path) stat() (fs.FileInfo, error) {
	abs, err := p.abs()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	info, err := p.root().bfs.Stat(abs)
	err = translate(opStat, p.String(), err)
	p.root().record(opStat, abs, start, err)
	return info, err
}

// Info returns fresh metadata for the path, following symlinks. Owner and
// group fall back to the numeric ids when no name is known.
func (p Path) Info() (*core.FileInfo, error) {
	info, err := p.stat()
	if err != nil {
		return nil, err
	}

	fi := &core.FileInfo{
		Path:        p.String(),
		Name:        p.Name(),
		Kind:        core.KindOf(info.Mode()),
		Permissions: info.Mode().Perm(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}
	if uid, gid, ok := fileOwner(info); ok {
		fi.User = strconv.Itoa(uid)
		if name, err := userName(uid); err == nil {
			fi.User = name
		}
		fi.Group = strconv.Itoa(gid)
		if name, err := groupName(gid); err == nil {
			fi.Group = name
		}
	}
	return fi, nil
}

// kind stats the path and reports its kind. Missing paths, missing ancestors
// and symlink loops report exists=false without an error.
func (p Path) kind() (kind core.FileKind, exists bool, err error) {
	info, err := p.stat()
	if err != nil {
		switch errors.GetCode(err) {
		case errors.CodeNotFound, errors.CodeNotADirectory, errors.CodeTooManySymlinks:
			return core.KindOther, false, nil
		}
		return core.KindOther, false, err
	}
	return core.KindOf(info.Mode()), true, nil
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
	info, err := p.stat()
	if err != nil {
		return "", err
	}
	uid, _, ok := fileOwner(info)
	if !ok {
		return "", errors.ForPath(errors.CodeLookupFailed, opOwner, p.String(), nil)
	}
	name, err := userName(uid)
	return name, translate(opOwner, p.String(), err)
}

// Group returns the name of the owning group.
func (p Path) Group() (string, error) {
	info, err := p.stat()
	if err != nil {
		return "", err
	}
	_, gid, ok := fileOwner(info)
	if !ok {
		return "", errors.ForPath(errors.CodeLookupFailed, opGroup, p.String(), nil)
	}
	name, err := groupName(gid)
	return name, translate(opGroup, p.String(), err)
}

func userName(uid int) (string, error) {
	u, err := user.LookupId(strconv.Itoa(uid))
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

func groupName(gid int) (string, error) {
	g, err := user.LookupGroupId(strconv.Itoa(gid))
	if err != nil {
		return "", err
	}
	return g.Name, nil
}

// lookupIDs resolves owner names to numeric ids. An empty name yields -1,
// which chown treats as "leave unchanged".
func lookupIDs(userName, groupName string) (uid, gid int, err error) {
	uid, gid = -1, -1
	if userName != "" {
		u, err := user.Lookup(userName)
		if err != nil {
			return 0, 0, err
		}
		if uid, err = strconv.Atoi(u.Uid); err != nil {
			return 0, 0, err
		}
	}
	if groupName != "" {
		g, err := user.LookupGroup(groupName)
		if err != nil {
			return 0, 0, err
		}
		if gid, err = strconv.Atoi(g.Gid); err != nil {
			return 0, 0, err
		}
	}
	return uid, gid, nil
}
