// Package containertest provides an in-memory agent implementing
// container.Client, for tests that exercise container paths without a real
// remote filesystem.
//
// The agent models a POSIX tree with permissions, numeric ownership, named
// pipes, sockets and symlinks, and reports failures with the same categories
// and message phrasing as a real agent:
//
//	agent := containertest.New()
//	agent.AddUser("app", 1000)
//	c, _ := container.New("test", agent)
//	p, _ := c.Path("/srv")
package containertest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/jmgilman/go/pathops/container"
	"github.com/jmgilman/go/pathops/internal/posixpath"
)

// maxSymlinks bounds symlink resolution, as the kernel does.
const maxSymlinks = 40

// Operation names counted by Calls.
const (
	OpListFiles  = "ListFiles"
	OpReadFile   = "ReadFile"
	OpWriteFile  = "WriteFile"
	OpMakeDir    = "MakeDir"
	OpRemovePath = "RemovePath"
)

type node struct {
	typ      container.FileType
	perm     fs.FileMode
	uid, gid int
	mtime    time.Time
	data     []byte
	target   string
	children map[string]*node
}

// Agent is an in-memory container.Client. It is safe for concurrent use.
type Agent struct {
	mu          sync.Mutex
	root        *node
	users       map[string]int
	groups      map[string]int
	defaultUID  int
	defaultGID  int
	unreachable bool
	calls       map[string]int
	now         func() time.Time
}

var _ container.Client = (*Agent)(nil)

// New returns an agent holding an empty root directory owned by root:root.
func New() *Agent {
	a := &Agent{
		users:  map[string]int{"root": 0},
		groups: map[string]int{"root": 0},
		calls:  make(map[string]int),
		now:    time.Now,
	}
	a.root = a.newNode(container.TypeDirectory, 0o755, 0, 0)
	return a
}

// AddUser registers a user name and id.
func (a *Agent) AddUser(name string, uid int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[name] = uid
}

// AddGroup registers a group name and id.
func (a *Agent) AddGroup(name string, gid int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.groups[name] = gid
}

// SetDefaultOwner sets the ids given to nodes created without explicit ownership.
func (a *Agent) SetDefaultOwner(uid, gid int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.defaultUID, a.defaultGID = uid, gid
}

// SetUnreachable makes every subsequent call fail with a connection error.
func (a *Agent) SetUnreachable(unreachable bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unreachable = unreachable
}

// Calls returns how many times op was invoked.
func (a *Agent) Calls(op string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[op]
}

// TotalCalls returns the number of protocol calls made so far.
func (a *Agent) TotalCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, n := range a.calls {
		total += n
	}
	return total
}

// ResetCalls clears the call counters.
func (a *Agent) ResetCalls() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.calls)
}

// Mkfifo creates a named pipe at p. The parent must exist.
func (a *Agent) Mkfifo(p string, perm fs.FileMode) error {
	return a.addSpecial(p, a.newNode(container.TypeNamedPipe, perm, a.defaultUID, a.defaultGID))
}

// Mksock creates a Unix socket at p. The parent must exist.
func (a *Agent) Mksock(p string, perm fs.FileMode) error {
	return a.addSpecial(p, a.newNode(container.TypeSocket, perm, a.defaultUID, a.defaultGID))
}

// Symlink creates a symlink at link pointing to target.
func (a *Agent) Symlink(target, link string) error {
	n := a.newNode(container.TypeSymlink, 0o777, a.defaultUID, a.defaultGID)
	n.target = target
	return a.addSpecial(link, n)
}

// Chown sets numeric ownership on p without following a final symlink.
func (a *Agent) Chown(p string, uid, gid int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	n, err := a.lookup("chown", p, false)
	if err != nil {
		return err
	}
	n.uid, n.gid = uid, gid
	return nil
}

func (a *Agent) addSpecial(p string, n *node) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	dir, name, err := a.parentOf("create", p)
	if err != nil {
		return err
	}
	if _, ok := dir.children[name]; ok {
		return genericErr("mkdir %s: file exists", p)
	}
	dir.children[name] = n
	return nil
}

func (a *Agent) newNode(typ container.FileType, perm fs.FileMode, uid, gid int) *node {
	n := &node{typ: typ, perm: perm.Perm(), uid: uid, gid: gid, mtime: a.now()}
	if typ == container.TypeDirectory {
		n.children = make(map[string]*node)
	}
	return n
}

// begin records a call and reports whether the agent is reachable.
// Callers must hold a.mu.
func (a *Agent) begin(op string) error {
	a.calls[op]++
	if a.unreachable {
		return &container.ConnectionError{Err: errors.New("dial unix /charm/containers/test/pebble.socket: connect: no such file or directory")}
	}
	return nil
}

func notFoundErr(op, p string) error {
	return &container.Error{Kind: container.KindNotFound, Message: fmt.Sprintf("%s %s: no such file or directory", op, p)}
}

func genericErr(format string, args ...any) error {
	return &container.Error{Kind: container.KindGenericFileError, Message: fmt.Sprintf(format, args...)}
}

func loopErr(op, p string) error {
	return &container.Error{StatusCode: 400, Message: fmt.Sprintf("%s %s: too many levels of symbolic links", op, p)}
}

// lookup resolves p. Intermediate symlinks are always followed; the final
// component is followed when follow is set.
func (a *Agent) lookup(op, p string, follow bool) (*node, error) {
	return a.resolve(op, p, follow, 0)
}

func (a *Agent) resolve(op, p string, follow bool, depth int) (*node, error) {
	if depth > maxSymlinks {
		return nil, loopErr(op, p)
	}
	parts := posixpath.Parts(p)
	if len(parts) == 0 || parts[0] != posixpath.Separator {
		return nil, genericErr("%s %s: path must be absolute", op, p)
	}

	cur, curPath := a.root, posixpath.Separator
	for i, name := range parts[1:] {
		if cur.typ != container.TypeDirectory {
			return nil, genericErr("%s %s: not a directory", op, p)
		}
		if name == ".." {
			curPath = posixpath.Dir(curPath)
			resolved, err := a.resolve(op, curPath, true, depth+1)
			if err != nil {
				return nil, err
			}
			cur = resolved
			continue
		}
		next, ok := cur.children[name]
		if !ok {
			return nil, notFoundErr(op, p)
		}
		childPath := posixpath.Join(curPath, name)
		last := i == len(parts)-2
		if next.typ == container.TypeSymlink && (!last || follow) {
			target := next.target
			if !posixpath.IsAbs(target) {
				target = posixpath.Join(curPath, target)
			}
			resolved, err := a.resolve(op, target, true, depth+1)
			if err != nil {
				if code := errorStatus(err); code == 400 {
					return nil, loopErr(op, p)
				}
				return nil, notFoundErr(op, p)
			}
			next = resolved
		}
		cur, curPath = next, childPath
	}
	return cur, nil
}

func errorStatus(err error) int {
	var agentErr *container.Error
	if errors.As(err, &agentErr) {
		return agentErr.StatusCode
	}
	return 0
}

// parentOf resolves the directory that holds p and returns p's final name.
func (a *Agent) parentOf(op, p string) (*node, string, error) {
	clean := posixpath.Clean(p)
	if clean == posixpath.Separator {
		return nil, "", genericErr("%s %s: invalid argument", op, p)
	}
	dir, err := a.lookup(op, posixpath.Dir(clean), true)
	if err != nil {
		return nil, "", err
	}
	if dir.typ != container.TypeDirectory {
		return nil, "", genericErr("%s %s: not a directory", op, p)
	}
	return dir, posixpath.Name(clean), nil
}

func (a *Agent) info(p, name string, n *node) *container.FileInfo {
	uid, gid := n.uid, n.gid
	return &container.FileInfo{
		Path:         p,
		Name:         name,
		Type:         n.typ,
		Size:         int64(len(n.data)),
		Permissions:  n.perm,
		LastModified: n.mtime,
		UserID:       &uid,
		User:         nameFor(a.users, uid),
		GroupID:      &gid,
		Group:        nameFor(a.groups, gid),
	}
}

func nameFor(table map[string]int, id int) string {
	for name, v := range table {
		if v == id {
			return name
		}
	}
	return ""
}

// ids resolves optional user and group names to ids.
func (a *Agent) ids(userName, groupName string) (uid, gid int, err error) {
	uid, gid = a.defaultUID, a.defaultGID
	if userName != "" {
		id, ok := a.users[userName]
		if !ok {
			return 0, 0, genericErr("cannot look up user and group: user: unknown user %s", userName)
		}
		uid = id
	}
	if groupName != "" {
		id, ok := a.groups[groupName]
		if !ok {
			return 0, 0, genericErr("cannot look up user and group: group: unknown group %s", groupName)
		}
		gid = id
	}
	return uid, gid, nil
}

// ListFiles implements container.Client.
func (a *Agent) ListFiles(_ context.Context, opts container.ListFilesOptions) ([]*container.FileInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpListFiles); err != nil {
		return nil, err
	}

	p := posixpath.Clean(opts.Path)
	n, err := a.lookup("stat", p, true)
	if err != nil {
		return nil, err
	}
	if opts.Pattern != "" {
		if _, err := path.Match(opts.Pattern, ""); err != nil {
			return nil, &container.Error{StatusCode: 400, Message: fmt.Sprintf("syntax error in pattern %q", opts.Pattern)}
		}
	}

	if n.typ != container.TypeDirectory || opts.Itself {
		if !matches(opts.Pattern, posixpath.Name(p)) {
			return nil, nil
		}
		return []*container.FileInfo{a.info(p, posixpath.Name(p), n)}, nil
	}

	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]*container.FileInfo, 0, len(names))
	for _, name := range names {
		if !matches(opts.Pattern, name) {
			continue
		}
		childPath := posixpath.Join(p, name)
		child := n.children[name]
		if child.typ == container.TypeSymlink {
			if resolved, err := a.lookup("stat", childPath, true); err == nil {
				child = resolved
			}
		}
		out = append(out, a.info(childPath, name, child))
	}
	return out, nil
}

func matches(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// ReadFile implements container.Client.
func (a *Agent) ReadFile(_ context.Context, p string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpReadFile); err != nil {
		return nil, err
	}

	n, err := a.lookup("open", p, true)
	if err != nil {
		return nil, err
	}
	if n.typ != container.TypeFile {
		return nil, genericErr("can only read a regular file: %q", p)
	}
	return slices.Clone(n.data), nil
}

// WriteFile implements container.Client.
func (a *Agent) WriteFile(_ context.Context, opts container.WriteFileOptions) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpWriteFile); err != nil {
		return err
	}

	uid, gid, err := a.ids(opts.User, opts.Group)
	if err != nil {
		return err
	}
	p := posixpath.Clean(opts.Path)
	if opts.MakeDirs {
		if _, err := a.mkdirAll(posixpath.Dir(p), 0o755, a.defaultUID, a.defaultGID); err != nil {
			return err
		}
	}
	dir, name, err := a.parentOf("open", p)
	if err != nil {
		return err
	}

	if existing, ok := dir.children[name]; ok {
		if existing.typ == container.TypeSymlink {
			if resolved, err := a.lookup("open", p, true); err == nil {
				existing = resolved
			}
		}
		if existing.typ == container.TypeDirectory {
			return genericErr("open %s: is a directory", p)
		}
	}

	n := a.newNode(container.TypeFile, opts.Permissions, uid, gid)
	n.data = slices.Clone(opts.Data)
	dir.children[name] = n
	return nil
}

// MakeDir implements container.Client.
func (a *Agent) MakeDir(_ context.Context, opts container.MakeDirOptions) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpMakeDir); err != nil {
		return err
	}

	uid, gid, err := a.ids(opts.User, opts.Group)
	if err != nil {
		return err
	}
	p := posixpath.Clean(opts.Path)
	if opts.MakeParents {
		_, err := a.mkdirAll(p, opts.Permissions, uid, gid)
		return err
	}

	if p == posixpath.Separator {
		return genericErr("mkdir %s: file exists", p)
	}
	dir, name, err := a.parentOf("mkdir", p)
	if err != nil {
		return err
	}
	if _, ok := dir.children[name]; ok {
		return genericErr("mkdir %s: file exists", p)
	}
	dir.children[name] = a.newNode(container.TypeDirectory, opts.Permissions, uid, gid)
	return nil
}

// mkdirAll creates p and any missing parents, accepting existing directories.
func (a *Agent) mkdirAll(p string, perm fs.FileMode, uid, gid int) (*node, error) {
	if !posixpath.IsAbs(p) {
		return nil, genericErr("mkdir %s: path must be absolute", p)
	}
	cur, curPath := a.root, posixpath.Separator
	for _, name := range posixpath.Parts(p)[1:] {
		curPath = posixpath.Join(curPath, name)
		next, ok := cur.children[name]
		if !ok {
			next = a.newNode(container.TypeDirectory, perm, uid, gid)
			cur.children[name] = next
		} else if next.typ == container.TypeSymlink {
			resolved, err := a.lookup("mkdir", curPath, true)
			if err != nil {
				return nil, err
			}
			next = resolved
		}
		if next.typ != container.TypeDirectory {
			return nil, genericErr("mkdir %s: not a directory", p)
		}
		cur = next
	}
	return cur, nil
}

// RemovePath implements container.Client.
func (a *Agent) RemovePath(_ context.Context, opts container.RemovePathOptions) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.begin(OpRemovePath); err != nil {
		return err
	}

	p := posixpath.Clean(opts.Path)
	if p == posixpath.Separator {
		return &container.Error{Kind: container.KindPermissionDenied, Message: "remove /: permission denied"}
	}
	dir, name, err := a.parentOf("remove", p)
	if err != nil {
		if opts.Recursive && errorKind(err) == container.KindNotFound {
			return nil
		}
		return err
	}
	n, ok := dir.children[name]
	switch {
	case !ok && opts.Recursive:
		return nil
	case !ok:
		return notFoundErr("remove", p)
	case n.typ == container.TypeDirectory && len(n.children) > 0 && !opts.Recursive:
		return genericErr("remove %s: directory not empty", p)
	}
	delete(dir.children, name)
	return nil
}

func errorKind(err error) container.ErrorKind {
	var agentErr *container.Error
	if errors.As(err, &agentErr) {
		return agentErr.Kind
	}
	return ""
}

// Tree returns every path in the agent, sorted, for assertions in tests.
func (a *Agent) Tree() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	var walk func(p string, n *node)
	walk = func(p string, n *node) {
		out = append(out, p)
		for name, child := range n.children {
			walk(posixpath.Join(p, name), child)
		}
	}
	walk(posixpath.Separator, a.root)
	slices.Sort(out)
	return out
}
