package sftpagent

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/jmgilman/go/pathops/container"
)

// Agent is a container.Client backed by an SFTP session. It is safe for
// concurrent use.
type Agent struct {
	client *sftp.Client
	conn   *ssh.Client

	passwdFile string
	groupFile  string

	idsMu  sync.Mutex
	users  *idTable
	groups *idTable
}

var _ container.Client = (*Agent)(nil)

// Option configures an Agent.
type Option func(*Agent)

// WithIdentityFiles overrides the remote files used to translate between
// user and group names and numeric ids.
func WithIdentityFiles(passwd, group string) Option {
	return func(a *Agent) {
		a.passwdFile, a.groupFile = passwd, group
	}
}

// New wraps an established SFTP client. The caller keeps ownership of the
// client; Close only closes connections opened by Dial.
func New(client *sftp.Client, opts ...Option) *Agent {
	a := &Agent{
		client:     client,
		passwdFile: DefaultPasswdFile,
		groupFile:  DefaultGroupFile,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dial opens an SSH connection and starts an SFTP session on it. Network and
// handshake failures are reported as *container.ConnectionError.
func Dial(ctx context.Context, cfg Config, opts ...Option) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	sshCfg, err := cfg.clientConfig()
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.port()))
	dialer := &net.Dialer{Timeout: sshCfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &container.ConnectionError{Err: fmt.Errorf("dial %s: %w", addr, err)}
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, sshCfg)
	if err != nil {
		_ = conn.Close()
		return nil, &container.ConnectionError{Err: fmt.Errorf("ssh handshake with %s: %w", addr, err)}
	}
	sshClient := ssh.NewClient(c, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, &container.ConnectionError{Err: fmt.Errorf("start sftp subsystem: %w", err)}
	}

	a := New(client, opts...)
	a.conn = sshClient
	return a, nil
}

// Close ends the SFTP session and, for agents created by Dial, the SSH
// connection.
func (a *Agent) Close() error {
	if a.conn == nil {
		return nil
	}
	return errors.Join(a.client.Close(), a.conn.Close())
}

// SFTP returns the underlying SFTP client.
func (a *Agent) SFTP() *sftp.Client {
	return a.client
}

// begin rejects cancelled contexts and relative paths, returning the cleaned path.
func begin(ctx context.Context, op, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !path.IsAbs(p) {
		return "", genericError("%s %s: path must be absolute", op, p)
	}
	return path.Clean(p), nil
}

// ListFiles implements container.Client.
func (a *Agent) ListFiles(ctx context.Context, opts container.ListFilesOptions) ([]*container.FileInfo, error) {
	p, err := begin(ctx, "stat", opts.Path)
	if err != nil {
		return nil, err
	}
	if opts.Pattern != "" {
		if _, err := path.Match(opts.Pattern, ""); err != nil {
			return nil, &container.Error{
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("syntax error in pattern %q", opts.Pattern),
			}
		}
	}

	fi, err := a.client.Stat(p)
	if err != nil {
		return nil, a.statError("stat", p, err)
	}
	if !fi.IsDir() || opts.Itself {
		if !matches(opts.Pattern, path.Base(p)) {
			return nil, nil
		}
		return []*container.FileInfo{a.info(p, path.Base(p), fi)}, nil
	}

	entries, err := a.client.ReadDir(p)
	if err != nil {
		return nil, toAgentError("open", p, err)
	}
	slices.SortFunc(entries, func(x, y os.FileInfo) int {
		return strings.Compare(x.Name(), y.Name())
	})

	out := make([]*container.FileInfo, 0, len(entries))
	for _, e := range entries {
		if !matches(opts.Pattern, e.Name()) {
			continue
		}
		child := path.Join(p, e.Name())
		if e.Mode()&fs.ModeSymlink != 0 {
			// Report the target, like a stat would; dangling links stay links.
			if resolved, err := a.client.Stat(child); err == nil {
				e = resolved
			}
		}
		out = append(out, a.info(child, path.Base(child), e))
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

func (a *Agent) info(p, name string, fi os.FileInfo) *container.FileInfo {
	out := &container.FileInfo{
		Path:         p,
		Name:         name,
		Type:         fileType(fi.Mode()),
		Size:         fi.Size(),
		Permissions:  fi.Mode().Perm(),
		LastModified: fi.ModTime(),
	}
	if st, ok := fi.Sys().(*sftp.FileStat); ok {
		uid, gid := int(st.UID), int(st.GID)
		out.UserID, out.GroupID = &uid, &gid
		out.User, out.Group = a.names(uid, gid)
	}
	return out
}

func fileType(mode fs.FileMode) container.FileType {
	switch {
	case mode.IsRegular():
		return container.TypeFile
	case mode.IsDir():
		return container.TypeDirectory
	case mode&fs.ModeSymlink != 0:
		return container.TypeSymlink
	case mode&fs.ModeNamedPipe != 0:
		return container.TypeNamedPipe
	case mode&fs.ModeSocket != 0:
		return container.TypeSocket
	case mode&fs.ModeDevice != 0:
		return container.TypeDevice
	default:
		return container.TypeUnknown
	}
}

// ReadFile implements container.Client.
func (a *Agent) ReadFile(ctx context.Context, p string) ([]byte, error) {
	p, err := begin(ctx, "open", p)
	if err != nil {
		return nil, err
	}

	fi, err := a.client.Stat(p)
	if err != nil {
		return nil, a.statError("open", p, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, genericError("can only read a regular file: %q", p)
	}

	f, err := a.client.Open(p)
	if err != nil {
		return nil, toAgentError("open", p, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, toAgentError("read", p, err)
	}
	return data, nil
}

// WriteFile implements container.Client. The data is written to a temporary
// sibling and renamed into place.
func (a *Agent) WriteFile(ctx context.Context, opts container.WriteFileOptions) error {
	p, err := begin(ctx, "open", opts.Path)
	if err != nil {
		return err
	}
	uid, gid, err := a.lookupOwner(opts.User, opts.Group)
	if err != nil {
		return toAgentError("open", p, err)
	}

	dir := path.Dir(p)
	if opts.MakeDirs {
		if err := a.mkdirAll(dir, 0o755, -1, -1); err != nil {
			return err
		}
	}
	if err := a.requireDir("open", p, dir); err != nil {
		return err
	}
	if fi, err := a.client.Stat(p); err == nil && fi.IsDir() {
		return genericError("open %s: is a directory", p)
	}

	tmp, err := tempName(p)
	if err != nil {
		return toAgentError("open", p, err)
	}
	if err := a.writeTemp(tmp, opts.Data, opts.Permissions, uid, gid); err != nil {
		_ = a.client.Remove(tmp)
		return toAgentError("write", p, err)
	}
	if err := a.client.PosixRename(tmp, p); err != nil {
		_ = a.client.Remove(tmp)
		return toAgentError("rename", p, err)
	}
	return nil
}

func tempName(p string) (string, error) {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return path.Join(path.Dir(p), fmt.Sprintf(".%s.%s.tmp", path.Base(p), hex.EncodeToString(buf[:]))), nil
}

func (a *Agent) writeTemp(tmp string, data []byte, perm fs.FileMode, uid, gid int) (err error) {
	f, err := a.client.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Chmod(perm.Perm()); err != nil {
		return err
	}
	if uid == -1 && gid == -1 {
		return nil
	}
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	uid, gid = fillOwner(fi, uid, gid)
	return f.Chown(uid, gid)
}

// fillOwner replaces unset ids with the current owner of fi.
func fillOwner(fi os.FileInfo, uid, gid int) (int, int) {
	st, ok := fi.Sys().(*sftp.FileStat)
	if !ok {
		return uid, gid
	}
	if uid == -1 {
		uid = int(st.UID)
	}
	if gid == -1 {
		gid = int(st.GID)
	}
	return uid, gid
}

// statError converts a failed stat of p. Some servers report a non-directory
// ancestor as a missing file, so a missing path is checked against its
// ancestors before it is reported as not found.
func (a *Agent) statError(op, p string, err error) error {
	if !errors.Is(err, os.ErrNotExist) {
		return toAgentError(op, p, err)
	}
	for dir := path.Dir(p); dir != "/"; dir = path.Dir(dir) {
		fi, err := a.client.Stat(dir)
		if err != nil {
			continue
		}
		if !fi.IsDir() {
			return genericError("%s %s: not a directory", op, p)
		}
		break
	}
	return notFoundError(op, p)
}

// requireDir checks that dir exists and is a directory, reporting failures
// against target.
func (a *Agent) requireDir(op, target, dir string) error {
	fi, err := a.client.Stat(dir)
	switch {
	case err != nil:
		return a.statError(op, target, err)
	case !fi.IsDir():
		return genericError("%s %s: not a directory", op, target)
	}
	return nil
}

// MakeDir implements container.Client.
func (a *Agent) MakeDir(ctx context.Context, opts container.MakeDirOptions) error {
	p, err := begin(ctx, "mkdir", opts.Path)
	if err != nil {
		return err
	}
	uid, gid, err := a.lookupOwner(opts.User, opts.Group)
	if err != nil {
		return toAgentError("mkdir", p, err)
	}
	if opts.MakeParents {
		return a.mkdirAll(p, opts.Permissions, uid, gid)
	}

	if p == "/" {
		return genericError("mkdir %s: file exists", p)
	}
	_, err = a.client.Lstat(p)
	switch {
	case err == nil:
		return genericError("mkdir %s: file exists", p)
	case !errors.Is(err, os.ErrNotExist):
		return toAgentError("mkdir", p, err)
	}
	if err := a.requireDir("mkdir", p, path.Dir(p)); err != nil {
		return err
	}
	return a.mkdir(p, opts.Permissions, uid, gid)
}

// mkdirAll creates p and any missing ancestors. Every directory it creates
// receives perm and the given ownership; existing directories are untouched.
func (a *Agent) mkdirAll(p string, perm fs.FileMode, uid, gid int) error {
	cur := "/"
	for _, name := range strings.Split(p, "/") {
		if name == "" {
			continue
		}
		cur = path.Join(cur, name)
		fi, err := a.client.Stat(cur)
		switch {
		case err == nil && fi.IsDir():
			continue
		case err == nil:
			return genericError("mkdir %s: not a directory", p)
		case !errors.Is(err, os.ErrNotExist):
			return toAgentError("mkdir", p, err)
		}
		if err := a.mkdir(cur, perm, uid, gid); err != nil {
			return err
		}
	}
	return nil
}

// mkdir creates a single directory with exact permissions.
func (a *Agent) mkdir(p string, perm fs.FileMode, uid, gid int) error {
	if err := a.client.Mkdir(p); err != nil {
		return toAgentError("mkdir", p, err)
	}
	if err := a.client.Chmod(p, perm.Perm()); err != nil {
		return toAgentError("chmod", p, err)
	}
	if uid == -1 && gid == -1 {
		return nil
	}
	fi, err := a.client.Stat(p)
	if err != nil {
		return toAgentError("chown", p, err)
	}
	uid, gid = fillOwner(fi, uid, gid)
	return toAgentError("chown", p, a.client.Chown(p, uid, gid))
}

// RemovePath implements container.Client.
func (a *Agent) RemovePath(ctx context.Context, opts container.RemovePathOptions) error {
	p, err := begin(ctx, "remove", opts.Path)
	if err != nil {
		return err
	}
	if p == "/" {
		return permissionError("remove", p)
	}

	fi, err := a.client.Lstat(p)
	switch {
	case errors.Is(err, os.ErrNotExist) && opts.Recursive:
		return nil
	case err != nil:
		return a.statError("remove", p, err)
	case !fi.IsDir():
		return toAgentError("remove", p, a.client.Remove(p))
	case opts.Recursive:
		return a.removeAll(p)
	}

	entries, err := a.client.ReadDir(p)
	if err != nil {
		return toAgentError("remove", p, err)
	}
	if len(entries) > 0 {
		return genericError("remove %s: directory not empty", p)
	}
	return toAgentError("remove", p, a.client.RemoveDirectory(p))
}

// removeAll deletes a directory tree without following symlinks.
func (a *Agent) removeAll(p string) error {
	entries, err := a.client.ReadDir(p)
	if err != nil {
		return toAgentError("remove", p, err)
	}
	for _, e := range entries {
		child := path.Join(p, e.Name())
		if e.IsDir() {
			err = a.removeAll(child)
		} else {
			err = toAgentError("remove", child, a.client.Remove(child))
		}
		if err != nil && !isNotFound(err) {
			return err
		}
	}
	if err := a.client.RemoveDirectory(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return toAgentError("remove", p, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var agentErr *container.Error
	return errors.As(err, &agentErr) && agentErr.Kind == container.KindNotFound
}
