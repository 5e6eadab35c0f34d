package s3agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/pathops/container"
	"github.com/jmgilman/go/pathops/container/s3agent/internal/keys"
)

// User metadata keys recording POSIX attributes on objects and markers.
const (
	metaMode  = "Mode"
	metaUser  = "User"
	metaGroup = "Group"
)

const (
	defaultFileMode fs.FileMode = 0o644
	defaultDirMode  fs.FileMode = 0o755
)

// Agent is a container.Client backed by an S3 bucket. It is safe for
// concurrent use.
type Agent struct {
	client      *minio.Client
	bucket      string
	prefix      string
	concurrency int

	users        map[string]int
	groups       map[string]int
	defaultUser  string
	defaultGroup string
}

var _ container.Client = (*Agent)(nil)

// New creates an S3 backed agent.
// Returns error if configuration is invalid or the client cannot be created.
// The bucket is not checked; a missing bucket surfaces as not found.
func New(cfg Config) (*Agent, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:      credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure:     cfg.UseSSL,
			MaxRetries: cfg.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	concurrency := cfg.MaxConcurrency
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}

	users, groups, user, group := cfg.owners()
	return &Agent{
		client:       client,
		bucket:       cfg.Bucket,
		prefix:       keys.NormalizePrefix(cfg.Prefix),
		concurrency:  concurrency,
		users:        users,
		groups:       groups,
		defaultUser:  user,
		defaultGroup: group,
	}, nil
}

// Client returns the underlying MinIO client.
func (a *Agent) Client() *minio.Client {
	return a.client
}

// Bucket returns the bucket holding the filesystem.
func (a *Agent) Bucket() string {
	return a.bucket
}

// object is the resolved state of one path.
type object struct {
	path    string
	dir     bool
	size    int64
	modTime time.Time
	meta    map[string]string
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

// lookup resolves p as a file, a directory marker or an implicit directory
// holding other objects. It returns nil when nothing exists at p.
func (a *Agent) lookup(ctx context.Context, op, p string) (*object, error) {
	if p == "/" {
		return &object{path: p, dir: true}, nil
	}

	info, err := a.client.StatObject(ctx, a.bucket, keys.Object(a.prefix, p), minio.StatObjectOptions{})
	switch {
	case err == nil:
		return &object{path: p, size: info.Size, modTime: info.LastModified, meta: info.UserMetadata}, nil
	case !isNoSuchKey(err):
		return nil, translate(op, p, err)
	}
	return a.lookupDir(ctx, op, p)
}

func (a *Agent) lookupDir(ctx context.Context, op, p string) (*object, error) {
	dirKey := keys.Dir(a.prefix, p)
	info, err := a.client.StatObject(ctx, a.bucket, dirKey, minio.StatObjectOptions{})
	switch {
	case err == nil:
		return &object{path: p, dir: true, modTime: info.LastModified, meta: info.UserMetadata}, nil
	case !isNoSuchKey(err):
		return nil, translate(op, p, err)
	}

	found, err := a.hasChildren(ctx, dirKey)
	if err != nil {
		return nil, translate(op, p, err)
	}
	if found {
		return &object{path: p, dir: true}, nil
	}
	return nil, nil
}

// stat is lookup that reports a missing path as an error.
func (a *Agent) stat(ctx context.Context, op, p string) (*object, error) {
	o, err := a.lookup(ctx, op, p)
	if err != nil || o != nil {
		return o, err
	}
	return nil, a.missing(ctx, op, p)
}

// missing explains why nothing exists at p: a file in place of one of its
// ancestors is reported as "not a directory".
func (a *Agent) missing(ctx context.Context, op, p string) error {
	for dir := path.Dir(p); dir != "/"; dir = path.Dir(dir) {
		_, err := a.client.StatObject(ctx, a.bucket, keys.Object(a.prefix, dir), minio.StatObjectOptions{})
		switch {
		case err == nil:
			return genericError("%s %s: not a directory", op, p)
		case !isNoSuchKey(err):
			return translate(op, p, err)
		}
	}
	return notFoundError(op, p)
}

// hasChildren reports whether any object other than the marker itself is
// stored below dirKey.
func (a *Agent) hasChildren(ctx context.Context, dirKey string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:  dirKey,
		MaxKeys: 2,
	}) {
		if obj.Err != nil {
			return false, obj.Err
		}
		if obj.Key != dirKey {
			return true, nil
		}
	}
	return false, nil
}

// requireDir checks that dir exists and is a directory, reporting failures
// against target.
func (a *Agent) requireDir(ctx context.Context, op, target, dir string) error {
	o, err := a.stat(ctx, op, dir)
	switch {
	case isNotFound(err):
		return notFoundError(op, target)
	case err != nil:
		return err
	case !o.dir:
		return genericError("%s %s: not a directory", op, target)
	}
	return nil
}

// ListFiles implements container.Client. Metadata of the children is fetched
// concurrently, bounded by Config.MaxConcurrency.
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

	o, err := a.stat(ctx, "stat", p)
	if err != nil {
		return nil, err
	}
	if !o.dir || opts.Itself {
		if !matches(opts.Pattern, path.Base(p)) {
			return nil, nil
		}
		return []*container.FileInfo{a.info(o)}, nil
	}

	children, err := a.children(ctx, p, opts.Pattern)
	if err != nil {
		return nil, err
	}
	out := make([]*container.FileInfo, 0, len(children))
	for _, c := range children {
		out = append(out, a.info(c))
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

type childRef struct {
	name string
	dir  bool
}

// children lists the immediate children of the directory p whose names
// match pattern, sorted by name.
func (a *Agent) children(ctx context.Context, p, pattern string) ([]*object, error) {
	dirKey := keys.Dir(a.prefix, p)

	// Stops the listing goroutine when an error ends the loop early.
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var refs []childRef
	seen := make(map[string]bool)
	for obj := range a.client.ListObjects(listCtx, a.bucket, minio.ListObjectsOptions{
		Prefix: dirKey,
	}) {
		if obj.Err != nil {
			return nil, translate("open", p, obj.Err)
		}
		name, isDir := keys.Child(dirKey, obj.Key)
		if name == "" || seen[name] || !matches(pattern, name) {
			continue
		}
		seen[name] = true
		refs = append(refs, childRef{name: name, dir: isDir})
	}

	out := make([]*object, len(refs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for i, ref := range refs {
		eg.Go(func() error {
			child := path.Join(p, ref.name)
			if ref.dir {
				o, err := a.lookupDir(egCtx, "stat", child)
				out[i] = o
				return err
			}
			info, err := a.client.StatObject(egCtx, a.bucket, keys.Object(a.prefix, child), minio.StatObjectOptions{})
			switch {
			case err == nil:
				out[i] = &object{path: child, size: info.Size, modTime: info.LastModified, meta: info.UserMetadata}
			case !isNoSuchKey(err):
				return translate("stat", child, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Entries removed while listing leave gaps.
	out = slices.DeleteFunc(out, func(o *object) bool { return o == nil })
	slices.SortFunc(out, func(x, y *object) int {
		return strings.Compare(x.path, y.path)
	})
	return out, nil
}

func (a *Agent) info(o *object) *container.FileInfo {
	typ, perm := container.TypeFile, defaultFileMode
	if o.dir {
		typ, perm = container.TypeDirectory, defaultDirMode
	}
	if v := metaValue(o.meta, metaMode); v != "" {
		if mode, err := strconv.ParseUint(v, 8, 32); err == nil {
			perm = fs.FileMode(mode).Perm()
		}
	}

	user := metaValue(o.meta, metaUser)
	if user == "" {
		user = a.defaultUser
	}
	group := metaValue(o.meta, metaGroup)
	if group == "" {
		group = a.defaultGroup
	}

	fi := &container.FileInfo{
		Path:         o.path,
		Name:         path.Base(o.path),
		Type:         typ,
		Size:         o.size,
		Permissions:  perm,
		LastModified: o.modTime,
		User:         user,
		Group:        group,
	}
	if id, ok := a.users[user]; ok {
		fi.UserID = &id
	}
	if id, ok := a.groups[group]; ok {
		fi.GroupID = &id
	}
	return fi
}

// metaValue looks up user metadata case-insensitively; servers differ in how
// they canonicalize the names.
func metaValue(meta map[string]string, name string) string {
	if v, ok := meta[name]; ok {
		return v
	}
	for k, v := range meta {
		if strings.EqualFold(k, name) || strings.EqualFold(k, "X-Amz-Meta-"+name) {
			return v
		}
	}
	return ""
}

func metadata(perm fs.FileMode, user, group string) map[string]string {
	return map[string]string{
		metaMode:  fmt.Sprintf("%04o", perm.Perm()),
		metaUser:  user,
		metaGroup: group,
	}
}

// ReadFile implements container.Client.
func (a *Agent) ReadFile(ctx context.Context, p string) ([]byte, error) {
	p, err := begin(ctx, "open", p)
	if err != nil {
		return nil, err
	}
	if p == "/" {
		return nil, genericError("can only read a regular file: %q", p)
	}

	obj, err := a.client.GetObject(ctx, a.bucket, keys.Object(a.prefix, p), minio.GetObjectOptions{})
	if err != nil {
		return nil, translate("open", p, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err == nil {
		return data, nil
	}
	if !isNoSuchKey(err) {
		return nil, translate("read", p, err)
	}

	o, err := a.lookupDir(ctx, "open", p)
	switch {
	case err != nil:
		return nil, err
	case o != nil:
		return nil, genericError("can only read a regular file: %q", p)
	}
	return nil, a.missing(ctx, "open", p)
}

// owner resolves optional user and group names, substituting the defaults.
func (a *Agent) owner(user, group string) (string, string, error) {
	if user == "" {
		user = a.defaultUser
	} else if _, ok := a.users[user]; !ok {
		return "", "", fmt.Errorf("cannot look up user and group: user: unknown user %s", user)
	}
	if group == "" {
		group = a.defaultGroup
	} else if _, ok := a.groups[group]; !ok {
		return "", "", fmt.Errorf("cannot look up user and group: group: unknown group %s", group)
	}
	return user, group, nil
}

// WriteFile implements container.Client. A single PUT replaces the object,
// so readers never observe partial contents.
func (a *Agent) WriteFile(ctx context.Context, opts container.WriteFileOptions) error {
	p, err := begin(ctx, "open", opts.Path)
	if err != nil {
		return err
	}
	if p == "/" {
		return genericError("open %s: is a directory", p)
	}
	user, group, err := a.owner(opts.User, opts.Group)
	if err != nil {
		return genericError("open %s: %v", p, err)
	}

	dir := path.Dir(p)
	if opts.MakeDirs {
		if err := a.mkdirAll(ctx, dir, defaultDirMode, a.defaultUser, a.defaultGroup); err != nil {
			return err
		}
	}
	if err := a.requireDir(ctx, "open", p, dir); err != nil {
		return err
	}
	o, err := a.lookupDir(ctx, "open", p)
	switch {
	case err != nil:
		return err
	case o != nil:
		return genericError("open %s: is a directory", p)
	}

	_, err = a.client.PutObject(ctx, a.bucket, keys.Object(a.prefix, p),
		bytes.NewReader(opts.Data), int64(len(opts.Data)),
		minio.PutObjectOptions{
			ContentType:  "application/octet-stream",
			UserMetadata: metadata(opts.Permissions, user, group),
		})
	return translate("write", p, err)
}

// MakeDir implements container.Client.
func (a *Agent) MakeDir(ctx context.Context, opts container.MakeDirOptions) error {
	p, err := begin(ctx, "mkdir", opts.Path)
	if err != nil {
		return err
	}
	user, group, err := a.owner(opts.User, opts.Group)
	if err != nil {
		return genericError("mkdir %s: %v", p, err)
	}
	if opts.MakeParents {
		return a.mkdirAll(ctx, p, opts.Permissions, user, group)
	}

	o, err := a.lookup(ctx, "mkdir", p)
	switch {
	case err != nil:
		return err
	case o != nil:
		return genericError("mkdir %s: file exists", p)
	}
	if err := a.requireDir(ctx, "mkdir", p, path.Dir(p)); err != nil {
		return err
	}
	return a.putMarker(ctx, p, opts.Permissions, user, group)
}

// mkdirAll creates p and any missing ancestors. Every directory it creates
// receives perm and the given ownership; existing directories are untouched.
func (a *Agent) mkdirAll(ctx context.Context, p string, perm fs.FileMode, user, group string) error {
	cur := "/"
	for _, name := range strings.Split(p, "/") {
		if name == "" {
			continue
		}
		cur = path.Join(cur, name)
		o, err := a.lookup(ctx, "mkdir", cur)
		switch {
		case err != nil:
			return err
		case o != nil && o.dir:
			continue
		case o != nil:
			return genericError("mkdir %s: not a directory", p)
		}
		if err := a.putMarker(ctx, cur, perm, user, group); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) putMarker(ctx context.Context, p string, perm fs.FileMode, user, group string) error {
	_, err := a.client.PutObject(ctx, a.bucket, keys.Dir(a.prefix, p),
		bytes.NewReader(nil), 0,
		minio.PutObjectOptions{UserMetadata: metadata(perm, user, group)})
	return translate("mkdir", p, err)
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

	o, err := a.lookup(ctx, "remove", p)
	switch {
	case err != nil:
		return err
	case o == nil && opts.Recursive:
		return nil
	case o == nil:
		return a.missing(ctx, "remove", p)
	case !o.dir:
		return translate("remove", p, a.client.RemoveObject(ctx, a.bucket,
			keys.Object(a.prefix, p), minio.RemoveObjectOptions{}))
	case opts.Recursive:
		return a.removeTree(ctx, p)
	}

	dirKey := keys.Dir(a.prefix, p)
	found, err := a.hasChildren(ctx, dirKey)
	if err != nil {
		return translate("remove", p, err)
	}
	if found {
		return genericError("remove %s: directory not empty", p)
	}
	return translate("remove", p, a.client.RemoveObject(ctx, a.bucket, dirKey, minio.RemoveObjectOptions{}))
}

// removeTree deletes the marker of p and every object below it using the
// batch delete API.
func (a *Agent) removeTree(ctx context.Context, p string) error {
	dirKey := keys.Dir(a.prefix, p)
	objectsCh := make(chan minio.ObjectInfo, 100)

	var listErr error
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer close(objectsCh)
		for obj := range a.client.ListObjects(listCtx, a.bucket, minio.ListObjectsOptions{
			Prefix:    dirKey,
			Recursive: true,
		}) {
			if obj.Err != nil {
				listErr = obj.Err
				return
			}
			objectsCh <- obj
		}
	}()

	var firstErr error
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil && firstErr == nil && !isNoSuchKey(rerr.Err) {
			firstErr = rerr.Err
		}
	}

	if listErr != nil {
		return translate("remove", p, listErr)
	}
	return translate("remove", p, firstErr)
}
