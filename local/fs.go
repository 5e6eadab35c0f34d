package local

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/internal/logging"
)

// FS is the backend root for local paths. It owns the default modes and the
// logger used by every Path created from it. An FS is safe for concurrent use.
type FS struct {
	bfs    billy.Filesystem
	modes  core.Modes
	logger *logging.Logger
}

// Option configures an FS.
type Option func(*FS)

// WithModes sets the default permissions for new files and directories.
// Zero fields fall back to core.DefaultFileMode and core.DefaultDirMode.
func WithModes(modes core.Modes) Option {
	return func(f *FS) {
		f.modes = modes.OrDefault()
	}
}

// WithLogger sets the logger. Round trips are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(f *FS) {
		f.logger = logging.FromSlog(logger).WithBackend(core.BackendLocal.String())
	}
}

// NewFS creates a local backend root.
func NewFS(opts ...Option) *FS {
	f := &FS{
		bfs:    osfs.New("/"),
		modes:  core.DefaultModes(),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// defaultFS backs New. It is never modified after initialization.
var defaultFS = NewFS()

// New returns a path on the default local backend root.
func New(path string) Path {
	return defaultFS.Path(path)
}

// Path returns a path on this backend root.
func (f *FS) Path(path string) Path {
	return Path{fs: f, path: clean(path)}
}

// Modes returns the default permissions of this root.
func (f *FS) Modes() core.Modes {
	return f.modes
}

// Unwrap returns the underlying billy.Filesystem.
func (f *FS) Unwrap() billy.Filesystem {
	return f.bfs
}

func (f *FS) record(op, path string, start time.Time, err error) {
	logging.LogCall(context.Background(), f.logger, op, path, start, err)
}
