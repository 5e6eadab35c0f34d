package container

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
	"github.com/jmgilman/go/pathops/internal/logging"
	"github.com/jmgilman/go/pathops/internal/posixpath"
)

// Container is a reference to a remote filesystem. It does not own the Client;
// the caller manages the connection's lifecycle. A Container is safe for
// concurrent use when its Client is.
type Container struct {
	name   string
	client Client
	modes  core.Modes
	logger *logging.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithModes sets the default permissions for new files and directories.
// Zero fields fall back to core.DefaultFileMode and core.DefaultDirMode.
func WithModes(modes core.Modes) Option {
	return func(c *Container) {
		c.modes = modes.OrDefault()
	}
}

// WithLogger sets the logger. Every agent call is logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		c.logger = logging.FromSlog(logger)
	}
}

// New creates a Container named name on top of client.
func New(name string, client Client, opts ...Option) (*Container, error) {
	if name == "" {
		return nil, errors.New(errors.CodeInvalidArgument, "container name is required")
	}
	if client == nil {
		return nil, errors.Newf(errors.CodeInvalidArgument, "container %q: client is required", name)
	}

	c := &Container{
		name:   name,
		client: client,
		modes:  core.DefaultModes(),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.WithBackend(core.BackendContainer.String()).With("container", name)
	return c, nil
}

// Name returns the container name.
func (c *Container) Name() string {
	return c.name
}

// Client returns the borrowed agent client.
func (c *Container) Client() Client {
	return c.client
}

// Modes returns the default permissions of this container.
func (c *Container) Modes() core.Modes {
	return c.modes
}

// Path returns a path inside the container. The path must be absolute.
func (c *Container) Path(path string) (Path, error) {
	if !posixpath.IsAbs(path) {
		return Path{}, errors.WithContext(
			errors.Newf(errors.CodeInvalidArgument, "container path %q must be absolute", path),
			"container", c.name)
	}
	return Path{c: c, path: posixpath.Clean(path)}, nil
}

// do runs a single agent call, translating and logging its outcome.
func (c *Container) do(op, path string, call func(ctx context.Context) error) error {
	ctx := context.Background()
	start := time.Now()
	err := c.translate(op, path, call(ctx))
	logging.LogCall(ctx, c.logger, op, path, start, err)
	return err
}

// list returns the agent entries for a path.
func (c *Container) list(op string, opts ListFilesOptions) ([]*FileInfo, error) {
	var entries []*FileInfo
	err := c.do(op, opts.Path, func(ctx context.Context) error {
		var err error
		entries, err = c.client.ListFiles(ctx, opts)
		return err
	})
	return entries, err
}
