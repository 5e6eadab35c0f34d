package container_test

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/pathops"
	"github.com/jmgilman/go/pathops/container"
	"github.com/jmgilman/go/pathops/container/containertest"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
	"github.com/jmgilman/go/pathops/local"
)

// stubClient fails every call with err.
type stubClient struct {
	err error
}

func (s stubClient) ListFiles(context.Context, container.ListFilesOptions) ([]*container.FileInfo, error) {
	return nil, s.err
}
func (s stubClient) ReadFile(context.Context, string) ([]byte, error)             { return nil, s.err }
func (s stubClient) WriteFile(context.Context, container.WriteFileOptions) error   { return s.err }
func (s stubClient) MakeDir(context.Context, container.MakeDirOptions) error       { return s.err }
func (s stubClient) RemovePath(context.Context, container.RemovePathOptions) error { return s.err }

func TestNew(t *testing.T) {
	_, err := container.New("", containertest.New())
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))

	_, err = container.New("web", nil)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))

	agent := containertest.New()
	c, err := container.New("web", agent, container.WithModes(core.Modes{Dir: 0o750}))
	require.NoError(t, err)
	assert.Equal(t, "web", c.Name())
	assert.Same(t, agent, c.Client())
	assert.Equal(t, core.Modes{File: core.DefaultFileMode, Dir: 0o750}, c.Modes())
}

func TestContainer_Path(t *testing.T) {
	c, err := container.New("web", containertest.New())
	require.NoError(t, err)

	p, err := c.Path("/srv//app/./config/")
	require.NoError(t, err)
	assert.Equal(t, "/srv/app/config", p.String())
	assert.True(t, p.IsAbsolute())
	assert.Equal(t, core.BackendContainer, p.Backend())
	assert.Same(t, c, p.Container())

	_, err = c.Path("relative/path")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))
	var pathErr errors.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "web", pathErr.Context()["container"])

	root, err := c.Path("/")
	require.NoError(t, err)
	assert.True(t, root.Parent().Equal(root))
	assert.Empty(t, root.Name())
}

func TestPath_EqualityAcrossContainers(t *testing.T) {
	agent := containertest.New()
	web, err := container.New("web", agent)
	require.NoError(t, err)
	db, err := container.New("db", agent)
	require.NoError(t, err)

	a, _ := web.Path("/etc")
	b, _ := db.Path("/etc")
	a2, _ := web.Path("/etc/")

	assert.True(t, a.Equal(a2))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(local.New("/etc")))

	_, err = a.Compare(b)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))
	_, err = a.Compare(local.New("/etc"))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))

	order, err := a.Compare(a.Join("hosts"))
	require.NoError(t, err)
	assert.Equal(t, -1, order)
}

func TestPath_RoundTrips(t *testing.T) {
	agent := containertest.New()
	root := newRoot(t, agent, "/srv")

	t.Run("write is a single call", func(t *testing.T) {
		agent.ResetCalls()
		_, err := root.Join("f").WriteBytes([]byte("x"), core.WithMode(0o600))
		require.NoError(t, err)
		assert.Equal(t, 1, agent.TotalCalls())
		assert.Equal(t, 1, agent.Calls(containertest.OpWriteFile))
	})

	t.Run("mkdir with existing parent is a single call", func(t *testing.T) {
		agent.ResetCalls()
		require.NoError(t, root.Join("one").Mkdir(core.WithParents()))
		assert.Equal(t, 1, agent.TotalCalls())
	})

	t.Run("mkdir with missing parents retries once", func(t *testing.T) {
		agent.ResetCalls()
		require.NoError(t, root.Join("a", "b", "c").Mkdir(core.WithParents(), core.WithMode(0o700)))
		assert.Equal(t, 3, agent.Calls(containertest.OpMakeDir))
		assert.Equal(t, 3, agent.TotalCalls())
	})

	t.Run("mkdir parents exist_ok on existing dir is a single call", func(t *testing.T) {
		agent.ResetCalls()
		require.NoError(t, root.Join("a", "b").Mkdir(core.WithParents(), core.WithExistOK()))
		assert.Equal(t, 1, agent.TotalCalls())
	})

	t.Run("mkdir parents exist_ok creates missing chain in one call", func(t *testing.T) {
		agent.ResetCalls()
		require.NoError(t, root.Join("x", "y").Mkdir(core.WithParents(), core.WithExistOK()))
		assert.Equal(t, 1, agent.TotalCalls())
		isDir, err := root.Join("x", "y").IsDir()
		require.NoError(t, err)
		assert.True(t, isDir)
	})

	t.Run("mkdir parents exist_ok over a file is already exists", func(t *testing.T) {
		_, err := root.Join("plain").WriteText("x")
		require.NoError(t, err)
		err = root.Join("plain").Mkdir(core.WithParents(), core.WithExistOK())
		assert.True(t, errors.HasCode(err, errors.CodeAlreadyExists))
	})

	t.Run("remove is a single call", func(t *testing.T) {
		agent.ResetCalls()
		require.NoError(t, pathops.RemovePath(root.Join("a"), true))
		assert.Equal(t, 1, agent.TotalCalls())
	})

	t.Run("iterdir is a single listing", func(t *testing.T) {
		agent.ResetCalls()
		for _, err := range root.IterDir() {
			require.NoError(t, err)
		}
		assert.Equal(t, 1, agent.Calls(containertest.OpListFiles))
	})
}

func TestPath_Unreachable(t *testing.T) {
	agent := containertest.New()
	root := newRoot(t, agent, "/srv")
	agent.SetUnreachable(true)

	_, err := root.Join("f").ReadBytes()
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnreachable, errors.GetCode(err))
	assert.True(t, errors.IsRetryable(err))
	assert.NotErrorIs(t, err, fs.ErrNotExist)

	var connErr *container.ConnectionError
	assert.True(t, errors.As(err, &connErr))

	// A lost connection is never reported as a missing path.
	exists, err := root.Join("f").Exists()
	assert.False(t, exists)
	assert.True(t, errors.HasCode(err, errors.CodeUnreachable))

	_, err = pathops.EnsureContents(root.Join("f"), []byte("x"))
	assert.True(t, errors.HasCode(err, errors.CodeUnreachable))
	assert.True(t, errors.HasCode(pathops.RemovePath(root.Join("f"), true), errors.CodeUnreachable))
}

func TestPath_ErrorContext(t *testing.T) {
	agent := containertest.New()
	c, err := container.New("web", agent)
	require.NoError(t, err)
	p, err := c.Path("/missing/file")
	require.NoError(t, err)

	_, err = p.ReadText()
	require.Error(t, err)

	var pathErr errors.PathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, errors.CodeNotFound, pathErr.Code())
	assert.Equal(t, "read", pathErr.Op())
	assert.Equal(t, "/missing/file", pathErr.Path())
	assert.Equal(t, "web", pathErr.Context()["container"])

	var agentErr *container.Error
	require.True(t, errors.As(err, &agentErr))
	assert.Equal(t, container.KindNotFound, agentErr.Kind)
}

func TestPath_UnclassifiedAgentError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"generic unknown phrase", &container.Error{Kind: container.KindGenericFileError, Message: "disk on fire"}, errors.CodeUnknown},
		{"generic known phrase", &container.Error{Kind: container.KindGenericFileError, Message: "mkdir /x: File Exists"}, errors.CodeAlreadyExists},
		{"status 404", &container.Error{StatusCode: 404, Message: "not found"}, errors.CodeNotFound},
		{"status 500", &container.Error{StatusCode: 500, Message: "internal"}, errors.CodeUnknown},
		{"plain error", assert.AnError, errors.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := container.New("web", stubClient{err: tt.err})
			require.NoError(t, err)
			p, _ := c.Path("/x")
			_, err = p.ReadBytes()
			assert.Equal(t, tt.want, errors.GetCode(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPath_OwnerWithoutName(t *testing.T) {
	agent := containertest.New()
	root := newRoot(t, agent, "/srv")
	f := root.Join("f")
	_, err := f.WriteText("x")
	require.NoError(t, err)
	require.NoError(t, agent.Chown(f.String(), 4242, 4343))

	_, err = f.Owner()
	assert.True(t, errors.HasCode(err, errors.CodeLookupFailed))
	_, err = f.Group()
	assert.True(t, errors.HasCode(err, errors.CodeLookupFailed))

	info, err := pathops.Stat(f)
	require.NoError(t, err)
	assert.Equal(t, "4242", info.User)
	assert.Equal(t, "4343", info.Group)
}

func TestPath_Socket(t *testing.T) {
	agent := containertest.New()
	root := newRoot(t, agent, "/run")
	require.NoError(t, agent.Mksock("/run/app.sock", 0o660))

	isSocket, err := root.Join("app.sock").IsSocket()
	require.NoError(t, err)
	assert.True(t, isSocket)

	_, err = root.Join("app.sock").ReadBytes()
	assert.True(t, errors.HasCode(err, errors.CodeIsADirectory))
}

func TestContainer_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, err := container.New("web", containertest.New(), container.WithLogger(logger))
	require.NoError(t, err)

	p, _ := c.Path("/etc")
	_, err = p.Exists()
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "backend=container")
	assert.Contains(t, out, "container=web")
	assert.Contains(t, out, "op=stat")
}
