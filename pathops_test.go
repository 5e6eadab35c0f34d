package pathops_test

import (
	"os"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/pathops"
	"github.com/jmgilman/go/pathops/container"
	"github.com/jmgilman/go/pathops/container/containertest"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
	"github.com/jmgilman/go/pathops/local"
)

// bare hides every optional capability of the wrapped path.
type bare struct {
	core.Path
}

func containerRoot(t *testing.T) (*containertest.Agent, core.Path) {
	t.Helper()
	agent := containertest.New()
	c, err := container.New("app", agent)
	require.NoError(t, err)
	root, err := c.Path("/etc/app")
	require.NoError(t, err)
	require.NoError(t, root.Mkdir(core.WithParents()))
	agent.ResetCalls()
	return agent, root
}

func TestEnsureContents_ModeDrift(t *testing.T) {
	backends := map[string]func(t *testing.T) core.Path{
		"local": func(t *testing.T) core.Path { return local.New(t.TempDir()) },
		"container": func(t *testing.T) core.Path {
			_, root := containerRoot(t)
			return root
		},
	}

	for name, newRoot := range backends {
		t.Run(name, func(t *testing.T) {
			p := newRoot(t).Join("app.conf")
			_, err := p.WriteText("listen=8080", core.WithMode(0o600))
			require.NoError(t, err)

			changed, err := pathops.EnsureText(p, "listen=8080")
			require.NoError(t, err)
			assert.True(t, changed, "identical content with a different mode must be rewritten")

			info, err := pathops.Stat(p)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o644), info.Permissions)

			changed, err = pathops.EnsureText(p, "listen=8080")
			require.NoError(t, err)
			assert.False(t, changed)
		})
	}
}

func TestEnsureContents_ContainerRoundTrips(t *testing.T) {
	agent, root := containerRoot(t)
	p := root.Join("app.conf")

	changed, err := pathops.EnsureContents(p, []byte("a"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, agent.Calls(containertest.OpWriteFile))

	agent.ResetCalls()
	changed, err = pathops.EnsureContents(p, []byte("a"))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Zero(t, agent.Calls(containertest.OpWriteFile))
	assert.Equal(t, 1, agent.Calls(containertest.OpReadFile))

	// Changed content: stat, read, one parent mkdir, write.
	agent.ResetCalls()
	changed, err = pathops.EnsureContents(p, []byte("b"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, agent.Calls(containertest.OpMakeDir))
	assert.Equal(t, 4, agent.TotalCalls())

	// A mode mismatch skips the content read entirely.
	agent.ResetCalls()
	changed, err = pathops.EnsureContents(p, []byte("a"), core.WithMode(0o600))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Zero(t, agent.Calls(containertest.OpReadFile))
}

func TestEnsureContents_Ownership(t *testing.T) {
	agent, root := containerRoot(t)
	agent.AddUser("app", 1000)
	agent.AddGroup("app", 1000)
	p := root.Join("owned")

	_, err := p.WriteText("x")
	require.NoError(t, err)

	changed, err := pathops.EnsureText(p, "x")
	require.NoError(t, err)
	assert.False(t, changed, "owner is only compared when requested")

	changed, err = pathops.EnsureText(p, "x", core.WithUser("app"))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = pathops.EnsureText(p, "x", core.WithUser("app"), core.WithGroup("app"))
	require.NoError(t, err)
	assert.True(t, changed)

	owner, err := p.Owner()
	require.NoError(t, err)
	assert.Equal(t, "app", owner)

	_, err = pathops.EnsureText(root.Join("other"), "x", core.WithUser("ghost"))
	assert.True(t, errors.HasCode(err, errors.CodeLookupFailed))
}

func TestEnsureContentsFrom_ReaderError(t *testing.T) {
	p := local.New(t.TempDir()).Join("f")
	_, err := pathops.EnsureContentsFrom(p, iotest.ErrReader(assert.AnError))
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	exists, err := p.Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnsupportedPath(t *testing.T) {
	p := bare{local.New(t.TempDir())}

	_, err := pathops.Stat(p)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))

	assert.True(t, errors.HasCode(pathops.RemovePath(p, true), errors.CodeInvalidArgument))

	_, err = pathops.EnsureContents(p, []byte("x"))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidArgument))
}

func TestRemovePath_ContainerSingleCall(t *testing.T) {
	agent, root := containerRoot(t)
	require.NoError(t, root.Join("a", "b").Mkdir(core.WithParents()))
	_, err := root.Join("a", "b", "c").WriteText("x")
	require.NoError(t, err)

	agent.ResetCalls()
	err = pathops.RemovePath(root.Join("a"), false)
	assert.True(t, errors.HasCode(err, errors.CodeDirectoryNotEmpty))
	assert.Equal(t, 1, agent.TotalCalls())

	require.NoError(t, pathops.RemovePath(root.Join("a"), true))
	exists, err := root.Join("a").Exists()
	require.NoError(t, err)
	assert.False(t, exists)
}
