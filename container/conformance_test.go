package container_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/pathops/container"
	"github.com/jmgilman/go/pathops/container/containertest"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/pathtest"
)

func TestConformance(t *testing.T) {
	var agent *containertest.Agent
	config := pathtest.Config{
		User:        "app",
		Group:       "staff",
		UnknownUser: "ghost",
		MakeFIFO: func(t *testing.T, p core.Path) {
			require.NoError(t, agent.Mkfifo(p.String(), 0o644))
		},
		MakeSymlink: func(t *testing.T, target string, link core.Path) {
			require.NoError(t, agent.Symlink(target, link.String()))
		},
	}

	pathtest.TestSuiteWithConfig(t, func(t *testing.T) core.Path {
		agent = containertest.New()
		agent.AddUser("app", 1000)
		agent.AddGroup("staff", 50)
		return newRoot(t, agent, "/work")
	}, config)
}

func TestConformance_CustomModes(t *testing.T) {
	pathtest.TestSuite(t, func(t *testing.T) core.Path {
		agent := containertest.New()
		c, err := container.New("custom", agent, container.WithModes(core.Modes{File: 0o600, Dir: 0o700}))
		require.NoError(t, err)
		root, err := c.Path("/data")
		require.NoError(t, err)
		require.NoError(t, root.Mkdir())
		return root
	})
}

func newRoot(t *testing.T, agent *containertest.Agent, dir string) container.Path {
	t.Helper()
	c, err := container.New("test", agent)
	require.NoError(t, err)
	root, err := c.Path(dir)
	require.NoError(t, err)
	require.NoError(t, root.Mkdir(core.WithParents(), core.WithExistOK()))
	agent.ResetCalls()
	return root
}
