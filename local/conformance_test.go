//go:build unix

package local_test

import (
	"os"
	"os/user"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/local"
	"github.com/jmgilman/go/pathops/pathtest"
)

func TestConformance(t *testing.T) {
	u, err := user.Current()
	require.NoError(t, err)
	config := pathtest.Config{
		User:        u.Username,
		UnknownUser: "pathops-no-such-user",
		MakeFIFO: func(t *testing.T, p core.Path) {
			require.NoError(t, syscall.Mkfifo(p.String(), 0o644))
		},
		MakeSymlink: func(t *testing.T, target string, link core.Path) {
			require.NoError(t, os.Symlink(target, link.String()))
		},
	}
	if g, err := user.LookupGroupId(u.Gid); err == nil {
		config.Group = g.Name
	}

	pathtest.TestSuiteWithConfig(t, func(t *testing.T) core.Path {
		return local.New(t.TempDir())
	}, config)
}

func TestConformance_CustomModes(t *testing.T) {
	fs := local.NewFS(local.WithModes(core.Modes{File: 0o600, Dir: 0o700}))
	pathtest.TestSuite(t, func(t *testing.T) core.Path {
		return fs.Path(t.TempDir())
	})
}
