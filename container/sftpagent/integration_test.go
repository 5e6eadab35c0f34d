package sftpagent_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jmgilman/go/pathops/container"
	"github.com/jmgilman/go/pathops/container/sftpagent"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/pathtest"
)

// setupTestSSH starts an OpenSSH server with a chrooted "foo" user and
// returns an agent connected to it.
func setupTestSSH(t *testing.T) *sftpagent.Agent {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "atmoz/sftp:latest",
		ExposedPorts: []string{"22/tcp"},
		Cmd:          []string{"foo:pass:1001::upload"},
		WaitingFor:   wait.ForListeningPort("22/tcp"),
	}
	sshC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start SSH container")
	t.Cleanup(func() { _ = sshC.Terminate(ctx) })

	host, err := sshC.Host(ctx)
	require.NoError(t, err)
	port, err := sshC.MappedPort(ctx, "22/tcp")
	require.NoError(t, err)

	agent, err := sftpagent.Dial(ctx, sftpagent.Config{
		Host:                  host,
		Port:                  port.Int(),
		User:                  "foo",
		Password:              "pass",
		InsecureIgnoreHostKey: true,
	})
	require.NoError(t, err, "failed to dial SSH container")
	t.Cleanup(func() { _ = agent.Close() })
	return agent
}

func TestIntegration_Conformance(t *testing.T) {
	agent := setupTestSSH(t)
	c, err := container.New("atmoz", agent)
	require.NoError(t, err)

	var n atomic.Int64
	config := pathtest.Config{
		// The chroot hides /etc/passwd, so names cannot be resolved, and
		// OpenSSH reports symlink loops as a bare SSH_FX_FAILURE.
		SkipTests: []string{"Ownership", "EnsureContents/Owner", "Query/Symlinks"},
		MakeSymlink: func(t *testing.T, target string, link core.Path) {
			require.NoError(t, agent.SFTP().Symlink(target, link.String()))
		},
	}

	pathtest.TestSuiteWithConfig(t, func(t *testing.T) core.Path {
		root, err := c.Path(fmt.Sprintf("/upload/run-%d", n.Add(1)))
		require.NoError(t, err)
		require.NoError(t, root.Mkdir())
		return root
	}, config)
}
