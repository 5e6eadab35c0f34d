package containertest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/pathops/container"
	"github.com/jmgilman/go/pathops/container/containertest"
)

func agentError(t *testing.T, err error) *container.Error {
	t.Helper()
	var agentErr *container.Error
	require.ErrorAs(t, err, &agentErr)
	return agentErr
}

func TestAgent_WriteAndList(t *testing.T) {
	ctx := context.Background()
	a := containertest.New()
	a.AddUser("app", 1000)
	a.AddGroup("app", 1000)

	require.NoError(t, a.WriteFile(ctx, container.WriteFileOptions{
		Path: "/srv/app/config.yaml", Data: []byte("port: 80"), MakeDirs: true,
		Permissions: 0o640, User: "app", Group: "app",
	}))

	entries, err := a.ListFiles(ctx, container.ListFilesOptions{Path: "/srv/app"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "/srv/app/config.yaml", e.Path)
	assert.Equal(t, "config.yaml", e.Name)
	assert.Equal(t, container.TypeFile, e.Type)
	assert.EqualValues(t, 0o640, e.Permissions)
	assert.EqualValues(t, 8, e.Size)
	assert.Equal(t, "app", e.User)
	require.NotNil(t, e.UserID)
	assert.Equal(t, 1000, *e.UserID)

	data, err := a.ReadFile(ctx, "/srv/app/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "port: 80", string(data))

	assert.Equal(t, []string{"/", "/srv", "/srv/app", "/srv/app/config.yaml"}, a.Tree())
}

func TestAgent_ListFiles(t *testing.T) {
	ctx := context.Background()
	a := containertest.New()
	for _, p := range []string{"/d/a.txt", "/d/b.txt", "/d/c.md"} {
		require.NoError(t, a.WriteFile(ctx, container.WriteFileOptions{Path: p, MakeDirs: true, Permissions: 0o644}))
	}

	entries, err := a.ListFiles(ctx, container.ListFilesOptions{Path: "/d", Pattern: "*.txt"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, "b.txt", entries[1].Name)

	itself, err := a.ListFiles(ctx, container.ListFilesOptions{Path: "/d", Itself: true})
	require.NoError(t, err)
	require.Len(t, itself, 1)
	assert.Equal(t, container.TypeDirectory, itself[0].Type)

	_, err = a.ListFiles(ctx, container.ListFilesOptions{Path: "/d", Pattern: "[a"})
	assert.Equal(t, 400, agentError(t, err).StatusCode)

	_, err = a.ListFiles(ctx, container.ListFilesOptions{Path: "/nope"})
	assert.Equal(t, container.KindNotFound, agentError(t, err).Kind)
}

func TestAgent_Errors(t *testing.T) {
	ctx := context.Background()
	a := containertest.New()
	require.NoError(t, a.MakeDir(ctx, container.MakeDirOptions{Path: "/dir", Permissions: 0o755}))
	require.NoError(t, a.WriteFile(ctx, container.WriteFileOptions{Path: "/dir/f", Permissions: 0o644}))

	tests := []struct {
		name    string
		call    func() error
		kind    container.ErrorKind
		message string
	}{
		{
			name:    "mkdir existing",
			call:    func() error { return a.MakeDir(ctx, container.MakeDirOptions{Path: "/dir"}) },
			kind:    container.KindGenericFileError,
			message: "file exists",
		},
		{
			name:    "read directory",
			call:    func() error { _, err := a.ReadFile(ctx, "/dir"); return err },
			kind:    container.KindGenericFileError,
			message: "can only read a regular file",
		},
		{
			name:    "write directory",
			call:    func() error { return a.WriteFile(ctx, container.WriteFileOptions{Path: "/dir"}) },
			kind:    container.KindGenericFileError,
			message: "is a directory",
		},
		{
			name:    "through file",
			call:    func() error { _, err := a.ReadFile(ctx, "/dir/f/x"); return err },
			kind:    container.KindGenericFileError,
			message: "not a directory",
		},
		{
			name:    "remove non-empty",
			call:    func() error { return a.RemovePath(ctx, container.RemovePathOptions{Path: "/dir"}) },
			kind:    container.KindGenericFileError,
			message: "directory not empty",
		},
		{
			name:    "remove root",
			call:    func() error { return a.RemovePath(ctx, container.RemovePathOptions{Path: "/", Recursive: true}) },
			kind:    container.KindPermissionDenied,
			message: "permission denied",
		},
		{
			name:    "unknown user",
			call:    func() error { return a.WriteFile(ctx, container.WriteFileOptions{Path: "/dir/g", User: "ghost"}) },
			kind:    container.KindGenericFileError,
			message: "cannot look up user and group",
		},
		{
			name:    "missing parent",
			call:    func() error { return a.MakeDir(ctx, container.MakeDirOptions{Path: "/a/b"}) },
			kind:    container.KindNotFound,
			message: "no such file or directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := agentError(t, tt.call())
			assert.Equal(t, tt.kind, err.Kind)
			assert.Contains(t, err.Message, tt.message)
		})
	}
}

func TestAgent_Symlinks(t *testing.T) {
	ctx := context.Background()
	a := containertest.New()
	require.NoError(t, a.WriteFile(ctx, container.WriteFileOptions{Path: "/data/file", MakeDirs: true, Data: []byte("x")}))
	require.NoError(t, a.Symlink("/data", "/link"))
	require.NoError(t, a.Symlink("file", "/data/rel"))
	require.NoError(t, a.Symlink("/loop2", "/loop1"))
	require.NoError(t, a.Symlink("/loop1", "/loop2"))

	data, err := a.ReadFile(ctx, "/link/file")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	data, err = a.ReadFile(ctx, "/data/rel")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	_, err = a.ReadFile(ctx, "/loop1")
	loop := agentError(t, err)
	assert.Equal(t, 400, loop.StatusCode)
	assert.Contains(t, loop.Message, "too many levels of symbolic links")

	data, err = a.ReadFile(ctx, "/data/../data/file")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestAgent_RemoveRecursive(t *testing.T) {
	ctx := context.Background()
	a := containertest.New()
	require.NoError(t, a.MakeDir(ctx, container.MakeDirOptions{Path: "/a/b/c", MakeParents: true, Permissions: 0o700}))

	require.NoError(t, a.RemovePath(ctx, container.RemovePathOptions{Path: "/a", Recursive: true}))
	require.NoError(t, a.RemovePath(ctx, container.RemovePathOptions{Path: "/a", Recursive: true}))
	require.NoError(t, a.RemovePath(ctx, container.RemovePathOptions{Path: "/a/b", Recursive: true}))
	assert.Equal(t, []string{"/"}, a.Tree())

	err := a.RemovePath(ctx, container.RemovePathOptions{Path: "/a"})
	assert.Equal(t, container.KindNotFound, agentError(t, err).Kind)
}

func TestAgent_CallsAndReachability(t *testing.T) {
	ctx := context.Background()
	a := containertest.New()

	_, _ = a.ListFiles(ctx, container.ListFilesOptions{Path: "/"})
	_, _ = a.ReadFile(ctx, "/missing")
	assert.Equal(t, 1, a.Calls(containertest.OpListFiles))
	assert.Equal(t, 1, a.Calls(containertest.OpReadFile))
	assert.Equal(t, 2, a.TotalCalls())

	a.ResetCalls()
	assert.Zero(t, a.TotalCalls())

	a.SetUnreachable(true)
	_, err := a.ReadFile(ctx, "/")
	var connErr *container.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, 1, a.Calls(containertest.OpReadFile))

	a.SetUnreachable(false)
	_, err = a.ListFiles(ctx, container.ListFilesOptions{Path: "/"})
	require.NoError(t, err)
}
