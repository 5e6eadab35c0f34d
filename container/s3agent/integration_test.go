package s3agent_test

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jmgilman/go/pathops/container"
	"github.com/jmgilman/go/pathops/container/s3agent"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/pathtest"
)

const testBucket = "test-bucket"

// setupTestMinIO starts a MinIO container and returns a client with an
// empty test bucket.
func setupTestMinIO(t *testing.T) *minio.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp"),
	}
	minioC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start MinIO container")
	t.Cleanup(func() { _ = minioC.Terminate(ctx) })

	endpoint, err := minioC.Endpoint(ctx, "")
	require.NoError(t, err, "failed to get container endpoint")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	require.NoError(t, err, "failed to create MinIO client")
	require.NoError(t, client.MakeBucket(ctx, testBucket, minio.MakeBucketOptions{}), "failed to create test bucket")
	return client
}

func newAgent(t *testing.T, client *minio.Client, prefix string) *s3agent.Agent {
	t.Helper()
	agent, err := s3agent.New(s3agent.Config{
		Client: client,
		Bucket: testBucket,
		Prefix: prefix,
		Users:  map[string]int{"root": 0, "app": 1000},
		Groups: map[string]int{"root": 0, "staff": 50},
	})
	require.NoError(t, err)
	return agent
}

func TestIntegration_Conformance(t *testing.T) {
	client := setupTestMinIO(t)
	agent := newAgent(t, client, "conformance")
	c, err := container.New("minio", agent)
	require.NoError(t, err)

	var n atomic.Int64
	config := pathtest.Config{
		User:        "app",
		Group:       "staff",
		UnknownUser: "ghost",
	}
	pathtest.TestSuiteWithConfig(t, func(t *testing.T) core.Path {
		root, err := c.Path(fmt.Sprintf("/run-%d", n.Add(1)))
		require.NoError(t, err)
		require.NoError(t, root.Mkdir())
		return root
	}, config)
}

func TestIntegration_Layout(t *testing.T) {
	client := setupTestMinIO(t)
	agent := newAgent(t, client, "layout")
	ctx := context.Background()

	require.NoError(t, agent.WriteFile(ctx, container.WriteFileOptions{
		Path:        "/etc/app/app.conf",
		Data:        []byte("key=value"),
		MakeDirs:    true,
		Permissions: 0o600,
		User:        "app",
	}))

	t.Run("objects and markers", func(t *testing.T) {
		var got []string
		for obj := range client.ListObjects(ctx, testBucket, minio.ListObjectsOptions{
			Prefix:    "layout/",
			Recursive: true,
		}) {
			require.NoError(t, obj.Err)
			got = append(got, obj.Key)
		}
		assert.ElementsMatch(t, []string{"layout/etc/", "layout/etc/app/", "layout/etc/app/app.conf"}, got)
	})

	t.Run("metadata", func(t *testing.T) {
		entries, err := agent.ListFiles(ctx, container.ListFilesOptions{Path: "/etc/app/app.conf"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.EqualValues(t, 0o600, entries[0].Permissions)
		assert.Equal(t, "app", entries[0].User)
		assert.Equal(t, "root", entries[0].Group)
		assert.Equal(t, int64(9), entries[0].Size)
	})

	t.Run("implicit directories", func(t *testing.T) {
		_, err := client.PutObject(ctx, testBucket, "layout/var/log/x.log", bytes.NewReader(nil), 0, minio.PutObjectOptions{})
		require.NoError(t, err)

		entries, err := agent.ListFiles(ctx, container.ListFilesOptions{Path: "/var"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "log", entries[0].Name)
		assert.Equal(t, container.TypeDirectory, entries[0].Type)
		assert.EqualValues(t, 0o755, entries[0].Permissions)

		err = agent.RemovePath(ctx, container.RemovePathOptions{Path: "/var"})
		var e *container.Error
		require.ErrorAs(t, err, &e)
		assert.Contains(t, e.Message, "directory not empty")
	})

	t.Run("recursive remove", func(t *testing.T) {
		require.NoError(t, agent.RemovePath(ctx, container.RemovePathOptions{Path: "/etc", Recursive: true}))
		for obj := range client.ListObjects(ctx, testBucket, minio.ListObjectsOptions{Prefix: "layout/etc", Recursive: true}) {
			require.NoError(t, obj.Err)
			t.Errorf("object %s survived recursive remove", obj.Key)
		}
		require.NoError(t, agent.RemovePath(ctx, container.RemovePathOptions{Path: "/etc", Recursive: true}))
	})
}

func TestIntegration_MissingBucket(t *testing.T) {
	client := setupTestMinIO(t)
	agent, err := s3agent.New(s3agent.Config{Client: client, Bucket: "no-such-bucket"})
	require.NoError(t, err)

	_, err = agent.ReadFile(context.Background(), "/a")
	var e *container.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, container.KindNotFound, e.Kind)
}
