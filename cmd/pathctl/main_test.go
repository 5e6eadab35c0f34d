package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

type result struct {
	code   int
	stdout string
	stderr string
}

// setup writes a configuration with a single local target and returns the
// config path and a scratch directory.
func setup(t *testing.T, modes string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("default_target: dev\ntargets:\n  dev:\n    type: local\n%s", modes)
	path := filepath.Join(t.TempDir(), "pathctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path, dir
}

func pathctl(t *testing.T, cfg, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--config", cfg}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestEnsure(t *testing.T) {
	cfg, dir := setup(t, "")
	file := filepath.Join(dir, "etc", "app.conf")

	res := pathctl(t, cfg, "key=value\n", "ensure", file, "--mode", "0600")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "changed: "+file+"\n", res.stdout)

	res = pathctl(t, cfg, "key=value\n", "ensure", file, "--mode", "0600")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "unchanged: "+file+"\n", res.stdout)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "key=value\n", string(data))
	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("other"), 0o644))
	res = pathctl(t, cfg, "", "--json", "ensure", file, "--from", src)
	require.Equal(t, 0, res.code, res.stderr)
	var out changeOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, changeOutput{Path: file, Changed: true}, out)
}

func TestEnsure_InvalidMode(t *testing.T) {
	cfg, dir := setup(t, "")
	res := pathctl(t, cfg, "x", "ensure", filepath.Join(dir, "f"), "--mode", "rw")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid mode")
}

func TestStat(t *testing.T) {
	cfg, dir := setup(t, "")
	file := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(file, []byte("12345"), 0o640))
	require.NoError(t, os.Chmod(file, 0o640))

	res := pathctl(t, cfg, "", "stat", file)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "kind:        regular")
	assert.Contains(t, res.stdout, "permissions: 0640")
	assert.Contains(t, res.stdout, "size:        5")

	res = pathctl(t, cfg, "", "--json", "stat", file)
	require.Equal(t, 0, res.code, res.stderr)
	var out statOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, "data.bin", out.Name)
	assert.Equal(t, "regular", out.Kind)
	assert.Equal(t, "0640", out.Permissions)
	assert.Equal(t, int64(5), out.Size)
}

func TestStat_MissingJSONError(t *testing.T) {
	cfg, dir := setup(t, "")
	res := pathctl(t, cfg, "", "--json", "stat", filepath.Join(dir, "missing"))
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)

	var out struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Context map[string]any `json:"context"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stderr), &out))
	assert.Equal(t, "NOT_FOUND", out.Code)
	assert.Equal(t, filepath.Join(dir, "missing"), out.Context["path"])
}

func TestLsAndGlob(t *testing.T) {
	cfg, dir := setup(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.log"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.txt"), nil, 0o644))

	res := pathctl(t, cfg, "", "--json", "ls", dir)
	require.Equal(t, 0, res.code, res.stderr)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &names))
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.log"), filepath.Join(dir, "sub"),
	}, names)

	res = pathctl(t, cfg, "", "ls", "-l", dir)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, filepath.Join(dir, "sub")+"/")
	assert.Contains(t, res.stdout, "directory")

	res = pathctl(t, cfg, "", "glob", dir, "*/*.txt")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, filepath.Join(dir, "sub", "c.txt")+"\n", res.stdout)

	res = pathctl(t, cfg, "", "--json", "glob", dir, "**/*.txt")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "INVALID_ARGUMENT")

	res = pathctl(t, cfg, "", "ls", filepath.Join(dir, "a.txt"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error:")
}

func TestCat(t *testing.T) {
	cfg, dir := setup(t, "")
	file := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(file, []byte("hello\n"), 0o644))

	res := pathctl(t, cfg, "", "cat", file)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "hello\n", res.stdout)

	res = pathctl(t, cfg, "", "cat", dir)
	assert.Equal(t, 1, res.code)
}

func TestMkdirAndRm(t *testing.T) {
	cfg, dir := setup(t, "    modes:\n      dir: \"0700\"\n")
	leaf := filepath.Join(dir, "a", "b")

	res := pathctl(t, cfg, "", "mkdir", leaf)
	assert.Equal(t, 1, res.code)

	res = pathctl(t, cfg, "", "mkdir", "-p", "--mode", "0750", leaf)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "changed: "+leaf+"\n", res.stdout)

	info, err := os.Stat(filepath.Join(dir, "a"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm(), "intermediate gets the target default")
	info, err = os.Stat(leaf)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())

	res = pathctl(t, cfg, "", "mkdir", "-p", "--exist-ok", leaf)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "unchanged: "+leaf+"\n", res.stdout)

	res = pathctl(t, cfg, "", "--json", "rm", filepath.Join(dir, "a"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "DIRECTORY_NOT_EMPTY")

	res = pathctl(t, cfg, "", "rm", "-r", filepath.Join(dir, "a"))
	require.Equal(t, 0, res.code, res.stderr)
	assert.NoDirExists(t, filepath.Join(dir, "a"))

	res = pathctl(t, cfg, "", "rm", "-r", filepath.Join(dir, "a"))
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "unchanged: "+filepath.Join(dir, "a")+"\n", res.stdout)
}

func TestTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`default_target: dev
targets:
  dev:
    type: local
  assets:
    type: s3
    s3:
      endpoint: localhost:9000
      bucket: containers
`), 0o600))

	res := pathctl(t, path, "", "targets")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "  assets (s3)\n* dev (local)\n", res.stdout)

	res = pathctl(t, path, "", "--json", "targets")
	require.Equal(t, 0, res.code, res.stderr)
	var out []targetOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, []targetOutput{
		{Name: "assets", Type: "s3"},
		{Name: "dev", Type: "local", Default: true},
	}, out)
}

func TestConfigErrors(t *testing.T) {
	res := pathctl(t, filepath.Join(t.TempDir(), "missing.yaml"), "", "stat", "/")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "read config file")

	cfg, _ := setup(t, "")
	res = pathctl(t, cfg, "", "--target", "nope", "stat", "/")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `unknown target "nope"`)
}
