package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/pathops/core"
)

const sample = `
default_target: web
logging:
  level: debug
  format: json
targets:
  dev:
    type: local
    modes:
      file: "0640"
      dir: 0750
  web:
    type: sftp
    sftp:
      host: web-1.internal
      port: 2222
      user: deploy
      password: ${PATHCTL_TEST_PASSWORD}
      insecure_ignore_host_key: true
      timeout: 5s
      passwd_file: /srv/etc/passwd
  assets:
    type: s3
    s3:
      endpoint: localhost:9000
      bucket: containers
      prefix: assets-1
      access_key: minio
      secret_key: secret
      users:
        root: 0
        app: 1000
`

func TestParse(t *testing.T) {
	t.Setenv("PATHCTL_TEST_PASSWORD", "hunter2")

	cfg, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"assets", "dev", "web"}, cfg.TargetNames())

	name, target, err := cfg.Target("")
	require.NoError(t, err)
	assert.Equal(t, "web", name)
	assert.Equal(t, TypeSFTP, target.Type)

	sftpCfg, opts, err := target.SFTPConfig()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", sftpCfg.Password)
	assert.Equal(t, 2222, sftpCfg.Port)
	assert.Equal(t, 5*time.Second, sftpCfg.Timeout)
	assert.True(t, sftpCfg.InsecureIgnoreHostKey)
	assert.Len(t, opts, 1)

	_, dev, err := cfg.Target("dev")
	require.NoError(t, err)
	assert.Equal(t, core.Modes{File: 0o640, Dir: 0o750}, dev.CoreModes())

	_, assets, err := cfg.Target("assets")
	require.NoError(t, err)
	s3Cfg := assets.S3Config()
	assert.Equal(t, "containers", s3Cfg.Bucket)
	assert.Equal(t, "assets-1", s3Cfg.Prefix)
	assert.Equal(t, map[string]int{"root": 0, "app": 1000}, s3Cfg.Users)
	assert.Equal(t, core.DefaultModes(), assets.CoreModes())

	_, _, err = cfg.Target("missing")
	assert.ErrorContains(t, err, `unknown target "missing"`)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown key",
			yaml:    "targets:\n  a:\n    type: local\n    root: /srv\n",
			wantErr: "field root not found",
		},
		{
			name:    "missing type",
			yaml:    "targets:\n  a: {}\n",
			wantErr: "type is required",
		},
		{
			name:    "unknown type",
			yaml:    "targets:\n  a:\n    type: nfs\n",
			wantErr: `unknown type "nfs"`,
		},
		{
			name:    "sftp without section",
			yaml:    "targets:\n  a:\n    type: sftp\n",
			wantErr: "sftp section is required",
		},
		{
			name:    "s3 without bucket",
			yaml:    "targets:\n  a:\n    type: s3\n    s3:\n      endpoint: localhost:9000\n",
			wantErr: "s3 endpoint and bucket are required",
		},
		{
			name:    "local with section",
			yaml:    "targets:\n  a:\n    type: local\n    s3:\n      bucket: b\n",
			wantErr: "local target takes no sftp or s3 section",
		},
		{
			name:    "bad mode",
			yaml:    "targets:\n  a:\n    type: local\n    modes:\n      file: rw-r--r--\n",
			wantErr: "invalid mode",
		},
		{
			name:    "undefined default",
			yaml:    "default_target: b\ntargets:\n  a:\n    type: local\n",
			wantErr: `default target "b" is not defined`,
		},
		{
			name:    "bad log level",
			yaml:    "logging:\n  level: loud\n",
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cfg.TargetNames())

	_, _, err = cfg.Target("")
	assert.ErrorContains(t, err, "no target selected")
}

func TestTarget_SingleTargetIsDefault(t *testing.T) {
	cfg, err := Parse(strings.NewReader("targets:\n  only:\n    type: local\n"))
	require.NoError(t, err)
	name, _, err := cfg.Target("")
	require.NoError(t, err)
	assert.Equal(t, "only", name)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]uint32{"644": 0o644, "0644": 0o644, "0o600": 0o600, " 755 ": 0o755} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.EqualValues(t, want, got, in)
	}
	for _, in := range []string{"", "9", "01000", "rwx"} {
		_, err := ParseMode(in)
		assert.Error(t, err, in)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("targets:\n  dev:\n    type: local\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev"}, cfg.TargetNames())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")
}

func TestSFTPConfig_PrivateKeyFile(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "id")
	require.NoError(t, os.WriteFile(keyFile, []byte("KEY"), 0o600))

	target := &Target{Type: TypeSFTP, SFTP: &SFTP{Host: "h", User: "u", PrivateKeyFile: keyFile}}
	cfg, opts, err := target.SFTPConfig()
	require.NoError(t, err)
	assert.Equal(t, []byte("KEY"), cfg.PrivateKey)
	assert.Empty(t, opts)

	target.SFTP.PrivateKeyFile = filepath.Join(t.TempDir(), "missing")
	_, _, err = target.SFTPConfig()
	assert.ErrorContains(t, err, "read private key")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{}
	logger, err := cfg.Logger(&buf)
	require.NoError(t, err)
	logger.Info(t.Context(), "dropped")
	assert.Empty(t, buf.String())

	cfg.Logging = Logging{Level: "info", Format: "json"}
	logger, err = cfg.Logger(&buf)
	require.NoError(t, err)
	logger.Info(t.Context(), "kept", "op", "stat")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
	assert.Contains(t, buf.String(), `"op":"stat"`)
}
