// Package config loads the pathctl configuration file.
//
// Example (pathctl.yaml):
//
//	default_target: web
//	logging:
//	  level: debug
//	  format: json
//	targets:
//	  dev:
//	    type: local
//	    modes:
//	      file: "0640"
//	      dir: "0750"
//	  web:
//	    type: sftp
//	    sftp:
//	      host: web-1.internal
//	      user: deploy
//	      private_key_file: ~/.ssh/id_ed25519
//	      known_hosts_file: ~/.ssh/known_hosts
//	  assets:
//	    type: s3
//	    s3:
//	      endpoint: localhost:9000
//	      bucket: containers
//	      prefix: assets-1
//	      access_key: ${S3_ACCESS_KEY}
//	      secret_key: ${S3_SECRET_KEY}
//
// Environment variables in the file are expanded before parsing.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/pathops/container/s3agent"
	"github.com/jmgilman/go/pathops/container/sftpagent"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/internal/logging"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "pathctl.yaml"

// Target types.
const (
	TypeLocal = "local"
	TypeSFTP  = "sftp"
	TypeS3    = "s3"
)

// Config is the root of the configuration file.
type Config struct {
	DefaultTarget string             `yaml:"default_target"`
	Logging       Logging            `yaml:"logging"`
	Targets       map[string]*Target `yaml:"targets"`
}

// Logging configures the library logger. An empty level disables logging.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Target is one backend pathctl can operate on.
type Target struct {
	Type  string `yaml:"type"`
	Modes Modes  `yaml:"modes"`
	SFTP  *SFTP  `yaml:"sftp"`
	S3    *S3    `yaml:"s3"`
}

// Modes overrides the default permissions of new files and directories.
type Modes struct {
	File Mode `yaml:"file"`
	Dir  Mode `yaml:"dir"`
}

// SFTP holds the settings of an sftp target.
type SFTP struct {
	Host                  string        `yaml:"host"`
	Port                  int           `yaml:"port"`
	User                  string        `yaml:"user"`
	Password              string        `yaml:"password"`
	PrivateKeyFile        string        `yaml:"private_key_file"`
	Passphrase            string        `yaml:"passphrase"`
	KnownHostsFile        string        `yaml:"known_hosts_file"`
	InsecureIgnoreHostKey bool          `yaml:"insecure_ignore_host_key"`
	Timeout               time.Duration `yaml:"timeout"`
	PasswdFile            string        `yaml:"passwd_file"`
	GroupFile             string        `yaml:"group_file"`
}

// S3 holds the settings of an s3 target.
type S3 struct {
	Endpoint       string         `yaml:"endpoint"`
	Bucket         string         `yaml:"bucket"`
	Prefix         string         `yaml:"prefix"`
	AccessKey      string         `yaml:"access_key"`
	SecretKey      string         `yaml:"secret_key"`
	UseSSL         bool           `yaml:"use_ssl"`
	MaxRetries     int            `yaml:"max_retries"`
	MaxConcurrency int            `yaml:"max_concurrency"`
	Users          map[string]int `yaml:"users"`
	Groups         map[string]int `yaml:"groups"`
	DefaultUser    string         `yaml:"default_user"`
	DefaultGroup   string         `yaml:"default_group"`
}

// Mode is a permission written as an octal string ("0640" or "0o640").
type Mode fs.FileMode

// UnmarshalYAML implements yaml.Unmarshaler. Values are always read as
// octal, whether or not they are quoted.
func (m *Mode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: mode must be a scalar", node.Line)
	}
	mode, err := ParseMode(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*m = Mode(mode)
	return nil
}

// ParseMode parses an octal permission such as "644", "0644" or "0o644".
func ParseMode(s string) (fs.FileMode, error) {
	v := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0o"), "0O")
	n, err := strconv.ParseUint(v, 8, 32)
	if err != nil || n > 0o777 {
		return 0, fmt.Errorf("invalid mode %q: want octal permission bits", s)
	}
	return fs.FileMode(n), nil
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Logging.Level != "" {
		if _, err := logging.ParseLogLevel(c.Logging.Level); err != nil {
			return err
		}
	}
	if c.Logging.Format != "" {
		if _, err := logging.ParseLogFormat(c.Logging.Format); err != nil {
			return err
		}
	}
	if c.DefaultTarget != "" {
		if _, ok := c.Targets[c.DefaultTarget]; !ok {
			return fmt.Errorf("default target %q is not defined", c.DefaultTarget)
		}
	}
	for _, name := range c.TargetNames() {
		if err := c.Targets[name].validate(); err != nil {
			return fmt.Errorf("target %q: %w", name, err)
		}
	}
	return nil
}

func (t *Target) validate() error {
	if t == nil {
		return fmt.Errorf("target is empty")
	}
	switch t.Type {
	case TypeLocal:
		if t.SFTP != nil || t.S3 != nil {
			return fmt.Errorf("local target takes no sftp or s3 section")
		}
	case TypeSFTP:
		if t.SFTP == nil {
			return fmt.Errorf("sftp section is required")
		}
		if t.SFTP.Host == "" || t.SFTP.User == "" {
			return fmt.Errorf("sftp host and user are required")
		}
	case TypeS3:
		if t.S3 == nil {
			return fmt.Errorf("s3 section is required")
		}
		if t.S3.Bucket == "" || t.S3.Endpoint == "" {
			return fmt.Errorf("s3 endpoint and bucket are required")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown type %q (want %s, %s or %s)", t.Type, TypeLocal, TypeSFTP, TypeS3)
	}
	return nil
}

// TargetNames returns the defined target names in sorted order.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.Targets))
	for name := range c.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Target returns the named target. An empty name selects the default target,
// or the only target when exactly one is defined.
func (c *Config) Target(name string) (string, *Target, error) {
	if name == "" {
		name = c.DefaultTarget
	}
	if name == "" {
		if len(c.Targets) != 1 {
			return "", nil, fmt.Errorf("no target selected and no default target configured")
		}
		name = c.TargetNames()[0]
	}
	t, ok := c.Targets[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown target %q", name)
	}
	return name, t, nil
}

// Logger builds the library logger. It discards everything when no level
// is configured.
func (c *Config) Logger(out io.Writer) (*logging.Logger, error) {
	if c.Logging.Level == "" {
		return logging.NewNopLogger(), nil
	}
	cfg := logging.DefaultLogConfig()
	cfg.Output = out

	level, err := logging.ParseLogLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	cfg.Level = level
	if c.Logging.Format != "" {
		format, err := logging.ParseLogFormat(c.Logging.Format)
		if err != nil {
			return nil, err
		}
		cfg.Format = format
	}
	return logging.NewLogger(cfg), nil
}

// CoreModes returns the target's modes with unset fields defaulted.
func (t *Target) CoreModes() core.Modes {
	return core.Modes{File: fs.FileMode(t.Modes.File), Dir: fs.FileMode(t.Modes.Dir)}.OrDefault()
}

// SFTPConfig converts the sftp section into an agent configuration, reading
// the private key file if one is set.
func (t *Target) SFTPConfig() (sftpagent.Config, []sftpagent.Option, error) {
	s := t.SFTP
	cfg := sftpagent.Config{
		Host:                  s.Host,
		Port:                  s.Port,
		User:                  s.User,
		Password:              s.Password,
		Passphrase:            s.Passphrase,
		KnownHostsFile:        expandHome(s.KnownHostsFile),
		InsecureIgnoreHostKey: s.InsecureIgnoreHostKey,
		Timeout:               s.Timeout,
	}
	if s.PrivateKeyFile != "" {
		key, err := os.ReadFile(expandHome(s.PrivateKeyFile))
		if err != nil {
			return cfg, nil, fmt.Errorf("read private key: %w", err)
		}
		cfg.PrivateKey = key
	}

	var opts []sftpagent.Option
	if s.PasswdFile != "" || s.GroupFile != "" {
		passwd, group := s.PasswdFile, s.GroupFile
		if passwd == "" {
			passwd = sftpagent.DefaultPasswdFile
		}
		if group == "" {
			group = sftpagent.DefaultGroupFile
		}
		opts = append(opts, sftpagent.WithIdentityFiles(passwd, group))
	}
	return cfg, opts, nil
}

// S3Config converts the s3 section into an agent configuration.
func (t *Target) S3Config() s3agent.Config {
	s := t.S3
	return s3agent.Config{
		Endpoint:       s.Endpoint,
		Bucket:         s.Bucket,
		Prefix:         s.Prefix,
		AccessKey:      s.AccessKey,
		SecretKey:      s.SecretKey,
		UseSSL:         s.UseSSL,
		MaxRetries:     s.MaxRetries,
		MaxConcurrency: s.MaxConcurrency,
		Users:          s.Users,
		Groups:         s.Groups,
		DefaultUser:    s.DefaultUser,
		DefaultGroup:   s.DefaultGroup,
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
