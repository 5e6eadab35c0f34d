package sftpagent

import (
	"fmt"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	defaultPort    = 22
	defaultTimeout = 30 * time.Second

	// DefaultPasswdFile and DefaultGroupFile are read over SFTP to translate
	// numeric ids to names.
	DefaultPasswdFile = "/etc/passwd"
	DefaultGroupFile  = "/etc/group"
)

// Config holds SSH connection settings for Dial.
type Config struct {
	// Host is the SSH server host name or address.
	Host string

	// Port is the SSH server port (default: 22).
	Port int

	// User is the SSH login name.
	User string

	// Password enables password authentication when non-empty.
	Password string

	// PrivateKey is a PEM encoded private key enabling public key authentication.
	PrivateKey []byte

	// Passphrase decrypts PrivateKey when it is encrypted.
	Passphrase string

	// KnownHostsFile verifies the server host key against an OpenSSH
	// known_hosts file.
	KnownHostsFile string

	// InsecureIgnoreHostKey disables host key verification. Only use this
	// against throwaway test servers.
	InsecureIgnoreHostKey bool

	// Timeout bounds the TCP dial and SSH handshake (default: 30s).
	Timeout time.Duration
}

// validate checks that the configuration can produce a connection.
func (c *Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.User == "" {
		return fmt.Errorf("user is required")
	}
	if c.Password == "" && len(c.PrivateKey) == 0 {
		return fmt.Errorf("password or private key is required")
	}
	if c.KnownHostsFile == "" && !c.InsecureIgnoreHostKey {
		return fmt.Errorf("known hosts file is required unless host key checking is disabled")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func (c *Config) port() int {
	if c.Port == 0 {
		return defaultPort
	}
	return c.Port
}

func (c *Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// clientConfig builds the SSH client configuration.
func (c *Config) clientConfig() (*ssh.ClientConfig, error) {
	cfg := &ssh.ClientConfig{
		User:    c.User,
		Timeout: c.timeout(),
	}

	if len(c.PrivateKey) > 0 {
		signer, err := parsePrivateKey(c.PrivateKey, c.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		cfg.Auth = append(cfg.Auth, ssh.PublicKeys(signer))
	}
	if c.Password != "" {
		cfg.Auth = append(cfg.Auth, ssh.Password(c.Password))
	}

	if c.InsecureIgnoreHostKey {
		cfg.HostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		callback, err := knownhosts.New(c.KnownHostsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load known hosts: %w", err)
		}
		cfg.HostKeyCallback = callback
	}
	return cfg, nil
}

func parsePrivateKey(key []byte, passphrase string) (ssh.Signer, error) {
	signer, err := ssh.ParsePrivateKey(key)
	if err == nil || passphrase == "" {
		return signer, err
	}
	return ssh.ParsePrivateKeyWithPassphrase(key, []byte(passphrase))
}
