package s3agent

import (
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/s3utils"
)

const (
	defaultConcurrency = 10
	defaultOwner       = "root"
)

// Config holds S3 agent configuration.
type Config struct {
	// Endpoint is the S3 server address (e.g., "localhost:9000")
	Endpoint string

	// Bucket is the bucket holding the container filesystem
	Bucket string

	// AccessKey is the access key ID for authentication
	AccessKey string

	// SecretKey is the secret access key for authentication
	SecretKey string

	// UseSSL enables HTTPS connections
	UseSSL bool

	// Prefix roots the filesystem below a key prefix (for namespacing)
	Prefix string

	// Client is an optional pre-configured MinIO client.
	// If provided, Endpoint/AccessKey/SecretKey are ignored.
	Client *minio.Client

	// MaxRetries bounds the SDK's retries of failed requests.
	// Default: the SDK default
	MaxRetries int

	// MaxConcurrency limits concurrent metadata requests while listing and
	// concurrent deletes while removing trees.
	// Default: 10
	MaxConcurrency int

	// Users and Groups map the names that may own entries to numeric ids.
	// Default: {"root": 0}
	Users  map[string]int
	Groups map[string]int

	// DefaultUser and DefaultGroup own entries written without an explicit
	// owner. Default: "root"
	DefaultUser  string
	DefaultGroup string
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + AccessKey + SecretKey) must be provided.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if err := s3utils.CheckValidBucketName(c.Bucket); err != nil {
		return fmt.Errorf("bucket %q: %w", c.Bucket, err)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max concurrency must not be negative")
	}
	users, groups, user, group := c.owners()
	if _, ok := users[user]; !ok {
		return fmt.Errorf("default user %q is not in the user table", user)
	}
	if _, ok := groups[group]; !ok {
		return fmt.Errorf("default group %q is not in the group table", group)
	}

	if c.Client != nil {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}
	return nil
}

// owners returns the name tables and default owner, filling in defaults.
func (c *Config) owners() (users, groups map[string]int, user, group string) {
	users, groups = c.Users, c.Groups
	if users == nil {
		users = map[string]int{defaultOwner: 0}
	}
	if groups == nil {
		groups = map[string]int{defaultOwner: 0}
	}
	user, group = c.DefaultUser, c.DefaultGroup
	if user == "" {
		user = defaultOwner
	}
	if group == "" {
		group = defaultOwner
	}
	return users, groups, user, group
}
