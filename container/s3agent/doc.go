// Package s3agent implements container.Client on top of an S3 compatible
// bucket using the MinIO SDK.
//
// Object storage has no directories, permissions or owners, so the agent
// models them:
//
//   - A file at /a/b is the object "<prefix>/a/b".
//   - A directory is a zero-length marker object "<prefix>/a/b/". A key
//     prefix shared by other objects also counts as a directory.
//   - Permission bits and owner names are stored as user metadata on the
//     object or marker. Entries without metadata report 0644 for files,
//     0755 for directories and the configured default owner.
//
// Owner names are validated against the name tables in Config, which stand
// in for the container's passwd and group databases.
//
// Example:
//
//	agent, err := s3agent.New(s3agent.Config{
//	    Endpoint:  "localhost:9000",
//	    Bucket:    "containers",
//	    Prefix:    "web-1",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	})
//	if err != nil {
//	    return err
//	}
//	c, err := container.New("web-1", agent)
package s3agent
