// Package sftpagent implements container.Client on top of an SFTP session.
//
// SFTP version 3 reports most failures as a bare SSH_FX_FAILURE, so the agent
// checks preconditions itself (existence, node type, emptiness) and reports
// them with the same categories and phrasing as a native container agent. The
// container package can therefore classify failures from either source the
// same way.
//
// Writes are atomic: data goes to a temporary sibling which is then renamed
// over the target with the posix-rename extension. Permissions are applied
// with an explicit chmod, so the remote umask has no effect. Ownership is set
// by numeric id, translated from names using the remote /etc/passwd and
// /etc/group.
//
// Connect with Dial, or wrap an existing *sftp.Client with New:
//
//	agent, err := sftpagent.Dial(ctx, sftpagent.Config{
//	    Host:           "10.0.0.5",
//	    User:           "deploy",
//	    PrivateKey:     key,
//	    KnownHostsFile: "/home/deploy/.ssh/known_hosts",
//	})
//	if err != nil {
//	    return err
//	}
//	defer agent.Close()
//
//	c, err := container.New("web", agent)
package sftpagent
