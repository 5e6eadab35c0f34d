// Package container implements core.Path over a filesystem reachable only
// through a remote file-management agent.
//
// The agent speaks a coarse protocol (list, read, write, mkdir, remove) with
// explicit permission and ownership parameters, described by the Client
// interface. It has no notion of symlinks, device nodes, inode identity or
// atomic rename, so those capabilities are absent from the path contract.
//
// A Container wraps a borrowed Client together with the default modes and
// logger for paths created from it:
//
//	c, err := container.New("workload", client)
//	if err != nil {
//	    return err
//	}
//	p, err := c.Path("/etc/app/app.conf")
//	if err != nil {
//	    return err
//	}
//	data, err := p.ReadBytes()
//
// Container paths are always absolute. Two paths are equal only when they
// share the same *Container and the same normalized path.
//
// # Round trips
//
// Each operation issues one protocol call, with these exceptions: Mkdir with
// WithParents may create the parent chain in a second call, Mkdir with
// WithExistOK checks the kind of an existing target, and Glob lists one
// directory per matching directory per pattern component.
//
// # Errors
//
// Agent failures are translated to the shared error codes before they are
// returned. Connection failures become CodeUnreachable and are never retried.
// Every error carries the container name in its context.
package container
