// Package pathops provides backend-agnostic, idempotent operations on paths.
//
// Paths come from the local package (the calling process's filesystem) or
// the container package (a filesystem reached through a remote agent); both
// implement core.Path. The helpers here accept any core.Path:
//
//	changed, err := pathops.EnsureContents(p, config, core.WithMode(0o600), core.WithUser("app"))
//	if err != nil {
//	    return err
//	}
//	if changed {
//	    restartService()
//	}
//
// EnsureContents only writes when the current content, permissions or
// requested ownership differ, which keeps remote round trips to a minimum.
// RemovePath removes files and directories, treating an already absent path as
// success when removing recursively.
package pathops
