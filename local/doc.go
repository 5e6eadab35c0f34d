// Package local implements core.Path over the filesystem of the calling process.
//
// I/O goes through a go-billy osfs filesystem rooted at "/". Relative paths
// are kept relative as values and resolved against the working directory at
// the moment an operation runs.
//
// Basic usage:
//
//	p := local.New("/etc/app/app.conf")
//	if _, err := p.WriteText("debug = true\n", core.WithMode(0o600)); err != nil {
//	    return err
//	}
//
// Paths built from an FS share its default modes and logger:
//
//	fsys := local.NewFS(local.WithModes(core.Modes{File: 0o600, Dir: 0o700}))
//	p := fsys.Path("/srv/secrets")
//
// Permission bits are applied with an explicit chmod after creation, so the
// resulting mode does not depend on the process umask. Ownership changes
// require the privileges the operating system asks for.
package local
