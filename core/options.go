package core

import "io/fs"

const (
	// DefaultFileMode is the permission applied to written files when no mode is given.
	DefaultFileMode fs.FileMode = 0o644

	// DefaultDirMode is the permission applied to created directories when no
	// mode is given, and always to intermediate directories.
	DefaultDirMode fs.FileMode = 0o755
)

// Modes holds the default permissions a backend root applies to new nodes.
type Modes struct {
	File fs.FileMode
	Dir  fs.FileMode
}

// DefaultModes returns Modes set to DefaultFileMode and DefaultDirMode.
func DefaultModes() Modes {
	return Modes{File: DefaultFileMode, Dir: DefaultDirMode}
}

// OrDefault fills unset fields with the package defaults.
func (m Modes) OrDefault() Modes {
	if m.File == 0 {
		m.File = DefaultFileMode
	}
	if m.Dir == 0 {
		m.Dir = DefaultDirMode
	}
	return m
}

// Options is the resolved form of a list of Option values.
type Options struct {
	// Mode is the permission to apply to the node being created.
	Mode fs.FileMode
	// User, if set, is the name of the owner to apply.
	User string
	// Group, if set, is the name of the group to apply.
	Group string
	// Parents creates missing ancestors (Mkdir only).
	Parents bool
	// ExistOK accepts an already existing directory (Mkdir only).
	ExistOK bool

	modeSet bool
}

// ModeSet reports whether the mode was given explicitly.
func (o Options) ModeSet() bool {
	return o.modeSet
}

// Option configures a write or mkdir call.
type Option func(*Options)

// WithMode sets the permission bits of the created node.
func WithMode(mode fs.FileMode) Option {
	return func(o *Options) {
		o.Mode = mode.Perm()
		o.modeSet = true
	}
}

// WithUser sets the owner of the created node by name.
func WithUser(user string) Option {
	return func(o *Options) { o.User = user }
}

// WithGroup sets the group of the created node by name.
func WithGroup(group string) Option {
	return func(o *Options) { o.Group = group }
}

// WithParents makes Mkdir create missing ancestors.
func WithParents() Option {
	return func(o *Options) { o.Parents = true }
}

// WithExistOK makes Mkdir succeed if the directory already exists.
func WithExistOK() Option {
	return func(o *Options) { o.ExistOK = true }
}

// FileOptions resolves opts for a file write, defaulting the mode to m.File.
func (m Modes) FileOptions(opts ...Option) Options {
	return resolve(m.OrDefault().File, opts)
}

// DirOptions resolves opts for a directory creation, defaulting the mode to m.Dir.
func (m Modes) DirOptions(opts ...Option) Options {
	return resolve(m.OrDefault().Dir, opts)
}

func resolve(mode fs.FileMode, opts []Option) Options {
	o := Options{Mode: mode}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
