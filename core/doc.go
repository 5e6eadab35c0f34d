// Package core defines the path capability contract shared by every backend.
//
// A Path is an immutable handle naming a location on some filesystem. The
// local package implements it over the calling process's filesystem and the
// container package implements it over a remote file-management agent. Code
// written against Path works unchanged on either:
//
//	func installConfig(dir core.Path, data []byte) error {
//	    if err := dir.Mkdir(core.WithParents(), core.WithExistOK()); err != nil {
//	        return err
//	    }
//	    _, err := dir.Join("app.conf").WriteBytes(data, core.WithMode(0o600))
//	    return err
//	}
//
// # Interface composition
//
// Path is composed of three smaller interfaces:
//
//   - PurePath: lexical operations that never touch the filesystem
//   - ReadPath: queries (read, list, glob, kind and ownership checks)
//   - WritePath: mutations (write, mkdir)
//
// Backends may additionally implement Stater and Remover, which expose the
// normalized FileInfo record and removal. The pathops package discovers them
// through type assertions.
//
// # Failure semantics
//
// Every error returned by a Path method is a PathError from the errors
// package, carrying one of the shared codes. Kind queries (Exists, IsDir, ...)
// report false rather than failing when the path or one of its ancestors is
// missing; any other failure, such as a permission or connection problem, is
// returned as an error.
//
// # Modes
//
// Default permissions for new files and directories are configuration owned
// by each backend root (see Modes). Options passed to WriteBytes and Mkdir
// override them per call.
package core
