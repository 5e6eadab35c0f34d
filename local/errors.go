package local

import (
	"io/fs"
	"os/user"
	"syscall"

	"github.com/go-git/go-billy/v5"

	"github.com/jmgilman/go/pathops/errors"
)

// translate maps an operating system failure to the shared taxonomy.
// The original error is kept as the cause.
func translate(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var pathErr errors.PathError
	if errors.As(err, &pathErr) {
		return err
	}
	return errors.ForPath(classify(op, err), op, path, err)
}

func classify(op string, err error) errors.ErrorCode {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOENT:
			return errors.CodeNotFound
		case syscall.ENOTDIR:
			return errors.CodeNotADirectory
		case syscall.EISDIR:
			return errors.CodeIsADirectory
		case syscall.ENOTEMPTY:
			return errors.CodeDirectoryNotEmpty
		case syscall.EEXIST:
			// rmdir reports a populated directory as EEXIST on some systems.
			if op == opRemove {
				return errors.CodeDirectoryNotEmpty
			}
			return errors.CodeAlreadyExists
		case syscall.EACCES, syscall.EPERM:
			return errors.CodePermissionDenied
		case syscall.ELOOP:
			return errors.CodeTooManySymlinks
		}
	}

	var unknownUser user.UnknownUserError
	var unknownUserID user.UnknownUserIdError
	var unknownGroup user.UnknownGroupError
	var unknownGroupID user.UnknownGroupIdError
	switch {
	case errors.As(err, &unknownUser), errors.As(err, &unknownUserID),
		errors.As(err, &unknownGroup), errors.As(err, &unknownGroupID):
		return errors.CodeLookupFailed
	case errors.Is(err, billy.ErrCrossedBoundary):
		return errors.CodeInvalidArgument
	case errors.Is(err, fs.ErrNotExist):
		return errors.CodeNotFound
	case errors.Is(err, fs.ErrExist):
		return errors.CodeAlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return errors.CodePermissionDenied
	}
	return errors.CodeUnknown
}
