package sftpagent

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/pkg/sftp"

	"github.com/jmgilman/go/pathops/container"
)

func notFoundError(op, path string) error {
	return &container.Error{
		Kind:    container.KindNotFound,
		Message: fmt.Sprintf("%s %s: no such file or directory", op, path),
	}
}

func permissionError(op, path string) error {
	return &container.Error{
		Kind:    container.KindPermissionDenied,
		Message: fmt.Sprintf("%s %s: permission denied", op, path),
	}
}

func genericError(format string, args ...any) error {
	return &container.Error{
		Kind:    container.KindGenericFileError,
		Message: fmt.Sprintf(format, args...),
	}
}

// toAgentError converts an SFTP or transport failure into the agent error
// model. Errors already in that model pass through.
func toAgentError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var agentErr *container.Error
	var connErr *container.ConnectionError
	if errors.As(err, &agentErr) || errors.As(err, &connErr) {
		return err
	}

	switch {
	case isConnectionLoss(err):
		return &container.ConnectionError{Err: err}
	case errors.Is(err, os.ErrNotExist):
		return notFoundError(op, path)
	case errors.Is(err, os.ErrPermission):
		return permissionError(op, path)
	}

	// The server's message usually carries the operating system's wording.
	return &container.Error{
		Kind:    container.KindGenericFileError,
		Message: fmt.Sprintf("%s %s: %v", op, path, err),
	}
}

func isConnectionLoss(err error) bool {
	var netErr net.Error
	switch {
	case errors.Is(err, sftp.ErrSSHFxConnectionLost),
		errors.Is(err, sftp.ErrSSHFxNoConnection),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, net.ErrClosed),
		errors.As(err, &netErr):
		return true
	}
	var status *sftp.StatusError
	if errors.As(err, &status) {
		switch status.FxCode() {
		case sftp.ErrSSHFxConnectionLost, sftp.ErrSSHFxNoConnection:
			return true
		}
	}
	return false
}
