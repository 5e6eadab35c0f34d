package s3agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/minio/minio-go/v7"

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

// translate converts an S3 or transport failure into the agent error model.
// Errors already in that model and context errors pass through.
func translate(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var agentErr *container.Error
	var connErr *container.ConnectionError
	switch {
	case errors.As(err, &agentErr), errors.As(err, &connErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}

	resp := errorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return notFoundError(op, path)
	case "AccessDenied":
		return permissionError(op, path)
	}

	var netErr net.Error
	switch {
	case resp.StatusCode == http.StatusServiceUnavailable,
		minio.IsNetworkOrHostDown(err, false),
		errors.As(err, &netErr):
		return &container.ConnectionError{Err: err}
	}

	return &container.Error{
		Kind:    container.KindGenericFileError,
		Message: fmt.Sprintf("%s %s: %v", op, path, err),
	}
}

// errorResponse extracts the S3 error response from a possibly wrapped error.
func errorResponse(err error) minio.ErrorResponse {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp
	}
	return minio.ToErrorResponse(err)
}

// isNoSuchKey reports whether err is a missing object response.
func isNoSuchKey(err error) bool {
	return errorResponse(err).Code == "NoSuchKey"
}

func isNotFound(err error) bool {
	var agentErr *container.Error
	return errors.As(err, &agentErr) && agentErr.Kind == container.KindNotFound
}
