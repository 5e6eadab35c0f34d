package container

import (
	"github.com/jmgilman/go/pathops/container/internal/errs"
	"github.com/jmgilman/go/pathops/errors"
)

// translate converts an agent failure into a PathError. Message inspection is
// delegated to the errs package.
func (c *Container) translate(op, path string, err error) error {
	if err == nil {
		return nil
	}

	code := errors.CodeUnknown
	var pathErr errors.PathError
	var connErr *ConnectionError
	var agentErr *Error
	switch {
	case errors.As(err, &pathErr):
		return err
	case errors.As(err, &connErr):
		code = errors.CodeUnreachable
	case errors.As(err, &agentErr):
		code = errs.Classify(string(agentErr.Kind), agentErr.StatusCode, agentErr.Message)
	}
	return c.pathError(code, op, path, err)
}

func (c *Container) pathError(code errors.ErrorCode, op, path string, cause error) error {
	return errors.WithContext(errors.ForPath(code, op, path, cause), "container", c.name)
}
