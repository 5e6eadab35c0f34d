package main

import (
	"context"
	"fmt"

	"github.com/jmgilman/go/pathops/container"
	"github.com/jmgilman/go/pathops/container/s3agent"
	"github.com/jmgilman/go/pathops/container/sftpagent"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/internal/config"
	"github.com/jmgilman/go/pathops/internal/logging"
	"github.com/jmgilman/go/pathops/local"
)

// target is an opened backend.
type target struct {
	path  func(p string) (core.Path, error)
	close func() error
}

func openTarget(ctx context.Context, name string, t *config.Target, logger *logging.Logger) (*target, error) {
	modes := t.CoreModes()

	switch t.Type {
	case config.TypeLocal:
		fs := local.NewFS(local.WithModes(modes), local.WithLogger(logger.Slog()))
		return &target{path: func(p string) (core.Path, error) {
			return fs.Path(p), nil
		}}, nil

	case config.TypeSFTP:
		cfg, opts, err := t.SFTPConfig()
		if err != nil {
			return nil, err
		}
		agent, err := sftpagent.Dial(ctx, cfg, opts...)
		if err != nil {
			return nil, err
		}
		c, err := container.New(name, agent, container.WithModes(modes), container.WithLogger(logger.Slog()))
		if err != nil {
			_ = agent.Close()
			return nil, err
		}
		return &target{path: containerPath(c), close: agent.Close}, nil

	case config.TypeS3:
		agent, err := s3agent.New(t.S3Config())
		if err != nil {
			return nil, err
		}
		c, err := container.New(name, agent, container.WithModes(modes), container.WithLogger(logger.Slog()))
		if err != nil {
			return nil, err
		}
		return &target{path: containerPath(c)}, nil
	}
	return nil, fmt.Errorf("unknown target type %q", t.Type)
}

func containerPath(c *container.Container) func(string) (core.Path, error) {
	return func(p string) (core.Path, error) {
		return c.Path(p)
	}
}
