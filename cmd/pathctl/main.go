// Command pathctl runs path operations against a configured local, sftp or
// s3 target.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/errors"
	"github.com/jmgilman/go/pathops/internal/config"
)

// app holds the global flags and the lazily opened target.
type app struct {
	configFile string
	targetName string
	jsonOutput bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	target *target
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pathctl",
		Short: "Inspect and change files on local and container targets",
		Long: `pathctl runs path operations against a target defined in its
configuration file. Targets are the local filesystem, a host reachable over
SFTP, or a container filesystem stored in an S3 bucket.

Writes are idempotent where possible: "ensure" only writes when the content,
mode or requested ownership differ.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", config.DefaultFile, "configuration file")
	rootCmd.PersistentFlags().StringVarP(&a.targetName, "target", "t", "", "target name (default: the configured default)")
	rootCmd.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "print results and errors as JSON")

	rootCmd.AddCommand(
		newStatCmd(a),
		newLsCmd(a),
		newGlobCmd(a),
		newCatCmd(a),
		newMkdirCmd(a),
		newEnsureCmd(a),
		newRmCmd(a),
		newTargetsCmd(a),
	)
	return rootCmd
}

// path resolves p on the selected target, opening it on first use.
func (a *app) path(ctx context.Context, p string) (core.Path, error) {
	if a.target == nil {
		cfg, err := config.Load(a.configFile)
		if err != nil {
			return nil, err
		}
		name, t, err := cfg.Target(a.targetName)
		if err != nil {
			return nil, err
		}
		logger, err := cfg.Logger(a.stderr)
		if err != nil {
			return nil, err
		}
		a.target, err = openTarget(ctx, name, t, logger)
		if err != nil {
			return nil, fmt.Errorf("open target %q: %w", name, err)
		}
	}
	return a.target.path(p)
}

func (a *app) close() error {
	if a.target == nil || a.target.close == nil {
		return nil
	}
	err := a.target.close()
	a.target = nil
	return err
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printError reports err on stderr, as errors.ToJSON output with --json.
func (a *app) printError(err error) {
	if a.jsonOutput {
		enc := json.NewEncoder(a.stderr)
		enc.SetIndent("", "  ")
		_ = enc.Encode(errors.ToJSON(err))
		return
	}
	color.New(color.FgRed).Fprintf(a.stderr, "Error: %v\n", err)
}

// run executes pathctl and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		_ = a.close()
		a.printError(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
