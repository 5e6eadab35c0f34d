package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/pathops"
	"github.com/jmgilman/go/pathops/core"
	"github.com/jmgilman/go/pathops/internal/config"
)

// ownerFlags are the --mode, --user and --group flags shared by commands
// that create nodes.
type ownerFlags struct {
	mode  string
	user  string
	group string
}

func (f *ownerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "octal permission bits (default: the target's default)")
	cmd.Flags().StringVar(&f.user, "user", "", "owning user name")
	cmd.Flags().StringVar(&f.group, "group", "", "owning group name")
}

func (f *ownerFlags) options() ([]core.Option, error) {
	var opts []core.Option
	if f.mode != "" {
		mode, err := config.ParseMode(f.mode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, core.WithMode(mode))
	}
	if f.user != "" {
		opts = append(opts, core.WithUser(f.user))
	}
	if f.group != "" {
		opts = append(opts, core.WithGroup(f.group))
	}
	return opts, nil
}

type changeOutput struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
}

// printChange reports the outcome of a write.
func (a *app) printChange(p core.Path, changed bool) error {
	if a.jsonOutput {
		return a.printJSON(changeOutput{Path: p.String(), Changed: changed})
	}
	if changed {
		color.New(color.FgGreen).Fprintf(a.stdout, "changed: %s\n", p)
		return nil
	}
	color.New(color.FgYellow).Fprintf(a.stdout, "unchanged: %s\n", p)
	return nil
}

func newMkdirCmd(a *app) *cobra.Command {
	var (
		flags   ownerFlags
		parents bool
		existOK bool
	)
	cmd := &cobra.Command{
		Use:   "mkdir DIR",
		Short: "Create a directory",
		Long: `Create a directory. With --parents, missing ancestors are created
with the target's default directory mode; only DIR receives --mode and the
requested ownership.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			if parents {
				opts = append(opts, core.WithParents())
			}
			if existOK {
				opts = append(opts, core.WithExistOK())
			}

			p, err := a.path(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			existed := false
			if existOK {
				if existed, err = p.IsDir(); err != nil {
					return err
				}
			}
			if err := p.Mkdir(opts...); err != nil {
				return err
			}
			return a.printChange(p, !existed)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parent directories")
	cmd.Flags().BoolVar(&existOK, "exist-ok", false, "succeed if the directory already exists")
	return cmd
}

func newEnsureCmd(a *app) *cobra.Command {
	var (
		flags ownerFlags
		from  string
	)
	cmd := &cobra.Command{
		Use:   "ensure FILE",
		Short: "Make a file hold the given content, mode and ownership",
		Long: `Make FILE hold exactly the given content, mode and ownership. The
content is read from --from, or from standard input when --from is "-" or
unset. Nothing is written when the file already matches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			var r io.Reader = a.stdin
			if from != "" && from != "-" {
				f, err := os.Open(from)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			p, err := a.path(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			changed, err := pathops.EnsureContentsFrom(p, r, opts...)
			if err != nil {
				return err
			}
			return a.printChange(p, changed)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&from, "from", "f", "-", `content source file, or "-" for standard input`)
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "rm PATH",
		Short: "Remove a file or directory",
		Long: `Remove a file or an empty directory. With --recursive, remove a
whole tree; a missing path is not an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.path(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			existed := true
			if recursive {
				if existed, err = p.Exists(); err != nil {
					return err
				}
			}
			if err := pathops.RemovePath(p, recursive); err != nil {
				return err
			}
			return a.printChange(p, existed)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove directories and their contents")
	return cmd
}
