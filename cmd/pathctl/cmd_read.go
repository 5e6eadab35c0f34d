package main

import (
	"fmt"
	"iter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/pathops"
	"github.com/jmgilman/go/pathops/core"
)

// statOutput is the JSON form of core.FileInfo.
type statOutput struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Permissions string    `json:"permissions"`
	User        string    `json:"user"`
	Group       string    `json:"group"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
}

func newStatOutput(info *core.FileInfo) statOutput {
	return statOutput{
		Path:        info.Path,
		Name:        info.Name,
		Kind:        info.Kind.String(),
		Permissions: fmt.Sprintf("%04o", info.Permissions),
		User:        info.User,
		Group:       info.Group,
		Size:        info.Size,
		ModTime:     info.ModTime,
	}
}

func newStatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat PATH",
		Short: "Show file metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.path(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			info, err := pathops.Stat(p)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(newStatOutput(info))
			}

			bold := color.New(color.Bold)
			bold.Fprintf(a.stdout, "%s\n", info.Path)
			fmt.Fprintf(a.stdout, "  kind:        %s\n", info.Kind)
			fmt.Fprintf(a.stdout, "  permissions: %04o (%s)\n", info.Permissions, info.Permissions)
			fmt.Fprintf(a.stdout, "  owner:       %s:%s\n", info.User, info.Group)
			fmt.Fprintf(a.stdout, "  size:        %d\n", info.Size)
			fmt.Fprintf(a.stdout, "  modified:    %s\n", info.ModTime.Format(time.RFC3339))
			return nil
		},
	}
}

func newLsCmd(a *app) *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "ls DIR",
		Short: "List directory contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.path(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printPaths(dir.IterDir(), long)
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show kind, permissions, owner and size")
	return cmd
}

func newGlobCmd(a *app) *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "glob DIR PATTERN",
		Short: "List entries below DIR matching a relative pattern",
		Long: `List entries below DIR matching a relative pattern. Each pattern
segment uses shell syntax (*, ?, [...]). The recursive wildcard ** and
absolute patterns are rejected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.path(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printPaths(dir.Glob(args[1]), long)
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show kind, permissions, owner and size")
	return cmd
}

// printPaths prints each path as it is yielded. The first error stops the
// listing.
func (a *app) printPaths(seq iter.Seq2[core.Path, error], long bool) error {
	var infos []statOutput
	var names []string
	for p, err := range seq {
		if err != nil {
			return err
		}
		if !long {
			names = append(names, p.String())
			if !a.jsonOutput {
				fmt.Fprintln(a.stdout, p.String())
			}
			continue
		}

		info, err := pathops.Stat(p)
		if err != nil {
			return err
		}
		if a.jsonOutput {
			infos = append(infos, newStatOutput(info))
			continue
		}
		a.printLong(info)
	}

	if !a.jsonOutput {
		return nil
	}
	if long {
		if infos == nil {
			infos = []statOutput{}
		}
		return a.printJSON(infos)
	}
	if names == nil {
		names = []string{}
	}
	return a.printJSON(names)
}

func (a *app) printLong(info *core.FileInfo) {
	fmt.Fprintf(a.stdout, "%-9s %04o %-8s %-8s %10d ",
		info.Kind, info.Permissions, info.User, info.Group, info.Size)
	if info.IsDir() {
		color.New(color.FgBlue, color.Bold).Fprintln(a.stdout, info.Path+"/")
		return
	}
	fmt.Fprintln(a.stdout, info.Path)
}

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat FILE",
		Short: "Print file contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.path(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := p.ReadBytes()
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
}
