package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/pathops/internal/config"
)

type targetOutput struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default bool   `json:"default"`
}

func newTargetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List configured targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			defaultName, _, _ := cfg.Target("")

			var out []targetOutput
			for _, name := range cfg.TargetNames() {
				out = append(out, targetOutput{
					Name:    name,
					Type:    cfg.Targets[name].Type,
					Default: name == defaultName,
				})
			}
			if a.jsonOutput {
				if out == nil {
					out = []targetOutput{}
				}
				return a.printJSON(out)
			}

			cyan := color.New(color.FgCyan, color.Bold)
			for _, t := range out {
				if t.Default {
					cyan.Fprintf(a.stdout, "* %s (%s)\n", t.Name, t.Type)
					continue
				}
				fmt.Fprintf(a.stdout, "  %s (%s)\n", t.Name, t.Type)
			}
			return nil
		},
	}
}
