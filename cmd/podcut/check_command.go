package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"podcut/internal/preflight"
	"podcut/internal/runctx"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [DIR]",
		Short: "Verify directory access and the lexicon overlay",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			results := preflight.RunAll(cfg, dir)
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Preflight", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, res := range results {
					kind := statusOK
					if !res.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(res.Name, kind, res.Detail, colorize))
				}
			}

			failed := preflight.Failed(results)
			if len(failed) == 0 {
				return nil
			}
			names := make([]string, len(failed))
			for i, res := range failed {
				names[i] = res.Name
			}
			return runctx.Wrap(runctx.ErrConfiguration, "", "preflight", strings.Join(names, ", ")+" failed", nil)
		},
	}
}
