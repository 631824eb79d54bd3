package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *CLI) newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <library>",
		Short: "Look up an installed library with pkg-config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			minVersion, _ := cmd.Flags().GetString("min-version")

			lib, err := c.app.Probe(cmd.Context(), args[0], minVersion)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s %s\n", lib.Name, lib.Version)
			_, _ = fmt.Fprintf(out, "include: %s\n", strings.Join(lib.IncludePaths, " "))
			_, err = fmt.Fprintf(out, "link: %s\n", strings.Join(lib.LinkArgs, " "))
			return err
		},
	}
	cmd.Flags().String("min-version", "", "Fail unless at least this version is installed")
	return cmd
}
