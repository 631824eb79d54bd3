package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.trai.ch/heifsys/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Acquire libheif, generate bindings and write the artifact set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.options(cmd)
			if err != nil {
				return err
			}

			artifacts, err := c.app.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if artifacts == nil {
				_, err = fmt.Fprintln(out, "docs build: nothing to link")
				return err
			}

			_, err = fmt.Fprintf(out, "libheif ready (%s, %s): %d include dirs, %d link args\n%s\n",
				artifacts.Strategy,
				artifacts.Target,
				len(artifacts.IncludeDirs),
				len(artifacts.LinkArgs),
				filepath.Join(opts.OutDir, app.ArtifactsFile),
			)
			return err
		},
	}
}
