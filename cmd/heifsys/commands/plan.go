package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.trai.ch/heifsys/internal/core/domain"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the vendored build plan without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.options(cmd)
			if err != nil {
				return err
			}

			plan, err := c.app.Plan(opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), RenderPlan(plan))
			return err
		},
	}
}

// RenderPlan formats plan as a table of steps followed by the skipped ones.
func RenderPlan(plan *domain.Plan) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("STEP", "TOOL", "DEPENDS ON", "OUTPUT")

	for s := range plan.Graph.Walk() {
		deps := make([]string, 0, len(s.Dependencies))
		for _, d := range s.Dependencies {
			deps = append(deps, d.String())
		}
		t.Row(s.Name.String(), string(s.Tool), strings.Join(deps, ", "), s.OutputDir)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "target %s, backend %s\n", plan.Target, plan.Backend)
	b.WriteString(t.String())
	b.WriteString("\n")
	for _, s := range plan.Skipped {
		fmt.Fprintf(&b, "skipped %s: %s\n", s.Name, s.Reason)
	}
	return b.String()
}
