package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rtcdeps/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the resolved layout and commands without running them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := configOptions(cmd)
			if err != nil {
				return err
			}
			matrix, _ := cmd.Flags().GetBool("matrix")
			return c.app.Plan(app.PlanOptions{Options: opts, Matrix: matrix})
		},
	}
	cmd.Flags().BoolP("matrix", "m", false, "Report which platform and architecture pairs are supported")
	return cmd
}

func (c *CLI) newArtifactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts [task]",
		Short: "Print the libraries a task produces, one path per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := configOptions(cmd)
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return c.app.Artifacts(opts, name)
		},
	}
}

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which artifacts exist and whether the last build is current",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := configOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Status(opts)
		},
	}
}
