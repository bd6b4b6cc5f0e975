package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rtcdeps/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build directory of the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := configOptions(cmd)
			if err != nil {
				return err
			}
			records, _ := cmd.Flags().GetBool("records")
			return c.app.Clean(cmd.Context(), app.CleanOptions{Options: opts, Records: records})
		},
	}

	cmd.Flags().BoolP("records", "r", false, "Also remove stored build records")

	return cmd
}
