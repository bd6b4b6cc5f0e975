package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rtcdeps/internal/adapters/detector"
	"go.trai.ch/rtcdeps/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [tasks...]",
		Short: "Build openssl and libdatachannel, or the given tasks and their dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := configOptions(cmd)
			if err != nil {
				return err
			}
			ptyMode, _ := cmd.Flags().GetString("pty")
			return c.app.Build(cmd.Context(), args, app.BuildOptions{
				Options: opts,
				PTY:     ptyMode,
			})
		},
	}
	cmd.Flags().String("pty", detector.PTYAuto, "Run tools in a pseudo-terminal: auto, on or off")
	return cmd
}
