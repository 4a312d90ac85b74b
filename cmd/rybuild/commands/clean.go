package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [modules-root]",
		Short: "Remove the build outputs of the project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settingsFromFlags(cmd)
			if err != nil {
				return err
			}
			return c.app.Clean(cmd.Context(), rootArg(args), s)
		},
	}
	addSettingsFlags(cmd)
	return cmd
}
