package commands

import (
	"slices"

	"github.com/spf13/cobra"
	"go.trai.ch/rybuild/internal/app"
	"go.trai.ch/rybuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [modules-root]",
		Short: "Build every module below the modules root",
		Long: "Build every module below the modules root in dependency order.\n" +
			"Settings may also be given as -TargetOS=Linux, -BuildType=Standalone and so on.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Build(cmd.Context(), rootArg(args), opts)
		},
	}
	addSettingsFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func (c *CLI) newRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild [modules-root]",
		Short: "Clean the build outputs and build from scratch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Rebuild(cmd.Context(), rootArg(args), opts)
		},
	}
	addSettingsFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [modules-root]",
		Short: "Build, then rebuild whenever a source file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), rootArg(args), opts)
		},
	}
	addSettingsFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func buildOptions(cmd *cobra.Command) (app.BuildOptions, error) {
	s, err := settingsFromFlags(cmd)
	if err != nil {
		return app.BuildOptions{}, err
	}
	timings, _ := cmd.Flags().GetBool("timings")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	if ci, _ := cmd.Flags().GetBool("ci"); ci {
		outputMode = "linear"
	}
	if !slices.Contains(outputModes, outputMode) {
		return app.BuildOptions{}, zerr.With(zerr.With(domain.ErrInvalidSetting, "setting", "output-mode"), "value", outputMode)
	}
	return app.BuildOptions{Settings: s, Timings: timings, OutputMode: outputMode}, nil
}

var outputModes = []string{"auto", "tui", "linear"}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
}

func rootArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}
