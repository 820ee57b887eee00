package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/rss-grabber/internal/app"
	"github.com/oshokin/rss-grabber/internal/logger"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write a configuration file with default settings",
	Long: `Writes a commented YAML configuration file with every setting at its default value.
Without a path the file is created as .rss-grabber.yaml in the current directory,
which is where rss-grabber looks for it. Existing files are never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var path string
		if len(args) > 0 {
			path = args[0]
		}

		if err := app.ExecuteInitConfigCommand(cmd.Context(), path); err != nil {
			logger.Fatalf(cmd.Context(), "Failed to write configuration: %v", err)
		}
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(initConfigCmd)
}
