package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/rss-grabber/internal/version"
)

//nolint:gochecknoglobals // Cobra command requires a global definition.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println("rss-grabber " + version.Full())
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	rootCmd.AddCommand(versionCmd)
}
