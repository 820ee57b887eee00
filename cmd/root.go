package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/rss-grabber/internal/app"
	"github.com/oshokin/rss-grabber/internal/config"
	"github.com/oshokin/rss-grabber/internal/logger"
	"github.com/oshokin/rss-grabber/internal/version"
)

// Number of positional arguments: feed URL and save directory.
const rootArgsCount = 2

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "rss-grabber [flags] <feed_url> <save_directory>",
		Short: "Download the audio episodes of a podcast RSS feed.",
		Long: `RSS Grabber is a CLI tool for archiving podcasts.
It fetches an RSS feed, picks the entries with an audio enclosure and saves them as
YYYY-MM-DD_episode_title.mp3 in the save directory. Files that already exist are
skipped, so running it again only downloads new episodes.

With --save_text a YYYY-MM-DD_episode_title.txt file with the title, subtitle,
publish date and show notes is written next to every episode.`,
		Example: `  rss-grabber https://example.com/podcast.xml ./podcast
  rss-grabber --save_text --speed-limit 1MB https://example.com/podcast.xml ./podcast`,
		Args:    cobra.ExactArgs(rootArgsCount),
		Version: version.Full(),
		PreRun:  initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			appConfig.FeedURL = args[0]
			appConfig.OutputPath = args[1]

			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			logger.SetLevel(appConfig.ParsedLogLevel)

			if err := app.ExecuteRootCommand(cmd.Context(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to process feed: %v", err)
			}
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	addRootFlags(rootCmd.Flags())
}

// addRootFlags registers the flags that override configuration values.
func addRootFlags(flags *pflag.FlagSet) {
	flags.BoolP(
		"save_text",
		"t",
		false,
		"write a text file with the episode details next to each audio file.")

	flags.Bool(
		"dry-run",
		false,
		"show what would be downloaded without downloading anything.")

	flags.Bool(
		"tags",
		false,
		"write ID3v2 tags (title, show, year, notes) into downloaded MP3 files.")

	flags.StringP(
		"speed-limit",
		"s",
		"",
		"set download speed limit, for example: 500KB, 1MB, 1.5MB.")

	flags.String(
		"pause",
		"",
		"minimum pause between two episode downloads, for example: 1s, 500ms. 0 disables it.")

	flags.String(
		"content-type",
		"",
		fmt.Sprintf("enclosure media type to download (default is '%s').", config.DefaultContentType))

	flags.StringP(
		"log-level",
		"l",
		"",
		"logging verbosity: debug, info, warn, error.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("save_text"); flag != nil && flag.Changed {
		cfg.SaveText, _ = flags.GetBool("save_text")
	}

	if flag := flags.Lookup("dry-run"); flag != nil && flag.Changed {
		cfg.DryRun, _ = flags.GetBool("dry-run")
	}

	if flag := flags.Lookup("tags"); flag != nil && flag.Changed {
		cfg.WriteTags, _ = flags.GetBool("tags")
	}

	if flag := flags.Lookup("speed-limit"); flag != nil && flag.Changed {
		cfg.DownloadSpeedLimit, _ = flags.GetString("speed-limit")
	}

	if flag := flags.Lookup("pause"); flag != nil && flag.Changed {
		cfg.DownloadPause, _ = flags.GetString("pause")
	}

	if flag := flags.Lookup("content-type"); flag != nil && flag.Changed {
		cfg.ContentType, _ = flags.GetString("content-type")
	}

	if flag := flags.Lookup("log-level"); flag != nil && flag.Changed {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}

	return config.ValidateConfig(cfg)
}
