package app

import (
	"context"

	"github.com/oshokin/rss-grabber/internal/config"
	"github.com/oshokin/rss-grabber/internal/logger"
)

// ExecuteInitConfigCommand writes a configuration file with default settings.
// An empty path means the default configuration filename.
func ExecuteInitConfigCommand(ctx context.Context, path string) error {
	if path == "" {
		path = config.DefaultConfigFilename
	}

	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}

	logger.Infof(ctx, "Default configuration written to '%s'", path)

	return nil
}
