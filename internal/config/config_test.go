package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/rss-grabber/internal/constants"
)

const testConfigContent = `
log_level: "debug"
content_type: "audio/x-m4a"
save_text: true
write_tags: true
download_speed_limit: "500KB"
download_pause: "2s"
max_feed_size: "1MB"
feed_timeout: "15s"
max_stem_length: 80
user_agent: "TestAgent/1.0"
`

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	return &Config{
		LogLevel:      DefaultLogLevel,
		ContentType:   DefaultContentType,
		DownloadPause: DefaultDownloadPause,
		MaxFeedSize:   DefaultMaxFeedSize,
		FeedTimeout:   DefaultFeedTimeout,
		MaxStemLength: DefaultMaxStemLength,
		FeedURL:       "https://example.com/feed.xml",
		OutputPath:    "/tmp/podcasts",
	}
}

// writeConfigFile writes content to a config file inside a temporary folder.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), constants.DefaultFilePermissions))

	return configPath
}

// TestLoadConfig tests the LoadConfig function.
func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfigFile(t, testConfigContent))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "audio/x-m4a", cfg.ContentType)
	assert.True(t, cfg.SaveText)
	assert.True(t, cfg.WriteTags)
	assert.Equal(t, "500KB", cfg.DownloadSpeedLimit)
	assert.Equal(t, "2s", cfg.DownloadPause)
	assert.Equal(t, "1MB", cfg.MaxFeedSize)
	assert.Equal(t, "15s", cfg.FeedTimeout)
	assert.Equal(t, int64(80), cfg.MaxStemLength)
	assert.Equal(t, "TestAgent/1.0", cfg.UserAgent)
}

// TestLoadConfig_PartialFileKeepsDefaults tests that keys missing from the file keep their defaults.
func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(writeConfigFile(t, "save_text: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.SaveText)
	assert.Equal(t, DefaultContentType, cfg.ContentType)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultDownloadPause, cfg.DownloadPause)
	assert.Equal(t, int64(DefaultMaxStemLength), cfg.MaxStemLength)
}

// TestLoadConfig_DefaultFileIsOptional tests that a missing default config file is not an error.
func TestLoadConfig_DefaultFileIsOptional(t *testing.T) {
	t.Parallel()

	// The package folder contains no .rss-grabber.yaml.
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultContentType, cfg.ContentType)
	assert.False(t, cfg.SaveText)
	assert.False(t, cfg.WriteTags)
	assert.Equal(t, DefaultMaxFeedSize, cfg.MaxFeedSize)
}

// TestLoadConfig_ExplicitFileMissing tests that a missing explicit config file is an error.
func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrConfigFileNotFound)
}

// TestLoadConfig_InvalidYAML tests that a malformed config file is reported.
func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(writeConfigFile(t, "log_level: [unterminated\n"))
	require.Error(t, err)
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		modify      func(*Config)
		expectedErr error
		wantErr     bool
	}{
		{
			name:   "valid defaults",
			modify: func(*Config) {},
		},
		{
			name:        "empty feed URL",
			modify:      func(c *Config) { c.FeedURL = "  " },
			expectedErr: ErrEmptyFeedURL,
			wantErr:     true,
		},
		{
			name:        "feed URL without scheme",
			modify:      func(c *Config) { c.FeedURL = "example.com/feed.xml" },
			expectedErr: ErrInvalidFeedURL,
			wantErr:     true,
		},
		{
			name:        "feed URL with unsupported scheme",
			modify:      func(c *Config) { c.FeedURL = "ftp://example.com/feed.xml" },
			expectedErr: ErrInvalidFeedURL,
			wantErr:     true,
		},
		{
			name:        "empty output path",
			modify:      func(c *Config) { c.OutputPath = "" },
			expectedErr: ErrEmptyOutputPath,
			wantErr:     true,
		},
		{
			name:        "empty content type",
			modify:      func(c *Config) { c.ContentType = "" },
			expectedErr: ErrEmptyContentType,
			wantErr:     true,
		},
		{
			name:        "unknown log level",
			modify:      func(c *Config) { c.LogLevel = "verbose" },
			expectedErr: ErrUnknownLogLevel,
			wantErr:     true,
		},
		{
			name:    "invalid speed limit",
			modify:  func(c *Config) { c.DownloadSpeedLimit = "fast" },
			wantErr: true,
		},
		{
			name:    "invalid download pause",
			modify:  func(c *Config) { c.DownloadPause = "soon" },
			wantErr: true,
		},
		{
			name:        "negative download pause",
			modify:      func(c *Config) { c.DownloadPause = "-1s" },
			expectedErr: ErrInvalidDownloadPause,
			wantErr:     true,
		},
		{
			name:        "zero max feed size",
			modify:      func(c *Config) { c.MaxFeedSize = "0" },
			expectedErr: ErrInvalidMaxFeedSize,
			wantErr:     true,
		},
		{
			name:        "zero feed timeout",
			modify:      func(c *Config) { c.FeedTimeout = "" },
			expectedErr: ErrInvalidFeedTimeout,
			wantErr:     true,
		},
		{
			name:        "negative stem length",
			modify:      func(c *Config) { c.MaxStemLength = -1 },
			expectedErr: ErrInvalidMaxStemLength,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := ValidateConfig(cfg)
			if !tt.wantErr {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}

// TestValidateConfig_ParsedFields tests that derived fields are populated.
func TestValidateConfig_ParsedFields(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.LogLevel = "warn"
	cfg.DownloadSpeedLimit = "1.5MB"
	cfg.DownloadPause = "0"
	cfg.MaxFeedSize = "5MiB"
	cfg.FeedTimeout = "30s"

	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, zapcore.WarnLevel, cfg.ParsedLogLevel)
	assert.Equal(t, int64(1_500_000), cfg.ParsedDownloadSpeedLimit)
	assert.Equal(t, time.Duration(0), cfg.ParsedDownloadPause)
	assert.Equal(t, int64(5*1024*1024), cfg.ParsedMaxFeedSize)
	assert.Equal(t, 30*time.Second, cfg.ParsedFeedTimeout)
}

// TestWriteDefaultConfig tests that the written file loads back to the defaults.
func TestWriteDefaultConfig(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "nested", DefaultConfigFilename)

	require.NoError(t, WriteDefaultConfig(configPath))

	content, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Enclosure media type to download")
	assert.Contains(t, string(content), `content_type: "audio/mpeg"`)

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, DefaultContentType, cfg.ContentType)
	assert.Equal(t, DefaultDownloadPause, cfg.DownloadPause)
	assert.Equal(t, int64(DefaultMaxStemLength), cfg.MaxStemLength)
	assert.False(t, cfg.SaveText)

	// A second call must not overwrite the file.
	err = WriteDefaultConfig(configPath)
	require.ErrorIs(t, err, ErrConfigFileExists)
}
