package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/rss-grabber/internal/constants"
	"github.com/oshokin/rss-grabber/internal/logger"
	"github.com/oshokin/rss-grabber/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// ContentType is the enclosure media type an entry must have to be downloaded.
	ContentType string `mapstructure:"content_type"`
	// SaveText indicates whether a text file with episode details is written next to each audio file.
	SaveText bool `mapstructure:"save_text"`
	// WriteTags indicates whether ID3v2 tags are written into downloaded MP3 files.
	WriteTags bool `mapstructure:"write_tags"`
	// DownloadSpeedLimit sets the maximum download speed per second (e.g., "1MB", "500KB").
	DownloadSpeedLimit string `mapstructure:"download_speed_limit"`
	// DownloadPause is the minimum pause between two episode downloads (e.g., "1s"). "0" disables it.
	DownloadPause string `mapstructure:"download_pause"`
	// MaxFeedSize is the maximum size of the feed document (e.g., "10MB").
	MaxFeedSize string `mapstructure:"max_feed_size"`
	// FeedTimeout bounds the time spent fetching the feed document.
	FeedTimeout string `mapstructure:"feed_timeout"`
	// MaxStemLength is the maximum length of a filename stem in characters. 0 disables truncation.
	MaxStemLength int64 `mapstructure:"max_stem_length"`
	// UserAgent is sent with every request. Empty means the application default.
	UserAgent string `mapstructure:"user_agent"`
	// FeedURL is the address of the RSS feed (set from the command line).
	FeedURL string
	// OutputPath is the directory where downloaded files are saved (set from the command line).
	OutputPath string
	// DryRun indicates whether to preview downloads without actually downloading files.
	DryRun bool
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedDownloadSpeedLimit is the parsed download speed limit in bytes per second.
	ParsedDownloadSpeedLimit int64
	// ParsedDownloadPause is the parsed pause between episode downloads.
	ParsedDownloadPause time.Duration
	// ParsedMaxFeedSize is the parsed maximum feed size in bytes.
	ParsedMaxFeedSize int64
	// ParsedFeedTimeout is the parsed feed fetch timeout.
	ParsedFeedTimeout time.Duration
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".rss-grabber.yaml"
	// DefaultContentType is the enclosure media type of podcast episodes.
	DefaultContentType = "audio/mpeg"
	// DefaultLogLevel is the default logging verbosity.
	DefaultLogLevel = "info"
	// DefaultDownloadPause is the default pause between episode downloads.
	DefaultDownloadPause = "1s"
	// DefaultMaxFeedSize is the default limit for the feed document.
	DefaultMaxFeedSize = "10MB"
	// DefaultFeedTimeout is the default feed fetch timeout.
	DefaultFeedTimeout = "60s"
	// DefaultMaxStemLength keeps filenames well below common file system limits.
	DefaultMaxStemLength = 200
	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged HTTP dump.
	DefaultMaxLogLength = 64 * 1024
)

// Static error definitions for better error handling.
var (
	// ErrConfigFileNotFound indicates that an explicitly requested config file does not exist.
	ErrConfigFileNotFound = errors.New("config file not found")
	// ErrConfigFileExists indicates that init-config would overwrite an existing file.
	ErrConfigFileExists = errors.New("config file already exists")
	// ErrEmptyFeedURL indicates that the feed URL is missing.
	ErrEmptyFeedURL = errors.New("feed URL cannot be empty")
	// ErrInvalidFeedURL indicates that the feed URL is not an absolute http(s) URL.
	ErrInvalidFeedURL = errors.New("feed URL must be an absolute http or https URL")
	// ErrEmptyOutputPath indicates that the save directory is missing.
	ErrEmptyOutputPath = errors.New("save directory cannot be empty")
	// ErrEmptyContentType indicates that the accepted content type is missing.
	ErrEmptyContentType = errors.New("content type cannot be empty")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidDownloadPause indicates that the download pause is negative.
	ErrInvalidDownloadPause = errors.New("download_pause cannot be negative")
	// ErrInvalidMaxFeedSize indicates that the maximum feed size is not positive.
	ErrInvalidMaxFeedSize = errors.New("max_feed_size must be positive")
	// ErrInvalidFeedTimeout indicates that the feed timeout is not positive.
	ErrInvalidFeedTimeout = errors.New("feed_timeout must be positive")
	// ErrInvalidMaxStemLength indicates that the maximum stem length is negative.
	ErrInvalidMaxStemLength = errors.New("max_stem_length cannot be negative")
)

// defaultSetting is a configuration key with its default value and a description for init-config.
type defaultSetting struct {
	key         string
	value       any
	description string
}

// defaultSettings returns the default value of every configuration key in file order.
func defaultSettings() []defaultSetting {
	return []defaultSetting{
		{"log_level", DefaultLogLevel, "Logging verbosity: debug, info, warn, error."},
		{"content_type", DefaultContentType, "Enclosure media type to download (compared case-insensitively)."},
		{"save_text", false, "Write a <stem>.txt file with episode details next to each audio file."},
		{"write_tags", false, "Write ID3v2 tags (title, show, date, notes) into downloaded MP3 files."},
		{"download_speed_limit", "", "Download speed limit per second, for example: 500KB, 1MB. Empty disables it."},
		{"download_pause", DefaultDownloadPause, "Minimum pause between two episode downloads. 0 disables it."},
		{"max_feed_size", DefaultMaxFeedSize, "Maximum size of the feed document."},
		{"feed_timeout", DefaultFeedTimeout, "Time limit for fetching the feed document."},
		{"max_stem_length", DefaultMaxStemLength, "Maximum filename length without extension. 0 disables truncation."},
		{"user_agent", "", "User-Agent header. Empty uses rss-grabber/<version>."},
	}
}

// LoadConfig loads configuration settings from a YAML file.
// An empty filename means DefaultConfigFilename, which is optional:
// when it does not exist the defaults are used.
func LoadConfig(configFilename string) (*Config, error) {
	isExplicit := configFilename != ""
	if !isExplicit {
		configFilename = DefaultConfigFilename
	}

	v := viper.New()
	for _, setting := range defaultSettings() {
		v.SetDefault(setting.key, setting.value)
	}

	exists, err := utils.IsFileExist(configFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to check config file: %w", err)
	}

	switch {
	case exists:
		v.SetConfigFile(configFilename)

		if err = v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	case isExplicit:
		return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, configFilename)
	}

	var cfg Config
	if err = v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:funlen,cyclop // Validation functions naturally have high complexity and length due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var err error

	cfg.FeedURL = strings.TrimSpace(cfg.FeedURL)
	if cfg.FeedURL == "" {
		return ErrEmptyFeedURL
	}

	feedURL, err := url.Parse(cfg.FeedURL)
	if err != nil || (feedURL.Scheme != "http" && feedURL.Scheme != "https") || feedURL.Host == "" {
		return fmt.Errorf("%w: '%s'", ErrInvalidFeedURL, cfg.FeedURL)
	}

	if strings.TrimSpace(cfg.OutputPath) == "" {
		return ErrEmptyOutputPath
	}

	cfg.ContentType = strings.TrimSpace(cfg.ContentType)
	if cfg.ContentType == "" {
		return ErrEmptyContentType
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.ParsedDownloadSpeedLimit, err = parseOptionalBytes(cfg.DownloadSpeedLimit)
	if err != nil {
		return fmt.Errorf("failed to parse download speed limit: %w", err)
	}

	cfg.ParsedDownloadPause, err = parseOptionalDuration(cfg.DownloadPause)
	if err != nil {
		return fmt.Errorf("failed to parse download pause: %w", err)
	}

	if cfg.ParsedDownloadPause < 0 {
		return ErrInvalidDownloadPause
	}

	cfg.ParsedMaxFeedSize, err = parseOptionalBytes(cfg.MaxFeedSize)
	if err != nil {
		return fmt.Errorf("failed to parse max feed size: %w", err)
	}

	if cfg.ParsedMaxFeedSize <= 0 {
		return ErrInvalidMaxFeedSize
	}

	cfg.ParsedFeedTimeout, err = parseOptionalDuration(cfg.FeedTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse feed timeout: %w", err)
	}

	if cfg.ParsedFeedTimeout <= 0 {
		return ErrInvalidFeedTimeout
	}

	if cfg.MaxStemLength < 0 {
		return ErrInvalidMaxStemLength
	}

	return nil
}

// WriteDefaultConfig writes a commented YAML file with the default settings.
// It never overwrites an existing file.
func WriteDefaultConfig(configFilename string) error {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	mapNode := &yaml.Node{Kind: yaml.MappingNode}

	for _, setting := range defaultSettings() {
		keyNode := &yaml.Node{
			Kind:        yaml.ScalarNode,
			Value:       setting.key,
			HeadComment: setting.description,
		}

		valueNode := new(yaml.Node)
		if err := valueNode.Encode(setting.value); err != nil {
			return fmt.Errorf("failed to encode default for %s: %w", setting.key, err)
		}

		// Keep string values quoted so that values like "1s" or "" stay strings.
		if _, isString := setting.value.(string); isString {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	content, err := yaml.Marshal(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapNode}})
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if dir := filepath.Dir(configFilename); dir != "." {
		if err = os.MkdirAll(dir, constants.DefaultFolderPermissions); err != nil {
			return fmt.Errorf("failed to create config folder: %w", err)
		}
	}

	file, err := os.OpenFile(
		filepath.Clean(configFilename),
		os.O_CREATE|os.O_EXCL|os.O_WRONLY,
		constants.DefaultFilePermissions)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigFileExists, configFilename)
		}

		return fmt.Errorf("failed to create config file: %w", err)
	}

	defer file.Close() //nolint:errcheck // Close error is superseded by the write error below.

	if _, err = file.Write(content); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// parseOptionalBytes parses a human readable size such as "1.5MB". Empty and "0" mean zero.
func parseOptionalBytes(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}

	parsed, err := humanize.ParseBytes(value)
	if err != nil {
		return 0, err
	}

	// io.CopyN accepts only int64 so we transform it safely in order to use it later.
	return utils.SafeUint64ToInt64(parsed), nil
}

// parseOptionalDuration parses a duration such as "1s". Empty and "0" mean zero.
func parseOptionalDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}

	return time.ParseDuration(value)
}
