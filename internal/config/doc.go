// Package config loads the optional YAML configuration file with Viper,
// validates it, and derives parsed values (durations, byte sizes, log level)
// used by the rest of the application.
package config
