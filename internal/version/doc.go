// Package version exposes build information set at link time.
package version
