// Package app wires the feed client and the podcast service together
// and runs the commands exposed by the CLI.
package app
