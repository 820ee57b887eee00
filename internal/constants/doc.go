// Package constants holds file system permissions and file extensions shared across packages.
package constants
