// Package utils provides a collection of helper functions and utilities for common tasks,
// such as file checks, content type matching, string truncation, and throttled copying.
package utils
