// Package logger provides a structured logging solution using the Zap logging library.
// A global logger with an atomic level backs every helper, while a logger stored
// in a context (see ToContext and WithKV) takes precedence, so a run can carry its
// own fields such as a run identifier through every call.
package logger
