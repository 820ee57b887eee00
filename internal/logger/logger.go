package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// contextKey is the key under which a logger is stored in a context.
type contextKey struct{}

// timeLayout is the timestamp layout used by the console encoder.
const timeLayout = "2006-01-02 15:04:05"

var (
	//nolint:gochecknoglobals // The level is shared by every logger built with New(nil).
	globalLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	//nolint:gochecknoglobals // Fallback logger for contexts that do not carry one.
	globalLogger *zap.SugaredLogger

	//nolint:gochecknoglobals // Protects globalLogger.
	globalLoggerMutex sync.RWMutex
)

//nolint:gochecknoinits // The fallback logger must exist before any command runs.
func init() {
	SetLogger(New(nil))
}

// New creates a console logger writing to stderr.
// A nil level makes the logger follow the global level set with SetLevel.
func New(level zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if level == nil {
		level = globalLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	encoderConfig.ConsoleSeparator = " "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	return zap.New(core, options...).Sugar()
}

// ParseLogLevel converts a textual level to a zap level.
// It returns zapcore.InfoLevel and false when the text is not a known level.
func ParseLogLevel(text string) (zapcore.Level, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return zapcore.InfoLevel, false
	}

	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return level, true
}

// Level returns the current global level.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// SetLevel changes the global level.
func SetLevel(level zapcore.Level) {
	globalLevel.SetLevel(level)
}

// IsDebugLevel reports whether debug messages are currently emitted.
func IsDebugLevel() bool {
	return globalLevel.Enabled(zapcore.DebugLevel)
}

// Logger returns the global logger.
func Logger() *zap.SugaredLogger {
	globalLoggerMutex.RLock()
	defer globalLoggerMutex.RUnlock()

	return globalLogger
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.SugaredLogger) {
	globalLoggerMutex.Lock()
	defer globalLoggerMutex.Unlock()

	globalLogger = l
}

// ToContext returns a copy of ctx carrying l.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx or the global logger.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger); ok && l != nil {
			return l
		}
	}

	return Logger()
}

// WithKV returns a copy of ctx whose logger carries the given key-value pairs.
func WithKV(ctx context.Context, keysAndValues ...any) context.Context {
	return ToContext(ctx, FromContext(ctx).With(keysAndValues...))
}

// WithName returns a copy of ctx whose logger has the given name segment appended.
func WithName(ctx context.Context, name string) context.Context {
	return ToContext(ctx, FromContext(ctx).Named(name))
}

// Debug logs a message at debug level.
func Debug(ctx context.Context, args ...any) {
	FromContext(ctx).Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Debugf(format, args...)
}

// DebugKV logs a message with key-value pairs at debug level.
func DebugKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Debugw(message, keysAndValues...)
}

// Info logs a message at info level.
func Info(ctx context.Context, args ...any) {
	FromContext(ctx).Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Infof(format, args...)
}

// InfoKV logs a message with key-value pairs at info level.
func InfoKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Infow(message, keysAndValues...)
}

// Warn logs a message at warn level.
func Warn(ctx context.Context, args ...any) {
	FromContext(ctx).Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Warnf(format, args...)
}

// WarnKV logs a message with key-value pairs at warn level.
func WarnKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Warnw(message, keysAndValues...)
}

// Error logs a message at error level.
func Error(ctx context.Context, args ...any) {
	FromContext(ctx).Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Errorf(format, args...)
}

// ErrorKV logs a message with key-value pairs at error level.
func ErrorKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Errorw(message, keysAndValues...)
}

// Fatal logs a message at fatal level and exits with status 1.
func Fatal(ctx context.Context, args ...any) {
	FromContext(ctx).Fatal(args...)
}

// Fatalf logs a formatted message at fatal level and exits with status 1.
func Fatalf(ctx context.Context, format string, args ...any) {
	FromContext(ctx).Fatalf(format, args...)
}

// FatalKV logs a message with key-value pairs at fatal level and exits with status 1.
func FatalKV(ctx context.Context, message string, keysAndValues ...any) {
	FromContext(ctx).Fatalw(message, keysAndValues...)
}
