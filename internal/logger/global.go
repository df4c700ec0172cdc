package logger

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// globalLogger is the global logger instance
	globalLogger *Logger
	// mu protects the global logger
	mu sync.RWMutex
)

// init initializes the global logger with default configuration
func init() {
	var err error
	globalLogger, err = New(DefaultConfig())
	if err != nil {
		panic("failed to initialize global logger: " + err.Error())
	}
}

// SetGlobalLogger installs logger as the package-level logger used by the
// global wrapper functions below. internal/cli/root.go calls this after
// building a Config from --log-* flags.
func SetGlobalLogger(logger *Logger) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Global logging functions that use the global logger instance

// Debug logs a debug level message using the global logger
func Debug(msg string) {
	mu.RLock()
	defer mu.RUnlock()
	globalLogger.Debug(msg)
}

// Debugf logs a formatted debug level message using the global logger
func Debugf(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	globalLogger.Debugf(format, args...)
}

// Infof logs a formatted info level message using the global logger
func Infof(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	globalLogger.Infof(format, args...)
}

// Warn logs a warning level message using the global logger
func Warn(msg string) {
	mu.RLock()
	defer mu.RUnlock()
	globalLogger.Warn(msg)
}

// Warnf logs a formatted warning level message using the global logger
func Warnf(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	globalLogger.Warnf(format, args...)
}

// Errorf logs a formatted error level message using the global logger
func Errorf(format string, args ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	globalLogger.Errorf(format, args...)
}

// WithContext returns a logger with context values extracted and added as fields
func WithContext(ctx context.Context) *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger.WithContext(ctx)
}

// Init initializes the global logger with default configuration
func Init() {
	// Already initialized in init(), this is a no-op for compatibility
}

// SetLevel sets the log level for the global logger, preserving its other
// settings (format, output, rotation).
func SetLevel(level string) error {
	mu.RLock()
	config := *globalLogger.config
	mu.RUnlock()
	config.Level = LogLevel(level)

	newLogger, err := New(&config)
	if err != nil {
		return err
	}

	SetGlobalLogger(newLogger)
	return nil
}

// ErrorEvent returns an error level event for chaining; used on the CLI's
// fatal-error exit path in cmd/oauth2native/main.go.
func ErrorEvent() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger.logger.Error()
}
