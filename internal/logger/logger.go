// Package logger provides structured logging for the OAuth core, its
// config loader, and its CLI: configurable level and output format, file
// rotation, and request-scoped correlation via context.Context.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel is the minimum severity a Logger will emit.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// OutputFormat selects how log lines are rendered.
type OutputFormat string

const (
	// JSONFormat is zerolog's native structured output - the default when
	// Format is left unset.
	JSONFormat OutputFormat = "json"
	// TextFormat renders a human-readable console line; it is the CLI's
	// default (see DefaultConfig).
	TextFormat OutputFormat = "text"
)

// Config holds logger construction parameters. The CLI builds one from its
// --log-* flags in internal/cli/root.go; internal/config.Loader never
// touches it directly - logging is process-wide, not per-provider.
type Config struct {
	// Level sets the minimum log level that will be output.
	Level LogLevel

	// Format specifies the output format (json or text).
	Format OutputFormat

	// Output is "stdout", "stderr", or a file path.
	Output string

	// EnableRotation rotates Output via lumberjack instead of appending to
	// it forever. Only meaningful when Output is a file path.
	EnableRotation bool

	// MaxSize is the maximum size in megabytes of the log file before it
	// gets rotated. Only applies when EnableRotation is true.
	MaxSize int

	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int

	// MaxAge is the maximum number of days to retain old log files.
	MaxAge int

	// Compress gzips rotated log files.
	Compress bool
}

// DefaultConfig returns the configuration used when the CLI is run without
// any --log-* flags: human-readable text on stderr at info level.
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		Format:     TextFormat,
		Output:     "stderr",
		MaxSize:    100, // 100 MB
		MaxBackups: 3,
		MaxAge:     28, // 28 days
		Compress:   true,
	}
}

// Logger wraps a configured zerolog.Logger.
type Logger struct {
	logger zerolog.Logger
	config *Config
}

type contextKey string

const requestIDKey contextKey = "request_id"

// New builds a Logger from config, opening (and rotating, if configured)
// the output writer. A nil config is equivalent to DefaultConfig().
func New(config *Config) (*Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	level, err := parseLogLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	var writer io.Writer
	switch config.Output {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		if config.EnableRotation {
			writer = &lumberjack.Logger{
				Filename:   config.Output,
				MaxSize:    config.MaxSize,
				MaxBackups: config.MaxBackups,
				MaxAge:     config.MaxAge,
				Compress:   config.Compress,
			}
		} else {
			dir := filepath.Dir(config.Output)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
			file, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return nil, fmt.Errorf("failed to open log file: %w", err)
			}
			writer = file
		}
	}

	if config.Format == TextFormat {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.RFC3339,
			NoColor:    config.Output != "stdout" && config.Output != "stderr",
		}
	}

	zlog := zerolog.New(writer).With().Timestamp().Logger()

	return &Logger{logger: zlog, config: config}, nil
}

func parseLogLevel(level LogLevel) (zerolog.Level, error) {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel, nil
	case InfoLevel:
		return zerolog.InfoLevel, nil
	case WarnLevel:
		return zerolog.WarnLevel, nil
	case ErrorLevel:
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level: %s", level)
	}
}

// WithContext tags the logger with the request ID carried by ctx, if any -
// the per-grant correlation ID minted by internal/oauth and internal/cli
// (see WithRequestID).
func (l *Logger) WithContext(ctx context.Context) *Logger {
	zlog := l.logger
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		zlog = zlog.With().Str("request_id", requestID).Logger()
	}
	return &Logger{logger: zlog, config: l.config}
}

// Debug logs a debug level message.
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Debugf logs a formatted debug level message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// Warn logs a warning level message.
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Warnf logs a formatted warning level message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

// Infof logs a formatted info level message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

// Errorf logs a formatted error level message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

// WithRequestID attaches a request/grant correlation ID to ctx.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
