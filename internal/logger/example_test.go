package logger_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/AINative-studio/oauth2native/internal/logger"
)

// Example_basicUsage shows the default, human-readable logger the CLI uses
// when no --log-* flags are given.
func Example_basicUsage() {
	l, err := logger.New(logger.DefaultConfig())
	if err != nil {
		panic(err)
	}
	l.Infof("authorization_code grant started")
}

// Example_grantCorrelation shows how internal/oauth tags every grant's log
// lines with a per-request correlation ID via WithRequestID/WithContext.
func Example_grantCorrelation() {
	cfg := logger.DefaultConfig()
	cfg.Format = logger.JSONFormat
	l, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx := logger.WithRequestID(context.Background(), "grant-3f9a21")
	l.WithContext(ctx).Infof("client_credentials grant completed with status %d", 200)
}

// Example_fileLogging shows writing to a log file instead of a stream,
// as selected by --log-output.
func Example_fileLogging() {
	path := filepath.Join(os.TempDir(), "oauth2native-example.log")
	defer os.Remove(path)

	cfg := logger.DefaultConfig()
	cfg.Output = path
	l, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	l.Infof("refresh_token grant started")
}

// Example_logRotation shows enabling lumberjack-backed rotation, as
// selected by --log-rotate and friends.
func Example_logRotation() {
	path := filepath.Join(os.TempDir(), "oauth2native-rotating.log")
	defer os.Remove(path)

	cfg := logger.DefaultConfig()
	cfg.Output = path
	cfg.EnableRotation = true
	cfg.MaxSize = 50
	cfg.MaxBackups = 5
	cfg.MaxAge = 14
	cfg.Compress = true

	l, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	l.Infof("refresh-ahead manager rotated the client secret")
}

// Example_globalLogger shows installing a custom logger as the package
// global, as internal/cli/root.go does from parsed --log-* flags.
func Example_globalLogger() {
	cfg := logger.DefaultConfig()
	cfg.Format = logger.JSONFormat
	l, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	logger.SetGlobalLogger(l)
	logger.Infof("oauth2native CLI logger installed")
}

// Example_differentLevels shows each of the four severities a grant logs at.
func Example_differentLevels() {
	cfg := logger.DefaultConfig()
	cfg.Level = logger.DebugLevel
	l, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	l.Debug("pkce verifier generated")
	l.Infof("authorization_code grant dispatched")
	l.Warn("redirect listener retrying on next candidate port")
	l.Errorf("token endpoint returned an error: %s", "invalid_grant")
}
