// Package cli implements the oauth2native command-line client: login
// (Authorization Code + PKCE against a browser), client-credentials, and
// refresh, each driven by a named provider preset loaded through
// internal/config.
package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/AINative-studio/oauth2native/internal/config"
	"github.com/AINative-studio/oauth2native/internal/logger"
)

var (
	cfgPath string
	cfgName string
	verbose bool

	logFormat     string
	logOutput     string
	logRotate     bool
	logMaxSizeMB  int
	logMaxBackups int
	logMaxAgeDays int
	logCompress   bool

	// liveConfig is refreshed in place by watchOnce's WatchAndReload
	// callback, so a client_secret edited on disk mid-session is seen by
	// the next loadProvider call without restarting the process.
	configMu   sync.RWMutex
	liveConfig *config.Config
	watchOnce  sync.Once
)

var rootCmd = &cobra.Command{
	Use:     "oauth2native",
	Short:   "A minimal OAuth 2.0 client for native applications",
	Version: "0.1.0",
	Long: `oauth2native runs the OAuth 2.0 grants a native application needs
against a named provider preset: the Authorization Code grant with PKCE
(via a loopback redirect and your system browser), Client Credentials,
and Refresh Token.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := logger.DefaultConfig()
		if verbose {
			cfg.Level = logger.DebugLevel
		}
		if logFormat != "" {
			cfg.Format = logger.OutputFormat(logFormat)
		}
		if logOutput != "" {
			cfg.Output = logOutput
		}
		cfg.EnableRotation = logRotate
		cfg.MaxSize = logMaxSizeMB
		cfg.MaxBackups = logMaxBackups
		cfg.MaxAge = logMaxAgeDays
		cfg.Compress = logCompress

		l, err := logger.New(cfg)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			return
		}
		logger.SetGlobalLogger(l)
	},
}

// Execute runs the root command. Called once by cmd/oauth2native's main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config-path", "", "directory to search for the config file (default: ., $HOME/.oauth2native, /etc/oauth2native)")
	rootCmd.PersistentFlags().StringVar(&cfgName, "config-name", "config", "config file base name, without extension")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log output format: text or json (default: text)")
	rootCmd.PersistentFlags().StringVar(&logOutput, "log-output", "", "log destination: stderr, stdout, or a file path (default: stderr)")
	rootCmd.PersistentFlags().BoolVar(&logRotate, "log-rotate", false, "rotate the log file instead of appending to it forever (requires --log-output to be a file path)")
	rootCmd.PersistentFlags().IntVar(&logMaxSizeMB, "log-max-size-mb", 100, "maximum log file size in megabytes before rotation")
	rootCmd.PersistentFlags().IntVar(&logMaxBackups, "log-max-backups", 3, "maximum number of rotated log files to retain")
	rootCmd.PersistentFlags().IntVar(&logMaxAgeDays, "log-max-age-days", 28, "maximum age in days of a rotated log file")
	rootCmd.PersistentFlags().BoolVar(&logCompress, "log-compress", true, "gzip rotated log files")

	rootCmd.AddCommand(newLoginCommand())
	rootCmd.AddCommand(newClientCredentialsCommand())
	rootCmd.AddCommand(newRefreshCommand())
}

// loadProvider loads the named provider preset using the --config-path and
// --config-name flags shared by every subcommand. The first call also
// starts a watch on the config file so a client_secret rotated on disk
// while this process is running is picked up by the next lookup without a
// restart. Each subcommand looks up its provider once, before its grant
// starts, so a change made after that lookup does not affect that grant.
func loadProvider(name string) (config.Provider, error) {
	var loadErr error
	watchOnce.Do(func() {
		opts := []config.LoaderOption{config.WithConfigName(cfgName)}
		if cfgPath != "" {
			opts = append(opts, config.WithConfigPaths(cfgPath))
		}
		loader := config.NewLoader(opts...)

		cfg, err := loader.Load()
		if err != nil {
			loadErr = fmt.Errorf("loading config: %w", err)
			return
		}
		configMu.Lock()
		liveConfig = cfg
		configMu.Unlock()

		loader.WatchAndReload(func(cfg *config.Config) {
			configMu.Lock()
			liveConfig = cfg
			configMu.Unlock()
		})
	})
	if loadErr != nil {
		return config.Provider{}, loadErr
	}

	configMu.RLock()
	cfg := liveConfig
	configMu.RUnlock()
	if cfg == nil {
		return config.Provider{}, fmt.Errorf("loading config: not loaded")
	}
	return cfg.Lookup(name)
}
