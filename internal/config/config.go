// Package config loads named OAuth client presets (client_id, endpoints,
// timeouts, redirect settings) from a YAML config file, environment
// variables, and built-in defaults, using viper the way the rest of this
// codebase's ambient configuration is loaded.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/AINative-studio/oauth2native/internal/logger"
)

// Provider is one named OAuth client preset.
type Provider struct {
	ClientID              string        `mapstructure:"client_id"`
	ClientSecret          string        `mapstructure:"client_secret"`
	Charset               string        `mapstructure:"charset"`
	TokenEndpoint         string        `mapstructure:"token_endpoint"`
	AuthorizationEndpoint string        `mapstructure:"authorization_endpoint"`
	RequestTimeout        time.Duration `mapstructure:"request_timeout"`
	RedirectPath          string        `mapstructure:"redirect_path"`
	RedirectPorts         []int         `mapstructure:"redirect_ports"`
	Scopes                []string      `mapstructure:"scopes"`
}

// Config is the top-level configuration file shape: a set of named
// provider presets, e.g. "github", "google", an internal staging IdP.
type Config struct {
	Providers map[string]Provider `mapstructure:"providers"`
}

// Loader loads Config from a YAML file, "OAUTH2NATIVE_"-prefixed
// environment variables, and built-in defaults, in that order of override
// precedence (env wins over file, file wins over defaults).
type Loader struct {
	viper       *viper.Viper
	configPaths []string
	configName  string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// NewLoader constructs a Loader with the conventional search paths.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		viper:       viper.New(),
		configPaths: []string{".", "$HOME/.oauth2native", "/etc/oauth2native"},
		configName:  "config",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithConfigPaths overrides the default search paths.
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) { l.configPaths = paths }
}

// WithConfigName overrides the default config file base name ("config").
func WithConfigName(name string) LoaderOption {
	return func(l *Loader) { l.configName = name }
}

// Load reads the configuration file (if present), applies environment
// overrides, and unmarshals the result. A missing config file is not an
// error: defaults and environment variables alone are a valid configuration.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()
	l.setupEnvVars()

	for _, path := range l.configPaths {
		l.viper.AddConfigPath(os.ExpandEnv(path))
	}
	l.viper.SetConfigName(l.configName)
	l.viper.SetConfigType("yaml")

	if err := l.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading %s: %w", l.viper.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}
	if cfg.Providers == nil {
		cfg.Providers = map[string]Provider{}
	}

	return &cfg, nil
}

// WatchAndReload re-reads the configuration file whenever it changes on
// disk and invokes onChange with the freshly unmarshalled Config. It must
// be called after Load. Live secret rotation (e.g. a client_secret updated
// by an external vault sync) lands in onChange without restarting the
// process.
func (l *Loader) WatchAndReload(onChange func(*Config)) {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Infof("config: reload triggered by %s", e.Name)

		var cfg Config
		if err := l.viper.Unmarshal(&cfg); err != nil {
			logger.Errorf("config: failed to unmarshal after reload: %v", err)
			return
		}
		onChange(&cfg)
	})
	l.viper.WatchConfig()
}

func (l *Loader) setupEnvVars() {
	l.viper.SetEnvPrefix("OAUTH2NATIVE")
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	l.viper.AutomaticEnv()
}

func (l *Loader) setDefaults() {
	l.viper.SetDefault("providers", map[string]interface{}{})
}
