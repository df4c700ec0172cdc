package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewLoader(t *testing.T) {
	tests := []struct {
		name       string
		opts       []LoaderOption
		wantName   string
		wantPaths  []string
	}{
		{
			name:      "default loader",
			opts:      nil,
			wantName:  "config",
			wantPaths: []string{".", "$HOME/.oauth2native", "/etc/oauth2native"},
		},
		{
			name:      "custom config name",
			opts:      []LoaderOption{WithConfigName("providers")},
			wantName:  "providers",
			wantPaths: []string{".", "$HOME/.oauth2native", "/etc/oauth2native"},
		},
		{
			name:      "custom config paths",
			opts:      []LoaderOption{WithConfigPaths("/tmp/conf")},
			wantName:  "config",
			wantPaths: []string{"/tmp/conf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLoader(tt.opts...)
			if got.configName != tt.wantName {
				t.Errorf("configName = %v, want %v", got.configName, tt.wantName)
			}
			if len(got.configPaths) != len(tt.wantPaths) {
				t.Fatalf("configPaths = %v, want %v", got.configPaths, tt.wantPaths)
			}
			for i, p := range tt.wantPaths {
				if got.configPaths[i] != p {
					t.Errorf("configPaths[%d] = %v, want %v", i, got.configPaths[i], p)
				}
			}
		})
	}
}

func TestLoaderLoadWithoutFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(WithConfigPaths(dir))

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Providers == nil {
		t.Fatal("expected a non-nil, empty Providers map when no config file is present")
	}
	if len(cfg.Providers) != 0 {
		t.Fatalf("expected no providers, got %d", len(cfg.Providers))
	}
}

func TestLoaderLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
providers:
  github:
    client_id: my-client
    token_endpoint: https://github.com/login/oauth/access_token
    authorization_endpoint: https://github.com/login/oauth/authorize
    redirect_path: /callback
    scopes:
      - repo
      - read:org
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	l := NewLoader(WithConfigPaths(dir))
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	gh, err := cfg.Lookup("github")
	if err != nil {
		t.Fatalf("Lookup(github) error = %v", err)
	}
	if gh.ClientID != "my-client" {
		t.Errorf("ClientID = %q, want %q", gh.ClientID, "my-client")
	}
	if len(gh.Scopes) != 2 || gh.Scopes[0] != "repo" {
		t.Errorf("Scopes = %v, want [repo read:org]", gh.Scopes)
	}
}

func TestLookupMissingProvider(t *testing.T) {
	cfg := &Config{Providers: map[string]Provider{}}
	if _, err := cfg.Lookup("nonexistent"); err == nil {
		t.Fatal("expected an error for a missing provider")
	}
}

func TestProviderClient(t *testing.T) {
	p := Provider{ClientID: "my-client", TokenEndpoint: "https://example.com/token"}
	c, err := p.Client()
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}
	if c.ClientID() != "my-client" {
		t.Errorf("ClientID() = %q, want %q", c.ClientID(), "my-client")
	}
}

func TestLoaderWatchAndReloadPicksUpRotatedSecret(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	initial := `
providers:
  github:
    client_id: my-client
    client_secret: s3cr3t-v1
    token_endpoint: https://github.com/login/oauth/access_token
`
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	l := NewLoader(WithConfigPaths(dir))
	if _, err := l.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	reloaded := make(chan *Config, 1)
	l.WatchAndReload(func(cfg *Config) { reloaded <- cfg })

	updated := `
providers:
  github:
    client_id: my-client
    client_secret: s3cr3t-v2
    token_endpoint: https://github.com/login/oauth/access_token
`
	// fsnotify needs a real write, not a truncate-in-place, to reliably
	// fire on every platform this runs on.
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("rewriting fixture: %v", err)
	}

	select {
	case cfg := <-reloaded:
		gh, err := cfg.Lookup("github")
		if err != nil {
			t.Fatalf("Lookup(github) error = %v", err)
		}
		if gh.ClientSecret != "s3cr3t-v2" {
			t.Errorf("ClientSecret = %q, want %q", gh.ClientSecret, "s3cr3t-v2")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for WatchAndReload to observe the config file change")
	}
}

func TestProviderClientRejectsMissingClientID(t *testing.T) {
	p := Provider{TokenEndpoint: "https://example.com/token"}
	if _, err := p.Client(); err == nil {
		t.Fatal("expected an error for a missing client_id")
	}
}
