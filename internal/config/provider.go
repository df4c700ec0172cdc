package config

import (
	"fmt"

	"github.com/AINative-studio/oauth2native/internal/oauth"
)

// Lookup returns the named provider preset.
func (c *Config) Lookup(name string) (Provider, error) {
	p, ok := c.Providers[name]
	if !ok {
		return Provider{}, fmt.Errorf("config: no provider named %q", name)
	}
	return p, nil
}

// Client builds a PublicClient from this provider preset.
func (p Provider) Client() (*oauth.PublicClient, error) {
	c, err := oauth.NewPublicClient(p.ClientID, p.TokenEndpoint)
	if err != nil {
		return nil, err
	}
	if p.RequestTimeout > 0 {
		c = c.WithRequestTimeout(p.RequestTimeout)
	}
	return c, nil
}
