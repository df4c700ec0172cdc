package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AINative-studio/oauth2native/internal/logger"
	"github.com/AINative-studio/oauth2native/internal/oauth"
)

const (
	// DefaultRefreshThreshold is the time before expiration to trigger refresh.
	DefaultRefreshThreshold = 5 * time.Minute

	// DefaultCheckInterval is how often to check token expiration.
	DefaultCheckInterval = 1 * time.Minute

	// MinRefreshThreshold is the minimum allowed refresh threshold.
	MinRefreshThreshold = 1 * time.Minute
)

// Tokens is the subset of a token response the manager tracks. The core
// oauth package never parses the token endpoint's body, so callers supply a
// ParseExpiry function that turns a raw TokenResponse into a Tokens value.
type Tokens struct {
	RefreshToken string
	ExpiresIn    time.Duration
	Raw          *oauth.TokenResponse
}

// ParseExpiryFunc extracts a refresh token and expiry from a token endpoint
// response. It is supplied by the caller because the response body's shape
// (JSON field names, encoding) is outside the core's concern.
type ParseExpiryFunc func(resp *oauth.TokenResponse) (Tokens, error)

// TokenStoreFunc is called to persist refreshed tokens.
type TokenStoreFunc func(tokens Tokens) error

// RefreshFailFunc is called when token refresh fails. It should return true
// if the manager should stop and expect the caller to re-authenticate.
type RefreshFailFunc func(err error) bool

// Config configures a Manager.
type Config struct {
	// Client performs the refresh_token grant request.
	Client *oauth.PublicClient

	// Doer sends the HTTP request; *http.Client satisfies it.
	Doer oauth.HTTPDoer

	// ParseExpiry turns a raw token response into Tokens.
	ParseExpiry ParseExpiryFunc

	// TokenStore is called with every successfully refreshed token set.
	TokenStore TokenStoreFunc

	// OnRefreshFail is called when a refresh attempt fails.
	OnRefreshFail RefreshFailFunc

	// RefreshThreshold is how long before expiry to trigger a refresh.
	// Default: DefaultRefreshThreshold, floored at MinRefreshThreshold.
	RefreshThreshold time.Duration

	// CheckInterval is how often the background loop checks expiration.
	// Default: DefaultCheckInterval.
	CheckInterval time.Duration
}

// Manager refreshes an OAuth 2.0 token set ahead of its expiration, on a
// background loop, using a RefreshGrant under the hood.
type Manager struct {
	config Config

	mu            sync.RWMutex
	tokens        Tokens
	expiresAt     time.Time
	running       bool
	lastRefreshAt time.Time

	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewManager constructs a Manager; it does not start the background loop.
func NewManager(config Config) *Manager {
	if config.RefreshThreshold == 0 {
		config.RefreshThreshold = DefaultRefreshThreshold
	}
	if config.RefreshThreshold < MinRefreshThreshold {
		config.RefreshThreshold = MinRefreshThreshold
	}
	if config.CheckInterval == 0 {
		config.CheckInterval = DefaultCheckInterval
	}

	return &Manager{
		config:      config,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Start seeds the manager with an initial token set and begins the
// background refresh-ahead loop. It returns an error if already running.
func (m *Manager) Start(ctx context.Context, tokens Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("refresh: manager already running")
	}

	m.tokens = tokens
	m.expiresAt = time.Now().Add(tokens.ExpiresIn)
	m.running = true
	m.stopChan = make(chan struct{})
	m.stoppedChan = make(chan struct{})

	go m.refreshLoop(ctx)

	return nil
}

// Stop gracefully stops the refresh loop and waits for it to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	close(m.stopChan)
	m.running = false
	stopped := m.stoppedChan
	m.mu.Unlock()

	<-stopped
}

// IsRunning reports whether the background loop is active.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// Current returns the manager's current token set.
func (m *Manager) Current() Tokens {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens
}

// ExpiresAt returns the current token set's expiration time.
func (m *Manager) ExpiresAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiresAt
}

// LastRefreshAt returns the time of the last successful refresh, the zero
// value if none has happened yet.
func (m *Manager) LastRefreshAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRefreshAt
}

func (m *Manager) refreshLoop(ctx context.Context) {
	defer close(m.stoppedChan)

	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			m.mu.Lock()
			m.running = false
			m.mu.Unlock()
			return
		case <-ticker.C:
			if err := m.checkAndRefresh(ctx); err != nil {
				logger.Warnf("refresh: check failed: %v", err)
			}
		}
	}
}

func (m *Manager) checkAndRefresh(ctx context.Context) error {
	m.mu.RLock()
	expiresAt := m.expiresAt
	refreshToken := m.tokens.RefreshToken
	m.mu.RUnlock()

	refreshAt := expiresAt.Add(-m.config.RefreshThreshold)
	if time.Now().Before(refreshAt) {
		return nil
	}

	return m.performRefresh(ctx, refreshToken)
}

func (m *Manager) performRefresh(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("refresh: no refresh token available")
	}

	resp, err := m.config.Client.Refresh(ctx, m.config.Doer, refreshToken)
	if err != nil {
		return m.handleRefreshFailure(fmt.Errorf("refresh: token request failed: %w", err))
	}

	tokens, err := m.config.ParseExpiry(resp)
	if err != nil {
		return m.handleRefreshFailure(fmt.Errorf("refresh: parsing token response: %w", err))
	}

	m.mu.Lock()
	m.tokens = tokens
	m.expiresAt = time.Now().Add(tokens.ExpiresIn)
	m.lastRefreshAt = time.Now()
	m.mu.Unlock()

	if m.config.TokenStore != nil {
		if err := m.config.TokenStore(tokens); err != nil {
			return fmt.Errorf("refresh: storing refreshed tokens: %w", err)
		}
	}

	logger.Infof("refresh: tokens refreshed, expires at %s", m.ExpiresAt().Format(time.RFC3339))
	return nil
}

func (m *Manager) handleRefreshFailure(err error) error {
	if m.config.OnRefreshFail != nil && m.config.OnRefreshFail(err) {
		m.mu.Lock()
		if m.running {
			close(m.stopChan)
			m.running = false
		}
		m.mu.Unlock()
		return fmt.Errorf("refresh: re-authentication required: %w", err)
	}
	return err
}

// ForceRefresh refreshes immediately, regardless of the current expiration.
func (m *Manager) ForceRefresh(ctx context.Context) error {
	m.mu.RLock()
	refreshToken := m.tokens.RefreshToken
	m.mu.RUnlock()

	return m.performRefresh(ctx, refreshToken)
}

// UpdateTokens replaces the tracked token set, e.g. after an out-of-band
// re-authentication.
func (m *Manager) UpdateTokens(tokens Tokens) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = tokens
	m.expiresAt = time.Now().Add(tokens.ExpiresIn)
}

// Status reports the manager's current refresh state.
type Status struct {
	IsRunning        bool
	ExpiresAt        time.Time
	RefreshAt        time.Time
	LastRefreshAt    time.Time
	TimeUntilExpiry  time.Duration
	TimeUntilRefresh time.Duration
	NeedsRefresh     bool
}

// Status returns the manager's current refresh state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	refreshAt := m.expiresAt.Add(-m.config.RefreshThreshold)

	return Status{
		IsRunning:        m.running,
		ExpiresAt:        m.expiresAt,
		RefreshAt:        refreshAt,
		LastRefreshAt:    m.lastRefreshAt,
		TimeUntilExpiry:  m.expiresAt.Sub(now),
		TimeUntilRefresh: refreshAt.Sub(now),
		NeedsRefresh:     now.After(refreshAt),
	}
}
