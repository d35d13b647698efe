// Package config defines portal configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIBaseURL is the root of the external player API, e.g. "http://localhost:3000/api".
	APIBaseURL string `koanf:"api_base_url"`

	// APITimeoutMS bounds each request to the player API.
	APITimeoutMS int `koanf:"api_timeout_ms"`

	// MaxIdentities bounds the in-memory signed-in identities. Zero or negative means unbounded.
	MaxIdentities int `koanf:"max_identities"`

	// CSRFKey is a hex encoded 32 byte key for form protection. Empty generates one per process.
	CSRFKey string `koanf:"csrf_key"`

	// SecureCookies marks identity and CSRF cookies as HTTPS only.
	SecureCookies bool `koanf:"secure_cookies"`

	// SignInRatePerMinute and SignInBurst throttle sign-in attempts per client address.
	SignInRatePerMinute int `koanf:"signin_rate_per_minute"`
	SignInBurst         int `koanf:"signin_burst"`

	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For header is believed.
	// Empty means the throttle keys on the connecting address only.
	TrustedProxies []string `koanf:"trusted_proxies"`

	// MockAPIAddr, MockAPIPlayers and MockAPISeed configure cmd/mock-api.
	MockAPIAddr    string `koanf:"mock_api_addr"`
	MockAPIPlayers int    `koanf:"mock_api_players"`
	MockAPISeed    uint64 `koanf:"mock_api_seed"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":8080",
		APIBaseURL:          "http://localhost:3000/api",
		APITimeoutMS:        5000,
		MaxIdentities:       10_000,
		SignInRatePerMinute: 30,
		SignInBurst:         10,
		MockAPIAddr:         ":3000",
		MockAPIPlayers:      5,
		MockAPISeed:         42,
	}
}

// APITimeout returns APITimeoutMS as a duration.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutMS) * time.Millisecond
}
