package config

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix     = "PORTAL_"
	EnvConfigFile = "PORTAL_CONFIG"
)

const csrfKeyBytes = 32

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PORTAL_CONFIG is set
//  3. env (prefix PORTAL_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PORTAL_API_BASE_URL -> api_base_url (flat keys, underscores preserved).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api_base_url must be an absolute URL, got %q", ErrInvalidConfig, c.APIBaseURL)
	}
	if c.APITimeoutMS <= 0 {
		return fmt.Errorf("%w: api_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.SignInRatePerMinute <= 0 || c.SignInBurst <= 0 {
		return fmt.Errorf("%w: signin_rate_per_minute and signin_burst must be positive", ErrInvalidConfig)
	}
	if c.CSRFKey != "" {
		if _, err := c.CSRFKeyBytes(); err != nil {
			return err
		}
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}
	return nil
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a single-host prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if p, err := netip.ParsePrefix(raw); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: trusted_proxies entry %q is not an address or CIDR", ErrInvalidConfig, raw)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// CSRFKeyBytes decodes CSRFKey. It returns nil, nil when no key is configured.
func (c *Config) CSRFKeyBytes() ([]byte, error) {
	if c.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.CSRFKey)
	if err != nil || len(key) != csrfKeyBytes {
		return nil, fmt.Errorf("%w: csrf_key must be %d hex encoded bytes", ErrInvalidConfig, csrfKeyBytes)
	}
	return key, nil
}
