// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration, decoded from environment
// variables in one pass.
type Config struct {
	Port         string `env:"PORT,default=8080"`
	PublicOrigin string `env:"PUBLIC_ORIGIN"`
	LogLevel     string `env:"LOG_LEVEL,default=info"`

	// AccessCodes is the comma-separated early-access code list.
	// AllowlistEmails bypass the approval gate without a code.
	AccessCodes     string `env:"ACCESS_CODES"`
	AllowlistEmails string `env:"ALLOWLIST_EMAILS"`

	// StorageBackend selects the profile-store implementation: "memory" or
	// "postgres".
	StorageBackend string `env:"STORAGE_BACKEND,default=memory"`
	DatabaseURL    string `env:"DATABASE_URL"`

	// AuthMode "dev" bypasses session verification (X-Debug-Subject shim).
	AuthMode   string `env:"AUTH_MODE,default=jwt"`
	DevSubject string `env:"DEV_SUBJECT,default=dev|local"`

	Session  SessionConfig
	Commerce CommerceConfig
	Identity IdentityConfig
}

// SessionConfig configures session-token verification against the identity
// provider's JWKS endpoint.
type SessionConfig struct {
	Issuer string `env:"SESSION_ISSUER"`
	// AuthorizedParty is the expected azp claim (the storefront's own
	// origin); session tokens carry azp rather than aud.
	AuthorizedParty string `env:"SESSION_AUTHORIZED_PARTY"`
	JWKSURL         string `env:"SESSION_JWKS_URL"`

	ClockSkew              time.Duration `env:"SESSION_CLOCK_SKEW,default=30s"`
	JWKSRefreshInterval    time.Duration `env:"SESSION_JWKS_REFRESH_INTERVAL,default=5m"`
	JWKSMinRefreshInterval time.Duration `env:"SESSION_JWKS_MIN_REFRESH_INTERVAL,default=10s"`
	HTTPTimeout            time.Duration `env:"SESSION_HTTP_TIMEOUT,default=5s"`
}

// CommerceConfig points at the headless commerce backend's storefront API.
type CommerceConfig struct {
	StoreDomain string        `env:"COMMERCE_STORE_DOMAIN"`
	APIVersion  string        `env:"COMMERCE_API_VERSION,default=2024-10"`
	AccessToken string        `env:"COMMERCE_STOREFRONT_TOKEN"`
	HTTPTimeout time.Duration `env:"COMMERCE_HTTP_TIMEOUT,default=10s"`
}

// IdentityConfig points at the identity provider's Backend API.
type IdentityConfig struct {
	APIURL      string        `env:"IDENTITY_API_URL,default=https://api.clerk.com/v1"`
	SecretKey   string        `env:"IDENTITY_SECRET_KEY"`
	HTTPTimeout time.Duration `env:"IDENTITY_HTTP_TIMEOUT,default=10s"`
}

// Load reads an optional .env file, then decodes the environment. Required
// settings are validated per auth/storage mode by the caller, which knows
// which subsystems it is wiring.
func Load() (Config, error) {
	// Missing .env is fine; env vars may come from the deployment.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode env: %w", err)
	}
	return cfg, nil
}

// ValidateSession checks the settings session verification needs.
func (c Config) ValidateSession() error {
	if c.Session.Issuer == "" || c.Session.JWKSURL == "" {
		return fmt.Errorf("missing required env vars: SESSION_ISSUER, SESSION_JWKS_URL")
	}
	return nil
}
