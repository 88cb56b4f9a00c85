// Package config provides configuration loading and validation for the SRP-6a demo server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the demo server's configuration.
type Config struct {
	Service  ServiceSettings   `yaml:"service"`
	Srp      SrpSettings       `yaml:"srp"`
	Server   ServerSettings    `yaml:"server"`
	Logging  LoggingSettings   `yaml:"logging"`
	RateLimit RateLimitSettings `yaml:"rate_limit"`
}

// ServiceSettings contains service-level session configuration.
type ServiceSettings struct {
	SessionTTL string `yaml:"session_ttl"`
}

// SrpSettings selects the SRP-6a group and the location of the
// account verifier record the server authenticates against.
type SrpSettings struct {
	GroupBits    int    `yaml:"group_bits"`
	VerifierFile string `yaml:"verifier_file"`
	HandshakeTTL string `yaml:"handshake_ttl"` // how long a parked Init session survives before Verify
}

// ServerSettings contains the demo HTTPS listener configuration.
type ServerSettings struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`
}

// LoggingSettings contains logging configuration.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RateLimitSettings holds the rate_limit section. Validate checks these
// values; the server's auth.RateLimiter uses its own fixed delay schedule
// and does not read them.
type RateLimitSettings struct {
	MaxAttempts  int    `yaml:"max_attempts"`
	BaseDelay    string `yaml:"base_delay"`
	MaxDelay     string `yaml:"max_delay"`
}

// Load reads and parses the configuration file.
//
//nolint:gosec // G304: Config path is from command-line argument
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate performs basic validation on the configuration.
// Detailed validation is in validate.go.
func (c *Config) validate() error {
	if c.Service.SessionTTL == "" {
		return fmt.Errorf("service.session_ttl is required")
	}

	if c.Srp.VerifierFile == "" {
		return fmt.Errorf("srp.verifier_file is required")
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return fmt.Errorf("server.port must be between 1 and 65535")
		}

		if c.Server.TLSCert == "" {
			return fmt.Errorf("server.tls_cert is required when the server is enabled")
		}

		if c.Server.TLSKey == "" {
			return fmt.Errorf("server.tls_key is required when the server is enabled")
		}
	}

	return nil
}

// GetSessionTTL parses and returns the post-auth session token TTL.
func (c *Config) GetSessionTTL() (time.Duration, error) {
	duration, err := time.ParseDuration(c.Service.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid session_ttl: %w", err)
	}

	if duration < 5*time.Minute {
		return 0, fmt.Errorf("session_ttl must be at least 5 minutes")
	}

	return duration, nil
}

// GetHandshakeTTL parses and returns the pending-handshake store TTL,
// defaulting to 5 minutes if unset.
func (c *Config) GetHandshakeTTL() (time.Duration, error) {
	if c.Srp.HandshakeTTL == "" {
		return 5 * time.Minute, nil
	}

	duration, err := time.ParseDuration(c.Srp.HandshakeTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid srp.handshake_ttl: %w", err)
	}
	return duration, nil
}

// VerifierFilePath resolves the configured verifier file to an
// absolute path.
func (c *Config) VerifierFilePath() (string, error) {
	if filepath.IsAbs(c.Srp.VerifierFile) {
		return c.Srp.VerifierFile, nil
	}
	abs, err := filepath.Abs(c.Srp.VerifierFile)
	if err != nil {
		return "", fmt.Errorf("failed to resolve verifier_file path: %w", err)
	}
	return abs, nil
}
