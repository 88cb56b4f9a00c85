package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Validate performs comprehensive validation on the configuration.
func Validate(cfg *Config) error {
	if err := validateService(cfg); err != nil {
		return fmt.Errorf("service validation failed: %w", err)
	}

	if err := validateSrp(cfg); err != nil {
		return fmt.Errorf("srp validation failed: %w", err)
	}

	if err := validateServer(cfg); err != nil {
		return fmt.Errorf("server validation failed: %w", err)
	}

	if err := validateLogging(cfg); err != nil {
		return fmt.Errorf("logging validation failed: %w", err)
	}

	if err := validateRateLimit(cfg); err != nil {
		return fmt.Errorf("rate_limit validation failed: %w", err)
	}

	return nil
}

func validateService(cfg *Config) error {
	if _, err := cfg.GetSessionTTL(); err != nil {
		return err
	}
	return nil
}

var validGroupBits = []int{1024, 1536, 2048, 3072, 4096, 6144, 8192}

func validateSrp(cfg *Config) error {
	if !slices.Contains(validGroupBits, cfg.Srp.GroupBits) {
		return fmt.Errorf("srp.group_bits must be one of %v", validGroupBits)
	}

	if !filepath.IsAbs(cfg.Srp.VerifierFile) {
		return fmt.Errorf("srp.verifier_file must be an absolute path")
	}

	if cfg.Srp.HandshakeTTL != "" {
		if _, err := time.ParseDuration(cfg.Srp.HandshakeTTL); err != nil {
			return fmt.Errorf("srp.handshake_ttl is not a valid duration: %w", err)
		}
	}

	return nil
}

func validateServer(cfg *Config) error {
	if !cfg.Server.Enabled {
		return nil
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if !filepath.IsAbs(cfg.Server.TLSCert) {
		return fmt.Errorf("server.tls_cert must be an absolute path")
	}
	certDir := filepath.Dir(cfg.Server.TLSCert)
	if _, err := os.Stat(certDir); os.IsNotExist(err) {
		return fmt.Errorf("server.tls_cert directory does not exist: %s", certDir)
	}

	if !filepath.IsAbs(cfg.Server.TLSKey) {
		return fmt.Errorf("server.tls_key must be an absolute path")
	}
	keyDir := filepath.Dir(cfg.Server.TLSKey)
	if _, err := os.Stat(keyDir); os.IsNotExist(err) {
		return fmt.Errorf("server.tls_key directory does not exist: %s", keyDir)
	}

	if cfg.Server.Address != "" && strings.Contains(cfg.Server.Address, " ") {
		return fmt.Errorf("server.address contains invalid characters")
	}

	return nil
}

func validateLogging(cfg *Config) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, cfg.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %s", strings.Join(validLevels, ", "))
	}

	validFormats := []string{"json", "human"}
	if !slices.Contains(validFormats, cfg.Logging.Format) {
		return fmt.Errorf("logging.format must be one of: %s", strings.Join(validFormats, ", "))
	}

	return nil
}

func validateRateLimit(cfg *Config) error {
	if cfg.RateLimit.MaxAttempts <= 0 {
		return fmt.Errorf("rate_limit.max_attempts must be positive")
	}

	if cfg.RateLimit.BaseDelay != "" {
		if _, err := time.ParseDuration(cfg.RateLimit.BaseDelay); err != nil {
			return fmt.Errorf("rate_limit.base_delay is not a valid duration: %w", err)
		}
	}

	if cfg.RateLimit.MaxDelay != "" {
		if _, err := time.ParseDuration(cfg.RateLimit.MaxDelay); err != nil {
			return fmt.Errorf("rate_limit.max_delay is not a valid duration: %w", err)
		}
	}

	return nil
}
