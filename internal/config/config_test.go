//nolint:gosec,gofumpt // G301,G306: Test files use standard permissions; formatting is acceptable
package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-srp/srp6a/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, tmpDir, yamlContent string) string {
	t.Helper()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(yamlContent), 0644))
	return configFile
}

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	tlsDir := filepath.Join(tmpDir, "tls")
	require.NoError(t, os.MkdirAll(tlsDir, 0755))

	configYAML := `
service:
  session_ttl: "30m"

srp:
  group_bits: 2048
  verifier_file: "` + filepath.Join(tmpDir, "verifier.json") + `"
  handshake_ttl: "5m"

server:
  enabled: true
  address: ""
  port: 8443
  tls_cert: "` + filepath.Join(tlsDir, "server.crt") + `"
  tls_key: "` + filepath.Join(tlsDir, "server.key") + `"

logging:
  level: "info"
  format: "json"

rate_limit:
  max_attempts: 5
  base_delay: "1s"
  max_delay: "30s"
`

	configFile := writeConfig(t, tmpDir, configYAML)

	cfg, err := config.Load(configFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "30m", cfg.Service.SessionTTL)
	assert.Equal(t, 2048, cfg.Srp.GroupBits)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 8443, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 5, cfg.RateLimit.MaxAttempts)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := writeConfig(t, tmpDir, "invalid: [yaml")

	cfg, err := config.Load(configFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := config.Load("/nonexistent/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestGetSessionTTL(t *testing.T) {
	tests := []struct {
		name        string
		ttl         string
		expectError bool
		expected    time.Duration
	}{
		{name: "valid 30 minutes", ttl: "30m", expected: 30 * time.Minute},
		{name: "valid 1 hour", ttl: "1h", expected: 1 * time.Hour},
		{name: "minimum 5 minutes", ttl: "5m", expected: 5 * time.Minute},
		{name: "below minimum", ttl: "2m", expectError: true},
		{name: "invalid format", ttl: "invalid", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Service: config.ServiceSettings{SessionTTL: tt.ttl},
			}

			duration, err := cfg.GetSessionTTL()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, duration)
			}
		})
	}
}

func TestGetHandshakeTTL(t *testing.T) {
	t.Run("defaults to five minutes when unset", func(t *testing.T) {
		cfg := &config.Config{}
		duration, err := cfg.GetHandshakeTTL()
		require.NoError(t, err)
		assert.Equal(t, 5*time.Minute, duration)
	})

	t.Run("parses explicit value", func(t *testing.T) {
		cfg := &config.Config{Srp: config.SrpSettings{HandshakeTTL: "90s"}}
		duration, err := cfg.GetHandshakeTTL()
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, duration)
	})

	t.Run("rejects invalid duration", func(t *testing.T) {
		cfg := &config.Config{Srp: config.SrpSettings{HandshakeTTL: "invalid"}}
		_, err := cfg.GetHandshakeTTL()
		assert.Error(t, err)
	})
}

func TestVerifierFilePath(t *testing.T) {
	t.Run("absolute path is returned unchanged", func(t *testing.T) {
		cfg := &config.Config{Srp: config.SrpSettings{VerifierFile: "/etc/srp/verifier.json"}}
		path, err := cfg.VerifierFilePath()
		require.NoError(t, err)
		assert.Equal(t, "/etc/srp/verifier.json", path)
	})

	t.Run("relative path is resolved to absolute", func(t *testing.T) {
		cfg := &config.Config{Srp: config.SrpSettings{VerifierFile: "verifier.json"}}
		path, err := cfg.VerifierFilePath()
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(path))
	})
}

func TestConfig_Validate_MissingFields(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		expectedErr string
	}{
		{
			name: "missing session_ttl",
			yamlContent: `
srp:
  group_bits: 2048
  verifier_file: "/etc/srp/verifier.json"
`,
			expectedErr: "service.session_ttl is required",
		},
		{
			name: "missing verifier_file",
			yamlContent: `
service:
  session_ttl: "30m"
srp:
  group_bits: 2048
`,
			expectedErr: "srp.verifier_file is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := writeConfig(t, tmpDir, tt.yamlContent)

			cfg, err := config.Load(configFile)
			assert.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestConfig_Validate_InvalidPort(t *testing.T) {
	tmpDir := t.TempDir()

	configYAML := `
service:
  session_ttl: "30m"

srp:
  group_bits: 2048
  verifier_file: "` + filepath.Join(tmpDir, "verifier.json") + `"

server:
  enabled: true
  port: 99999
  tls_cert: "/var/lib/srp6a/tls/server.crt"
  tls_key: "/var/lib/srp6a/tls/server.key"
`

	configFile := writeConfig(t, tmpDir, configYAML)

	cfg, err := config.Load(configFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "port must be between 1 and 65535")
}

func TestValidate_InvalidGroupBits(t *testing.T) {
	tmpDir := t.TempDir()

	configYAML := `
service:
  session_ttl: "30m"

srp:
  group_bits: 512
  verifier_file: "` + filepath.Join(tmpDir, "verifier.json") + `"
`

	configFile := writeConfig(t, tmpDir, configYAML)

	cfg, err := config.Load(configFile)
	require.NoError(t, err)

	err = config.Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "srp.group_bits must be one of")
}

func TestValidate_FullyPopulatedConfigPasses(t *testing.T) {
	tmpDir := t.TempDir()
	tlsDir := filepath.Join(tmpDir, "tls")
	require.NoError(t, os.MkdirAll(tlsDir, 0755))

	cfg := &config.Config{
		Service: config.ServiceSettings{SessionTTL: "30m"},
		Srp: config.SrpSettings{
			GroupBits:    2048,
			VerifierFile: filepath.Join(tmpDir, "verifier.json"),
			HandshakeTTL: "5m",
		},
		Server: config.ServerSettings{
			Enabled: true,
			Address: "0.0.0.0",
			Port:    8443,
			TLSCert: filepath.Join(tlsDir, "server.crt"),
			TLSKey:  filepath.Join(tlsDir, "server.key"),
		},
		Logging: config.LoggingSettings{Level: "info", Format: "json"},
		RateLimit: config.RateLimitSettings{
			MaxAttempts: 5,
			BaseDelay:   "1s",
			MaxDelay:    "30s",
		},
	}

	assert.NoError(t, config.Validate(cfg))
}

func TestValidate_ServerDisabledSkipsTLSChecks(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := &config.Config{
		Service: config.ServiceSettings{SessionTTL: "30m"},
		Srp: config.SrpSettings{
			GroupBits:    2048,
			VerifierFile: filepath.Join(tmpDir, "verifier.json"),
		},
		Server:  config.ServerSettings{Enabled: false},
		Logging: config.LoggingSettings{Level: "info", Format: "json"},
		RateLimit: config.RateLimitSettings{
			MaxAttempts: 5,
		},
	}

	assert.NoError(t, config.Validate(cfg))
}
