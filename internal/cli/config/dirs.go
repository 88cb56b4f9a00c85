// Package config provides configuration management for the SRP-6a demo CLI client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "srp6a"

// UserConfigDir returns the OS-specific user configuration directory.
// On Linux: ~/.config/srp6a
// On macOS: ~/Library/Application Support/srp6a
// On Windows: %APPDATA%\srp6a
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}

	appConfigDir := filepath.Join(configDir, appName)
	return appConfigDir, nil
}

// UserCacheDir returns the OS-specific user cache directory.
// On Linux: ~/.cache/srp6a
// On macOS: ~/Library/Caches/srp6a
// On Windows: %LocalAppData%\srp6a
func UserCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache directory: %w", err)
	}

	appCacheDir := filepath.Join(cacheDir, appName)
	return appCacheDir, nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// It sets the directory permissions to 0700 (owner read/write/execute only).
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
