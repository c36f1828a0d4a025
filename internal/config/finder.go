package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName names the per-user config directory
	AppName = "shoporusni"

	// DirEnv overrides the per-user config directory
	DirEnv = "SHOPORUSNI_CONFIG_DIR"
)

var configExts = []string{"yml", "yaml", "json", "toml"}

// Dir resolves the per-user config directory and creates it if needed
func Dir() (string, error) {
	dir := os.Getenv(DirEnv)
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve config directory: %w", err)
		}

		dir = filepath.Join(base, AppName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return dir, nil
}

// FindGlobalConfig returns the first config.<ext> file in dir
func FindGlobalConfig(dir string) string {
	for _, ext := range configExts {
		path := filepath.Join(dir, "config."+ext)

		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// FindLocalConfig finds local config file by walking up directories
func FindLocalConfig(dir string) string {
	for {
		for _, ext := range configExts {
			path := filepath.Join(dir, "."+AppName+"."+ext)

			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
