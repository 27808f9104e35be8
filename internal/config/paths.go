package config

import (
	"os"
	"path/filepath"
)

// EnvConfigDir overrides the plughub config directory
const EnvConfigDir = "PLUGHUB_CONFIG_DIR"

var (
	homeDir string
)

func init() {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		homeDir = "~"
	}
}

// PlughubDir returns the plughub config directory path
// ~/.config/plughub/
func PlughubDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(homeDir, ".config", "plughub")
}

// ConfigPath returns the config.json file path
// ~/.config/plughub/config.json
func ConfigPath() string {
	return filepath.Join(PlughubDir(), "config.json")
}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
