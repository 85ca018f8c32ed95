package config

import (
	"os"
	"path/filepath"
)

const AppName = "minledger"

func AppDir() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, AppName)
}

// DefaultConfigPath is where the node looks for config.yaml when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}
