package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/semmy-space/credbroker/internal/secrets"
)

// ConfigDir returns the XDG-compliant config directory
// Typically ~/.config/credbroker/ on Linux
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, secrets.AppName)
}

// ConfigPath returns the full path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}
