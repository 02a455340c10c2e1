// internal/config/discover.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that overrides discovery.
const EnvConfig = "ARRNAME_CONFIG"

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "arrname", "config.toml")
}

// SearchPaths lists the locations Discover checks after EnvConfig.
func SearchPaths() []string {
	return []string{"./config.toml", DefaultPath(), "/etc/arrname/config.toml"}
}

// Discover finds the config file. ARRNAME_CONFIG wins when set and must
// exist; otherwise the first existing entry of SearchPaths is used.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("config not found, checked: %s", strings.Join(paths, ", "))
}
