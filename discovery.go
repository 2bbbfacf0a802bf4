// FILE: lixenwraith/preferences/discovery.go
package preferences

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigDir returns the per-user configuration directory for appName.
//
// On Unix-like systems it follows XDG: $XDG_CONFIG_HOME/appName, else
// $HOME/.config/appName. Elsewhere it uses os.UserConfigDir. As a last resort the
// directory is relative to the working directory.
func DefaultConfigDir(appName string) string {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
			return filepath.Join(xdgHome, appName)
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".config", appName)
		}
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}

	return appName
}
