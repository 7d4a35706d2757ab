// Package paths resolves the configuration directory and the location of
// baseline files named in it.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory created under the platform config root.
const appDirName = "tabula"

// Environment variable names for overrides.
const (
	EnvConfigDir = "TABULA_CONFIG_DIR"
	EnvSeedPath  = "TABULA_SEED_PATH"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/tabula (fallback ~/.config/tabula)
// macOS:   ~/Library/Application Support/tabula
// Windows: %APPDATA%/tabula
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > TABULA_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveSeedPath returns the baseline file path following the precedence
// chain: flag > config.yaml value > TABULA_SEED_PATH env. A relative flag or
// env value is taken from the working directory; a relative config.yaml value
// is taken from configDir. Returns "" when nothing is set.
func ResolveSeedPath(flag, configValue, configDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		if filepath.IsAbs(configValue) {
			return filepath.Clean(configValue), nil
		}
		return filepath.Join(configDir, configValue), nil
	}
	if env := os.Getenv(EnvSeedPath); env != "" {
		return filepath.Abs(env)
	}
	return "", nil
}
