package config

import (
	"os"
	"path/filepath"

	"github.com/tungetti/wizardnav/internal/constants"
)

const (
	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultScenario is the storage scenario used when none is configured.
	DefaultScenario = "erase-all"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		ConfigDir: defaultConfigDir(),
		LockDir:   filepath.Join(defaultCacheDir(), "locks"),
		Scenario:  DefaultScenario,
		Browser: BrowserConfig{
			BaseURL:       constants.DefaultBaseURL,
			UIPath:        constants.DefaultUIPath,
			Headless:      true,
			WaitTimeout:   constants.WaitTimeout,
			SettleTimeout: constants.SettleTimeout,
			PollInterval:  constants.PollInterval,
		},
		Account: AccountConfig{
			UserName: constants.DefaultUserName,
			Password: constants.DefaultPassword,
		},
	}
}

// defaultConfigDir returns the XDG config directory for wizardnav.
// Falls back to ~/.config/wizardnav if XDG_CONFIG_HOME is not set.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", constants.DefaultConfigDir)
	}
	return filepath.Join(home, constants.DefaultConfigDir)
}

// defaultCacheDir returns the XDG cache directory for wizardnav.
func defaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", constants.DefaultCacheDir)
	}
	return filepath.Join(home, constants.DefaultCacheDir)
}

// GetConfigDir returns the configuration directory, respecting XDG.
func GetConfigDir() string {
	return defaultConfigDir()
}
