package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
)

// Loader handles configuration loading from multiple sources.
// It loads configuration in order: defaults -> file -> environment variables,
// with later sources overriding earlier ones.
type Loader struct {
	configPath string
	envPrefix  string
	lookupEnv  func(string) (string, bool)
}

// NewLoader creates a new configuration loader.
// If configPath is empty, only defaults and environment variables are used.
func NewLoader(configPath string) *Loader {
	return NewLoaderWithPrefix(configPath, constants.EnvPrefix)
}

// NewLoaderWithPrefix creates a new loader with a custom environment variable prefix.
func NewLoaderWithPrefix(configPath, envPrefix string) *Loader {
	return &Loader{
		configPath: configPath,
		envPrefix:  envPrefix,
		lookupEnv:  os.LookupEnv,
	}
}

// Load loads configuration from file and environment.
// Returns an error if the file exists but cannot be parsed.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, err
		}
	}

	l.loadFromEnv(cfg)

	return cfg, nil
}

// LoadAndValidate loads configuration and validates it.
func (l *Loader) LoadAndValidate() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}

	if err := NewValidator().ValidateOrError(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.Configuration, "failed to read config file", err).
			WithOp("config.loadFromFile")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(errors.Configuration, "failed to parse config file", err).
			WithOp("config.loadFromFile")
	}

	return nil
}

func (l *Loader) env(name string) (string, bool) {
	v, ok := l.lookupEnv(l.envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// loadFromEnv loads config from environment variables.
// Malformed durations are ignored.
func (l *Loader) loadFromEnv(cfg *Config) {
	strs := map[string]*string{
		"LOG_LEVEL":     &cfg.LogLevel,
		"LOG_FILE":      &cfg.LogFile,
		"CONFIG_DIR":    &cfg.ConfigDir,
		"LOCK_DIR":      &cfg.LockDir,
		"SCENARIO":      &cfg.Scenario,
		"TOPOLOGY_FILE": &cfg.TopologyFile,
		"START_STEP":    &cfg.StartStep,
		"BASE_URL":      &cfg.Browser.BaseURL,
		"UI_PATH":       &cfg.Browser.UIPath,
		"CONTROL_URL":   &cfg.Browser.ControlURL,
		"SNAPSHOT_DIR":  &cfg.Browser.SnapshotDir,
		"USER_NAME":     &cfg.Account.UserName,
		"PASSWORD":      &cfg.Account.Password,
	}
	for name, dst := range strs {
		if v, ok := l.env(name); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"VERBOSE":       &cfg.Verbose,
		"QUIET":         &cfg.Quiet,
		"NO_COLOR":      &cfg.NoColor,
		"HEADLESS":      &cfg.Browser.Headless,
		"ENCRYPT_DISKS": &cfg.EncryptDisks,
	}
	for name, dst := range bools {
		if v, ok := l.env(name); ok {
			*dst = parseBool(v)
		}
	}

	durations := map[string]*time.Duration{
		"WAIT_TIMEOUT":   &cfg.Browser.WaitTimeout,
		"SETTLE_TIMEOUT": &cfg.Browser.SettleTimeout,
		"POLL_INTERVAL":  &cfg.Browser.PollInterval,
	}
	for name, dst := range durations {
		if v, ok := l.env(name); ok {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	if v, ok := l.env("HIDDEN_STEPS"); ok {
		cfg.HiddenSteps = splitList(v)
	}
}

// parseBool parses a string as a boolean value.
// Accepts: true, 1, yes, on (case-insensitive) as true.
// All other values are treated as false.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
