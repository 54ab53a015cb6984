// Package config provides configuration management for wizardnav.
// It supports loading configuration from YAML files and environment variables,
// with validation and sensible defaults. The package follows XDG Base Directory
// specification for locating configuration files.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// Config represents the application configuration.
// Configuration values can be set via YAML file or environment variables,
// with environment variables taking precedence.
type Config struct {
	// General settings
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	Verbose  bool   `yaml:"verbose"`
	Quiet    bool   `yaml:"quiet"`
	NoColor  bool   `yaml:"no_color"`

	// Directories
	ConfigDir string `yaml:"config_dir"`
	LockDir   string `yaml:"lock_dir"`

	// Wizard topology
	Scenario     string   `yaml:"scenario"`
	HiddenSteps  []string `yaml:"hidden_steps"`
	TopologyFile string   `yaml:"topology_file"`
	StartStep    string   `yaml:"start_step"`

	Browser BrowserConfig `yaml:"browser"`
	Account AccountConfig `yaml:"account"`

	// EncryptDisks is the state the storage configuration callback leaves
	// the disk encryption checkbox in.
	EncryptDisks bool `yaml:"encrypt_disks"`
}

// BrowserConfig configures the browser transitioner.
type BrowserConfig struct {
	BaseURL string `yaml:"base_url"`
	UIPath  string `yaml:"ui_path"`
	// ControlURL attaches to an already running browser instead of launching one.
	ControlURL    string        `yaml:"control_url"`
	Headless      bool          `yaml:"headless"`
	WaitTimeout   time.Duration `yaml:"wait_timeout"`
	SettleTimeout time.Duration `yaml:"settle_timeout"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	SnapshotDir   string        `yaml:"snapshot_dir"`
}

// AccountConfig is the user created on the accounts screen.
type AccountConfig struct {
	UserName string `yaml:"user_name"`
	Password string `yaml:"password"`
}

// ConfigPath returns the path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ConfigDir, constants.ConfigFileName)
}

// PageURL returns the absolute URL of the installer page, without fragment.
func (c *Config) PageURL() string {
	return strings.TrimRight(c.Browser.BaseURL, "/") + "/" + strings.TrimLeft(c.Browser.UIPath, "/")
}

// Hidden returns the configured hidden steps.
func (c *Config) Hidden() []wizard.Step {
	return wizard.ParseSteps(c.HiddenSteps)
}

// IsVerbose returns true if verbose output is enabled and quiet is not.
func (c *Config) IsVerbose() bool {
	return c.Verbose && !c.Quiet
}

// IsSilent returns true if quiet mode is enabled.
func (c *Config) IsSilent() bool {
	return c.Quiet
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.HiddenSteps = append([]string(nil), c.HiddenSteps...)
	return &clone
}
