// Package cli provides the wizardnav command tree. Global flags are bound
// on the root command and applied on top of the file and environment
// configuration before any command runs.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tungetti/wizardnav/internal/config"
)

// GlobalFlags holds flags common to all commands.
type GlobalFlags struct {
	// ConfigFile specifies a custom configuration file path.
	ConfigFile string

	// Scenario selects the wizard variant.
	Scenario string

	// Hide lists steps hidden on top of the configured ones.
	Hide []string

	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string

	// LogFile specifies the path to write log output.
	LogFile string

	// Verbose enables detailed output for debugging and troubleshooting.
	Verbose bool

	// Quiet suppresses non-essential output, only showing errors.
	Quiet bool

	// NoColor disables colored terminal output.
	NoColor bool
}

func (f *GlobalFlags) register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "Config file path")
	fs.StringVar(&f.Scenario, "scenario", "", "Wizard scenario")
	fs.StringSliceVar(&f.Hide, "hide", nil, "Hide a step (repeatable)")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Write debug logs to this file")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose output")
	fs.BoolVarP(&f.Quiet, "quiet", "q", false, "Only print errors")
	fs.BoolVar(&f.NoColor, "no-color", false, "Disable colored output")
}

// Validate checks GlobalFlags for conflicting options.
// It returns an error if incompatible flags are set together.
func (f *GlobalFlags) Validate() error {
	if f.Verbose && f.Quiet {
		return &FlagError{
			Flag:    "verbose/quiet",
			Message: "cannot use --verbose and --quiet together",
		}
	}
	for _, s := range f.Hide {
		if strings.TrimSpace(s) == "" {
			return &FlagError{Flag: "hide", Message: "step id cannot be empty"}
		}
	}
	return nil
}

// Apply copies the flags that were set onto cfg.
// CLI flags take precedence over config file values.
func (f *GlobalFlags) Apply(cfg *config.Config) {
	if f.Scenario != "" {
		cfg.Scenario = f.Scenario
	}
	if len(f.Hide) > 0 {
		cfg.HiddenSteps = append(cfg.HiddenSteps, f.Hide...)
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.LogFile = f.LogFile
	}
	if f.Verbose {
		cfg.Verbose = true
	}
	if f.Quiet {
		cfg.Quiet = true
	}
	if f.NoColor {
		cfg.NoColor = true
	}
}

// FlagError represents an error with a command-line flag.
type FlagError struct {
	Flag    string
	Message string
}

// Error implements the error interface.
func (e *FlagError) Error() string {
	return "flag error: " + e.Flag + ": " + e.Message
}
