// Package constants defines application-wide constants for wizardnav.
// All constants are typed to ensure type safety and prevent accidental misuse.
package constants

import "time"

// Application metadata
const (
	// AppName is the application name used in logs, configs, and user messages.
	AppName string = "wizardnav"
	// AppDescription is a short description of the application.
	AppDescription string = "Installer wizard navigation driver for end-to-end tests"
	// EnvPrefix prefixes every environment variable read by the config loader.
	EnvPrefix string = "WIZARDNAV_"
)

// ExitCode represents process exit codes for different termination scenarios.
type ExitCode int

const (
	// ExitSuccess indicates the application completed successfully.
	ExitSuccess ExitCode = iota
	// ExitError indicates a general error occurred.
	ExitError
	// ExitValidation indicates invalid input or configuration.
	ExitValidation
	// ExitNavigation indicates the wizard did not land where it was expected to.
	ExitNavigation
	// ExitLocked indicates another session already drives the same target.
	ExitLocked
	// ExitUserAbort indicates the user cancelled the operation.
	ExitUserAbort
)

// Int returns the exit code as an int for use with os.Exit().
func (e ExitCode) Int() int {
	return int(e)
}

// Timeouts used by the browser transitioner.
const (
	// WaitTimeout bounds a single arrival wait.
	WaitTimeout time.Duration = 60 * time.Second
	// SettleTimeout bounds the pause after a click while the UI reacts.
	SettleTimeout time.Duration = 2 * time.Second
	// PollInterval is the delay between two observations while waiting.
	PollInterval time.Duration = 250 * time.Millisecond
	// ShutdownTimeout bounds cleanup when the process is interrupted.
	ShutdownTimeout time.Duration = 10 * time.Second
)

// File paths relative to user's home directory
const (
	// DefaultConfigDir is the default configuration directory relative to $HOME.
	DefaultConfigDir string = ".config/wizardnav"
	// DefaultCacheDir holds session locks and snapshots, relative to $HOME.
	DefaultCacheDir string = ".cache/wizardnav"
	// DefaultLogFile is the default log file name.
	DefaultLogFile string = "wizardnav.log"
	// ConfigFileName is the configuration file name.
	ConfigFileName string = "config.yaml"
)

// Web UI location
const (
	// DefaultBaseURL is where cockpit serves the installer in test VMs.
	DefaultBaseURL string = "http://127.0.0.1:9090"
	// DefaultUIPath is the installer page below the base URL.
	DefaultUIPath string = "/cockpit/@localhost/anaconda-webui/index.html"
	// HashPrefix precedes the step id in the page URL fragment.
	HashPrefix string = "#/"
)

// DOM selectors of the installer web UI.
const (
	// SelectorNextButton is the wizard footer's forward button.
	SelectorNextButton string = "#installation-next-btn"
	// SelectorBackButtonText is the label of the footer's back button.
	SelectorBackButtonText string = "Back"
	// SelectorEncryptionSpinner is shown while disk encryption settings apply.
	SelectorEncryptionSpinner string = "#disk-encryption-next-spinner"
	// SelectorProgressStepper is visible once the progress screen is rendered.
	SelectorProgressStepper string = ".pf-v5-c-progress-stepper"
	// ClassCurrentStep marks the active sidebar entry.
	ClassCurrentStep string = "pf-m-current"
	// SuffixConfirmationCheckbox completes the review screen's confirmation checkbox id.
	SuffixConfirmationCheckbox string = "-next-confirmation-checkbox"
	// DefaultInstallButtonText is the forward button label on the review screen.
	DefaultInstallButtonText string = "Erase data and install"
)

// Form fields filled by step setup callbacks.
const (
	SelectorUserName        string = "#accounts-create-account-user-name"
	SelectorPassword        string = "#accounts-create-account-password-field"
	SelectorPasswordConfirm string = "#accounts-create-account-password-confirm-field"
	SelectorEncryptDevices  string = "#disk-encryption-encrypt-devices"
)

// Default account created by the accounts screen callback.
const (
	DefaultUserName string = "tester"
	DefaultPassword string = "password"
)
