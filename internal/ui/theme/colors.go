// Package theme provides the colors and lipgloss styles used to render
// wizard graphs, in the explorer TUI and in plain command output.
package theme

import "github.com/charmbracelet/lipgloss"

// Installer-inspired primary colors
var (
	// Blue is the primary accent, used for the current step.
	Blue = lipgloss.Color("#0066CC")

	// BlueLight is used for the selection cursor.
	BlueLight = lipgloss.Color("#73BCF7")

	// Gray is a neutral gray for secondary elements.
	Gray = lipgloss.Color("#6A6E73")

	// GrayDark is a dark gray for muted elements.
	GrayDark = lipgloss.Color("#3C3F42")
)

// Semantic colors using AdaptiveColor for automatic light/dark theme support.
var (
	// ColorSuccess marks completed hops and reached steps.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#3E8635", Dark: "#5BA352"}

	// ColorWarning marks hidden steps.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#C58C00", Dark: "#F0AB00"}

	// ColorError marks failed hops.
	ColorError = lipgloss.AdaptiveColor{Light: "#C9190B", Dark: "#F0645B"}

	// ColorText is the primary text color.
	ColorText = lipgloss.AdaptiveColor{Light: "#151515", Dark: "#F0F0F0"}

	// ColorTextMuted is for secondary text such as help and edges.
	ColorTextMuted = lipgloss.AdaptiveColor{Light: "#6A6E73", Dark: "#B8BBBE"}
)

// High contrast colors
var (
	ColorHighContrastText   = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}
	ColorHighContrastAccent = lipgloss.AdaptiveColor{Light: "#0000FF", Dark: "#00FFFF"}
)
