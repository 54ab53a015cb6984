package theme

import "github.com/charmbracelet/lipgloss"

// Step state markers shared by the explorer and the steps command.
const (
	MarkerCurrent = "●"
	MarkerReached = "✓"
	MarkerHidden  = "◌"
	MarkerPending = "○"
	MarkerCursor  = "›"
	MarkerFailed  = "✗"
)

// Styles contains pre-built lipgloss styles generated from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Panel    lipgloss.Style

	// Step list styles
	StepCurrent  lipgloss.Style
	StepReached  lipgloss.Style
	StepHidden   lipgloss.Style
	StepPending  lipgloss.Style
	StepSelected lipgloss.Style
	StepDetail   lipgloss.Style

	// Journal styles
	HopOK     lipgloss.Style
	HopFailed lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles builds the styles of t.
func NewStyles(t *Theme) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Subtitle: lipgloss.NewStyle().Foreground(t.TextMuted),
		Help:     lipgloss.NewStyle().Foreground(t.TextMuted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.TextMuted).
			Padding(0, 1),

		StepCurrent:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		StepReached:  lipgloss.NewStyle().Foreground(t.Success),
		StepHidden:   lipgloss.NewStyle().Faint(true).Foreground(t.Warning),
		StepPending:  lipgloss.NewStyle().Foreground(t.Text),
		StepSelected: lipgloss.NewStyle().Bold(true).Foreground(t.Cursor),
		StepDetail:   lipgloss.NewStyle().Foreground(t.TextMuted),

		HopOK:     lipgloss.NewStyle().Foreground(t.Success),
		HopFailed: lipgloss.NewStyle().Foreground(t.Error),

		Success: lipgloss.NewStyle().Foreground(t.Success),
		Warning: lipgloss.NewStyle().Foreground(t.Warning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}
