package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName identifies a theme variant.
type ThemeName string

const (
	// ThemeDefault is the default theme with adaptive colors.
	ThemeDefault ThemeName = "default"

	// ThemeHighContrast is the high-contrast accessibility theme.
	ThemeHighContrast ThemeName = "high-contrast"

	// ThemePlain renders without colors, for --no-color and pipes.
	ThemePlain ThemeName = "plain"
)

// Theme holds the palette of a variant and the styles built from it.
type Theme struct {
	Name ThemeName

	Accent    lipgloss.TerminalColor
	Cursor    lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor

	// Styles contains pre-built lipgloss styles using theme colors.
	Styles Styles
}

// DefaultTheme returns the default theme.
func DefaultTheme() *Theme {
	t := &Theme{
		Name:      ThemeDefault,
		Accent:    Blue,
		Cursor:    BlueLight,
		Success:   ColorSuccess,
		Warning:   ColorWarning,
		Error:     ColorError,
		Text:      ColorText,
		TextMuted: ColorTextMuted,
	}
	t.Styles = NewStyles(t)
	return t
}

// HighContrastTheme returns a high-contrast accessible theme.
func HighContrastTheme() *Theme {
	t := &Theme{
		Name:      ThemeHighContrast,
		Accent:    ColorHighContrastAccent,
		Cursor:    ColorHighContrastAccent,
		Success:   lipgloss.AdaptiveColor{Light: "#008000", Dark: "#00FF00"},
		Warning:   lipgloss.AdaptiveColor{Light: "#806000", Dark: "#FFFF00"},
		Error:     lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"},
		Text:      ColorHighContrastText,
		TextMuted: ColorHighContrastText,
	}
	t.Styles = NewStyles(t)
	return t
}

// PlainTheme returns a theme without any colors. Markers and bold text
// still distinguish step states.
func PlainTheme() *Theme {
	none := lipgloss.NoColor{}
	t := &Theme{
		Name:      ThemePlain,
		Accent:    none,
		Cursor:    none,
		Success:   none,
		Warning:   none,
		Error:     none,
		Text:      none,
		TextMuted: none,
	}
	t.Styles = NewStyles(t)
	return t
}

// GetTheme returns the theme with the given name, or the default theme
// for unknown names.
func GetTheme(name string) *Theme {
	switch ThemeName(strings.ToLower(name)) {
	case ThemeHighContrast:
		return HighContrastTheme()
	case ThemePlain:
		return PlainTheme()
	default:
		return DefaultTheme()
	}
}

// ForColor returns the plain theme when noColor is set and the default
// theme otherwise.
func ForColor(noColor bool) *Theme {
	if noColor {
		return PlainTheme()
	}
	return DefaultTheme()
}

// AvailableThemes returns the names of all themes.
func AvailableThemes() []ThemeName {
	return []ThemeName{ThemeDefault, ThemeHighContrast, ThemePlain}
}
