package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tungetti/wizardnav/internal/navigator"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// QuitMsg signals the application should quit.
type QuitMsg struct{}

// ActionDoneMsg reports a finished navigator action with a snapshot of
// the navigator state taken right after it.
type ActionDoneMsg struct {
	Action  string
	Err     error
	Current wizard.Step
	Journal []navigator.Hop
}

// Quit returns a command that quits the application.
func Quit() tea.Cmd {
	return func() tea.Msg {
		return QuitMsg{}
	}
}

// runAction returns a command running fn against nav. The navigator is
// only touched from the command while the model is busy.
func runAction(ctx context.Context, nav *navigator.Navigator, name string,
	fn func(ctx context.Context, nav *navigator.Navigator) error) tea.Cmd {
	return func() tea.Msg {
		err := fn(ctx, nav)
		return ActionDoneMsg{
			Action:  name,
			Err:     err,
			Current: nav.Current(),
			Journal: nav.Journal(),
		}
	}
}
