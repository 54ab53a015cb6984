// Package ui provides the Bubble Tea explorer for wizardnav. The explorer
// shows a scenario's step graph and drives a Navigator one action at a
// time, showing where the wizard is and the journal of hops so far.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tungetti/wizardnav/internal/navigator"
	"github.com/tungetti/wizardnav/internal/ui/theme"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// journalLines is how many journal entries the explorer shows.
const journalLines = 8

// Model is the Bubble Tea model of the explorer.
type Model struct {
	// Width is the terminal width.
	Width int
	// Height is the terminal height.
	Height int

	// Ready indicates if the TUI is ready to render.
	Ready bool
	// Quitting indicates if the application is quitting.
	Quitting bool
	// Busy is set while a navigator action runs.
	Busy bool

	// Error holds the error of the last action, if it failed.
	Error error
	// Status describes the last finished action.
	Status string

	nav      *navigator.Navigator
	graph    *wizard.Graph
	title    string
	steps    []wizard.Step
	cursor   int
	current  wizard.Step
	start    wizard.Step
	journal  []navigator.Hop
	showHelp bool

	ctx    context.Context
	cancel context.CancelFunc

	keyMap KeyMap
	help   help.Model
	theme  *theme.Theme
}

// Option configures a Model.
type Option func(*Model)

// WithTheme sets the explorer theme.
func WithTheme(t *theme.Theme) Option {
	return func(m *Model) {
		if t != nil {
			m.theme = t
		}
	}
}

// WithTitle sets the heading shown above the step list.
func WithTitle(title string) Option {
	return func(m *Model) {
		m.title = title
	}
}

// New creates an explorer over nav. The navigator must not be used by
// anything else while the explorer runs.
func New(ctx context.Context, nav *navigator.Navigator, opts ...Option) Model {
	childCtx, cancel := context.WithCancel(ctx)
	graph := nav.Graph()
	m := Model{
		nav:     nav,
		graph:   graph,
		title:   "wizardnav explorer",
		steps:   graph.Steps(),
		current: nav.Current(),
		start:   nav.Current(),
		journal: nav.Journal(),
		ctx:     childCtx,
		cancel:  cancel,
		keyMap:  DefaultKeyMap(),
		help:    help.New(),
		theme:   theme.DefaultTheme(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.cursor = m.indexOf(m.current)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		m.Ready = true
		return m, nil

	case ActionDoneMsg:
		m.Busy = false
		m.keyMap.SetActionsEnabled(true)
		m.current = msg.Current
		m.journal = msg.Journal
		m.Error = msg.Err
		if msg.Err != nil {
			m.Status = msg.Action + " failed"
		} else {
			m.Status = fmt.Sprintf("%s: now on %s", msg.Action, msg.Current)
			m.cursor = m.indexOf(msg.Current)
		}
		return m, nil

	case QuitMsg:
		m.Quitting = true
		m.cancel()
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, Quit()
	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keyMap.Down):
		if m.cursor < len(m.steps)-1 {
			m.cursor++
		}
		return m, nil
	}

	if m.Busy {
		return m, nil
	}
	selected := m.Selected()

	var (
		name string
		fn   func(ctx context.Context, nav *navigator.Navigator) error
	)
	switch {
	case key.Matches(msg, m.keyMap.Next):
		name = "next"
		fn = func(ctx context.Context, nav *navigator.Navigator) error {
			_, err := nav.Next(ctx)
			return err
		}
	case key.Matches(msg, m.keyMap.Back):
		name = "back"
		fn = func(ctx context.Context, nav *navigator.Navigator) error {
			_, err := nav.Back(ctx)
			return err
		}
	case key.Matches(msg, m.keyMap.Reach):
		name = "reach " + selected.String()
		fn = func(ctx context.Context, nav *navigator.Navigator) error {
			return nav.Reach(ctx, selected)
		}
	case key.Matches(msg, m.keyMap.Sidebar):
		name = "sidebar " + selected.String()
		fn = func(ctx context.Context, nav *navigator.Navigator) error {
			return nav.ReachViaSidebar(ctx, selected)
		}
	case key.Matches(msg, m.keyMap.Open):
		name = "open " + selected.String()
		fn = func(ctx context.Context, nav *navigator.Navigator) error {
			return nav.Open(ctx, selected)
		}
	case key.Matches(msg, m.keyMap.Install):
		name = "begin installation"
		fn = func(ctx context.Context, nav *navigator.Navigator) error {
			return nav.BeginInstallation(ctx)
		}
	default:
		return m, nil
	}

	m.Busy = true
	m.keyMap.SetActionsEnabled(false)
	m.Status = name + "..."
	return m, runAction(m.ctx, m.nav, name, fn)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.Quitting {
		return "Goodbye!\n"
	}

	s := m.theme.Styles
	var b strings.Builder

	b.WriteString(s.Title.Render(m.title))
	b.WriteString("  ")
	b.WriteString(s.Subtitle.Render(fmt.Sprintf("on %s", m.current)))
	b.WriteString("\n\n")

	b.WriteString(RenderSteps(m.graph, StepState{
		Current: m.current,
		Reached: ReachedSteps(m.start, m.journal),
		Cursor:  m.cursor,
	}, s))

	b.WriteString("\n")
	switch {
	case m.Error != nil:
		b.WriteString(s.Error.Render(m.Status + ": " + m.Error.Error()))
	case m.Status != "":
		b.WriteString(s.Success.Render(m.Status))
	}
	b.WriteString("\n")

	if lines := m.journalView(); lines != "" {
		b.WriteString("\n")
		b.WriteString(s.Panel.Render(lines))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keyMap))
	return lipgloss.NewStyle().MaxWidth(m.maxWidth()).Render(b.String())
}

func (m Model) journalView() string {
	journal := m.journal
	if len(journal) > journalLines {
		journal = journal[len(journal)-journalLines:]
	}
	lines := make([]string, len(journal))
	for i, h := range journal {
		lines[i] = RenderHop(h, m.theme.Styles)
	}
	return strings.Join(lines, "\n")
}

func (m Model) maxWidth() int {
	if m.Width > 0 {
		return m.Width
	}
	return 0
}

func (m Model) indexOf(step wizard.Step) int {
	for i, s := range m.steps {
		if s == step {
			return i
		}
	}
	return 0
}

// Selected returns the step under the cursor.
func (m Model) Selected() wizard.Step {
	if len(m.steps) == 0 {
		return wizard.NoStep
	}
	return m.steps[m.cursor]
}

// Current returns the step the explorer last saw the navigator on.
func (m Model) Current() wizard.Step {
	return m.current
}

// Journal returns the journal snapshot the explorer shows.
func (m Model) Journal() []navigator.Hop {
	return m.journal
}

// Context returns the application context.
func (m Model) Context() context.Context {
	return m.ctx
}

// Shutdown cancels the context and performs cleanup.
func (m *Model) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
}

// KeyMap returns the current key bindings.
func (m Model) KeyMap() KeyMap {
	return m.keyMap
}

// IsReady returns whether the TUI is ready to render.
func (m Model) IsReady() bool {
	return m.Ready
}

// IsQuitting returns whether the application is quitting.
func (m Model) IsQuitting() bool {
	return m.Quitting
}

// Run starts the explorer in the alternate screen and blocks until the
// user quits or ctx is cancelled.
func Run(ctx context.Context, nav *navigator.Navigator, opts ...Option) error {
	m := New(ctx, nav, opts...)
	defer m.Shutdown()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
