// Package simulate provides an in-memory installer wizard. It behaves like
// the web UI closely enough to drive a Navigator without a browser: hidden
// screens are never shown, screens with incomplete forms refuse to move
// forward, the back button walks the visit history and sidebar entries are
// enabled only for screens already reached.
package simulate

import (
	"context"
	"sync"

	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/screens"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// Methods accepted by FailOn.
const (
	MethodForward  = "PerformForward"
	MethodBackward = "PerformBackward"
	MethodObserve  = "ObserveCurrent"
	MethodSidebar  = "JumpToSidebarTarget"
	MethodOpen     = "Open"
	MethodConfirm  = "ConfirmInstallation"
	MethodInput    = "SetInputText"
	MethodCheck    = "SetChecked"
)

// Wizard is a simulated installer wizard following a step graph.
type Wizard struct {
	mu         sync.Mutex
	graph      *wizard.Graph
	current    wizard.Step
	history    []wizard.Step
	reached    map[wizard.Step]bool
	routes     map[wizard.Step]wizard.Step
	required   map[wizard.Step][]string
	disabled   map[wizard.Step]bool
	inputs     map[string]string
	checks     map[string]bool
	faults     map[string]error
	buttonText string
	logger     logging.Logger
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithLogger sets the wizard's logger.
func WithLogger(logger logging.Logger) Option {
	return func(w *Wizard) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithStart shows step instead of the graph's first step.
func WithStart(step wizard.Step) Option {
	return func(w *Wizard) {
		w.current = step
	}
}

// WithInstallButtonText sets the label of the review screen's forward button.
func WithInstallButtonText(text string) Option {
	return func(w *Wizard) {
		w.buttonText = text
	}
}

// New creates a wizard showing the first step of graph. Forms must be
// declared with Require; New declares none.
func New(graph *wizard.Graph, opts ...Option) (*Wizard, error) {
	if graph == nil {
		return nil, errors.New(errors.Validation, "graph is required").WithOp("simulate.New")
	}
	w := &Wizard{
		graph:      graph,
		current:    graph.First(),
		reached:    make(map[wizard.Step]bool),
		routes:     make(map[wizard.Step]wizard.Step),
		required:   make(map[wizard.Step][]string),
		disabled:   make(map[wizard.Step]bool),
		inputs:     make(map[string]string),
		checks:     make(map[string]bool),
		faults:     make(map[string]error),
		buttonText: constants.DefaultInstallButtonText,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if !graph.Has(w.current) {
		return nil, errors.Newf(errors.UnknownStep, "start step %q is not declared", w.current).WithOp("simulate.New")
	}
	w.reached[w.current] = true
	return w, nil
}

// NewStock creates a wizard with the stock installer forms: the accounts
// screen needs a user name and both password fields, and the screen before
// the terminal one needs its confirmation checkbox ticked.
func NewStock(graph *wizard.Graph, opts ...Option) (*Wizard, error) {
	w, err := New(graph, opts...)
	if err != nil {
		return nil, err
	}
	if graph.Has(wizard.StepAccounts) {
		w.Require(wizard.StepAccounts,
			constants.SelectorUserName, constants.SelectorPassword, constants.SelectorPasswordConfirm)
	}
	if review, err := graph.DefaultPrevious(graph.Terminal()); err == nil {
		w.Require(review, screens.ConfirmationCheckbox(review))
	}
	return w, nil
}

// Require makes step refuse to move forward until every selector holds a
// non-empty input value or a ticked checkbox.
func (w *Wizard) Require(step wizard.Step, selectors ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.required[step] = append(w.required[step], selectors...)
}

// Route makes the forward action on from land on to, as when a choice on
// the screen selects a branch.
func (w *Wizard) Route(from, to wizard.Step) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.routes[from] = to
}

// DisableSidebar disables step's sidebar entry regardless of progress.
func (w *Wizard) DisableSidebar(step wizard.Step, disabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.disabled[step] = disabled
}

// FailOn makes every call to method return err. A nil err clears it.
func (w *Wizard) FailOn(method string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err == nil {
		delete(w.faults, method)
		return
	}
	w.faults[method] = err
}

// PerformForward clicks the forward button. The wizard stays on a screen
// with incomplete required fields and on the terminal screen.
func (w *Wizard) PerformForward(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.faults[MethodForward]; err != nil {
		return err
	}
	if w.nextDisabled() {
		w.logger.Debug("forward refused", "step", w.current)
		return nil
	}
	next, err := w.nextOf(w.current)
	if err != nil {
		return nil
	}
	w.moveTo(next, true)
	return nil
}

// PerformBackward clicks the back button, returning to the previously
// shown screen.
func (w *Wizard) PerformBackward(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.faults[MethodBackward]; err != nil {
		return err
	}
	if n := len(w.history); n > 0 {
		prev := w.history[n-1]
		w.history = w.history[:n-1]
		w.moveTo(prev, false)
		return nil
	}
	if prev, err := w.graph.DefaultPrevious(w.current); err == nil {
		w.moveTo(prev, false)
	}
	return nil
}

// ObserveCurrent reports the screen shown.
func (w *Wizard) ObserveCurrent(context.Context) (wizard.Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.faults[MethodObserve]; err != nil {
		return wizard.NoStep, err
	}
	return w.current, nil
}

// JumpToSidebarTarget clicks step's sidebar entry. Disabled entries ignore
// the click.
func (w *Wizard) JumpToSidebarTarget(_ context.Context, step wizard.Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.faults[MethodSidebar]; err != nil {
		return err
	}
	if !w.graph.Has(step) {
		return errors.Newf(errors.NotFound, "no sidebar entry for %s", step).WithOp("simulate.JumpToSidebarTarget")
	}
	if !w.sidebarEnabled(step) {
		w.logger.Debug("sidebar entry disabled", "step", step)
		return nil
	}
	if step != w.current {
		w.moveTo(step, true)
	}
	return nil
}

// Open loads step directly, as by typing its URL.
func (w *Wizard) Open(_ context.Context, step wizard.Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.faults[MethodOpen]; err != nil {
		return err
	}
	if !w.graph.Has(step) {
		return errors.Newf(errors.NotFound, "no screen %s", step).WithOp("simulate.Open")
	}
	w.history = nil
	w.moveTo(step, false)
	return nil
}

// CheckNextDisabled asserts the forward button state.
func (w *Wizard) CheckNextDisabled(_ context.Context, disabled bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if got := w.nextDisabled(); got != disabled {
		return errors.Newf(errors.Timeout, "next button disabled=%v on %s, want %v", got, w.current, disabled).
			WithOp("simulate.CheckNextDisabled")
	}
	return nil
}

// CheckSidebarStepDisabled asserts the state of step's sidebar entry.
func (w *Wizard) CheckSidebarStepDisabled(_ context.Context, step wizard.Step, disabled bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if got := !w.sidebarEnabled(step); got != disabled {
		return errors.Newf(errors.Timeout, "sidebar entry %s disabled=%v, want %v", step, got, disabled).
			WithOp("simulate.CheckSidebarStepDisabled")
	}
	return nil
}

// ConfirmInstallation ticks the review confirmation checkbox when tick is
// set and checks the forward button label.
func (w *Wizard) ConfirmInstallation(_ context.Context, review wizard.Step, tick bool, buttonText string) error {
	const op = "simulate.ConfirmInstallation"
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.faults[MethodConfirm]; err != nil {
		return err
	}
	if w.current != review {
		return errors.Newf(errors.Validation, "review screen %s is not shown, on %s", review, w.current).WithOp(op)
	}
	if tick {
		w.checks[screens.ConfirmationCheckbox(review)] = true
	}
	if buttonText != w.buttonText {
		return errors.Newf(errors.Validation, "forward button reads %q, want %q", w.buttonText, buttonText).WithOp(op)
	}
	return nil
}

// SetInputText fills the input matched by selector.
func (w *Wizard) SetInputText(_ context.Context, selector, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.faults[MethodInput]; err != nil {
		return err
	}
	w.inputs[selector] = value
	return nil
}

// SetChecked sets the checkbox matched by selector.
func (w *Wizard) SetChecked(_ context.Context, selector string, checked bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.faults[MethodCheck]; err != nil {
		return err
	}
	w.checks[selector] = checked
	return nil
}

// Input returns the value typed into selector.
func (w *Wizard) Input(selector string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inputs[selector]
}

// Checked reports whether the checkbox matched by selector is ticked.
func (w *Wizard) Checked(selector string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.checks[selector]
}

// Current returns the screen shown.
func (w *Wizard) Current() wizard.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Reached reports whether step has been shown since the wizard started.
func (w *Wizard) Reached(step wizard.Step) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reached[step]
}

// History returns the screens the back button would return to, oldest first.
func (w *Wizard) History() []wizard.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]wizard.Step{}, w.history...)
}

func (w *Wizard) moveTo(step wizard.Step, remember bool) {
	if remember {
		w.history = append(w.history, w.current)
	}
	w.logger.Debug("screen shown", "from", w.current, "to", step)
	w.current = step
	w.reached[step] = true
}

func (w *Wizard) nextOf(step wizard.Step) (wizard.Step, error) {
	if to, ok := w.routes[step]; ok {
		return to, nil
	}
	return w.graph.DefaultNext(step)
}

func (w *Wizard) nextDisabled() bool {
	if w.current == w.graph.Terminal() {
		return true
	}
	for _, sel := range w.required[w.current] {
		if w.inputs[sel] == "" && !w.checks[sel] {
			return true
		}
	}
	return false
}

// sidebarEnabled: hidden screens have no entry; others are enabled once
// they or their sidebar parent were reached.
func (w *Wizard) sidebarEnabled(step wizard.Step) bool {
	if w.graph.IsHidden(step) || w.disabled[step] {
		return false
	}
	if w.reached[step] {
		return true
	}
	parent, ok := w.graph.SidebarParent(step)
	return ok && w.reached[parent]
}
