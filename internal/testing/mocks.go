// Package testing provides centralized test infrastructure for wizardnav.
// It includes mock implementations, fixtures, helpers, and custom assertions
// that can be used across all test packages.
package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// ============================================================================
// MockLogger - Implements logging.Logger for testing
// ============================================================================

// LogMessage represents a recorded log message.
type LogMessage struct {
	Level   logging.Level
	Message string
	Fields  []interface{}
}

// MockLogger implements logging.Logger for testing purposes.
// It records all log messages for later inspection. Loggers derived with
// WithPrefix or WithFields share the parent's message storage.
type MockLogger struct {
	store  *logStore
	prefix string
	fields []interface{}
}

type logStore struct {
	mu       sync.Mutex
	messages []LogMessage
	level    logging.Level
}

// NewMockLogger creates a new MockLogger recording every level.
func NewMockLogger() *MockLogger {
	return &MockLogger{store: &logStore{level: logging.LevelDebug}}
}

func (m *MockLogger) Debug(msg string, keyvals ...interface{}) {
	m.record(logging.LevelDebug, msg, keyvals)
}

func (m *MockLogger) Info(msg string, keyvals ...interface{}) {
	m.record(logging.LevelInfo, msg, keyvals)
}

func (m *MockLogger) Warn(msg string, keyvals ...interface{}) {
	m.record(logging.LevelWarn, msg, keyvals)
}

func (m *MockLogger) Error(msg string, keyvals ...interface{}) {
	m.record(logging.LevelError, msg, keyvals)
}

// WithPrefix returns a logger prefixing its messages with prefix.
func (m *MockLogger) WithPrefix(prefix string) logging.Logger {
	return &MockLogger{store: m.store, prefix: prefix, fields: m.fields}
}

// WithFields returns a logger adding keyvals to all messages.
func (m *MockLogger) WithFields(keyvals ...interface{}) logging.Logger {
	fields := make([]interface{}, 0, len(m.fields)+len(keyvals))
	fields = append(fields, m.fields...)
	fields = append(fields, keyvals...)
	return &MockLogger{store: m.store, prefix: m.prefix, fields: fields}
}

func (m *MockLogger) SetLevel(level logging.Level) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.level = level
}

func (m *MockLogger) GetLevel() logging.Level {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return m.store.level
}

func (m *MockLogger) record(level logging.Level, msg string, keyvals []interface{}) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if level < m.store.level && level != logging.LevelError {
		return
	}

	fields := append(append([]interface{}{}, m.fields...), keyvals...)
	if m.prefix != "" {
		msg = m.prefix + ": " + msg
	}
	m.store.messages = append(m.store.messages, LogMessage{Level: level, Message: msg, Fields: fields})
}

// Messages returns all recorded log messages.
func (m *MockLogger) Messages() []LogMessage {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return append([]LogMessage{}, m.store.messages...)
}

// MessagesAtLevel returns all messages at a specific log level.
func (m *MockLogger) MessagesAtLevel(level logging.Level) []LogMessage {
	var filtered []LogMessage
	for _, msg := range m.Messages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// ContainsMessage checks if any recorded message contains the given substring.
func (m *MockLogger) ContainsMessage(substring string) bool {
	for _, msg := range m.Messages() {
		if strings.Contains(msg.Message, substring) {
			return true
		}
	}
	return false
}

// Clear removes all recorded messages.
func (m *MockLogger) Clear() {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.messages = nil
}

// Ensure MockLogger implements logging.Logger.
var _ logging.Logger = (*MockLogger)(nil)

// ============================================================================
// MockTransitioner - A scripted wizard
// ============================================================================

// Transitioner method names recorded by MockTransitioner.
const (
	CallForward      = "PerformForward"
	CallBackward     = "PerformBackward"
	CallObserve      = "ObserveCurrent"
	CallSidebar      = "JumpToSidebarTarget"
	CallOpen         = "Open"
	CallConfirm      = "ConfirmInstallation"
	CallCheckNext    = "CheckNextDisabled"
	CallCheckSidebar = "CheckSidebarStepDisabled"
)

// TransitionCall records one call made to a MockTransitioner.
type TransitionCall struct {
	Method string
	// Step is the argument of sidebar and open calls, and the step the
	// wizard shows after forward and backward calls.
	Step wizard.Step
}

// MockTransitioner is a scripted wizard. Forward and backward actions move
// to the next queued destination; with an empty queue the wizard stays put,
// like a wizard refusing to leave an incomplete screen.
type MockTransitioner struct {
	mu        sync.Mutex
	current   wizard.Step
	forward   []wizard.Step
	backward  []wizard.Step
	calls     []TransitionCall
	errs      map[string]error
	disabled  map[wizard.Step]bool
	nextState bool
}

// NewMockTransitioner creates a wizard showing start.
func NewMockTransitioner(start wizard.Step) *MockTransitioner {
	return &MockTransitioner{
		current:  start,
		errs:     make(map[string]error),
		disabled: make(map[wizard.Step]bool),
	}
}

// QueueForward appends destinations for subsequent forward actions.
func (m *MockTransitioner) QueueForward(steps ...wizard.Step) *MockTransitioner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forward = append(m.forward, steps...)
	return m
}

// QueueBackward appends destinations for subsequent backward actions.
func (m *MockTransitioner) QueueBackward(steps ...wizard.Step) *MockTransitioner {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backward = append(m.backward, steps...)
	return m
}

// FailOn makes every call to method return err. A nil err clears it.
func (m *MockTransitioner) FailOn(method string, err error) *MockTransitioner {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, method)
	} else {
		m.errs[method] = err
	}
	return m
}

// SetCurrent moves the wizard without recording a call.
func (m *MockTransitioner) SetCurrent(step wizard.Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = step
}

// SetNextDisabled sets the forward button state reported to inspections.
func (m *MockTransitioner) SetNextDisabled(disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextState = disabled
}

// SetSidebarDisabled sets the sidebar entry state of step.
func (m *MockTransitioner) SetSidebarDisabled(step wizard.Step, disabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled[step] = disabled
}

func (m *MockTransitioner) PerformForward(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[CallForward]; err != nil {
		m.calls = append(m.calls, TransitionCall{Method: CallForward, Step: m.current})
		return err
	}
	if len(m.forward) > 0 {
		m.current, m.forward = m.forward[0], m.forward[1:]
	}
	m.calls = append(m.calls, TransitionCall{Method: CallForward, Step: m.current})
	return nil
}

func (m *MockTransitioner) PerformBackward(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[CallBackward]; err != nil {
		m.calls = append(m.calls, TransitionCall{Method: CallBackward, Step: m.current})
		return err
	}
	if len(m.backward) > 0 {
		m.current, m.backward = m.backward[0], m.backward[1:]
	}
	m.calls = append(m.calls, TransitionCall{Method: CallBackward, Step: m.current})
	return nil
}

func (m *MockTransitioner) ObserveCurrent(context.Context) (wizard.Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, TransitionCall{Method: CallObserve, Step: m.current})
	if err := m.errs[CallObserve]; err != nil {
		return wizard.NoStep, err
	}
	return m.current, nil
}

func (m *MockTransitioner) JumpToSidebarTarget(_ context.Context, step wizard.Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, TransitionCall{Method: CallSidebar, Step: step})
	if err := m.errs[CallSidebar]; err != nil {
		return err
	}
	if !m.disabled[step] {
		m.current = step
	}
	return nil
}

// Calls returns all recorded calls, oldest first.
func (m *MockTransitioner) Calls() []TransitionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TransitionCall{}, m.calls...)
}

// CallsTo returns the recorded calls of method.
func (m *MockTransitioner) CallsTo(method string) []TransitionCall {
	var out []TransitionCall
	for _, c := range m.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// CallCount returns how often method was called.
func (m *MockTransitioner) CallCount(method string) int {
	return len(m.CallsTo(method))
}

// Visited returns the step shown after each forward action.
func (m *MockTransitioner) Visited() []wizard.Step {
	var out []wizard.Step
	for _, c := range m.CallsTo(CallForward) {
		out = append(out, c.Step)
	}
	return out
}

// Current returns the step the mock wizard shows.
func (m *MockTransitioner) Current() wizard.Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Reset clears recorded calls.
func (m *MockTransitioner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// MockControls is a MockTransitioner that also supports opening steps,
// inspecting controls and confirming the installation.
type MockControls struct {
	*MockTransitioner
	// Confirmations records the tick and button text of each confirmation.
	Confirmations []Confirmation
}

// Confirmation is one recorded ConfirmInstallation call.
type Confirmation struct {
	Review     wizard.Step
	Tick       bool
	ButtonText string
}

// NewMockControls creates a capable mock wizard showing start.
func NewMockControls(start wizard.Step) *MockControls {
	return &MockControls{MockTransitioner: NewMockTransitioner(start)}
}

func (m *MockControls) Open(_ context.Context, step wizard.Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, TransitionCall{Method: CallOpen, Step: step})
	if err := m.errs[CallOpen]; err != nil {
		return err
	}
	m.current = step
	return nil
}

func (m *MockControls) CheckNextDisabled(_ context.Context, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, TransitionCall{Method: CallCheckNext, Step: m.current})
	if m.nextState != disabled {
		return errors.Newf(errors.Timeout, "next button disabled=%v not observed", disabled)
	}
	return nil
}

func (m *MockControls) CheckSidebarStepDisabled(_ context.Context, step wizard.Step, disabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, TransitionCall{Method: CallCheckSidebar, Step: step})
	if m.disabled[step] != disabled {
		return errors.Newf(errors.Timeout, "sidebar step %s disabled=%v not observed", step, disabled)
	}
	return nil
}

func (m *MockControls) ConfirmInstallation(_ context.Context, review wizard.Step, tick bool, buttonText string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, TransitionCall{Method: CallConfirm, Step: review})
	if err := m.errs[CallConfirm]; err != nil {
		return err
	}
	m.Confirmations = append(m.Confirmations, Confirmation{Review: review, Tick: tick, ButtonText: buttonText})
	return nil
}
