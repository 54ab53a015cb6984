package testing

import (
	"context"
	"sync"

	"github.com/tungetti/wizardnav/internal/wizard"
)

// ============================================================================
// Graph fixtures
// ============================================================================

// Steps used by the fixture graphs.
const (
	StepA wizard.Step = "a"
	StepB wizard.Step = "b"
	StepC wizard.Step = "c"
	StepD wizard.Step = "d"
	StepE wizard.Step = "e"
)

// LinearGraph returns a -> b -> c -> d with the given steps hidden.
func LinearGraph(hidden ...wizard.Step) *wizard.Builder {
	return wizard.NewBuilder().
		Step(StepA, StepB).
		Step(StepB, StepC).
		Step(StepC, StepD).
		Step(StepD).
		Hide(hidden...)
}

// BranchGraph returns a -> {b, c} -> d with b hidden.
func BranchGraph() *wizard.Builder {
	return wizard.NewBuilder().
		Step(StepA, StepB, StepC).
		Step(StepB, StepD).
		Step(StepC, StepD).
		Step(StepD).
		Hide(StepB)
}

// DisconnectedGraph returns a -> b plus a cycle c <-> d that a never
// reaches.
func DisconnectedGraph() *wizard.Builder {
	return wizard.NewBuilder().
		Step(StepA, StepB).
		Step(StepB).
		Step(StepC, StepD).
		Step(StepD, StepC)
}

// ============================================================================
// Callback recorder
// ============================================================================

// CallbackRecorder hands out callbacks that record which steps they were
// entered for.
type CallbackRecorder struct {
	mu      sync.Mutex
	entered []wizard.Step
	errs    map[wizard.Step]error
}

// NewCallbackRecorder creates an empty recorder.
func NewCallbackRecorder() *CallbackRecorder {
	return &CallbackRecorder{errs: make(map[wizard.Step]error)}
}

// Callback returns a callback recording into r.
func (r *CallbackRecorder) Callback() wizard.Callback {
	return wizard.CallbackFunc(func(_ context.Context, step wizard.Step) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.entered = append(r.entered, step)
		return r.errs[step]
	})
}

// FailOn makes the callback return err when entered for step.
func (r *CallbackRecorder) FailOn(step wizard.Step, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[step] = err
}

// Entered returns the steps callbacks ran for, in order.
func (r *CallbackRecorder) Entered() []wizard.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]wizard.Step{}, r.entered...)
}

// Count returns how often a callback ran for step.
func (r *CallbackRecorder) Count(step wizard.Step) int {
	n := 0
	for _, s := range r.Entered() {
		if s == step {
			n++
		}
	}
	return n
}
