package navigator

import (
	"fmt"

	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// NavigationError reports that the wizard was not on the expected step
// after a transition.
type NavigationError struct {
	// Op is the navigator operation that failed.
	Op string
	// Expected is the step the transition should have landed on.
	Expected wizard.Step
	// Observed is the step the wizard actually showed.
	Observed wizard.Step
	// LastReached is the navigator's current step when the error occurred.
	LastReached wizard.Step
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigator.%s: expected step %s, observed %s (last reached %s)",
		e.Op, e.Expected, e.Observed, e.LastReached)
}

// ErrorCode classifies the error as errors.Navigation.
func (e *NavigationError) ErrorCode() errors.Code {
	return errors.Navigation
}

// Is matches errors.ErrNavigation and other Navigation-coded errors.
func (e *NavigationError) Is(target error) bool {
	return errors.IsCode(target, errors.Navigation)
}

func mismatch(op string, expected, observed, last wizard.Step) error {
	return &NavigationError{Op: op, Expected: expected, Observed: observed, LastReached: last}
}

// transitionFailed wraps a transitioner error, keeping its code when it
// already has one.
func transitionFailed(op, action string, err error) error {
	code := errors.GetCode(err)
	if code == errors.Unknown {
		code = errors.Browser
	}
	return errors.Wrapf(code, err, "%s failed", action).WithOp("navigator." + op)
}

func setupFailed(op string, step wizard.Step, err error) error {
	return errors.Wrapf(errors.StepSetup, err, "setup of %s failed", step).WithOp("navigator." + op)
}
