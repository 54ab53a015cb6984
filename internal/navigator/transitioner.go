package navigator

import (
	"context"

	"github.com/tungetti/wizardnav/internal/wizard"
)

// Transitioner performs the real wizard transitions. Implementations own
// every timeout; the Navigator only sequences calls and checks where they
// landed.
type Transitioner interface {
	// PerformForward triggers the wizard's forward action.
	PerformForward(ctx context.Context) error
	// PerformBackward triggers the wizard's backward action.
	PerformBackward(ctx context.Context) error
	// ObserveCurrent reports the step the wizard is showing.
	ObserveCurrent(ctx context.Context) (wizard.Step, error)
	// JumpToSidebarTarget selects step in the sidebar.
	JumpToSidebarTarget(ctx context.Context, step wizard.Step) error
}

// Awaiter is implemented by transitioners that can wait for a step to
// appear. AwaitStep returns the last observed step when expected does not
// show up in time; only failures to observe at all are errors.
type Awaiter interface {
	AwaitStep(ctx context.Context, expected wizard.Step) (wizard.Step, error)
}

// Inspector is implemented by transitioners that can check the enabled
// state of wizard controls.
type Inspector interface {
	CheckNextDisabled(ctx context.Context, disabled bool) error
	CheckSidebarStepDisabled(ctx context.Context, step wizard.Step, disabled bool) error
}

// Opener is implemented by transitioners that can load a step directly.
type Opener interface {
	Open(ctx context.Context, step wizard.Step) error
}

// Confirmer is implemented by transitioners that prepare the review screen
// before the installation starts. With tick set the confirmation box is
// checked first; then the forward button must read buttonText.
type Confirmer interface {
	ConfirmInstallation(ctx context.Context, review wizard.Step, tick bool, buttonText string) error
}
