// Package wizard models the installer wizard as a static step graph.
// A Graph describes which screens exist, which screen follows which, the
// screens hidden for the current product variant, the sidebar parent of
// nested screens, and the setup callbacks run when a screen is passed on
// the way to another one. Graphs are built once per scenario with a Builder
// and are read-only afterwards.
package wizard

import "context"

// Step identifies a wizard screen. The value is the screen id used by the
// web UI in its URL fragment and sidebar element ids.
type Step string

// Known wizard screens.
const (
	StepLanguage                   Step = "anaconda-screen-language"
	StepDateTime                   Step = "anaconda-screen-date-time"
	StepInstallationMethod         Step = "anaconda-screen-method"
	StepCustomMountPoint           Step = "anaconda-screen-mount-point-mapping"
	StepStorageConfiguration       Step = "anaconda-screen-storage-configuration"
	StepStorageConfigurationManual Step = "anaconda-screen-storage-configuration-manual"
	StepAccounts                   Step = "anaconda-screen-accounts"
	StepReview                     Step = "anaconda-screen-review"
	StepProgress                   Step = "anaconda-screen-progress"
)

// NoStep is the zero Step.
const NoStep Step = ""

// String returns the screen id.
func (s Step) String() string {
	return string(s)
}

// IsZero reports whether s is the empty step.
func (s Step) IsZero() bool {
	return s == NoStep
}

// KnownSteps returns the screens of the stock wizard in display order.
func KnownSteps() []Step {
	return []Step{
		StepLanguage,
		StepDateTime,
		StepInstallationMethod,
		StepStorageConfiguration,
		StepStorageConfigurationManual,
		StepCustomMountPoint,
		StepAccounts,
		StepReview,
		StepProgress,
	}
}

// IsKnown reports whether s is one of the stock wizard screens.
func IsKnown(s Step) bool {
	for _, k := range KnownSteps() {
		if k == s {
			return true
		}
	}
	return false
}

// ParseSteps converts raw ids into steps, dropping empty entries.
func ParseSteps(ids []string) []Step {
	steps := make([]Step, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		steps = append(steps, Step(id))
	}
	return steps
}

// Callback prepares a screen so navigation can continue past it,
// for example by filling in a form. It is called once each time the
// step is entered as part of a multi-hop path.
type Callback interface {
	Enter(ctx context.Context, step Step) error
}

// CallbackFunc adapts a function to the Callback interface.
type CallbackFunc func(ctx context.Context, step Step) error

// Enter calls f.
func (f CallbackFunc) Enter(ctx context.Context, step Step) error {
	return f(ctx, step)
}

// Ensure CallbackFunc implements Callback.
var _ Callback = CallbackFunc(nil)
