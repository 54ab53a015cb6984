package navigator

import (
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the navigator's logger.
func WithLogger(logger logging.Logger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithTracer enables tracing of navigator operations.
func WithTracer(tracer trace.Tracer) Option {
	return func(n *Navigator) {
		n.tracer = tracer
	}
}

// WithHook adds a hook called after each recorded hop.
func WithHook(h Hook) Option {
	return func(n *Navigator) {
		if h != nil {
			n.hooks = append(n.hooks, h)
		}
	}
}

// WithClock sets the clock used to timestamp journal entries.
func WithClock(now func() time.Time) Option {
	return func(n *Navigator) {
		if now != nil {
			n.now = now
		}
	}
}

// StepOption adjusts a single Next, Back or BeginInstallation call.
type StepOption func(*stepOptions)

type stepOptions struct {
	expectFailure bool
	expectStep    wizard.Step
	previous      wizard.Step
	buttonText    string
	noConfirm     bool
}

func collect(opts []StepOption) stepOptions {
	var o stepOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ExpectFailure asserts the wizard refuses to move.
func ExpectFailure() StepOption {
	return func(o *stepOptions) {
		o.expectFailure = true
	}
}

// ExpectStep overrides the step Next expects to land on.
func ExpectStep(step wizard.Step) StepOption {
	return func(o *stepOptions) {
		o.expectStep = step
	}
}

// ExplicitPrevious overrides the step Back expects to land on.
func ExplicitPrevious(step wizard.Step) StepOption {
	return func(o *stepOptions) {
		o.previous = step
	}
}

// ButtonText sets the label BeginInstallation expects on the forward button.
func ButtonText(text string) StepOption {
	return func(o *stepOptions) {
		o.buttonText = text
	}
}

// WithoutConfirmation skips ticking the confirmation box in BeginInstallation.
func WithoutConfirmation() StepOption {
	return func(o *stepOptions) {
		o.noConfirm = true
	}
}
