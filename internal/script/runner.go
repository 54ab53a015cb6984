package script

import (
	"context"
	"time"

	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/navigator"
)

// StepResult is the outcome of one action.
type StepResult struct {
	Index    int
	Action   Action
	Duration time.Duration
	Err      error
}

// Result is the outcome of a flow run.
type Result struct {
	Flow  string
	Steps []StepResult
}

// Failed reports whether an action failed.
func (r *Result) Failed() bool {
	return r.Failure() != nil
}

// Failure returns the failed action, if any.
func (r *Result) Failure() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Err != nil {
			return &r.Steps[i]
		}
	}
	return nil
}

// Runner executes flows against a Navigator.
type Runner struct {
	nav    *navigator.Navigator
	logger logging.Logger
	now    func() time.Time
}

// NewRunner creates a runner driving nav.
func NewRunner(nav *navigator.Navigator, logger logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{nav: nav, logger: logger, now: time.Now}
}

// Run executes the flow's actions in order and stops at the first failure,
// which is also returned. The result lists every action attempted.
func (r *Runner) Run(ctx context.Context, flow *Flow) (*Result, error) {
	if err := flow.Validate(r.nav.Graph()); err != nil {
		return nil, err
	}

	res := &Result{Flow: flow.Name}
	logger := r.logger.WithFields("flow", flow.Name)
	logger.Info("running flow", "actions", len(flow.Steps), "start", r.nav.Current())

	for i, action := range flow.Steps {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrap(errors.Timeout, "flow interrupted", err).WithOp("script.Run")
		}

		started := r.now()
		err := r.do(ctx, action)
		step := StepResult{Index: i, Action: action, Duration: r.now().Sub(started), Err: err}
		res.Steps = append(res.Steps, step)

		if err != nil {
			logger.Error("action failed", "index", i, "action", action.String(), "error", err)
			return res, errors.Wrapf(errors.GetCode(err), err, "step %d (%s)", i, action).WithOp("script.Run")
		}
		logger.Info("action done", "index", i, "action", action.String(), "step", r.nav.Current())
	}
	return res, nil
}

func (r *Runner) do(ctx context.Context, a Action) error {
	switch a.Kind {
	case KindOpen:
		return r.nav.Open(ctx, a.Step)
	case KindReach:
		return r.nav.Reach(ctx, a.Step)
	case KindNext:
		var opts []navigator.StepOption
		if a.ExpectFailure {
			opts = append(opts, navigator.ExpectFailure())
		}
		if !a.Step.IsZero() {
			opts = append(opts, navigator.ExpectStep(a.Step))
		}
		_, err := r.nav.Next(ctx, opts...)
		return err
	case KindBack:
		var opts []navigator.StepOption
		if a.ExpectFailure {
			opts = append(opts, navigator.ExpectFailure())
		}
		if !a.Step.IsZero() {
			opts = append(opts, navigator.ExplicitPrevious(a.Step))
		}
		_, err := r.nav.Back(ctx, opts...)
		return err
	case KindSidebar:
		return r.nav.ReachViaSidebar(ctx, a.Step)
	case KindCheckNext:
		return r.nav.CheckNextDisabled(ctx, a.Disabled)
	case KindCheckSidebar:
		return r.nav.CheckSidebarStepDisabled(ctx, a.Step, a.Disabled)
	case KindBeginInstallation:
		var opts []navigator.StepOption
		if a.ExpectFailure {
			opts = append(opts, navigator.ExpectFailure())
		}
		if !a.NeedsConfirmation {
			opts = append(opts, navigator.WithoutConfirmation())
		}
		if a.ButtonText != "" {
			opts = append(opts, navigator.ButtonText(a.ButtonText))
		}
		return r.nav.BeginInstallation(ctx, opts...)
	default:
		return errors.Newf(errors.Unsupported, "unknown action %q", a.Kind).WithOp("script.Run")
	}
}
