// Package navigator drives a wizard along a step graph. A Navigator tracks
// the current step, plans paths to other steps and asks a Transitioner to
// perform each hop, checking after every hop that the wizard landed where
// the graph says it should.
//
// A Navigator is not safe for concurrent use. It drives one wizard session
// from one goroutine.
package navigator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/telemetry"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// Navigator holds the current step of one wizard session.
type Navigator struct {
	graph   *wizard.Graph
	t       Transitioner
	current wizard.Step
	logger  logging.Logger
	tracer  trace.Tracer
	hooks   []Hook
	journal []Hop
	now     func() time.Time
}

// New creates a Navigator on graph starting at initial. An empty initial
// step means the graph's first step.
func New(graph *wizard.Graph, initial wizard.Step, t Transitioner, opts ...Option) (*Navigator, error) {
	const op = "navigator.New"
	if graph == nil {
		return nil, errors.New(errors.Validation, "graph is required").WithOp(op)
	}
	if t == nil {
		return nil, errors.New(errors.Validation, "transitioner is required").WithOp(op)
	}
	if initial.IsZero() {
		initial = graph.First()
	}
	if !graph.Has(initial) {
		return nil, errors.Newf(errors.UnknownStep, "initial step %q is not declared", initial).WithOp(op)
	}

	n := &Navigator{
		graph:   graph,
		t:       t,
		current: initial,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Current returns the step the navigator believes the wizard is on.
func (n *Navigator) Current() wizard.Step {
	return n.current
}

// Graph returns the graph the navigator walks.
func (n *Navigator) Graph() *wizard.Graph {
	return n.graph
}

// Next performs one forward action and returns the step now current.
// The expected step is the default next step unless ExpectStep overrides
// it. With ExpectFailure the wizard must stay where it is. On arrival the
// new step's setup callback runs before Next returns.
func (n *Navigator) Next(ctx context.Context, opts ...StepOption) (wizard.Step, error) {
	var landed wizard.Step
	err := n.trace(ctx, "next", func(ctx context.Context) error {
		var err error
		landed, err = n.forward(ctx, "next", collect(opts))
		return err
	})
	return landed, err
}

// Back performs one backward action and returns the step now current.
// The expected step is the default previous step unless ExplicitPrevious
// overrides it. Setup callbacks are not run when going back.
func (n *Navigator) Back(ctx context.Context, opts ...StepOption) (wizard.Step, error) {
	var landed wizard.Step
	err := n.trace(ctx, "back", func(ctx context.Context) error {
		var err error
		landed, err = n.backward(ctx, collect(opts))
		return err
	})
	return landed, err
}

// Reach moves forward hop by hop until target is current. Hidden steps on
// the way are not shown by the wizard, so only their setup callbacks run.
// A failed hop stops the walk and leaves the last reached step current.
func (n *Navigator) Reach(ctx context.Context, target wizard.Step) error {
	const op = "reach"
	if !n.graph.Has(target) {
		return errors.Newf(errors.UnknownStep, "step %q is not declared", target).WithOp("navigator.Reach")
	}
	if target == n.current {
		n.logger.Debug("already on target", "step", target)
		return nil
	}
	if n.graph.IsHidden(target) {
		return errors.Newf(errors.UnreachableStep, "step %s is hidden", target).WithOp("navigator.Reach")
	}

	path, err := n.graph.PathBetween(n.current, target)
	if err != nil {
		n.logger.Error("no path", "from", n.current, "to", target, "error", err)
		return err
	}

	plan := telemetry.Plan{From: n.current.String(), To: target.String()}
	for _, hop := range path {
		plan.Hops = append(plan.Hops, telemetry.PlannedHop{ID: hop.String(), Hidden: n.graph.IsHidden(hop)})
	}

	var operation *telemetry.Operation
	if n.tracer != nil {
		operation, err = telemetry.EmitPlan(ctx, n.tracer, op, plan)
		if err != nil {
			n.logger.Warn("tracing disabled for reach", "error", err)
			operation = nil
		} else {
			ctx = operation.Context()
		}
	}

	n.logger.Info("reaching step", "from", n.current, "to", target, "hops", len(path))

	var runErr error
	for i, planned := range plan.Hops {
		hop := path[i]
		runErr = operation.RunHop(ctx, planned, func(ctx context.Context) error {
			if planned.Hidden {
				return n.passThrough(ctx, op, hop)
			}
			_, err := n.forward(ctx, op, stepOptions{expectStep: hop})
			return err
		})
		if runErr != nil {
			break
		}
	}
	operation.End(runErr)
	return runErr
}

// ReachViaSidebar selects target in the sidebar, clicking its sidebar
// parent first when it has one. Setup callbacks are not replayed; the
// steps before target must already be complete.
func (n *Navigator) ReachViaSidebar(ctx context.Context, target wizard.Step) error {
	const op = "sidebar"
	if !n.graph.Has(target) {
		return errors.Newf(errors.UnknownStep, "step %q is not declared", target).WithOp("navigator.ReachViaSidebar")
	}

	return n.trace(ctx, op, func(ctx context.Context) error {
		from := n.current
		started := n.now()

		observed, err := n.jump(ctx, target)
		if err == nil && observed != target {
			err = mismatch(op, target, observed, from)
		}
		n.record(Hop{Op: op, Kind: HopSidebar, From: from, To: target, Observed: observed,
			Timestamp: started, Duration: n.now().Sub(started), Err: err})
		if err != nil {
			return err
		}
		n.current = target
		return nil
	})
}

func (n *Navigator) jump(ctx context.Context, target wizard.Step) (wizard.Step, error) {
	if parent, ok := n.graph.SidebarParent(target); ok {
		if err := n.t.JumpToSidebarTarget(ctx, parent); err != nil {
			return wizard.NoStep, transitionFailed("sidebar", "sidebar jump to "+parent.String(), err)
		}
	}
	if err := n.t.JumpToSidebarTarget(ctx, target); err != nil {
		return wizard.NoStep, transitionFailed("sidebar", "sidebar jump to "+target.String(), err)
	}
	return n.await(ctx, "sidebar", target)
}

// Open loads step directly, or the first step when step is empty. Hidden
// steps are skipped forward to the first visible one.
func (n *Navigator) Open(ctx context.Context, step wizard.Step) error {
	const op = "open"
	opener, ok := n.t.(Opener)
	if !ok {
		return errors.Wrap(errors.Unsupported, "transitioner cannot open steps", errors.ErrUnsupported).WithOp("navigator.Open")
	}
	if step.IsZero() {
		step = n.graph.First()
	}
	if !n.graph.Has(step) {
		return errors.Newf(errors.UnknownStep, "step %q is not declared", step).WithOp("navigator.Open")
	}
	if n.graph.IsHidden(step) {
		visible, err := n.graph.DefaultNext(step)
		if err != nil {
			return err
		}
		n.logger.Debug("opening first visible step", "hidden", step, "step", visible)
		step = visible
	}

	return n.trace(ctx, op, func(ctx context.Context) error {
		from := n.current
		started := n.now()

		var observed wizard.Step
		err := opener.Open(ctx, step)
		if err != nil {
			err = transitionFailed(op, "open "+step.String(), err)
		} else {
			observed, err = n.await(ctx, op, step)
			if err == nil && observed != step {
				err = mismatch(op, step, observed, from)
			}
		}
		n.record(Hop{Op: op, Kind: HopOpen, From: from, To: step, Observed: observed,
			Timestamp: started, Duration: n.now().Sub(started), Err: err})
		if err != nil {
			return err
		}
		n.current = step
		return nil
	})
}

// BeginInstallation confirms the review screen and starts the installation,
// which moves the wizard to the progress screen. Options: ExpectFailure,
// ButtonText (defaults to the stock install label) and WithoutConfirmation.
func (n *Navigator) BeginInstallation(ctx context.Context, opts ...StepOption) error {
	const op = "install"
	o := collect(opts)
	if o.buttonText == "" {
		o.buttonText = constants.DefaultInstallButtonText
	}

	return n.trace(ctx, op, func(ctx context.Context) error {
		if c, ok := n.t.(Confirmer); ok {
			if err := c.ConfirmInstallation(ctx, n.current, !o.noConfirm, o.buttonText); err != nil {
				return transitionFailed(op, "confirm installation", err)
			}
		} else if !o.noConfirm {
			return errors.Wrap(errors.Unsupported, "transitioner cannot confirm the installation", errors.ErrUnsupported).
				WithOp("navigator.BeginInstallation")
		}
		_, err := n.forward(ctx, op, stepOptions{expectFailure: o.expectFailure})
		return err
	})
}

// CheckNextDisabled asserts the enabled state of the forward button.
func (n *Navigator) CheckNextDisabled(ctx context.Context, disabled bool) error {
	inspector, err := n.inspector("navigator.CheckNextDisabled")
	if err != nil {
		return err
	}
	if err := inspector.CheckNextDisabled(ctx, disabled); err != nil {
		return transitionFailed("check", "next button check", err)
	}
	return nil
}

// CheckSidebarStepDisabled asserts the enabled state of step's sidebar entry.
func (n *Navigator) CheckSidebarStepDisabled(ctx context.Context, step wizard.Step, disabled bool) error {
	inspector, err := n.inspector("navigator.CheckSidebarStepDisabled")
	if err != nil {
		return err
	}
	if !n.graph.Has(step) {
		return errors.Newf(errors.UnknownStep, "step %q is not declared", step).WithOp("navigator.CheckSidebarStepDisabled")
	}
	if err := inspector.CheckSidebarStepDisabled(ctx, step, disabled); err != nil {
		return transitionFailed("check", "sidebar check of "+step.String(), err)
	}
	return nil
}

func (n *Navigator) inspector(op string) (Inspector, error) {
	inspector, ok := n.t.(Inspector)
	if !ok {
		return nil, errors.Wrap(errors.Unsupported, "transitioner cannot inspect controls", errors.ErrUnsupported).WithOp(op)
	}
	return inspector, nil
}

// forward performs one forward hop. It is the body of Next and of each
// visible hop of Reach.
func (n *Navigator) forward(ctx context.Context, op string, o stepOptions) (wizard.Step, error) {
	from := n.current

	target := o.expectStep
	if target.IsZero() {
		next, err := n.graph.DefaultNext(from)
		if err != nil {
			return from, err
		}
		target = next
	} else if !n.graph.Has(target) {
		return from, errors.Newf(errors.UnknownStep, "step %q is not declared", target).WithOp("navigator." + op)
	}

	expected := target
	if o.expectFailure {
		expected = from
	}

	started := n.now()
	var observed wizard.Step
	err := n.t.PerformForward(ctx)
	if err != nil {
		err = transitionFailed(op, "forward action", err)
	} else {
		observed, err = n.await(ctx, op, expected)
		if err == nil && observed != expected {
			err = mismatch(op, expected, observed, from)
		}
	}
	n.record(Hop{Op: op, Kind: HopForward, From: from, To: expected, Observed: observed,
		Timestamp: started, Duration: n.now().Sub(started), Err: err})
	if err != nil {
		return from, err
	}
	if o.expectFailure {
		return from, nil
	}

	n.current = target
	if err := n.enter(ctx, op, target); err != nil {
		return target, err
	}
	return target, nil
}

func (n *Navigator) backward(ctx context.Context, o stepOptions) (wizard.Step, error) {
	const op = "back"
	from := n.current

	target := from
	if !o.expectFailure {
		target = o.previous
		if target.IsZero() {
			prev, err := n.graph.DefaultPrevious(from)
			if err != nil {
				return from, err
			}
			target = prev
		} else if !n.graph.Has(target) {
			return from, errors.Newf(errors.UnknownStep, "step %q is not declared", target).WithOp("navigator.Back")
		}
	}

	started := n.now()
	var observed wizard.Step
	err := n.t.PerformBackward(ctx)
	if err != nil {
		err = transitionFailed(op, "backward action", err)
	} else {
		observed, err = n.await(ctx, op, target)
		if err == nil && observed != target {
			err = mismatch(op, target, observed, from)
		}
	}
	n.record(Hop{Op: op, Kind: HopBackward, From: from, To: target, Observed: observed,
		Timestamp: started, Duration: n.now().Sub(started), Err: err})
	if err != nil {
		return from, err
	}

	n.current = target
	return target, nil
}

// passThrough runs the setup callback of a hidden step without touching
// the wizard.
func (n *Navigator) passThrough(ctx context.Context, op string, step wizard.Step) error {
	started := n.now()
	err := n.enter(ctx, op, step)
	n.record(Hop{Op: op, Kind: HopPassThrough, From: n.current, To: step,
		Timestamp: started, Duration: n.now().Sub(started), Err: err})
	return err
}

func (n *Navigator) enter(ctx context.Context, op string, step wizard.Step) error {
	cb, ok := n.graph.Callback(step)
	if !ok {
		return nil
	}
	n.logger.Debug("running step setup", "step", step)
	if err := cb.Enter(ctx, step); err != nil {
		return setupFailed(op, step, err)
	}
	return nil
}

func (n *Navigator) await(ctx context.Context, op string, expected wizard.Step) (wizard.Step, error) {
	var (
		observed wizard.Step
		err      error
	)
	if a, ok := n.t.(Awaiter); ok {
		observed, err = a.AwaitStep(ctx, expected)
	} else {
		observed, err = n.t.ObserveCurrent(ctx)
	}
	if err != nil {
		return wizard.NoStep, transitionFailed(op, "observe current step", err)
	}
	return observed, nil
}

func (n *Navigator) trace(ctx context.Context, name string, fn func(context.Context) error) error {
	return telemetry.Run(ctx, n.tracer, name,
		[]attribute.KeyValue{attribute.String(telemetry.FromKey, n.current.String())}, fn)
}
