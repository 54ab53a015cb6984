package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/tungetti/wizardnav/internal/browser"
	"github.com/tungetti/wizardnav/internal/config"
	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/navigator"
	"github.com/tungetti/wizardnav/internal/scenario"
	"github.com/tungetti/wizardnav/internal/screens"
	"github.com/tungetti/wizardnav/internal/simulate"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// sessionLockTimeout is how long a browser session waits for the target lock.
var sessionLockTimeout = 5 * time.Second

// SessionOptions selects what a session drives.
type SessionOptions struct {
	// Simulate drives the in-memory wizard instead of a browser.
	Simulate bool
	// Scenario overrides the configured scenario when set.
	Scenario string
	// Hidden adds to the configured hidden steps.
	Hidden []wizard.Step
	// Start overrides the configured start step when set.
	Start wizard.Step
	// Hooks observe every recorded hop.
	Hooks []navigator.Hook
}

// Session is one navigator bound to one wizard.
type Session struct {
	ID        string
	Scenario  string
	Graph     *wizard.Graph
	Navigator *navigator.Navigator
	// Simulator is set for simulated sessions.
	Simulator *simulate.Wizard

	driver *browser.Driver
	lock   *SessionLock
	logger logging.Logger
}

// BuildGraph builds the wizard graph for name, or from the configured
// topology file when there is one, with cb bound to its setup steps.
func BuildGraph(cfg *config.Config, name string, hidden []wizard.Step, cb scenario.Callbacks) (*wizard.Graph, error) {
	if cfg.TopologyFile != "" {
		t, err := scenario.LoadTopology(cfg.TopologyFile)
		if err != nil {
			return nil, err
		}
		return t.Graph(hidden, cb.Registry())
	}
	return scenario.For(name, hidden, cb)
}

// NewSession builds the graph, the transitioner and the navigator of a
// session. Browser sessions hold the target's session lock until Close.
func NewSession(ctx context.Context, cfg *config.Config, id string, logger logging.Logger,
	tracer trace.Tracer, opts SessionOptions) (*Session, error) {
	const op = "app.NewSession"

	if logger == nil {
		logger = logging.NewNop()
	}
	name := cfg.Scenario
	if opts.Scenario != "" {
		name = opts.Scenario
	}
	hidden := append(cfg.Hidden(), opts.Hidden...)
	start := wizard.Step(cfg.StartStep)
	if !opts.Start.IsZero() {
		start = opts.Start
	}

	// The transitioner is created from a callback-free graph; the
	// navigator's graph then binds the setup callbacks to it.
	topology, err := BuildGraph(cfg, name, hidden, scenario.Callbacks{})
	if err != nil {
		return nil, err
	}

	if ignored := topology.IgnoredHidden(); len(ignored) > 0 {
		logger.Debug("ignoring hidden steps the scenario does not declare", "scenario", name, "steps", ignored)
	}

	s := &Session{ID: id, Scenario: name, logger: logger}
	var (
		t    navigator.Transitioner
		form screens.Form
	)
	if opts.Simulate {
		simOpts := []simulate.Option{simulate.WithLogger(logger.WithPrefix("simulate"))}
		if !start.IsZero() {
			simOpts = append(simOpts, simulate.WithStart(start))
		}
		sim, err := simulate.NewStock(topology, simOpts...)
		if err != nil {
			return nil, err
		}
		s.Simulator, t, form = sim, sim, sim
	} else {
		lock, err := AcquireLock(ctx, cfg.LockDir, cfg.PageURL(), sessionLockTimeout)
		if err != nil {
			return nil, err
		}
		s.lock = lock
		driver, err := browser.Launch(ctx, browser.OptionsFromConfig(cfg, topology, logger))
		if err != nil {
			_ = lock.Release()
			return nil, errors.Wrap(errors.Browser, "failed to start browser", err).WithOp(op)
		}
		s.driver, t, form = driver, driver, driver
	}

	account := screens.Account{UserName: cfg.Account.UserName, Password: cfg.Account.Password}
	graph, err := BuildGraph(cfg, name, hidden, screens.Callbacks(form, account, cfg.EncryptDisks, logger))
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	navOpts := []navigator.Option{
		navigator.WithLogger(logger.WithPrefix("navigator")),
		navigator.WithTracer(tracer),
	}
	for _, h := range opts.Hooks {
		navOpts = append(navOpts, navigator.WithHook(h))
	}
	nav, err := navigator.New(graph, start, t, navOpts...)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Graph, s.Navigator = graph, nav

	logger.Info("session ready", "session", id, "scenario", name, "simulate", opts.Simulate, "start", nav.Current())
	return s, nil
}

// Simulated reports whether the session drives the in-memory wizard.
func (s *Session) Simulated() bool {
	return s.Simulator != nil
}

// Close stops the browser and releases the session lock.
func (s *Session) Close() error {
	var lastErr error
	if s.driver != nil {
		if err := s.driver.Close(); err != nil {
			lastErr = errors.Wrap(errors.Browser, "failed to close browser", err).WithOp("app.Session.Close")
		}
		s.driver = nil
	}
	if s.lock != nil {
		if err := s.lock.Release(); err != nil {
			lastErr = err
		}
		s.lock = nil
	}
	return lastErr
}
