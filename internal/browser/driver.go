// Package browser drives the installer web UI in a real browser through
// go-rod. Driver implements the navigator's Transitioner and its optional
// capabilities, and the screens package's Form.
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tungetti/wizardnav/internal/config"
	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/screens"
	"github.com/tungetti/wizardnav/internal/wizard"
)

const hashScript = `() => window.location.hash`

// Options configures a Driver.
type Options struct {
	// PageURL is the installer page without fragment.
	PageURL string
	// First is reported while the URL has no fragment.
	First wizard.Step
	// Progress is the screen shown once installation starts. Arrival there
	// is detected by the progress stepper instead of the sidebar.
	Progress wizard.Step

	WaitTimeout   time.Duration
	SettleTimeout time.Duration
	PollInterval  time.Duration
	// SnapshotDir receives a screenshot whenever a wait times out. Empty
	// disables snapshots.
	SnapshotDir string

	ControlURL string
	Headless   bool
	Logger     logging.Logger
}

// OptionsFromConfig builds driver options for graph from cfg.
func OptionsFromConfig(cfg *config.Config, graph *wizard.Graph, logger logging.Logger) Options {
	return Options{
		PageURL:       cfg.PageURL(),
		First:         graph.First(),
		Progress:      graph.Terminal(),
		WaitTimeout:   cfg.Browser.WaitTimeout,
		SettleTimeout: cfg.Browser.SettleTimeout,
		PollInterval:  cfg.Browser.PollInterval,
		SnapshotDir:   cfg.Browser.SnapshotDir,
		ControlURL:    cfg.Browser.ControlURL,
		Headless:      cfg.Browser.Headless,
		Logger:        logger,
	}
}

// Driver is a browser-backed wizard transitioner.
type Driver struct {
	s      surface
	opts   Options
	logger logging.Logger
	now    func() time.Time

	// clickedFrom is the screen observed before the last forward or
	// backward click.
	clickedFrom wizard.Step
}

// Launch connects to the browser named in opts, starting a local one when
// no control URL is set.
func Launch(ctx context.Context, opts Options) (*Driver, error) {
	s, err := connect(ctx, opts.ControlURL, opts.Headless)
	if err != nil {
		return nil, err
	}
	return newDriver(s, opts), nil
}

func newDriver(s surface, opts Options) *Driver {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = constants.WaitTimeout
	}
	if opts.SettleTimeout < 0 {
		opts.SettleTimeout = 0
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = constants.PollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Driver{s: s, opts: opts, logger: logger.WithPrefix("browser"), now: time.Now}
}

// Close shuts the browser connection down.
func (d *Driver) Close() error {
	return d.s.Close()
}

// PerformForward clicks the wizard's forward button.
func (d *Driver) PerformForward(ctx context.Context) error {
	return d.click(ctx, "forward", func(ctx context.Context) error {
		return d.s.Click(ctx, constants.SelectorNextButton)
	})
}

// PerformBackward clicks the wizard's back button.
func (d *Driver) PerformBackward(ctx context.Context) error {
	return d.click(ctx, "back", func(ctx context.Context) error {
		return d.s.ClickText(ctx, "button", "^"+constants.SelectorBackButtonText+"$")
	})
}

func (d *Driver) click(ctx context.Context, what string, fn func(context.Context) error) error {
	from, err := d.ObserveCurrent(ctx)
	if err != nil {
		return err
	}
	d.clickedFrom = from

	ctx, cancel := context.WithTimeout(ctx, d.opts.WaitTimeout)
	defer cancel()
	d.logger.Debug("click", "button", what, "step", from)
	if err := fn(ctx); err != nil {
		return errors.Wrapf(errors.Browser, err, "click %s button", what).WithOp("browser.Perform")
	}
	return nil
}

// ObserveCurrent reads the screen id from the URL fragment.
func (d *Driver) ObserveCurrent(ctx context.Context) (wizard.Step, error) {
	hash, err := d.s.Eval(ctx, hashScript)
	if err != nil {
		return wizard.NoStep, errors.Wrap(errors.Browser, "read location hash", err).WithOp("browser.ObserveCurrent")
	}
	return ParseHash(hash, d.opts.First), nil
}

// JumpToSidebarTarget clicks step's sidebar entry.
func (d *Driver) JumpToSidebarTarget(ctx context.Context, step wizard.Step) error {
	ctx, cancel := context.WithTimeout(ctx, d.opts.WaitTimeout)
	defer cancel()
	d.logger.Debug("sidebar click", "step", step)
	if err := d.s.Click(ctx, "#"+step.String()); err != nil {
		return errors.Wrapf(errors.Browser, err, "click sidebar entry %s", step).WithOp("browser.JumpToSidebarTarget")
	}
	return nil
}

// Open loads step's URL.
func (d *Driver) Open(ctx context.Context, step wizard.Step) error {
	url := StepURL(d.opts.PageURL, step)
	d.logger.Info("opening", "url", url)
	ctx, cancel := context.WithTimeout(ctx, d.opts.WaitTimeout)
	defer cancel()
	if err := d.s.Navigate(ctx, url); err != nil {
		return errors.Wrapf(errors.Browser, err, "open %s", url).WithOp("browser.Open")
	}
	return nil
}

// AwaitStep polls until expected is fully shown: no encryption spinner,
// the URL fragment names it, and its sidebar entry is current (the
// progress stepper on the progress screen). When expected is the screen
// the last click started from, the driver first lets the UI settle so a
// late transition is not missed. On timeout the last observed screen is
// returned without error.
func (d *Driver) AwaitStep(ctx context.Context, expected wizard.Step) (wizard.Step, error) {
	if expected == d.clickedFrom && d.opts.SettleTimeout > 0 {
		select {
		case <-ctx.Done():
			return wizard.NoStep, errors.Wrap(errors.Timeout, "settle", ctx.Err()).WithOp("browser.AwaitStep")
		case <-time.After(d.opts.SettleTimeout):
		}
	}

	var observed wizard.Step
	err := d.poll(ctx, "step "+expected.String(), func(ctx context.Context) (bool, error) {
		var err error
		observed, err = d.ObserveCurrent(ctx)
		if err != nil {
			return false, err
		}
		return d.arrived(ctx, expected, observed)
	})
	if errors.IsCode(err, errors.Timeout) && ctx.Err() == nil {
		d.logger.Warn("step not reached", "expected", expected, "observed", observed)
		d.snapshot(ctx, "await-"+expected.String())
		return observed, nil
	}
	return observed, err
}

func (d *Driver) arrived(ctx context.Context, expected, observed wizard.Step) (bool, error) {
	spinning, err := d.s.Visible(ctx, constants.SelectorEncryptionSpinner)
	if err != nil || spinning {
		return false, err
	}
	if observed != expected {
		return false, nil
	}
	marker := "#" + expected.String() + "." + constants.ClassCurrentStep
	if expected == d.opts.Progress {
		marker = constants.SelectorProgressStepper
	}
	return d.s.Visible(ctx, marker)
}

// CheckNextDisabled waits for the forward button to reach the given state.
func (d *Driver) CheckNextDisabled(ctx context.Context, disabled bool) error {
	return d.waitDisabled(ctx, constants.SelectorNextButton, disabled)
}

// CheckSidebarStepDisabled waits for step's sidebar entry to reach the
// given state.
func (d *Driver) CheckSidebarStepDisabled(ctx context.Context, step wizard.Step, disabled bool) error {
	return d.waitDisabled(ctx, "#"+step.String(), disabled)
}

func (d *Driver) waitDisabled(ctx context.Context, selector string, disabled bool) error {
	want := fmt.Sprint(disabled)
	err := d.poll(ctx, selector+" aria-disabled="+want, func(ctx context.Context) (bool, error) {
		v, ok, err := d.s.Attribute(ctx, selector, "aria-disabled")
		if err != nil {
			return false, err
		}
		if !ok {
			v = "false"
		}
		return v == want, nil
	})
	if err != nil {
		d.snapshot(ctx, "disabled-"+strings.TrimPrefix(selector, "#"))
		return err
	}
	return nil
}

// ConfirmInstallation prepares review for starting the installation: with
// tick set the forward button must be disabled until the confirmation
// checkbox is clicked. The button must then read buttonText.
func (d *Driver) ConfirmInstallation(ctx context.Context, review wizard.Step, tick bool, buttonText string) error {
	const op = "browser.ConfirmInstallation"
	if tick {
		if err := d.CheckNextDisabled(ctx, true); err != nil {
			return err
		}
		clickCtx, cancel := context.WithTimeout(ctx, d.opts.WaitTimeout)
		err := d.s.Click(clickCtx, screens.ConfirmationCheckbox(review))
		cancel()
		if err != nil {
			return errors.Wrap(errors.Browser, "tick confirmation checkbox", err).WithOp(op)
		}
		if err := d.CheckNextDisabled(ctx, false); err != nil {
			return err
		}
	}

	var last string
	err := d.poll(ctx, "install button text", func(ctx context.Context) (bool, error) {
		text, err := d.s.Text(ctx, constants.SelectorNextButton)
		last = strings.TrimSpace(text)
		return last == buttonText, err
	})
	if err != nil {
		return errors.Wrapf(errors.GetCode(err), err, "forward button reads %q, want %q", last, buttonText).WithOp(op)
	}
	return nil
}

// SetInputText replaces the value of the input matched by selector.
func (d *Driver) SetInputText(ctx context.Context, selector, value string) error {
	ctx, cancel := context.WithTimeout(ctx, d.opts.WaitTimeout)
	defer cancel()
	if err := d.s.Input(ctx, selector, value); err != nil {
		return errors.Wrapf(errors.Browser, err, "type into %s", selector).WithOp("browser.SetInputText")
	}
	return nil
}

// SetChecked clicks the checkbox matched by selector when its state
// differs from checked.
func (d *Driver) SetChecked(ctx context.Context, selector string, checked bool) error {
	const op = "browser.SetChecked"
	ctx, cancel := context.WithTimeout(ctx, d.opts.WaitTimeout)
	defer cancel()
	current, err := d.s.Checked(ctx, selector)
	if err != nil {
		return errors.Wrapf(errors.Browser, err, "read %s", selector).WithOp(op)
	}
	if current == checked {
		return nil
	}
	if err := d.s.Click(ctx, selector); err != nil {
		return errors.Wrapf(errors.Browser, err, "click %s", selector).WithOp(op)
	}
	return nil
}

// poll evaluates cond every poll interval until it holds, cond fails, or
// the wait timeout passes.
func (d *Driver) poll(ctx context.Context, what string, cond func(context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, d.opts.WaitTimeout)
	defer cancel()
	ticker := time.NewTicker(d.opts.PollInterval)
	defer ticker.Stop()

	for {
		ok, err := cond(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return errors.Wrapf(errors.Timeout, err, "waiting for %s", what).WithOp("browser.poll")
			}
			return errors.Wrapf(errors.Browser, err, "waiting for %s", what).WithOp("browser.poll")
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrapf(errors.Timeout, ctx.Err(), "waiting for %s", what).WithOp("browser.poll")
		case <-ticker.C:
		}
	}
}

// snapshot saves a screenshot named after what into the snapshot dir.
// Failures are logged only.
func (d *Driver) snapshot(ctx context.Context, what string) {
	if d.opts.SnapshotDir == "" {
		return
	}
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, d.opts.WaitTimeout)
	defer cancel()

	data, err := d.s.Screenshot(ctx)
	if err != nil {
		d.logger.Warn("snapshot failed", "what", what, "error", err)
		return
	}
	path := filepath.Join(d.opts.SnapshotDir, SnapshotName(d.now(), what))
	if err := os.MkdirAll(d.opts.SnapshotDir, 0755); err != nil {
		d.logger.Warn("snapshot failed", "what", what, "error", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		d.logger.Warn("snapshot failed", "what", what, "error", err)
		return
	}
	d.logger.Info("snapshot saved", "path", path)
}

// ParseHash converts a location hash like "#/anaconda-screen-review" into a
// step. An empty hash means the wizard shows fallback.
func ParseHash(hash string, fallback wizard.Step) wizard.Step {
	id := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(hash), "#"), "/")
	if i := strings.IndexAny(id, "?/"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return fallback
	}
	return wizard.Step(id)
}

// StepURL returns the URL loading step on the installer page.
func StepURL(pageURL string, step wizard.Step) string {
	if i := strings.Index(pageURL, "#"); i >= 0 {
		pageURL = pageURL[:i]
	}
	return pageURL + constants.HashPrefix + step.String()
}

// SnapshotName returns the file name of a snapshot taken at t.
func SnapshotName(t time.Time, what string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, what)
	return t.UTC().Format("20060102-150405.000") + "-" + clean + ".png"
}
