package browser

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tungetti/wizardnav/internal/errors"
)

// surface is the part of a browser page the driver needs. Lookups that
// check presence return immediately; actions wait for their element until
// ctx is done.
type surface interface {
	Navigate(ctx context.Context, url string) error
	Eval(ctx context.Context, js string) (string, error)
	Click(ctx context.Context, selector string) error
	ClickText(ctx context.Context, selector, textRegex string) error
	Visible(ctx context.Context, selector string) (bool, error)
	Attribute(ctx context.Context, selector, name string) (string, bool, error)
	Text(ctx context.Context, selector string) (string, error)
	Input(ctx context.Context, selector, value string) error
	Checked(ctx context.Context, selector string) (bool, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// rodSurface drives a Chromium page through the DevTools protocol.
type rodSurface struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
}

// connect attaches to the browser at controlURL, launching a local one when
// controlURL is empty.
func connect(ctx context.Context, controlURL string, headless bool) (*rodSurface, error) {
	const op = "browser.connect"
	s := &rodSurface{}
	if controlURL == "" {
		s.launcher = launcher.New().Headless(headless).Context(ctx)
		u, err := s.launcher.Launch()
		if err != nil {
			return nil, errors.Wrap(errors.Browser, "launch browser", err).WithOp(op)
		}
		controlURL = u
	}

	s.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := s.browser.Connect(); err != nil {
		s.cleanup()
		return nil, errors.Wrapf(errors.Browser, err, "connect to %s", controlURL).WithOp(op)
	}
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.cleanup()
		return nil, errors.Wrap(errors.Browser, "open page", err).WithOp(op)
	}
	s.page = page
	return s, nil
}

func (s *rodSurface) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

func (s *rodSurface) Eval(ctx context.Context, js string) (string, error) {
	res, err := s.page.Context(ctx).Eval(js)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (s *rodSurface) Click(ctx context.Context, selector string) error {
	el, err := s.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (s *rodSurface) ClickText(ctx context.Context, selector, textRegex string) error {
	el, err := s.page.Context(ctx).ElementR(selector, textRegex)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (s *rodSurface) Visible(ctx context.Context, selector string) (bool, error) {
	has, el, err := s.page.Context(ctx).Has(selector)
	if err != nil || !has {
		return false, err
	}
	return el.Visible()
}

func (s *rodSurface) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	has, el, err := s.page.Context(ctx).Has(selector)
	if err != nil || !has {
		return "", false, err
	}
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return "", false, err
	}
	return *v, true, nil
}

func (s *rodSurface) Text(ctx context.Context, selector string) (string, error) {
	el, err := s.page.Context(ctx).Element(selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (s *rodSurface) Input(ctx context.Context, selector, value string) error {
	el, err := s.page.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

func (s *rodSurface) Checked(ctx context.Context, selector string) (bool, error) {
	el, err := s.page.Context(ctx).Element(selector)
	if err != nil {
		return false, err
	}
	v, err := el.Property("checked")
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

func (s *rodSurface) Screenshot(ctx context.Context) ([]byte, error) {
	return s.page.Context(ctx).Screenshot(true, nil)
}

func (s *rodSurface) Close() error {
	return s.cleanup()
}

func (s *rodSurface) cleanup() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	return err
}
