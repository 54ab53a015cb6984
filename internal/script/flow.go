// Package script runs flow files: ordered lists of navigation actions
// written in YAML and executed against a Navigator.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// Kind names a flow action.
type Kind string

// Flow actions.
const (
	KindOpen              Kind = "open"
	KindReach             Kind = "reach"
	KindNext              Kind = "next"
	KindBack              Kind = "back"
	KindSidebar           Kind = "sidebar"
	KindCheckNext         Kind = "check_next_disabled"
	KindCheckSidebar      Kind = "check_sidebar_disabled"
	KindBeginInstallation Kind = "begin_installation"
)

// Flow is a named sequence of actions against one wizard scenario.
type Flow struct {
	Name string `yaml:"name"`
	// Scenario overrides the configured scenario when set.
	Scenario string `yaml:"scenario,omitempty"`
	// HiddenSteps are hidden on top of the configured ones.
	HiddenSteps []string `yaml:"hidden_steps,omitempty"`
	Steps       []Action `yaml:"steps"`
}

// Action is one flow step. In YAML it is a single-key mapping whose key is
// the action kind:
//
//	- open: anaconda-screen-language
//	- reach: anaconda-screen-review
//	- next: {expect_failure: true, expect_step: anaconda-screen-accounts}
//	- back: {expect_failure: false, previous: anaconda-screen-method}
//	- sidebar: anaconda-screen-mount-point-mapping
//	- check_next_disabled: true
//	- check_sidebar_disabled: {step: anaconda-screen-review, disabled: true}
//	- begin_installation: {needs_confirmation: true, button_text: Install}
type Action struct {
	Kind Kind
	// Step is the target of open, reach, sidebar and check_sidebar_disabled,
	// the expected step of next and the explicit previous step of back.
	Step              wizard.Step
	Disabled          bool
	ExpectFailure     bool
	NeedsConfirmation bool
	ButtonText        string
}

type stepArgs struct {
	ExpectFailure bool   `yaml:"expect_failure"`
	ExpectStep    string `yaml:"expect_step"`
	Previous      string `yaml:"previous"`
}

type sidebarCheckArgs struct {
	Step     string `yaml:"step"`
	Disabled bool   `yaml:"disabled"`
}

type installArgs struct {
	NeedsConfirmation *bool  `yaml:"needs_confirmation"`
	ExpectFailure     bool   `yaml:"expect_failure"`
	ButtonText        string `yaml:"button_text"`
}

// UnmarshalYAML decodes a single-key action mapping.
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: action must be a mapping with exactly one key", value.Line)
	}
	key, arg := value.Content[0], value.Content[1]
	kind := Kind(key.Value)

	decode := func(out interface{}) error {
		if arg.ShortTag() == "!!null" {
			return nil
		}
		if err := arg.Decode(out); err != nil {
			return fmt.Errorf("line %d: %s: %w", arg.Line, kind, err)
		}
		return nil
	}

	*a = Action{Kind: kind}
	switch kind {
	case KindOpen, KindReach, KindSidebar:
		var step string
		if err := decode(&step); err != nil {
			return err
		}
		a.Step = wizard.Step(strings.TrimSpace(step))
	case KindNext, KindBack:
		var args stepArgs
		if err := decode(&args); err != nil {
			return err
		}
		a.ExpectFailure = args.ExpectFailure
		a.Step = wizard.Step(args.ExpectStep)
		if kind == KindBack {
			a.Step = wizard.Step(args.Previous)
		}
	case KindCheckNext:
		if err := decode(&a.Disabled); err != nil {
			return err
		}
	case KindCheckSidebar:
		var args sidebarCheckArgs
		if err := decode(&args); err != nil {
			return err
		}
		a.Step, a.Disabled = wizard.Step(args.Step), args.Disabled
	case KindBeginInstallation:
		var args installArgs
		if err := decode(&args); err != nil {
			return err
		}
		a.NeedsConfirmation = args.NeedsConfirmation == nil || *args.NeedsConfirmation
		a.ExpectFailure = args.ExpectFailure
		a.ButtonText = args.ButtonText
	default:
		return fmt.Errorf("line %d: unknown action %q", key.Line, key.Value)
	}
	return nil
}

// String describes the action for logs.
func (a Action) String() string {
	var b strings.Builder
	b.WriteString(string(a.Kind))
	if !a.Step.IsZero() {
		b.WriteString(" " + a.Step.String())
	}
	switch a.Kind {
	case KindCheckNext, KindCheckSidebar:
		fmt.Fprintf(&b, " disabled=%v", a.Disabled)
	case KindBeginInstallation:
		fmt.Fprintf(&b, " confirm=%v", a.NeedsConfirmation)
	}
	if a.ExpectFailure {
		b.WriteString(" (expect failure)")
	}
	return b.String()
}

// Load reads a flow file. The flow name defaults to the file name.
func Load(path string) (*Flow, error) {
	const op = "script.Load"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.NotFound, err, "read flow %s", path).WithOp(op)
	}
	flow, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(errors.GetCode(err), err, "flow %s", path).WithOp(op)
	}
	if flow.Name == "" {
		flow.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return flow, nil
}

// Parse decodes a flow document.
func Parse(data []byte) (*Flow, error) {
	var flow Flow
	if err := yaml.Unmarshal(data, &flow); err != nil {
		return nil, errors.Wrap(errors.Configuration, "parse flow", err)
	}
	if len(flow.Steps) == 0 {
		return nil, errors.New(errors.Validation, "flow has no steps")
	}
	return &flow, nil
}

// Hidden returns the flow's extra hidden steps.
func (f *Flow) Hidden() []wizard.Step {
	return wizard.ParseSteps(f.HiddenSteps)
}

// Validate checks that every step the flow names is declared in graph.
func (f *Flow) Validate(graph *wizard.Graph) error {
	var problems []string
	for i, a := range f.Steps {
		if a.Step.IsZero() {
			if a.Kind == KindReach || a.Kind == KindSidebar || a.Kind == KindCheckSidebar {
				problems = append(problems, fmt.Sprintf("steps[%d]: %s needs a step", i, a.Kind))
			}
			continue
		}
		if !graph.Has(a.Step) {
			problems = append(problems, fmt.Sprintf("steps[%d]: %s: step %q is not declared", i, a.Kind, a.Step))
		}
	}
	if len(problems) > 0 {
		return errors.New(errors.Validation, strings.Join(problems, "; ")).WithOp("script.Validate")
	}
	return nil
}
