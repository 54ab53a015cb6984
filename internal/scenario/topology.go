package scenario

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// Topology is a wizard graph described in a file, for installer builds
// whose screens differ from the stock wizard.
//
//	name = "minimal"
//
//	[[steps]]
//	id = "anaconda-screen-language"
//	next = ["anaconda-screen-review"]
//
//	[[steps]]
//	id = "anaconda-screen-review"
//	next = ["anaconda-screen-progress"]
//	setup = "create-user"
//
//	[[steps]]
//	id = "anaconda-screen-progress"
type Topology struct {
	Name  string         `yaml:"name" toml:"name"`
	Steps []TopologyStep `yaml:"steps" toml:"steps"`
}

// TopologyStep declares one step of a Topology.
type TopologyStep struct {
	ID     string   `yaml:"id" toml:"id"`
	Next   []string `yaml:"next" toml:"next"`
	Hidden bool     `yaml:"hidden" toml:"hidden"`
	Parent string   `yaml:"parent" toml:"parent"`
	// Setup names a registered callback run when the step is entered.
	Setup string `yaml:"setup" toml:"setup"`
}

// Named setup callbacks that topology files may reference.
const (
	SetupCreateUser        = "create-user"
	SetupStorageEncryption = "storage-encryption"
)

// Registry maps setup names to callbacks.
type Registry map[string]wizard.Callback

// Registry returns the callbacks under their setup names.
func (c Callbacks) Registry() Registry {
	r := Registry{}
	if c.Accounts != nil {
		r[SetupCreateUser] = c.Accounts
	}
	if c.StorageConfiguration != nil {
		r[SetupStorageEncryption] = c.StorageConfiguration
	}
	return r
}

// LoadTopology reads a topology from a .yaml, .yml or .toml file.
func LoadTopology(path string) (*Topology, error) {
	const op = "scenario.LoadTopology"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.Configuration, "failed to read topology file", err).WithOp(op)
	}

	var t Topology
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &t); err != nil {
			return nil, errors.Wrap(errors.Configuration, "failed to parse topology file", err).WithOp(op)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, errors.Wrap(errors.Configuration, "failed to parse topology file", err).WithOp(op)
		}
	default:
		return nil, errors.Newf(errors.Unsupported, "unsupported topology format %q", filepath.Ext(path)).WithOp(op)
	}

	if t.Name == "" {
		t.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &t, nil
}

// Graph builds the topology's graph. hidden adds to the steps the file
// marks hidden; setup names are resolved against reg.
func (t *Topology) Graph(hidden []wizard.Step, reg Registry) (*wizard.Graph, error) {
	const op = "scenario.Topology.Graph"

	b := wizard.NewBuilder()
	for _, s := range t.Steps {
		id := wizard.Step(s.ID)
		b.Step(id, wizard.ParseSteps(s.Next)...)
		if s.Hidden {
			b.Hide(id)
		}
		if s.Parent != "" {
			b.Parent(id, wizard.Step(s.Parent))
		}
		if s.Setup != "" {
			cb, ok := reg[s.Setup]
			if !ok {
				return nil, errors.Newf(errors.NotFound, "step %s: unknown setup %q", s.ID, s.Setup).WithOp(op)
			}
			b.OnEnter(id, cb)
		}
	}
	b.Hide(hidden...)

	g, err := b.Build()
	if err != nil {
		return nil, errors.Wrapf(errors.Validation, err, "topology %s", t.Name).WithOp(op)
	}
	return g, nil
}
