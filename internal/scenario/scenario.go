// Package scenario builds the installer wizard's step graph for a storage
// scenario. The storage scenario chosen on the installation method screen
// decides whether the storage configuration screens are shown and under
// which id; everything else about the wizard is shared.
package scenario

import (
	"sort"

	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// Storage scenario names as used by the installation method screen.
const (
	EraseAll             = "erase-all"
	UseFreeSpace         = "use-free-space"
	ReinstallFedora      = "reinstall-fedora"
	MountPointMapping    = "mount-point-mapping"
	UseConfiguredStorage = "use-configured-storage"
	HomeReuse            = "home-reuse"
)

// variant describes how a scenario deviates from the default wizard.
type variant struct {
	// storageStep replaces StepStorageConfiguration when set.
	storageStep wizard.Step
	// skipStorage routes the method screen straight to accounts and hides
	// both storage configuration screens.
	skipStorage bool
}

var variants = map[string]variant{
	EraseAll:             {},
	UseFreeSpace:         {},
	ReinstallFedora:      {},
	MountPointMapping:    {storageStep: wizard.StepStorageConfigurationManual},
	UseConfiguredStorage: {skipStorage: true},
	HomeReuse:            {skipStorage: true},
}

// Names returns the known scenario names, sorted.
func Names() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnown reports whether name is a known scenario. The empty name is the
// default scenario.
func IsKnown(name string) bool {
	if name == "" {
		return true
	}
	_, ok := variants[name]
	return ok
}

// Callbacks are the setup callbacks attached to the stock wizard. Nil
// fields leave the screen without a callback.
type Callbacks struct {
	// Accounts fills in the user creation form.
	Accounts wizard.Callback
	// StorageConfiguration sets the disk encryption choice.
	StorageConfiguration wizard.Callback
}

// Steps holds the resolved ids of the wizard screens for a scenario.
type Steps struct {
	Language             wizard.Step
	InstallationMethod   wizard.Step
	StorageConfiguration wizard.Step
	CustomMountPoint     wizard.Step
	Accounts             wizard.Step
	Review               wizard.Step
	Progress             wizard.Step
}

// StepsFor returns the screen ids used by the named scenario.
func StepsFor(name string) (Steps, error) {
	v, err := lookup(name)
	if err != nil {
		return Steps{}, err
	}
	s := Steps{
		Language:             wizard.StepLanguage,
		InstallationMethod:   wizard.StepInstallationMethod,
		StorageConfiguration: wizard.StepStorageConfiguration,
		CustomMountPoint:     wizard.StepCustomMountPoint,
		Accounts:             wizard.StepAccounts,
		Review:               wizard.StepReview,
		Progress:             wizard.StepProgress,
	}
	if v.storageStep != "" {
		s.StorageConfiguration = v.storageStep
	}
	return s, nil
}

// For builds the wizard graph of the named scenario. hidden lists steps
// hidden by the product variant on top of those the scenario hides.
func For(name string, hidden []wizard.Step, cb Callbacks) (*wizard.Graph, error) {
	v, err := lookup(name)
	if err != nil {
		return nil, err
	}
	s, _ := StepsFor(name)

	// Declaration order matters: predecessors are scanned in this order
	// when planning a path.
	b := wizard.NewBuilder().
		Step(s.Language, s.InstallationMethod).
		Step(s.StorageConfiguration, s.Accounts).
		Step(s.CustomMountPoint, s.Accounts).
		Step(s.Accounts, s.Review).
		Step(s.Review, s.Progress).
		Step(s.Progress)

	if v.skipStorage {
		b.Step(s.InstallationMethod, s.Accounts).
			Hide(s.CustomMountPoint, s.StorageConfiguration)
	} else {
		b.Step(s.InstallationMethod, s.StorageConfiguration, s.CustomMountPoint)
	}

	b.Hide(hidden...).
		Parent(s.CustomMountPoint, s.StorageConfiguration).
		OnEnter(s.Accounts, cb.Accounts).
		OnEnter(s.StorageConfiguration, cb.StorageConfiguration)

	g, err := b.Build()
	if err != nil {
		return nil, errors.Wrapf(errors.Validation, err, "scenario %s", name).WithOp("scenario.For")
	}
	return g, nil
}

func lookup(name string) (variant, error) {
	if name == "" {
		name = EraseAll
	}
	v, ok := variants[name]
	if !ok {
		return variant{}, errors.Newf(errors.NotFound, "unknown scenario %q", name).WithOp("scenario.For")
	}
	return v, nil
}
