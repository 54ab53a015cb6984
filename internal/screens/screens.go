// Package screens provides the setup callbacks that fill in wizard screens
// so navigation can continue past them.
package screens

import (
	"context"

	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/scenario"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// Form is the part of the rendering surface the callbacks need.
type Form interface {
	// SetInputText replaces the value of the input matched by selector.
	SetInputText(ctx context.Context, selector, value string) error
	// SetChecked sets the checked state of the checkbox matched by selector.
	SetChecked(ctx context.Context, selector string, checked bool) error
}

// Account is the user created on the accounts screen.
type Account struct {
	UserName string
	Password string
}

// DefaultAccount returns the account used when none is configured.
func DefaultAccount() Account {
	return Account{UserName: constants.DefaultUserName, Password: constants.DefaultPassword}
}

// CreateUser returns a callback that fills the user creation form: password,
// confirmation, then the user name.
func CreateUser(form Form, account Account, logger logging.Logger) wizard.Callback {
	return wizard.CallbackFunc(func(ctx context.Context, step wizard.Step) error {
		logger.Debug("creating user", "step", step, "user", account.UserName)
		fields := []struct{ selector, value string }{
			{constants.SelectorPassword, account.Password},
			{constants.SelectorPasswordConfirm, account.Password},
			{constants.SelectorUserName, account.UserName},
		}
		for _, f := range fields {
			if err := form.SetInputText(ctx, f.selector, f.value); err != nil {
				return errors.Wrapf(errors.StepSetup, err, "fill %s", f.selector).WithOp("screens.CreateUser")
			}
		}
		return nil
	})
}

// StorageEncryption returns a callback that sets the disk encryption
// checkbox to encrypt.
func StorageEncryption(form Form, encrypt bool, logger logging.Logger) wizard.Callback {
	return wizard.CallbackFunc(func(ctx context.Context, step wizard.Step) error {
		logger.Debug("setting disk encryption", "step", step, "encrypt", encrypt)
		if err := form.SetChecked(ctx, constants.SelectorEncryptDevices, encrypt); err != nil {
			return errors.Wrap(errors.StepSetup, "set disk encryption", err).WithOp("screens.StorageEncryption")
		}
		return nil
	})
}

// Callbacks returns the stock wizard callbacks bound to form.
func Callbacks(form Form, account Account, encrypt bool, logger logging.Logger) scenario.Callbacks {
	if logger == nil {
		logger = logging.NewNop()
	}
	return scenario.Callbacks{
		Accounts:             CreateUser(form, account, logger),
		StorageConfiguration: StorageEncryption(form, encrypt, logger),
	}
}

// ConfirmationCheckbox returns the selector of the confirmation checkbox on
// review screen step.
func ConfirmationCheckbox(step wizard.Step) string {
	return "#" + step.String() + constants.SuffixConfirmationCheckbox
}
