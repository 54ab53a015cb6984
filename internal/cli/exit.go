package cli

import (
	"context"
	stderrors "errors"

	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/errors"
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) constants.ExitCode {
	if err == nil {
		return constants.ExitSuccess
	}

	var flagErr *FlagError
	if stderrors.As(err, &flagErr) {
		return constants.ExitValidation
	}
	if stderrors.Is(err, context.Canceled) {
		return constants.ExitUserAbort
	}

	switch errors.GetCode(err) {
	case errors.Configuration, errors.Validation, errors.UnknownStep, errors.NotFound:
		return constants.ExitValidation
	case errors.Navigation, errors.DeadEnd, errors.NoPredecessor, errors.UnreachableStep,
		errors.StepSetup, errors.Timeout:
		return constants.ExitNavigation
	case errors.Locked:
		return constants.ExitLocked
	default:
		return constants.ExitError
	}
}
