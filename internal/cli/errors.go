package cli

import (
	"errors"
	"fmt"

	"github.com/semmy-space/credbroker/internal/broker"
	"github.com/semmy-space/credbroker/internal/output"
	"github.com/semmy-space/credbroker/internal/secrets"
)

func secretsUnavailable(err error) bool {
	return errors.Is(err, secrets.ErrUnavailable)
}

// credentialError maps a broker error to a CLI error with a matching exit code.
func credentialError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case secretsUnavailable(err):
		return output.Wrap(output.ExitUnavailable, err).
			WithHint("Check that the OS keyring is running and unlocked, or use --backend file")
	case errors.Is(err, secrets.ErrInvalidKey):
		return output.Wrap(output.ExitUsage, err)
	case errors.Is(err, secrets.ErrListUnsupported):
		return output.Wrap(output.ExitUsage, err).
			WithHint("The native backend cannot enumerate credentials; use --backend keyring or file")
	default:
		return output.Wrap(output.ExitGeneral, err)
	}
}

// batchError maps a batch failure and notes where processing stopped.
func batchError(err error) error {
	cliErr, ok := credentialError(err).(*output.CLIError)
	if !ok {
		return err
	}
	if key, found := broker.FailedKey(err); found && cliErr.Hint == "" {
		cliErr.Hint = fmt.Sprintf("Processing stopped at '%s'; entries before it were kept and the rest were not attempted", key)
	}
	return cliErr
}

func notFoundError(key string) error {
	return output.NewCLIError(output.ExitNotFound, fmt.Sprintf("Credential not found: %s", key))
}
