package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/semmy-space/credbroker/internal/broker"
	"github.com/semmy-space/credbroker/internal/output"
	"github.com/semmy-space/credbroker/internal/secrets"
)

// BrokerProvider lazily opens the keystore and creates the broker.
// Commands that never touch credentials (config, schema) never open a keystore.
type BrokerProvider struct {
	opts    secrets.Options
	verbose bool

	once    sync.Once
	broker  *broker.Broker
	backend string
	err     error
}

// NewBrokerProvider creates a BrokerProvider for the given keystore options.
func NewBrokerProvider(opts secrets.Options, verbose bool) *BrokerProvider {
	return &BrokerProvider{opts: opts, verbose: verbose}
}

// Broker returns the broker, opening the keystore on first call.
func (bp *BrokerProvider) Broker() (*broker.Broker, error) {
	bp.once.Do(func() {
		store, backend, err := secrets.NewStore(bp.opts)
		if err != nil {
			bp.err = keystoreError(err)
			return
		}

		if bp.verbose {
			fmt.Fprintf(os.Stderr, "Using %s backend (service %s)\n", backend, secrets.ServiceName)
		}

		bp.backend = backend
		bp.broker = broker.New(secrets.ServiceName, store)
	})
	return bp.broker, bp.err
}

// Backend returns the name of the backend in use, once Broker has been called.
func (bp *BrokerProvider) Backend() string {
	return bp.backend
}

func keystoreError(err error) *output.CLIError {
	cliErr := &output.CLIError{
		Message: fmt.Sprintf("Failed to initialize keystore: %v", err),
		Err:     err,
	}
	if secretsUnavailable(err) {
		cliErr.ExitCode = output.ExitUnavailable
		return cliErr.WithHint("Use --backend file to store credentials in an encrypted file instead")
	}
	cliErr.ExitCode = output.ExitConfigError
	return cliErr.WithHint("Valid backends: auto, keyring, native, file, memory")
}
