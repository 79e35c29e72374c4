package secrets

import (
	"errors"
	"fmt"
)

// Keystore opens short-lived handles to individual credentials.
// A handle must be closed by the caller once the operation is done.
type Keystore interface {
	Open(service, key string) (Entry, error)
}

// Entry is a handle to a single credential within a service namespace.
type Entry interface {
	Get() (string, error)
	Set(value string) error
	Delete() error
	Close() error
}

// Lister is implemented by keystores that can enumerate stored keys.
type Lister interface {
	Keys(service string) ([]string, error)
}

var (
	// ErrNotFound is returned when no value is stored for a key
	ErrNotFound = errors.New("credential not found")

	// ErrInvalidKey is returned by Open when the service/key pair cannot address a credential
	ErrInvalidKey = errors.New("invalid credential key")

	// ErrUnavailable marks failures where the backend itself could not be reached
	ErrUnavailable = errors.New("keystore unavailable")

	// ErrListUnsupported is returned by keystores that cannot enumerate keys
	ErrListUnsupported = errors.New("keystore does not support listing")
)

// ServiceName is the namespace all credentials of this application live under
const ServiceName = "teams-agent-bridge"

// AppName names the on-disk directories and the binary
const AppName = "credbroker"

func checkKey(service, key string) error {
	if service == "" {
		return fmt.Errorf("%w: empty service name", ErrInvalidKey)
	}
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	return nil
}
