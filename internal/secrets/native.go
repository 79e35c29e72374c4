package secrets

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"
)

// NativeStore implements Keystore with the platform credential APIs directly
// (Windows Credential Manager, macOS Keychain, Secret Service over D-Bus).
// It cannot enumerate keys.
type NativeStore struct{}

// NewNativeStore creates a keystore backed by go-keyring.
func NewNativeStore() *NativeStore {
	return &NativeStore{}
}

// Open returns a handle addressing (service, key).
func (s *NativeStore) Open(service, key string) (Entry, error) {
	if err := checkKey(service, key); err != nil {
		return nil, err
	}
	return &nativeEntry{service: service, key: key}, nil
}

type nativeEntry struct {
	service string
	key     string
}

func (e *nativeEntry) Get() (string, error) {
	value, err := gokeyring.Get(e.service, e.key)
	if err != nil {
		return "", nativeError("get", err)
	}
	return value, nil
}

func (e *nativeEntry) Set(value string) error {
	if err := gokeyring.Set(e.service, e.key, value); err != nil {
		return nativeError("set", err)
	}
	return nil
}

func (e *nativeEntry) Delete() error {
	if err := gokeyring.Delete(e.service, e.key); err != nil {
		return nativeError("delete", err)
	}
	return nil
}

func (e *nativeEntry) Close() error {
	return nil
}

func nativeError(op string, err error) error {
	if errors.Is(err, gokeyring.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("native keyring %s failed: %w", op, err)
}
