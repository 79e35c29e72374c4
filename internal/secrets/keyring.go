package secrets

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"
)

// KeyringStore implements Keystore using the OS keyring.
// Every handle opens its own keyring session scoped to the requested service.
type KeyringStore struct {
	cfg  keyring.Config
	open func(keyring.Config) (keyring.Keyring, error)
}

// NewKeyringStore creates a keyring-backed keystore.
// Returns an error wrapping ErrUnavailable if no keyring backend can be opened.
func NewKeyringStore(password string) (*KeyringStore, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		KeychainTrustApplication: true, // macOS: don't prompt every access
		FileDir:                  filepath.Join(DataDir(), "keyring"),
		FilePasswordFunc:         keyring.TerminalPrompt,
	}
	if password != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(password)
	}

	s := newKeyringStore(cfg, keyring.Open)

	// Probe once so callers can fall back before the first real operation
	if _, err := s.session(ServiceName); err != nil {
		return nil, err
	}

	return s, nil
}

func newKeyringStore(cfg keyring.Config, open func(keyring.Config) (keyring.Keyring, error)) *KeyringStore {
	return &KeyringStore{cfg: cfg, open: open}
}

func (s *KeyringStore) session(service string) (keyring.Keyring, error) {
	cfg := s.cfg
	cfg.ServiceName = service
	cfg.KWalletFolder = service
	cfg.LibSecretCollectionName = service

	ring, err := s.open(cfg)
	if err != nil {
		if errors.Is(err, keyring.ErrNoAvailImpl) {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring, nil
}

// Open returns a handle to key in the service's keyring.
func (s *KeyringStore) Open(service, key string) (Entry, error) {
	if err := checkKey(service, key); err != nil {
		return nil, err
	}

	ring, err := s.session(service)
	if err != nil {
		return nil, err
	}

	return &keyringEntry{ring: ring, key: key}, nil
}

// Keys returns all credential keys stored for service.
func (s *KeyringStore) Keys(service string) ([]string, error) {
	ring, err := s.session(service)
	if err != nil {
		return nil, err
	}

	keys, err := ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("keyring list failed: %w", err)
	}
	return keys, nil
}

type keyringEntry struct {
	ring keyring.Keyring
	key  string
}

func (e *keyringEntry) Get() (string, error) {
	item, err := e.ring.Get(e.key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("keyring get failed: %w", err)
	}
	return string(item.Data), nil
}

func (e *keyringEntry) Set(value string) error {
	item := keyring.Item{
		Key:   e.key,
		Data:  []byte(value),
		Label: fmt.Sprintf("%s: %s", ServiceName, e.key),
	}
	if err := e.ring.Set(item); err != nil {
		return fmt.Errorf("keyring set failed: %w", err)
	}
	return nil
}

// Delete removes the item. Several keyring backends report success when
// removing a missing item, so presence is checked first.
func (e *keyringEntry) Delete() error {
	if _, err := e.Get(); err != nil {
		return err
	}

	if err := e.ring.Remove(e.key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("keyring delete failed: %w", err)
	}
	return nil
}

// Close is a no-op; keyring sessions hold no resources between calls.
func (e *keyringEntry) Close() error {
	return nil
}
