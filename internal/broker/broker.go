// Package broker stores, retrieves and deletes named credentials in a
// keystore under one fixed service namespace.
//
// The broker holds no state besides the namespace and the keystore. Every
// operation opens a fresh handle per key and closes it before returning.
// A missing credential is a normal result, never an error; anything else the
// keystore reports is returned as *StoreError, *AccessError or
// *ConstructionError carrying the key (never the value).
//
// Batch operations apply the single-key operation to each key in order and
// stop at the first failure. They are not transactions: work done before the
// failure is kept.
package broker

import (
	"errors"

	"github.com/semmy-space/credbroker/internal/secrets"
)

// Pair is one credential in a StoreBatch call.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Broker is a stateless facade over a keystore.
type Broker struct {
	service string
	store   secrets.Keystore
}

// New creates a broker for the given service namespace.
func New(service string, store secrets.Keystore) *Broker {
	return &Broker{service: service, store: store}
}

// Service returns the namespace every credential is stored under.
func (b *Broker) Service() string {
	return b.service
}

// withEntry opens a handle to key, runs fn, and always releases the handle.
func (b *Broker) withEntry(key string, fn func(secrets.Entry) error) error {
	entry, err := b.store.Open(b.service, key)
	if err != nil {
		return &ConstructionError{Key: key, Err: err}
	}
	defer entry.Close()

	return fn(entry)
}

// Store saves value under key, replacing any existing value.
func (b *Broker) Store(key, value string) error {
	return b.withEntry(key, func(e secrets.Entry) error {
		if err := e.Set(value); err != nil {
			return &StoreError{Key: key, Err: err}
		}
		return nil
	})
}

// Get returns the value stored under key. found is false when nothing is stored.
func (b *Broker) Get(key string) (value string, found bool, err error) {
	err = b.withEntry(key, func(e secrets.Entry) error {
		v, gerr := e.Get()
		switch {
		case gerr == nil:
			value, found = v, true
			return nil
		case errors.Is(gerr, secrets.ErrNotFound):
			return nil
		default:
			return &AccessError{Op: "retrieve", Key: key, Err: gerr}
		}
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// Delete removes key. It reports whether a value existed.
func (b *Broker) Delete(key string) (bool, error) {
	var deleted bool
	err := b.withEntry(key, func(e secrets.Entry) error {
		derr := e.Delete()
		switch {
		case derr == nil:
			deleted = true
			return nil
		case errors.Is(derr, secrets.ErrNotFound):
			return nil
		default:
			return &AccessError{Op: "delete", Key: key, Err: derr}
		}
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// StoreBatch stores pairs in order and returns how many were stored.
// It stops at the first failure and returns only that error; pairs stored
// before it are not rolled back and pairs after it are not attempted.
func (b *Broker) StoreBatch(pairs []Pair) (int, error) {
	for _, p := range pairs {
		if err := b.Store(p.Key, p.Value); err != nil {
			return 0, err
		}
	}
	return len(pairs), nil
}

// GetBatch looks up keys in order. Absent keys are left out of the result.
// The first unexpected keystore failure aborts the remaining keys.
func (b *Broker) GetBatch(keys []string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	for _, key := range keys {
		value, found, err := b.Get(key)
		if err != nil {
			return nil, err
		}
		if found {
			result[key] = value
		}
	}
	return result, nil
}

// DeleteBatch deletes keys in order and returns how many actually existed.
// The first unexpected keystore failure aborts the remaining keys.
func (b *Broker) DeleteBatch(keys []string) (int, error) {
	count := 0
	for _, key := range keys {
		deleted, err := b.Delete(key)
		if err != nil {
			return 0, err
		}
		if deleted {
			count++
		}
	}
	return count, nil
}

// Keys lists the credential keys in the namespace, if the keystore can enumerate them.
func (b *Broker) Keys() ([]string, error) {
	lister, ok := b.store.(secrets.Lister)
	if !ok {
		return nil, &AccessError{Op: "list", Err: secrets.ErrListUnsupported}
	}

	keys, err := lister.Keys(b.service)
	if err != nil {
		return nil, &AccessError{Op: "list", Err: err}
	}
	return keys, nil
}
