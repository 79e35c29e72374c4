package broker

import (
	"errors"
	"fmt"
)

// StoreError is returned when a credential could not be written.
type StoreError struct {
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to store credential '%s': %v", e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// AccessError is returned when reading, deleting or listing fails for a
// reason other than the credential being absent.
type AccessError struct {
	Op  string // "retrieve", "delete" or "list"
	Key string
	Err error
}

func (e *AccessError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to %s credentials: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s credential '%s': %v", e.Op, e.Key, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// ConstructionError is returned when the keystore handle for a key could not
// be created. No read or write was attempted.
type ConstructionError struct {
	Key string
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to create keystore entry for '%s': %v", e.Key, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// FailedKey returns the key named by a broker error, if any.
func FailedKey(err error) (string, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Key, true
	}
	var ae *AccessError
	if errors.As(err, &ae) && ae.Key != "" {
		return ae.Key, true
	}
	var ce *ConstructionError
	if errors.As(err, &ce) {
		return ce.Key, true
	}
	return "", false
}
