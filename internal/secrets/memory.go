package secrets

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory Keystore. Values live only as long as the process.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory keystore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[string]map[string]string)}
}

func (s *MemoryStore) Open(service, key string) (Entry, error) {
	if err := checkKey(service, key); err != nil {
		return nil, err
	}
	return &memoryEntry{store: s, service: service, key: key}, nil
}

func (s *MemoryStore) Keys(service string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.secrets[service]))
	for k := range s.secrets[service] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

type memoryEntry struct {
	store   *MemoryStore
	service string
	key     string
}

func (e *memoryEntry) Get() (string, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()
	val, ok := e.store.secrets[e.service][e.key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (e *memoryEntry) Set(value string) error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	if e.store.secrets[e.service] == nil {
		e.store.secrets[e.service] = make(map[string]string)
	}
	e.store.secrets[e.service][e.key] = value
	return nil
}

func (e *memoryEntry) Delete() error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	if _, ok := e.store.secrets[e.service][e.key]; !ok {
		return ErrNotFound
	}
	delete(e.store.secrets[e.service], e.key)
	return nil
}

func (e *memoryEntry) Close() error {
	return nil
}
