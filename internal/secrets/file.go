package secrets

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	fileLockTimeout    = 10 * time.Second
	fileLockRetryDelay = 100 * time.Millisecond
)

// FileStore implements Keystore using one AES-256-GCM encrypted file per service.
// This is a fallback for environments where the OS keyring is unavailable (WSL, headless, Docker).
// Each open handle holds an exclusive lock on the service file until it is closed.
type FileStore struct {
	dir         string
	key         []byte
	lockTimeout time.Duration
}

// NewFileStore creates a file-backed keystore rooted at dir.
// An empty dir means the XDG data directory. If password is empty, a
// machine-specific key is used instead (less secure, prints a warning once).
func NewFileStore(dir, password string) (*FileStore, error) {
	if dir == "" {
		dir = DataDir()
	}

	if password == "" {
		hostname, _ := os.Hostname()
		username := os.Getenv("USER")
		if username == "" {
			username = os.Getenv("USERNAME") // Windows fallback
		}
		password = fmt.Sprintf("%s@%s", username, hostname)
		warnOnce("WARNING: Using machine-specific encryption key. For better security, set CREDBROKER_STORE_PASSWORD.")
	}
	// TODO: derive with scrypt once golang.org/x/crypto is part of the stack
	hash := sha256.Sum256([]byte(password))

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	return &FileStore{
		dir:         dir,
		key:         hash[:],
		lockTimeout: fileLockTimeout,
	}, nil
}

// Path returns the encrypted file holding service's credentials.
func (s *FileStore) Path(service string) string {
	return filepath.Join(s.dir, service+".enc")
}

// Open locks the service file and returns a handle to key.
func (s *FileStore) Open(service, key string) (Entry, error) {
	if err := checkKey(service, key); err != nil {
		return nil, err
	}
	if err := checkFileService(service); err != nil {
		return nil, err
	}

	lock, err := s.lock(service)
	if err != nil {
		return nil, err
	}

	return &fileEntry{store: s, path: s.Path(service), key: key, lock: lock}, nil
}

// Keys returns all credential keys stored for service, sorted.
func (s *FileStore) Keys(service string) ([]string, error) {
	if err := checkFileService(service); err != nil {
		return nil, err
	}

	lock, err := s.lock(service)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	store, err := s.readStore(s.Path(service))
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(store))
	for k := range store {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// checkFileService rejects service names that would escape the store directory.
func checkFileService(service string) error {
	if service == "" || service == "." || service == ".." || strings.ContainsAny(service, `/\`) {
		return fmt.Errorf("%w: service name %q is not a valid file name", ErrInvalidKey, service)
	}
	return nil
}

func (s *FileStore) lock(service string) (*flock.Flock, error) {
	lock := flock.New(s.Path(service) + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, fileLockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to acquire lock: %w", ErrUnavailable, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: failed to acquire lock: timeout", ErrUnavailable)
	}
	return lock, nil
}

// encrypt seals plaintext with AES-256-GCM. The random nonce is prepended to the ciphertext.
func (s *FileStore) encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *FileStore) decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

func (s *FileStore) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// readStore decrypts and parses a credential file.
// A missing or empty file is an empty store.
func (s *FileStore) readStore(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if len(data) == 0 {
		return make(map[string]string), nil
	}

	plaintext, err := s.decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var store map[string]string
	if err := json.Unmarshal(plaintext, &store); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	if store == nil {
		store = make(map[string]string)
	}

	return store, nil
}

// writeStore encrypts the map and replaces the file contents.
func (s *FileStore) writeStore(path string, store map[string]string) error {
	plaintext, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}

	ciphertext, err := s.encrypt(plaintext)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, ciphertext, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}

	return nil
}

type fileEntry struct {
	store *FileStore
	path  string
	key   string
	lock  *flock.Flock
}

func (e *fileEntry) Get() (string, error) {
	store, err := e.store.readStore(e.path)
	if err != nil {
		return "", err
	}

	value, ok := store[e.key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (e *fileEntry) Set(value string) error {
	store, err := e.store.readStore(e.path)
	if err != nil {
		return err
	}

	store[e.key] = value
	return e.store.writeStore(e.path, store)
}

func (e *fileEntry) Delete() error {
	store, err := e.store.readStore(e.path)
	if err != nil {
		return err
	}

	if _, ok := store[e.key]; !ok {
		return ErrNotFound
	}

	delete(store, e.key)
	return e.store.writeStore(e.path, store)
}

// Close releases the service file lock.
func (e *fileEntry) Close() error {
	return e.lock.Unlock()
}
