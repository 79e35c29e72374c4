package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// Backend names accepted by NewStore
const (
	BackendAuto    = "auto"
	BackendKeyring = "keyring"
	BackendNative  = "native"
	BackendFile    = "file"
	BackendMemory  = "memory"
)

// Backends lists every backend name, in the order they are documented
var Backends = []string{BackendAuto, BackendKeyring, BackendNative, BackendFile, BackendMemory}

// Options selects and configures the keystore returned by NewStore.
type Options struct {
	Backend  string // one of Backends; empty means auto
	FileDir  string // file backend directory; empty means the XDG data dir
	Password string // file/keyring file password; empty means machine default or prompt
}

// warningShown checks if the fallback warning has already been shown.
// Uses a marker file in the data directory to avoid repeating on every command.
func warningShown() bool {
	return fileExists(warningMarkerPath())
}

func markWarningShown() {
	path := warningMarkerPath()
	_ = os.MkdirAll(filepath.Dir(path), 0700)
	_ = os.WriteFile(path, []byte("1"), 0600)
}

func warningMarkerPath() string {
	return filepath.Join(DataDir(), ".file-store-warning-shown")
}

// DataDir returns the XDG-compliant data directory
// Typically ~/.local/share/credbroker/ on Linux; the file backend lives here
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// quietMode returns true if the user has suppressed warnings via CREDBROKER_QUIET.
func quietMode() bool {
	return os.Getenv("CREDBROKER_QUIET") == "1" || os.Getenv("CREDBROKER_QUIET") == "true"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// warnOnce prints a message to stderr, but only until markWarningsDone is called.
// Set CREDBROKER_QUIET=1 to suppress entirely.
func warnOnce(msg string) {
	if quietMode() || warningShown() {
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

func markWarningsDone() {
	if !warningShown() {
		markWarningShown()
	}
}

// NewStore creates the Keystore named by opts.Backend.
// For auto it tries the OS keyring first and falls back to the encrypted file
// store when the keyring is unavailable; WSL and headless Linux go straight
// to the file store. It also reports the backend actually chosen.
func NewStore(opts Options) (Keystore, string, error) {
	switch opts.Backend {
	case BackendKeyring:
		s, err := NewKeyringStore(opts.Password)
		if err != nil {
			return nil, "", err
		}
		return s, BackendKeyring, nil
	case BackendNative:
		return NewNativeStore(), BackendNative, nil
	case BackendFile:
		s, err := NewFileStore(opts.FileDir, opts.Password)
		if err != nil {
			return nil, "", err
		}
		if opts.Password == "" {
			markWarningsDone() // machine-key warning was shown
		}
		return s, BackendFile, nil
	case BackendMemory:
		return NewMemoryStore(), BackendMemory, nil
	case "", BackendAuto:
		return newAutoStore(opts)
	default:
		return nil, "", fmt.Errorf("unknown backend: %s", opts.Backend)
	}
}

func newAutoStore(opts Options) (Keystore, string, error) {
	// WSL and headless environments can't use keyring reliably
	if IsWSL() || IsHeadless() {
		warnOnce("Detected WSL/headless environment, using encrypted file storage")
		s, err := NewFileStore(opts.FileDir, opts.Password)
		if err != nil {
			return nil, "", err
		}
		markWarningsDone()
		return s, BackendFile, nil
	}

	ks, err := NewKeyringStore(opts.Password)
	if err != nil {
		warnOnce(fmt.Sprintf("Keyring unavailable (%v), falling back to encrypted file", err))
		fs, ferr := NewFileStore(opts.FileDir, opts.Password)
		if ferr != nil {
			return nil, "", ferr
		}
		markWarningsDone()
		return fs, BackendFile, nil
	}

	return ks, BackendKeyring, nil
}

// IsWSL returns true if running under Windows Subsystem for Linux.
func IsWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}

	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// IsHeadless returns true if running without a display server.
// Only applicable on Linux; macOS and Windows are assumed to have GUI.
func IsHeadless() bool {
	if runtime.GOOS != "linux" {
		return false
	}

	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}
