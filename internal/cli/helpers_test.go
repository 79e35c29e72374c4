package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/semmy-space/credbroker/internal/broker"
	"github.com/semmy-space/credbroker/internal/output"
	"github.com/semmy-space/credbroker/internal/secrets"
)

const testService = "credbroker-cli-test"

// testProvider returns a provider whose broker is already open on store.
func testProvider(store secrets.Keystore) *BrokerProvider {
	bp := &BrokerProvider{}
	bp.once.Do(func() {
		bp.backend = secrets.BackendMemory
		bp.broker = broker.New(testService, store)
	})
	return bp
}

func ptr(s string) *string { return &s }

func testFormatter(mode string) (*FormatterProvider, *bytes.Buffer) {
	var out bytes.Buffer
	return &FormatterProvider{
		Formatter: output.NewWithWriters(mode, &out, io.Discard),
		Mode:      mode,
	}, &out
}

func decodeJSON(t *testing.T, buf *bytes.Buffer, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(buf.Bytes(), v))
}

// stubStdin replaces the terminal seams for the duration of a test.
func stubStdin(t *testing.T, input string, tty bool) {
	t.Helper()
	oldStdin, oldTTY, oldRead := stdin, stdinIsTerminal, readPassword
	t.Cleanup(func() {
		stdin, stdinIsTerminal, readPassword = oldStdin, oldTTY, oldRead
	})

	stdin = strings.NewReader(input)
	stdinIsTerminal = func() bool { return tty }
	readPassword = func() ([]byte, error) { return []byte(input), nil }
}

var errBackend = errors.New("backend exploded")

// failingKeystore fails Set for the listed keys and otherwise behaves like MemoryStore.
type failingKeystore struct {
	*secrets.MemoryStore
	failSet map[string]error
}

func newFailingKeystore(failSet map[string]error) *failingKeystore {
	return &failingKeystore{MemoryStore: secrets.NewMemoryStore(), failSet: failSet}
}

func (s *failingKeystore) Open(service, key string) (secrets.Entry, error) {
	e, err := s.MemoryStore.Open(service, key)
	if err != nil {
		return nil, err
	}
	if ferr, ok := s.failSet[key]; ok {
		return failingEntry{Entry: e, err: ferr}, nil
	}
	return e, nil
}

type failingEntry struct {
	secrets.Entry
	err error
}

func (e failingEntry) Set(string) error { return e.err }
