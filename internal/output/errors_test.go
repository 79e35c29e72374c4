package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCLIError(t *testing.T) {
	err := NewCLIError(ExitUnavailable, "keystore unavailable")
	assert.Equal(t, ExitUnavailable, err.ExitCode)
	assert.Equal(t, "keystore unavailable", err.Message)
	assert.Empty(t, err.Hint)
}

func TestCLIErrorWithHint(t *testing.T) {
	err := NewCLIError(ExitUnavailable, "keyring unavailable")
	result := err.WithHint("Run: credbroker --backend file ...")

	// Fluent builder returns same pointer
	assert.Same(t, err, result)
	assert.Equal(t, "Run: credbroker --backend file ...", err.Hint)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("failed to retrieve credential 'a': boom")
	err := Wrap(ExitGeneral, cause)

	assert.Equal(t, cause.Error(), err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitGeneral, ExitCode(errors.New("x")))
	assert.Equal(t, ExitNotFound, ExitCode(NewCLIError(ExitNotFound, "missing")))
}

func TestExitWithError(t *testing.T) {
	var stderr bytes.Buffer
	f := NewWithWriters("plain", &bytes.Buffer{}, &stderr)

	code := ExitWithError(f, NewCLIError(ExitUsage, "bad key").WithHint("keys must not be empty"))
	assert.Equal(t, ExitUsage, code)
	assert.Equal(t, "error: bad key\nhint: keys must not be empty\n", stderr.String())

	stderr.Reset()
	code = ExitWithError(f, errors.New("boom"))
	assert.Equal(t, ExitGeneral, code)
	assert.Contains(t, stderr.String(), "boom")
}
