package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testService = "credbroker-test"

func set(t *testing.T, ks Keystore, key, value string) {
	t.Helper()
	e, err := ks.Open(testService, key)
	require.NoError(t, err)
	defer e.Close()
	require.NoError(t, e.Set(value))
}

func get(t *testing.T, ks Keystore, key string) (string, error) {
	t.Helper()
	e, err := ks.Open(testService, key)
	require.NoError(t, err)
	defer e.Close()
	return e.Get()
}

func del(t *testing.T, ks Keystore, key string) error {
	t.Helper()
	e, err := ks.Open(testService, key)
	require.NoError(t, err)
	defer e.Close()
	return e.Delete()
}

// runKeystoreContract checks the behaviour every backend must share.
func runKeystoreContract(t *testing.T, newStore func(t *testing.T) Keystore) {
	t.Run("set and get", func(t *testing.T) {
		ks := newStore(t)
		set(t, ks, "acs.accessKey", "secret1")

		val, err := get(t, ks, "acs.accessKey")
		require.NoError(t, err)
		assert.Equal(t, "secret1", val)
	})

	t.Run("set overwrites", func(t *testing.T) {
		ks := newStore(t)
		set(t, ks, "overwrite", "first")
		set(t, ks, "overwrite", "second")

		val, err := get(t, ks, "overwrite")
		require.NoError(t, err)
		assert.Equal(t, "second", val)
	})

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		ks := newStore(t)
		_, err := get(t, ks, "never.stored")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete then get", func(t *testing.T) {
		ks := newStore(t)
		set(t, ks, "to.delete", "gone soon")

		require.NoError(t, del(t, ks, "to.delete"))

		_, err := get(t, ks, "to.delete")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete missing returns ErrNotFound", func(t *testing.T) {
		ks := newStore(t)
		assert.ErrorIs(t, del(t, ks, "never.stored"), ErrNotFound)
	})

	t.Run("empty key is invalid", func(t *testing.T) {
		ks := newStore(t)
		_, err := ks.Open(testService, "")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("empty service is invalid", func(t *testing.T) {
		ks := newStore(t)
		_, err := ks.Open("", "key")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestCheckKey(t *testing.T) {
	assert.NoError(t, checkKey("svc", "a.b.c"))
	assert.ErrorIs(t, checkKey("", "a"), ErrInvalidKey)
	assert.ErrorIs(t, checkKey("svc", ""), ErrInvalidKey)
}
