package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Backend)
	assert.Equal(t, path, cfg.Path())
}

func TestLoadFileParsesJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	data := `{
  // comments and trailing commas are fine
  backend: "file",
  default_output: 'json',
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Backend)
	assert.Equal(t, "json", cfg.DefaultOutput)
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSetSavesAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json5")
	cfg, err := LoadFile(path)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("backend", "native"))
	require.NoError(t, cfg.Set("file_dir", "/tmp/creds"))

	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "native", reloaded.Backend)
	assert.Equal(t, "/tmp/creds", reloaded.FileDir)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestGetSetUnset(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)

	t.Run("unknown key", func(t *testing.T) {
		_, err := cfg.Get("endpoint")
		assert.ErrorContains(t, err, "unknown config key")
		assert.ErrorContains(t, cfg.Set("endpoint", "x"), "unknown config key")
		assert.ErrorContains(t, cfg.Unset("endpoint"), "unknown config key")
	})

	t.Run("invalid value is rejected", func(t *testing.T) {
		err := cfg.Set("backend", "vault")
		assert.ErrorContains(t, err, "invalid backend")
		assert.Empty(t, cfg.Backend)
	})

	t.Run("set then unset", func(t *testing.T) {
		require.NoError(t, cfg.Set("default_output", "plain"))
		val, err := cfg.Get("default_output")
		require.NoError(t, err)
		assert.Equal(t, "plain", val)

		require.NoError(t, cfg.Unset("default_output"))
		val, err = cfg.Get("default_output")
		require.NoError(t, err)
		assert.Empty(t, val)
	})
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"backend", "default_output", "file_dir"}, Keys())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{name: "auto backend", key: "backend", value: "auto"},
		{name: "keyring backend", key: "backend", value: "keyring"},
		{name: "memory backend", key: "backend", value: "memory"},
		{name: "unknown backend", key: "backend", value: "vault", wantErr: true},
		{name: "json output", key: "default_output", value: "json"},
		{name: "bad output", key: "default_output", value: "yaml", wantErr: true},
		{name: "free-form key", key: "file_dir", value: "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.key, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
