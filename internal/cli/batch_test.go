package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semmy-space/credbroker/internal/broker"
	"github.com/semmy-space/credbroker/internal/output"
	"github.com/semmy-space/credbroker/internal/secrets"
)

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []broker.Pair
		wantErr string
	}{
		{
			name:  "objects",
			input: `[{"key": "acs.accessKey", "value": "A"}, {"key": "acs.secretKey", "value": "S"}]`,
			want:  []broker.Pair{{Key: "acs.accessKey", Value: "A"}, {Key: "acs.secretKey", Value: "S"}},
		},
		{
			name:  "tuples",
			input: `[["acs.accessKey", "A"], ["acs.secretKey", "S"]]`,
			want:  []broker.Pair{{Key: "acs.accessKey", Value: "A"}, {Key: "acs.secretKey", Value: "S"}},
		},
		{
			name: "json5 comments and unquoted keys",
			input: `[
				// bot credentials
				{key: "bot.token", value: "T"}
			]`,
			want: []broker.Pair{{Key: "bot.token", Value: "T"}},
		},
		{
			name:  "order and duplicates kept",
			input: `[["k", "1"], ["k", "2"]]`,
			want:  []broker.Pair{{Key: "k", Value: "1"}, {Key: "k", Value: "2"}},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []broker.Pair{},
		},
		{
			name:    "not an array",
			input:   `{"key": "k", "value": "v"}`,
			wantErr: "failed to parse credentials",
		},
		{
			name:    "tuple of wrong length",
			input:   `[["k"]]`,
			wantErr: "entry 0: expected [key, value]",
		},
		{
			name:    "scalar entry",
			input:   `[["k", "v"], 42]`,
			wantErr: "entry 1",
		},
		{
			name:    "non-string key",
			input:   `[{"key": 7, "value": "v"}]`,
			wantErr: "key must be a string",
		},
		{
			name:    "non-string value",
			input:   `[{"key": "k", "value": 12345}]`,
			wantErr: "entry 0 (k): value must be a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePairs([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePairsDoesNotEchoValues(t *testing.T) {
	_, err := parsePairs([]byte(`[{"key": "k", "value": ["hunter2"]}]`))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestStoreBatchCmdFromStdin(t *testing.T) {
	stubStdin(t, `[["acs.accessKey", "A"], ["acs.secretKey", "S"]]`, false)
	bp := testProvider(secrets.NewMemoryStore())
	fp, out := testFormatter("json")

	require.NoError(t, (&StoreBatchCmd{File: "-"}).Run(bp, fp))

	var result map[string]int
	decodeJSON(t, out, &result)
	assert.Equal(t, 2, result["stored"])
}

func TestStoreBatchCmdFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json5")
	require.NoError(t, os.WriteFile(path, []byte(`[{key: "a", value: "1"}]`), 0600))

	bp := testProvider(secrets.NewMemoryStore())
	fp, out := testFormatter("plain")

	require.NoError(t, (&StoreBatchCmd{File: path}).Run(bp, fp))
	assert.Equal(t, "1\n", out.String())
}

func TestStoreBatchCmdBadInput(t *testing.T) {
	stubStdin(t, `not json`, false)
	bp := testProvider(secrets.NewMemoryStore())
	fp, _ := testFormatter("plain")

	err := (&StoreBatchCmd{File: "-"}).Run(bp, fp)
	require.Error(t, err)
	assert.Equal(t, output.ExitUsage, output.ExitCode(err))
}

func TestStoreBatchCmdStopsAtFailure(t *testing.T) {
	stubStdin(t, `[["a", "1"], ["b", "2"], ["c", "3"]]`, false)
	store := newFailingKeystore(map[string]error{"b": errBackend})
	bp := testProvider(store)
	fp, out := testFormatter("plain")

	err := (&StoreBatchCmd{File: "-"}).Run(bp, fp)
	require.Error(t, err)
	assert.Empty(t, out.String())

	var cliErr *output.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, output.ExitGeneral, cliErr.ExitCode)
	assert.Contains(t, cliErr.Hint, "'b'")

	b, _ := bp.Broker()
	_, found, _ := b.Get("a")
	assert.True(t, found, "entries before the failure are kept")
	_, found, _ = b.Get("c")
	assert.False(t, found, "entries after the failure are not attempted")
}

func TestGetBatchCmd(t *testing.T) {
	bp := testProvider(secrets.NewMemoryStore())
	b, _ := bp.Broker()
	_, err := b.StoreBatch([]broker.Pair{{Key: "z", Value: "26"}, {Key: "a", Value: "1"}})
	require.NoError(t, err)

	keys := []string{"z", "missing", "a", "z"}

	fp, out := testFormatter("json")
	require.NoError(t, (&GetBatchCmd{Keys: keys}).Run(bp, fp))

	var found map[string]string
	decodeJSON(t, out, &found)
	assert.Equal(t, map[string]string{"z": "26", "a": "1"}, found)

	fp, out = testFormatter("plain")
	require.NoError(t, (&GetBatchCmd{Keys: keys}).Run(bp, fp))
	assert.Equal(t, "Key\tValue\nz\t26\na\t1\n", out.String())
}

func TestGetBatchCmdMasked(t *testing.T) {
	bp := testProvider(secrets.NewMemoryStore())
	b, _ := bp.Broker()
	require.NoError(t, b.Store("token", "abcdefgh"))

	fp, out := testFormatter("json")
	require.NoError(t, (&GetBatchCmd{Keys: []string{"token"}, Mask: true}).Run(bp, fp))

	var found map[string]string
	decodeJSON(t, out, &found)
	assert.Equal(t, "****efgh", found["token"])
}

func TestDeleteBatchCmd(t *testing.T) {
	bp := testProvider(secrets.NewMemoryStore())
	b, _ := bp.Broker()
	require.NoError(t, b.Store("a", "1"))
	require.NoError(t, b.Store("b", "2"))

	fp, out := testFormatter("json")
	require.NoError(t, (&DeleteBatchCmd{Keys: []string{"a", "b", "c", "a"}}).Run(bp, fp))

	var result map[string]int
	decodeJSON(t, out, &result)
	assert.Equal(t, 2, result["deleted"])
}
