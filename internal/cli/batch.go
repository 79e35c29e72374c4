package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/semmy-space/credbroker/internal/broker"
	"github.com/semmy-space/credbroker/internal/output"
)

// StoreBatchCmd implements the store-batch command
type StoreBatchCmd struct {
	File string `arg:"" optional:"" default:"-" help:"JSON5 file of credentials; - reads stdin"`
}

// Run executes the store-batch command
func (cmd *StoreBatchCmd) Run(bp *BrokerProvider, fp *FormatterProvider) error {
	data, err := cmd.read()
	if err != nil {
		return output.Wrap(output.ExitUsage, err)
	}

	pairs, err := parsePairs(data)
	if err != nil {
		return output.Wrap(output.ExitUsage, err).
			WithHint(`Expected [{"key": "...", "value": "..."}] or [["key", "value"]]`)
	}

	b, err := bp.Broker()
	if err != nil {
		return err
	}

	n, err := b.StoreBatch(pairs)
	if err != nil {
		return batchError(err)
	}

	if fp.JSON() {
		return fp.Formatter.Print(map[string]int{"stored": n})
	}
	return fp.Formatter.Print(n)
}

func (cmd *StoreBatchCmd) read() ([]byte, error) {
	if cmd.File == "" || cmd.File == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cmd.File, err)
	}
	return data, nil
}

// parsePairs decodes an ordered JSON5 array of credentials. Each element is
// either an object with "key" and "value" or a two-element [key, value] array.
func parsePairs(data []byte) ([]broker.Pair, error) {
	var raw []any
	if err := json5.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	pairs := make([]broker.Pair, 0, len(raw))
	for i, elem := range raw {
		var key, value any
		switch v := elem.(type) {
		case []any:
			if len(v) != 2 {
				return nil, fmt.Errorf("entry %d: expected [key, value], got %d elements", i, len(v))
			}
			key, value = v[0], v[1]
		case map[string]any:
			key, value = v["key"], v["value"]
		default:
			return nil, fmt.Errorf("entry %d: expected an object or a [key, value] array", i)
		}

		k, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("entry %d: key must be a string", i)
		}
		val, ok := value.(string)
		if !ok {
			// The value is deliberately not echoed back
			return nil, fmt.Errorf("entry %d (%s): value must be a string", i, k)
		}
		pairs = append(pairs, broker.Pair{Key: k, Value: val})
	}

	return pairs, nil
}

// GetBatchCmd implements the get-batch command
type GetBatchCmd struct {
	Keys []string `arg:"" help:"Credential keys" predictor:"key"`
	Mask bool     `help:"Show only the last 4 characters of each value"`
}

type credentialItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Run executes the get-batch command. Missing keys are left out of the output.
func (cmd *GetBatchCmd) Run(bp *BrokerProvider, fp *FormatterProvider) error {
	b, err := bp.Broker()
	if err != nil {
		return err
	}

	found, err := b.GetBatch(cmd.Keys)
	if err != nil {
		return batchError(err)
	}

	if cmd.Mask {
		for k, v := range found {
			found[k] = output.MaskSecret(v)
		}
	}

	if fp.JSON() {
		return fp.Formatter.Print(found)
	}

	// Keep the caller's key order; the map has none
	items := make([]credentialItem, 0, len(found))
	seen := make(map[string]bool, len(found))
	for _, k := range cmd.Keys {
		if v, ok := found[k]; ok && !seen[k] {
			items = append(items, credentialItem{Key: k, Value: v})
			seen[k] = true
		}
	}
	return fp.Formatter.PrintList(items, []output.Column{
		{Name: "Key", Key: "Key"},
		{Name: "Value", Key: "Value"},
	})
}

// DeleteBatchCmd implements the delete-batch command
type DeleteBatchCmd struct {
	Keys []string `arg:"" help:"Credential keys" predictor:"key"`
}

// Run executes the delete-batch command and prints how many credentials existed.
func (cmd *DeleteBatchCmd) Run(bp *BrokerProvider, fp *FormatterProvider) error {
	b, err := bp.Broker()
	if err != nil {
		return err
	}

	n, err := b.DeleteBatch(cmd.Keys)
	if err != nil {
		return batchError(err)
	}

	if fp.JSON() {
		return fp.Formatter.Print(map[string]int{"deleted": n})
	}
	return fp.Formatter.Print(n)
}
