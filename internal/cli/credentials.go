package cli

import (
	"fmt"
	"os"

	"github.com/semmy-space/credbroker/internal/output"
	"github.com/semmy-space/credbroker/internal/secrets"
)

// StoreCmd implements the store command
type StoreCmd struct {
	Key   string  `arg:"" help:"Credential key (e.g., acs.accessKey)" predictor:"key"`
	Value *string `arg:"" optional:"" help:"Secret value; prompted for or read from stdin when omitted. An empty argument stores an empty value"`
	Stdin bool    `help:"Read the value from stdin even on a terminal"`
}

// Run executes the store command
func (cmd *StoreCmd) Run(bp *BrokerProvider, fp *FormatterProvider, globals *Globals) error {
	b, err := bp.Broker()
	if err != nil {
		return err
	}

	// An explicit "" argument is a value; only an omitted one is read
	var value string
	if cmd.Value != nil && !cmd.Stdin {
		value = *cmd.Value
	} else {
		value, err = readSecret(cmd.Key, cmd.Stdin, globals.NoInput)
		if err != nil {
			return err
		}
	}

	if err := b.Store(cmd.Key, value); err != nil {
		return credentialError(err)
	}
	if bp.Backend() == secrets.BackendMemory {
		fp.Formatter.PrintHint("The memory backend keeps credentials only until this process exits")
	}

	if fp.JSON() {
		return fp.Formatter.Print(map[string]any{"key": cmd.Key, "stored": true})
	}
	fmt.Fprintf(os.Stderr, "Stored %s\n", cmd.Key)
	return nil
}

// GetCmd implements the get command
type GetCmd struct {
	Key  string `arg:"" help:"Credential key" predictor:"key"`
	Mask bool   `help:"Show only the last 4 characters of the value"`
}

// Run executes the get command. A missing credential exits with ExitNotFound.
func (cmd *GetCmd) Run(bp *BrokerProvider, fp *FormatterProvider) error {
	b, err := bp.Broker()
	if err != nil {
		return err
	}

	value, found, err := b.Get(cmd.Key)
	if err != nil {
		return credentialError(err)
	}
	if !found {
		return notFoundError(cmd.Key)
	}

	if cmd.Mask {
		value = output.MaskSecret(value)
	}

	if fp.JSON() {
		return fp.Formatter.Print(map[string]string{"key": cmd.Key, "value": value})
	}
	return fp.Formatter.Print(value)
}

// DeleteCmd implements the delete command
type DeleteCmd struct {
	Key string `arg:"" help:"Credential key" predictor:"key"`
}

// Run executes the delete command. Deleting a missing credential is not an error.
func (cmd *DeleteCmd) Run(bp *BrokerProvider, fp *FormatterProvider) error {
	b, err := bp.Broker()
	if err != nil {
		return err
	}

	deleted, err := b.Delete(cmd.Key)
	if err != nil {
		return credentialError(err)
	}

	if fp.JSON() {
		return fp.Formatter.Print(map[string]any{"key": cmd.Key, "deleted": deleted})
	}
	if deleted {
		fmt.Fprintf(os.Stderr, "Deleted %s\n", cmd.Key)
	} else {
		fmt.Fprintf(os.Stderr, "No credential stored for %s\n", cmd.Key)
	}
	return nil
}

// ListCmd implements the list command
type ListCmd struct{}

type keyItem struct {
	Key string `json:"key"`
}

// Run executes the list command
func (cmd *ListCmd) Run(bp *BrokerProvider, fp *FormatterProvider) error {
	b, err := bp.Broker()
	if err != nil {
		return err
	}

	keys, err := b.Keys()
	if err != nil {
		return credentialError(err)
	}

	if len(keys) == 0 && !fp.JSON() {
		fmt.Fprintf(os.Stderr, "No credentials stored for %s in the %s backend\n", b.Service(), bp.Backend())
		return nil
	}

	items := make([]keyItem, len(keys))
	for i, k := range keys {
		items[i] = keyItem{Key: k}
	}
	return fp.Formatter.PrintList(items, []output.Column{{Name: "Key", Key: "Key"}})
}
