package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/credbroker/internal/config"
	"github.com/semmy-space/credbroker/internal/output"
	"github.com/semmy-space/credbroker/internal/secrets"
)

// FormatterProvider wraps the formatter interface for Kong binding
type FormatterProvider struct {
	Formatter output.Formatter
	Mode      string
}

// JSON reports whether results should be printed as JSON
func (fp *FormatterProvider) JSON() bool {
	return fp.Mode == "json"
}

// CLI is the root command structure
type CLI struct {
	Globals

	Store       StoreCmd                     `cmd:"" help:"Store a credential"`
	Get         GetCmd                       `cmd:"" help:"Print a stored credential"`
	Delete      DeleteCmd                    `cmd:"" help:"Delete a credential"`
	StoreBatch  StoreBatchCmd                `cmd:"" name:"store-batch" help:"Store credentials from a JSON5 file, stopping at the first failure"`
	GetBatch    GetBatchCmd                  `cmd:"" name:"get-batch" help:"Print several credentials, skipping missing ones"`
	DeleteBatch DeleteBatchCmd               `cmd:"" name:"delete-batch" help:"Delete several credentials and print how many existed"`
	List        ListCmd                      `cmd:"" help:"List stored credential keys"`
	Config      ConfigCmd                    `cmd:"" help:"Configuration commands"`
	Schema      SchemaCmd                    `cmd:"" help:"Print the command tree as JSON"`
	Completion  kongplete.InstallCompletions `cmd:"" help:"Install shell completions"`
	Version     VersionCmd                   `cmd:"" help:"Show version information"`

	formatter output.Formatter
}

// AfterApply runs once flags are parsed, before any command executes.
// It loads config, resolves the backend and output mode, and binds dependencies.
func (c *CLI) AfterApply(ctx *kong.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return output.Wrap(output.ExitConfigError, err).WithHint(fmt.Sprintf("Check %s", config.ConfigPath()))
	}

	// Backend: CLI flag/env > config > auto. cfg is saved by config set/unset
	// and must keep only what was loaded.
	backend := c.Backend
	if backend == "" {
		backend = cfg.Backend
	}
	if backend == "" {
		backend = secrets.BackendAuto
	}

	mode := c.ResolvedOutput(cfg.DefaultOutput)
	formatter := &FormatterProvider{Mode: mode}
	if mode == "json" {
		formatter.Formatter = output.NewJSON(c.ResultsOnly)
	} else {
		formatter.Formatter = output.New(mode)
	}
	c.formatter = formatter.Formatter

	provider := NewBrokerProvider(secrets.Options{
		Backend:  backend,
		FileDir:  cfg.FileDir,
		Password: os.Getenv("CREDBROKER_STORE_PASSWORD"),
	}, c.Verbose)

	ctx.Bind(cfg)
	ctx.Bind(formatter)
	ctx.Bind(&c.Globals)
	ctx.Bind(provider)

	return nil
}

// Formatter returns the formatter chosen for this invocation, or plain output
// if parsing never got that far.
func (c *CLI) Formatter() output.Formatter {
	if c.formatter == nil {
		return output.New("plain")
	}
	return c.formatter
}

// ConfigCmd holds configuration subcommands
type ConfigCmd struct {
	Get   ConfigGetCmd        `cmd:"" help:"Get a configuration value"`
	Set   ConfigSetCmd        `cmd:"" help:"Set a configuration value"`
	Unset ConfigUnsetCmd      `cmd:"" help:"Remove a configuration value"`
	List  ConfigListConfigCmd `cmd:"" name:"list" help:"List all configuration values"`
	Path  ConfigPathCmd       `cmd:"" help:"Show config file path"`
}

// VersionCmd shows version information
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *kong.Context) error {
	version := ctx.Model.Vars()["version"]
	fmt.Fprintf(ctx.Stdout, "%s version %s\n", secrets.AppName, version)
	return nil
}
