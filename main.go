package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"
	"github.com/willabides/kongplete"

	"github.com/semmy-space/credbroker/internal/cli"
	"github.com/semmy-space/credbroker/internal/output"
)

var (
	version = "dev"
)

func main() {
	cliInstance := &cli.CLI{}
	parser := kong.Must(cliInstance,
		kong.Name("credbroker"),
		kong.Description("Store and retrieve credentials in the OS keystore"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	// Answers shell completion requests and exits; no-op otherwise
	kongplete.Complete(parser,
		kongplete.WithPredictor("key", cli.KeyPredictor()),
	)

	ctx, err := parser.Parse(os.Args[1:])
	// Errors raised while binding dependencies carry their own exit code
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		os.Exit(output.ExitWithError(cliInstance.Formatter(), cliErr))
	}
	parser.FatalIfErrorf(err)

	// Run command with bound dependencies
	if err := ctx.Run(); err != nil {
		os.Exit(output.ExitWithError(cliInstance.Formatter(), err))
	}
}
