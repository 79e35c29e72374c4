package cli

import (
	"os"

	"golang.org/x/term"
)

// Globals holds global flags available to all commands
type Globals struct {
	Backend     string `help:"Keystore backend (memory keeps nothing after the process exits; for tests)" default:"" enum:"auto,keyring,native,file,memory," env:"CREDBROKER_BACKEND"`
	Output      string `help:"Output format" default:"auto" enum:"json,plain,rich,auto" short:"o" env:"CREDBROKER_OUTPUT"`
	Verbose     bool   `help:"Verbose output" short:"v" env:"CREDBROKER_VERBOSE"`
	ResultsOnly bool   `help:"Strip JSON envelope, return data array only" env:"CREDBROKER_RESULTS_ONLY"`
	NoInput     bool   `help:"Disable interactive prompts (fail instead)" env:"CREDBROKER_NO_INPUT"`
}

// ResolvedOutput returns the effective output mode.
// "auto" falls back to the configured default, then detects TTY:
// if stdout is a TTY -> rich, else -> plain
func (g *Globals) ResolvedOutput(configured string) string {
	if g.Output != "" && g.Output != "auto" {
		return g.Output
	}
	if configured != "" && configured != "auto" {
		return configured
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "rich"
	}

	return "plain"
}
