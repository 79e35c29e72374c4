package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/semmy-space/credbroker/internal/output"
)

// Terminal access is swapped out in tests.
var (
	stdin           io.Reader = os.Stdin
	stdinIsTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readPassword              = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

// readSecret reads a credential value from stdin.
// On a terminal it prompts without echo, unless prompting is disabled; an empty
// answer there is rejected as a likely slip. Piped input is read to EOF with
// one trailing newline removed and may be empty.
func readSecret(key string, fromStdin, noInput bool) (string, error) {
	if !fromStdin && stdinIsTerminal() {
		if noInput {
			return "", output.NewCLIError(output.ExitUsage, "No value given and prompts are disabled").
				WithHint("Pass the value as an argument or pipe it with --stdin")
		}

		fmt.Fprintf(os.Stderr, "Value for %s: ", key)
		b, err := readPassword()
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read value: %w", err)
		}
		if len(b) == 0 {
			return "", output.Wrap(output.ExitUsage, errors.New("empty value entered")).
				WithHint(`Pass "" as the value argument to store an empty value`)
		}
		return string(b), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read value from stdin: %w", err)
	}

	value := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(value, "\r"), nil
}
