package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/semmy-space/credbroker/internal/secrets"
)

// OutputModes lists the accepted values for default_output
var OutputModes = []string{"auto", "json", "plain", "rich"}

// Validate checks value against the allowed values for key.
// Keys without a fixed set of values accept anything.
func Validate(key, value string) error {
	switch key {
	case "backend":
		return oneOf("backend", value, secrets.Backends)
	case "default_output":
		return oneOf("output format", value, OutputModes)
	}
	return nil
}

func oneOf(what, value string, valid []string) error {
	if slices.Contains(valid, value) {
		return nil
	}
	return fmt.Errorf("invalid %s: %s. Valid values: %s", what, value, strings.Join(valid, ", "))
}
