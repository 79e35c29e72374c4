package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
)

// SchemaCmd prints the command tree as JSON so scripts and agents can discover
// commands, flags and their environment variables.
type SchemaCmd struct {
	Command string `arg:"" optional:"" help:"Command path to show schema for (e.g., 'config set')"`
	All     bool   `help:"Include hidden commands and flags"`
}

// SchemaNode is one command in the tree
type SchemaNode struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"` // "application", "command", "argument"
	Help     string        `json:"help,omitempty"`
	Aliases  []string      `json:"aliases,omitempty"`
	Hidden   bool          `json:"hidden,omitempty"`
	Children []*SchemaNode `json:"commands,omitempty"`
	Flags    []*SchemaFlag `json:"flags,omitempty"`
	Args     []*SchemaArg  `json:"args,omitempty"`
}

// SchemaFlag describes a flag
type SchemaFlag struct {
	Name     string   `json:"name"`
	Help     string   `json:"help,omitempty"`
	Type     string   `json:"type"`
	Required bool     `json:"required,omitempty"`
	Default  string   `json:"default,omitempty"`
	Enum     []string `json:"enum,omitempty"`
	Short    string   `json:"short,omitempty"`
	Env      []string `json:"env,omitempty"`
}

// SchemaArg describes a positional argument
type SchemaArg struct {
	Name     string `json:"name"`
	Help     string `json:"help,omitempty"`
	Required bool   `json:"required,omitempty"`
	Default  string `json:"default,omitempty"`
}

func (cmd *SchemaCmd) Run(ctx *kong.Context) error {
	target := ctx.Model.Node
	if cmd.Command != "" {
		var err error
		target, err = findNodeByPath(target, cmd.Command)
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(ctx.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(buildSchemaNode(target, cmd.All))
}

func buildSchemaNode(node *kong.Node, all bool) *SchemaNode {
	schema := &SchemaNode{
		Name:    node.Name,
		Type:    nodeTypeString(node.Type),
		Help:    node.Help,
		Aliases: node.Aliases,
		Hidden:  node.Hidden,
	}

	for _, flag := range node.Flags {
		// --help is implicit on every node
		if flag.Name == "help" || (flag.Hidden && !all) {
			continue
		}
		schema.Flags = append(schema.Flags, schemaFlag(flag))
	}

	for _, arg := range node.Positional {
		schema.Args = append(schema.Args, &SchemaArg{
			Name:     arg.Name,
			Help:     arg.Help,
			Required: arg.Required,
			Default:  arg.Default,
		})
	}

	for _, child := range node.Children {
		if child.Hidden && !all {
			continue
		}
		schema.Children = append(schema.Children, buildSchemaNode(child, all))
	}

	return schema
}

func schemaFlag(flag *kong.Flag) *SchemaFlag {
	typeName := "string"
	if flag.Value != nil && flag.Value.Target.IsValid() {
		typeName = fmt.Sprintf("%T", flag.Value.Target.Interface())
	}

	sf := &SchemaFlag{
		Name:     flag.Name,
		Help:     flag.Help,
		Type:     typeName,
		Required: flag.Required,
		Default:  flag.Default,
		Env:      flag.Envs,
	}
	if flag.Short != 0 {
		sf.Short = string(flag.Short)
	}
	if flag.Enum != "" {
		for _, v := range strings.Split(flag.Enum, ",") {
			if v = strings.TrimSpace(v); v != "" {
				sf.Enum = append(sf.Enum, v)
			}
		}
	}
	return sf
}

// findNodeByPath walks the tree along a space separated command path
func findNodeByPath(root *kong.Node, path string) (*kong.Node, error) {
	current := root
	for _, part := range strings.Fields(path) {
		next := childNamed(current, part)
		if next == nil {
			return nil, fmt.Errorf("command not found: %s", path)
		}
		current = next
	}
	return current, nil
}

func childNamed(node *kong.Node, name string) *kong.Node {
	for _, child := range node.Children {
		if child.Name == name {
			return child
		}
		for _, alias := range child.Aliases {
			if alias == name {
				return child
			}
		}
	}
	return nil
}

func nodeTypeString(t kong.NodeType) string {
	switch t {
	case kong.ApplicationNode:
		return "application"
	case kong.CommandNode:
		return "command"
	case kong.ArgumentNode:
		return "argument"
	default:
		return "unknown"
	}
}
