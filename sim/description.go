// The declarative hierarchy description: what the config front end hands
// to Build. Children are a list, not a map, so declaration order -- and
// with it construction and startup order -- is deterministic.

package sim

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Description is a full run description: one root component tree plus the
// connections to wire after construction.
type Description struct {
	Root        *NodeDesc        `yaml:"root"`
	Connections []ConnectionDesc `yaml:"connections,omitempty"`
}

// NodeDesc declares one component instance: its type, its parameter values
// (scalars, unit strings, or reference paths), and its children in order.
type NodeDesc struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Params   map[string]any `yaml:"params,omitempty"`
	Children []*NodeDesc    `yaml:"children,omitempty"`
}

// ConnectionDesc wires two declared components' roles, each endpoint given
// as "hierarchical.path:role".
type ConnectionDesc struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoadDescription reads and parses a YAML hierarchy description file.
func LoadDescription(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load description: %w", err)
	}
	desc, err := ParseDescription(data)
	if err != nil {
		return nil, fmt.Errorf("load description %s: %w", path, err)
	}
	return desc, nil
}

// ParseDescription parses a YAML hierarchy description and validates its
// shape: a root must be present, every node needs a name and type, names
// must not contain the path separator, and siblings must be uniquely named.
func ParseDescription(data []byte) (*Description, error) {
	var desc Description
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse description: %w", err)
	}
	if desc.Root == nil {
		return nil, fmt.Errorf("parse description: no root component declared")
	}
	if err := validateNode(desc.Root); err != nil {
		return nil, err
	}
	for _, conn := range desc.Connections {
		if _, _, err := splitEndpoint(conn.From); err != nil {
			return nil, err
		}
		if _, _, err := splitEndpoint(conn.To); err != nil {
			return nil, err
		}
	}
	return &desc, nil
}

func validateNode(n *NodeDesc) error {
	if n.Name == "" {
		return fmt.Errorf("description: component with empty name")
	}
	if strings.Contains(n.Name, ".") {
		return fmt.Errorf("description: component name %q must not contain '.'", n.Name)
	}
	if n.Type == "" {
		return fmt.Errorf("description: component %q has no type", n.Name)
	}
	seen := make(map[string]bool, len(n.Children))
	for _, child := range n.Children {
		if child == nil {
			return fmt.Errorf("description: component %q has an empty child entry", n.Name)
		}
		if seen[child.Name] {
			return fmt.Errorf("description: component %q declares child %q twice", n.Name, child.Name)
		}
		seen[child.Name] = true
		if err := validateNode(child); err != nil {
			return err
		}
	}
	return nil
}

// declaredPaths collects the hierarchical path of every node in the tree,
// for validating reference parameters before anything is constructed.
func (d *Description) declaredPaths() map[string]bool {
	paths := make(map[string]bool)
	var walk func(n *NodeDesc, prefix string)
	walk = func(n *NodeDesc, prefix string) {
		path := joinPath(prefix, n.Name)
		paths[path] = true
		for _, child := range n.Children {
			walk(child, path)
		}
	}
	walk(d.Root, "")
	return paths
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func splitEndpoint(s string) (path, role string, err error) {
	path, role, ok := strings.Cut(s, ":")
	if !ok || path == "" || role == "" {
		return "", "", fmt.Errorf("description: connection endpoint %q must be \"path:role\"", s)
	}
	return path, role, nil
}
