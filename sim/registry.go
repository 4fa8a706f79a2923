// Component type registry. Packages that define component types register
// them from init(), keyed by the type name a description refers to.

package sim

import (
	"fmt"
	"sort"
)

// Constructor turns a bound parameter record into a live component instance.
// Construction-time validation (e.g. rejecting a null reference the
// component's contract does not tolerate) belongs here.
type Constructor func(rec *Record) (Component, error)

type typeEntry struct {
	schema Schema
	ctor   Constructor
}

var registry = map[string]typeEntry{}

// Register makes a component type available to hierarchy descriptions.
// Registering the same type name twice is a programming error.
func Register(typeName string, schema Schema, ctor Constructor) {
	if typeName == "" {
		panic("sim: Register with empty type name")
	}
	if ctor == nil {
		panic(fmt.Sprintf("sim: Register(%q) with nil constructor", typeName))
	}
	if _, dup := registry[typeName]; dup {
		panic(fmt.Sprintf("sim: component type %q registered twice", typeName))
	}
	registry[typeName] = typeEntry{schema: schema, ctor: ctor}
}

// RegisteredTypes returns all registered type names, sorted.
func RegisteredTypes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeSchema returns the schema a type was registered with.
func TypeSchema(typeName string) (Schema, bool) {
	e, ok := registry[typeName]
	return e.schema, ok
}

func lookupType(typeName string) (typeEntry, bool) {
	e, ok := registry[typeName]
	return e, ok
}
