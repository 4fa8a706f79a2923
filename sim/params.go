package sim

import (
	"errors"
	"fmt"
)

// Binding errors. All of them abort a hierarchy build before any component
// is constructed and before simulated time advances.
var (
	ErrMissingParam = errors.New("missing required parameter")
	ErrUnknownParam = errors.New("unknown parameter")
	ErrBadValue     = errors.New("invalid parameter value")
	ErrDanglingRef  = errors.New("reference to undeclared component")
)

// FieldKind is the semantic type of a schema field.
type FieldKind int

const (
	KindInt FieldKind = iota
	KindFloat
	KindBool
	KindString
	// KindTicks accepts a bare tick count or a duration string ("100ns").
	KindTicks
	// KindBytes accepts a bare byte count or a size string ("1kB").
	KindBytes
	// KindBandwidth accepts a rate string ("100MB/s"); the bound value is
	// the cost in ticks of moving one byte.
	KindBandwidth
	// KindRef names another component instance by hierarchical path, or the
	// explicit null marker. Whether null is tolerated is part of the
	// consuming component's documented contract.
	KindRef
)

var kindNames = map[FieldKind]string{
	KindInt:       "int",
	KindFloat:     "float",
	KindBool:      "bool",
	KindString:    "string",
	KindTicks:     "ticks",
	KindBytes:     "bytes",
	KindBandwidth: "bandwidth",
	KindRef:       "ref",
}

func (k FieldKind) String() string { return kindNames[k] }

// NullRef is the explicit "no component supplied" marker, usable as the
// default of an optional reference field.
var NullRef = nullRef{}

type nullRef struct{}

// Field declares one parameter in a component type's schema.
// A nil Default makes the field required: binding fails if the description
// omits it. Defaults are converted exactly like supplied values, so a
// KindBytes field may default to "1kB".
type Field struct {
	Name    string
	Kind    FieldKind
	Default any
	Doc     string
}

// Schema is the ordered parameter declaration of a component type.
type Schema []Field

// Record is the immutable, fully-resolved parameter set used to construct
// exactly one component instance. It is owned by that component and never
// shared. Typed getters panic on a name or kind mismatch with the schema:
// that is a programming error in the component, not a configuration error.
type Record struct {
	typeName string
	name     string
	values   map[string]any

	// attached by the hierarchy build before construction; nil for records
	// bound standalone (e.g. in tests that never construct a component).
	kernel *Kernel
	hier   *Hierarchy
}

// Bind resolves a raw field map against a schema into a Record. It is a
// pure function: idempotent, no shared state touched, raw left unmodified.
// instName is the hierarchical name of the component being configured and
// appears in every error.
func Bind(typeName, instName string, schema Schema, raw map[string]any) (*Record, error) {
	declared := make(map[string]bool, len(schema))
	for _, f := range schema {
		declared[f.Name] = true
	}
	for key := range raw {
		if !declared[key] {
			return nil, fmt.Errorf("%s: %q: %w", instName, key, ErrUnknownParam)
		}
	}

	values := make(map[string]any, len(schema))
	for _, f := range schema {
		supplied, ok := raw[f.Name]
		if !ok {
			if f.Default == nil {
				return nil, fmt.Errorf("%s: %q: %w", instName, f.Name, ErrMissingParam)
			}
			supplied = f.Default
		}
		v, err := convertValue(f.Kind, supplied)
		if err != nil {
			return nil, fmt.Errorf("%s: %q: %v: %w", instName, f.Name, err, ErrBadValue)
		}
		values[f.Name] = v
	}

	return &Record{typeName: typeName, name: instName, values: values}, nil
}

// convertValue validates and converts one supplied value to the canonical
// bound representation for its kind.
func convertValue(kind FieldKind, v any) (any, error) {
	switch kind {
	case KindInt:
		return toInt64(v)
	case KindFloat:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		}
		return nil, fmt.Errorf("want float, got %T", v)
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("want bool, got %T", v)
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("want string, got %T", v)
	case KindTicks:
		if s, ok := v.(string); ok {
			return ParseTicks(s)
		}
		return toInt64(v)
	case KindBytes:
		if s, ok := v.(string); ok {
			return ParseBytes(s)
		}
		return toInt64(v)
	case KindBandwidth:
		switch x := v.(type) {
		case string:
			return ParseBandwidth(x)
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		}
		return nil, fmt.Errorf("want bandwidth string, got %T", v)
	case KindRef:
		switch x := v.(type) {
		case nil:
			return "", nil
		case nullRef:
			return "", nil
		case string:
			if x == "" {
				return "", nil
			}
			return x, nil
		}
		return nil, fmt.Errorf("want component path or null, got %T", v)
	}
	return nil, fmt.Errorf("unknown field kind %d", kind)
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case uint64:
		return int64(x), nil
	case float64:
		if x == float64(int64(x)) {
			return int64(x), nil
		}
		return 0, fmt.Errorf("want integer, got fractional %v", x)
	}
	return 0, fmt.Errorf("want integer, got %T", v)
}

// attach binds the record to the hierarchy that will construct from it.
func (r *Record) attach(h *Hierarchy) {
	r.kernel = h.kernel
	r.hier = h
}

// Name returns the hierarchical name of the instance being configured.
func (r *Record) Name() string { return r.name }

// TypeName returns the registered component type the record configures.
func (r *Record) TypeName() string { return r.typeName }

func (r *Record) get(name string) any {
	v, ok := r.values[name]
	if !ok {
		panic(fmt.Sprintf("sim: %s: no parameter %q in schema for type %s", r.name, name, r.typeName))
	}
	return v
}

// Int returns a bound KindInt value.
func (r *Record) Int(name string) int64 { return r.mustInt64(name) }

// Ticks returns a bound KindTicks value as a tick count.
func (r *Record) Ticks(name string) int64 { return r.mustInt64(name) }

// Bytes returns a bound KindBytes value as a byte count.
func (r *Record) Bytes(name string) int64 { return r.mustInt64(name) }

func (r *Record) mustInt64(name string) int64 {
	v, ok := r.get(name).(int64)
	if !ok {
		panic(fmt.Sprintf("sim: %s: parameter %q is not an integer kind", r.name, name))
	}
	return v
}

// Float returns a bound KindFloat value.
func (r *Record) Float(name string) float64 {
	v, ok := r.get(name).(float64)
	if !ok {
		panic(fmt.Sprintf("sim: %s: parameter %q is not a float kind", r.name, name))
	}
	return v
}

// Bandwidth returns a bound KindBandwidth value in ticks per byte.
func (r *Record) Bandwidth(name string) float64 { return r.Float(name) }

// Bool returns a bound KindBool value.
func (r *Record) Bool(name string) bool {
	v, ok := r.get(name).(bool)
	if !ok {
		panic(fmt.Sprintf("sim: %s: parameter %q is not a bool", r.name, name))
	}
	return v
}

// String returns a bound KindString value.
func (r *Record) String(name string) string {
	v, ok := r.get(name).(string)
	if !ok {
		panic(fmt.Sprintf("sim: %s: parameter %q is not a string", r.name, name))
	}
	return v
}

// Ref returns the handle bound to a KindRef field. The handle resolves to
// a live component only after the whole tree is constructed; IsNil reports
// the explicit null marker.
func (r *Record) Ref(name string) *Handle {
	path, ok := r.get(name).(string)
	if !ok {
		panic(fmt.Sprintf("sim: %s: parameter %q is not a reference", r.name, name))
	}
	return &Handle{path: path, hier: r.hier}
}

// refPaths returns the non-null reference paths bound in the record, so the
// build can validate them against the declared tree.
func (r *Record) refPaths(schema Schema) map[string]string {
	refs := make(map[string]string)
	for _, f := range schema {
		if f.Kind != KindRef {
			continue
		}
		if path := r.values[f.Name].(string); path != "" {
			refs[f.Name] = path
		}
	}
	return refs
}

// Handle is a non-owning reference to another component instance, resolved
// against the hierarchy's instance table after the whole tree is bound.
type Handle struct {
	path string
	hier *Hierarchy
}

// IsNil reports whether the handle is the explicit null marker.
func (h *Handle) IsNil() bool { return h == nil || h.path == "" }

// Path returns the referenced component's hierarchical name, or "".
func (h *Handle) Path() string {
	if h == nil {
		return ""
	}
	return h.path
}

// Resolve returns the referenced live component. It fails on a null handle
// and on a component that has not been constructed yet: references are only
// guaranteed resolvable from Startup onward.
func (h *Handle) Resolve() (Component, error) {
	if h.IsNil() {
		return nil, fmt.Errorf("resolve: null reference")
	}
	if h.hier == nil {
		return nil, fmt.Errorf("resolve %q: handle not attached to a hierarchy", h.path)
	}
	c, ok := h.hier.Lookup(h.path)
	if !ok {
		return nil, fmt.Errorf("resolve %q: component not constructed", h.path)
	}
	return c, nil
}
