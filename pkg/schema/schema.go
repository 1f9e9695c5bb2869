package schema

import (
	"fmt"
	"sync"
)

// Kind identifies the primitive shape of a field's value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindAny
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindAny:
		return "any"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// TypeDescriptor describes the declared type of a field. For KindStruct the
// Schema field names the declared type the value must conform to.
type TypeDescriptor struct {
	Kind   Kind
	Schema string
}

func (t TypeDescriptor) String() string {
	if t.Kind == KindStruct && t.Schema != "" {
		return "struct:" + t.Schema
	}
	return t.Kind.String()
}

// String returns a descriptor for text fields.
func String() TypeDescriptor { return TypeDescriptor{Kind: KindString} }

// Int returns a descriptor for integer fields.
func Int() TypeDescriptor { return TypeDescriptor{Kind: KindInt} }

// Float returns a descriptor for floating-point fields.
func Float() TypeDescriptor { return TypeDescriptor{Kind: KindFloat} }

// Bool returns a descriptor for boolean fields.
func Bool() TypeDescriptor { return TypeDescriptor{Kind: KindBool} }

// Any returns a descriptor that accepts every value.
func Any() TypeDescriptor { return TypeDescriptor{Kind: KindAny} }

// Struct returns a descriptor for nested snapshots of the named declared type.
func Struct(name string) TypeDescriptor {
	return TypeDescriptor{Kind: KindStruct, Schema: name}
}

// Field is the static per-field metadata consulted by the validation and
// dispatch engines: declared type, nullability, the ordered validator list,
// and the default applied by constructors.
type Field struct {
	Name       string
	Type       TypeDescriptor
	Nullable   bool
	Validators []Validator
	Default    any
}

// Schema is an immutable declared type: a name plus ordered named fields.
// Field order is declaration order and is observable through Fields and
// FieldNames; the diff engine depends on it.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// New builds a schema from ordered field definitions.
func New(name string, fields ...Field) (*Schema, error) {
	if name == "" {
		return nil, ErrEmptySchemaName
	}

	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: schema %q", ErrEmptyFieldName, name)
		}
		if _, exists := s.index[f.Name]; exists {
			return nil, fmt.Errorf("%w: %q in schema %q", ErrDuplicateField, f.Name, name)
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return s, nil
}

// MustNew builds a schema and panics on definition errors, following the
// fail-fast pattern for schemas declared at program startup.
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(fmt.Sprintf("schema: failed to define %q: %v", name, err))
	}
	return s
}

// Name returns the declared type identity.
func (s *Schema) Name() string { return s.name }

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns the field definitions in declaration order.
// The returned slice is a copy; mutating it does not affect the schema.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Field looks up a field definition by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Registry is a thread-safe table of declared types. It is the data-driven
// replacement for per-type generated code: engines consult it at runtime for
// field layouts and validator metadata.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*Schema
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds a declared type. Registering a name twice is an error;
// schemas are fixed at definition time.
func (r *Registry) Register(s *Schema) error {
	if s == nil {
		return ErrNilSchema
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.name]; exists {
		return fmt.Errorf("%w: %q", ErrSchemaExists, s.name)
	}
	r.schemas[s.name] = s
	r.order = append(r.order, s.name)
	return nil
}

// MustRegister registers a schema and panics on conflict.
func (r *Registry) MustRegister(s *Schema) {
	if err := r.Register(s); err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns registered type names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
