package schema

import (
	"errors"
	"fmt"
)

// Module groups the types declared under one namespace.
type Module struct {
	Name      string
	Namespace Namespace

	// ContentType is a format string taking the "obj_<TypeName>" part
	// identifier, e.g. "application/x-resqml+xml;version=2.0.1;type=%s".
	ContentType string

	Types []Type
}

// Registry resolves document type tags to type descriptors across modules.
// Lookups follow registration order; the first module declaring a matching
// type wins.
type Registry struct {
	modules   []*Module
	reference *ComplexType
}

// ErrInvalidType is returned when a module declares an inconsistent type.
var ErrInvalidType = errors.New("invalid type declaration")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Declare binds every complex type of m to m, which fixes their content
// types before any registry sees them. It panics when a type already belongs
// to another module and returns m for use in variable declarations.
func Declare(m *Module) *Module {
	if err := m.bind(); err != nil {
		panic("schema: " + err.Error())
	}
	return m
}

func (m *Module) bind() error {
	for _, t := range m.Types {
		ct, ok := t.(*ComplexType)
		if !ok {
			continue
		}
		if ct.module != nil && ct.module != m {
			return fmt.Errorf("%w: %s already belongs to module %s", ErrInvalidType, ct.TypeName, ct.module.Name)
		}
	}
	for _, t := range m.Types {
		if ct, ok := t.(*ComplexType); ok {
			ct.module = m
		}
	}
	return nil
}

// Register adds a module, declaring it first if needed. Declarations are
// checked for consistency; name collisions between modules are not checked.
func (r *Registry) Register(m *Module) error {
	if err := m.bind(); err != nil {
		return err
	}
	for _, t := range m.Types {
		ct, ok := t.(*ComplexType)
		if !ok {
			continue
		}
		for _, f := range ct.Fields() {
			if f.Type == nil {
				return fmt.Errorf("%w: %s.%s has no type", ErrInvalidType, ct.TypeName, f.Name)
			}
			if f.Encoding == Attribute && f.Type.Kind() == KindComplex {
				return fmt.Errorf("%w: attribute %s.%s must be simple or enum", ErrInvalidType, ct.TypeName, f.Name)
			}
			if f.Encoding == Attribute && f.Cardinality == Many {
				return fmt.Errorf("%w: attribute %s.%s cannot repeat", ErrInvalidType, ct.TypeName, f.Name)
			}
		}
	}
	r.modules = append(r.modules, m)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(modules ...*Module) *Registry {
	for _, m := range modules {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
	return r
}

// SetReferenceType designates the complex type used to encode references.
// It must declare "ContentType", "Title" and "UUID" fields.
func (r *Registry) SetReferenceType(t *ComplexType) error {
	for _, name := range []string{"ContentType", "Title", "UUID"} {
		f, ok := t.Field(name)
		if !ok || f.Type.Kind() != KindSimple {
			return fmt.Errorf("%w: reference type %s needs simple field %s", ErrInvalidType, t.TypeName, name)
		}
	}
	r.reference = t
	return nil
}

// ReferenceType returns the designated reference type, or nil.
func (r *Registry) ReferenceType() *ComplexType {
	return r.reference
}

// Modules returns the registered modules in registration order.
func (r *Registry) Modules() []*Module {
	return r.modules
}

// Lookup returns the type whose qualified or expanded name equals tag.
func (r *Registry) Lookup(tag string) (Type, bool) {
	for _, m := range r.modules {
		for _, t := range m.Types {
			if tag == QualifiedName(t) || tag == ExpandedName(t) {
				return t, true
			}
		}
	}
	return nil, false
}

// LookupComplex is Lookup restricted to complex types.
func (r *Registry) LookupComplex(tag string) (*ComplexType, bool) {
	t, ok := r.Lookup(tag)
	if !ok {
		return nil, false
	}
	ct, ok := t.(*ComplexType)
	return ct, ok
}

// Types returns every registered type in registration order.
func (r *Registry) Types() []Type {
	var out []Type
	for _, m := range r.modules {
		out = append(out, m.Types...)
	}
	return out
}

// Subtypes returns the concrete registered types deriving from base.
func (r *Registry) Subtypes(base *ComplexType) []*ComplexType {
	var out []*ComplexType
	for _, t := range r.Types() {
		ct, ok := t.(*ComplexType)
		if ok && !ct.Abstract && ct.DerivesFrom(base) {
			out = append(out, ct)
		}
	}
	return out
}
