// Package model holds the in-memory object graph: typed entities, their field
// values, symbolic references and the owning collection of top-level entities.
package model

import (
	"fmt"

	"github.com/aidanlsb/resqpack/internal/schema"
)

// Value is a field value: Scalar, Enum, *Object or *Reference.
type Value interface {
	isValue()
}

// Slot holds the values of one declared field.
type Slot struct {
	Field  schema.Field
	Values []Value
}

// Object is an instance of a complex type. Slots follow the type's declared
// field order.
type Object struct {
	Type  *schema.ComplexType
	slots []Slot
}

func (*Object) isValue() {}

// New creates an empty object of type t.
func New(t *schema.ComplexType) *Object {
	fields := t.Fields()
	o := &Object{Type: t, slots: make([]Slot, len(fields))}
	for i, f := range fields {
		o.slots[i].Field = f
	}
	return o
}

// Slots returns the object's field slots in declared order.
func (o *Object) Slots() []Slot {
	return o.slots
}

func (o *Object) slot(name string) (*Slot, error) {
	i := o.Type.FieldIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("type %s has no field %q", o.Type.Name(), name)
	}
	return &o.slots[i], nil
}

// SetValues replaces the values of the named field.
func (o *Object) SetValues(name string, values ...Value) error {
	s, err := o.slot(name)
	if err != nil {
		return err
	}
	s.Values = compact(values)
	return nil
}

// Set is SetValues for statically known field names; it panics when the
// field is not declared and returns o for chaining.
func (o *Object) Set(name string, values ...Value) *Object {
	if err := o.SetValues(name, values...); err != nil {
		panic("model: " + err.Error())
	}
	return o
}

// Append adds values to the named field.
func (o *Object) Append(name string, values ...Value) *Object {
	s, err := o.slot(name)
	if err != nil {
		panic("model: " + err.Error())
	}
	s.Values = append(s.Values, compact(values)...)
	return o
}

// Values returns the values of the named field, or nil.
func (o *Object) Values(name string) []Value {
	s, err := o.slot(name)
	if err != nil {
		return nil
	}
	return s.Values
}

// Value returns the first value of the named field, or nil.
func (o *Object) Value(name string) Value {
	vs := o.Values(name)
	if len(vs) == 0 {
		return nil
	}
	return vs[0]
}

// Child returns the entity held by the named field: a nested owned object or
// the target of a resolved reference.
func (o *Object) Child(name string) *Object {
	switch v := o.Value(name).(type) {
	case *Object:
		return v
	case *Reference:
		return v.Target
	}
	return nil
}

// Text returns the lexical text of a scalar or enum field, following a
// path of nested fields.
func (o *Object) Text(path ...string) string {
	cur := o
	for i, name := range path {
		if cur == nil {
			return ""
		}
		if i < len(path)-1 {
			cur = cur.Child(name)
			continue
		}
		switch v := cur.Value(name).(type) {
		case Scalar:
			return v.Text
		case Enum:
			return v.Symbol
		}
	}
	return ""
}

// ID returns the "uuid" attribute of identified objects, or "".
func (o *Object) ID() string {
	if o == nil {
		return ""
	}
	if s, ok := o.Value("uuid").(Scalar); ok {
		return s.Text
	}
	return ""
}

// Title returns the citation title, or "".
func (o *Object) Title() string {
	return o.Text("Citation", "Title")
}

// BaseName returns the container part name of an identified object.
func (o *Object) BaseName() string {
	return BaseName(o.Type.Name(), o.ID())
}

// ContentType returns the package content type of the object's part.
func (o *Object) ContentType() string {
	return o.Type.ContentType()
}

// BaseName computes a part name from a type name and identifier.
func BaseName(typeName, id string) string {
	return "obj_" + typeName + "_" + id + ".xml"
}

// Walk calls fn for every value of every field, depth-first through nested
// owned objects. References are visited but never followed. Returning false
// from fn skips descending into that value.
func (o *Object) Walk(fn func(owner *Object, f schema.Field, v Value) bool) {
	for _, s := range o.slots {
		for _, v := range s.Values {
			if !fn(o, s.Field, v) {
				continue
			}
			if child, ok := v.(*Object); ok {
				child.Walk(fn)
			}
		}
	}
}

func compact(values []Value) []Value {
	out := values[:0:0]
	for _, v := range values {
		if v == nil {
			continue
		}
		if o, ok := v.(*Object); ok && o == nil {
			continue
		}
		if r, ok := v.(*Reference); ok && r == nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
