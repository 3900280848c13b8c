// Package schema describes entity types and resolves document type tags.
//
// A schema is a set of modules. Each module declares complex types (entities
// with an ordered field list), simple types (lexical scalars) and enumerations
// under one XML namespace. Types are declared once in Go and registered into a
// Registry, which maps the type tag found in a document back to its descriptor.
package schema

import (
	"fmt"
	"strings"
)

// Namespace is an XML namespace with its conventional prefix.
// An empty Prefix denotes the default namespace.
type Namespace struct {
	Prefix string
	URI    string
}

// XSI is the XML Schema instance namespace used for type annotations.
var XSI = Namespace{Prefix: "xsi", URI: "http://www.w3.org/2001/XMLSchema-instance"}

// Kind distinguishes the three families of types.
type Kind int

const (
	KindComplex Kind = iota
	KindSimple
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindComplex:
		return "complex"
	case KindSimple:
		return "simple"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Type is implemented by *ComplexType, *SimpleType and *EnumType.
type Type interface {
	Name() string
	Namespace() Namespace
	Kind() Kind
}

// QualifiedName returns the prefixed spelling of a type tag, e.g. "eml:Citation".
// Types in a default namespace are spelled without a prefix.
func QualifiedName(t Type) string {
	ns := t.Namespace()
	if ns.Prefix == "" {
		return t.Name()
	}
	return ns.Prefix + ":" + t.Name()
}

// ExpandedName returns the namespace-URI spelling of a type tag,
// e.g. "{http://www.energistics.org/energyml/data/commonv2}Citation".
func ExpandedName(t Type) string {
	ns := t.Namespace()
	if ns.URI == "" {
		return t.Name()
	}
	return "{" + ns.URI + "}" + t.Name()
}

// SplitTag splits a tag into its prefix (or "{uri}") and local name.
func SplitTag(tag string) (qualifier, local string) {
	if strings.HasPrefix(tag, "{") {
		if end := strings.Index(tag, "}"); end > 0 {
			return tag[:end+1], tag[end+1:]
		}
	}
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		return tag[:i], tag[i+1:]
	}
	return "", tag
}

// Cardinality is the number of values a field accepts.
type Cardinality int

const (
	One Cardinality = iota
	Optional
	Many
)

func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case Optional:
		return "optional"
	case Many:
		return "many"
	default:
		return "unknown"
	}
}

// Encoding selects where a field's value is placed in a document.
type Encoding int

const (
	// Element values are child elements: inline nested entities or scalars.
	Element Encoding = iota
	// Attribute values are key/value pairs on the owning element.
	Attribute
	// ByReference values are always written as a reference element pointing
	// at a top-level entity stored in its own part.
	ByReference
)

func (e Encoding) String() string {
	switch e {
	case Element:
		return "element"
	case Attribute:
		return "attribute"
	case ByReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Field describes one declared field of a complex type.
type Field struct {
	Name        string
	Type        Type // statically declared type; values may be subtypes
	Cardinality Cardinality
	Encoding    Encoding

	// Prefix optionally qualifies the child element tag (e.g. "dcterms").
	Prefix string
}

// Tag returns the element tag used for values of this field.
func (f Field) Tag() string {
	if f.Prefix == "" {
		return f.Name
	}
	return f.Prefix + ":" + f.Name
}

// Singular reports whether the field holds at most one value.
func (f Field) Singular() bool {
	return f.Cardinality != Many
}

// WithPrefix returns a copy of f whose element tag carries prefix.
func (f Field) WithPrefix(prefix string) Field {
	f.Prefix = prefix
	return f
}

// Attr declares a required attribute field.
func Attr(name string, t Type) Field {
	return Field{Name: name, Type: t, Cardinality: One, Encoding: Attribute}
}

// OptionalAttr declares an optional attribute field.
func OptionalAttr(name string, t Type) Field {
	return Field{Name: name, Type: t, Cardinality: Optional, Encoding: Attribute}
}

// Elem declares a required child element field.
func Elem(name string, t Type) Field {
	return Field{Name: name, Type: t, Cardinality: One, Encoding: Element}
}

// OptionalElem declares an optional child element field.
func OptionalElem(name string, t Type) Field {
	return Field{Name: name, Type: t, Cardinality: Optional, Encoding: Element}
}

// Repeated declares a zero-or-more child element field.
func Repeated(name string, t Type) Field {
	return Field{Name: name, Type: t, Cardinality: Many, Encoding: Element}
}

// Ref declares a required field that always refers to a top-level entity.
func Ref(name string, t Type) Field {
	return Field{Name: name, Type: t, Cardinality: One, Encoding: ByReference}
}

// ComplexType is an entity type: an ordered list of fields, optionally
// extending a base type.
type ComplexType struct {
	TypeName string
	NS       Namespace
	Base     *ComplexType
	Abstract bool

	// Own lists the fields declared on this type. A field with the same name
	// as a base field replaces it in place.
	Own []Field

	// Namespaces lists extra namespaces declared on document roots of this type.
	Namespaces []Namespace

	module *Module
	fields []Field
}

func (t *ComplexType) Name() string         { return t.TypeName }
func (t *ComplexType) Namespace() Namespace { return t.NS }
func (t *ComplexType) Kind() Kind           { return KindComplex }

// Fields returns the effective field list: base fields first, in declaration
// order, with redeclared fields replacing their base counterpart.
func (t *ComplexType) Fields() []Field {
	if t.fields == nil {
		t.fields = t.computeFields()
	}
	return t.fields
}

func (t *ComplexType) computeFields() []Field {
	var out []Field
	if t.Base != nil {
		out = append(out, t.Base.Fields()...)
	}
	for _, f := range t.Own {
		replaced := false
		for i := range out {
			if out[i].Name == f.Name {
				out[i] = f
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, f)
		}
	}
	if out == nil {
		out = []Field{}
	}
	return out
}

// Field looks up a field by name.
func (t *ComplexType) Field(name string) (Field, bool) {
	for _, f := range t.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldIndex returns the position of the named field, or -1.
func (t *ComplexType) FieldIndex(name string) int {
	for i, f := range t.Fields() {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// DerivesFrom reports whether t is base or one of its descendants.
func (t *ComplexType) DerivesFrom(base *ComplexType) bool {
	for c := t; c != nil; c = c.Base {
		if c == base {
			return true
		}
	}
	return false
}

// Identified reports whether instances carry a "uuid" identifier and can be
// stored as top-level container parts.
func (t *ComplexType) Identified() bool {
	f, ok := t.Field("uuid")
	return ok && f.Encoding == Attribute
}

// Module returns the module the type was declared in, or nil.
func (t *ComplexType) Module() *Module {
	return t.module
}

// ContentType returns the package content type of parts holding this type.
func (t *ComplexType) ContentType() string {
	if t.module == nil || t.module.ContentType == "" {
		return "application/xml"
	}
	return fmt.Sprintf(t.module.ContentType, "obj_"+t.TypeName)
}

// DocumentNamespaces returns the namespaces declared on a document root of
// this type: its own namespace, any extra namespaces, then those of its bases.
func (t *ComplexType) DocumentNamespaces() []Namespace {
	var out []Namespace
	seen := make(map[string]bool)
	add := func(ns Namespace) {
		if ns.URI == "" || seen[ns.Prefix] {
			return
		}
		seen[ns.Prefix] = true
		out = append(out, ns)
	}
	for c := t; c != nil; c = c.Base {
		add(c.NS)
		for _, ns := range c.Namespaces {
			add(ns)
		}
	}
	return out
}

// EnumType is an enumeration of symbolic values.
type EnumType struct {
	TypeName string
	NS       Namespace
	Symbols  []string
}

func (t *EnumType) Name() string         { return t.TypeName }
func (t *EnumType) Namespace() Namespace { return t.NS }
func (t *EnumType) Kind() Kind           { return KindEnum }

// Has reports whether symbol is a member of the enumeration.
func (t *EnumType) Has(symbol string) bool {
	for _, s := range t.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}
