// Package codec renders object graphs into XML element trees and parses them
// back. Every element written carries an xsi:type annotation naming the
// concrete runtime type of its value, which is what lets the decoder choose
// among the subtypes of a field's declared type.
package codec

import (
	"errors"
	"fmt"
	"sort"

	"github.com/beevik/etree"

	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/schema"
)

var (
	// ErrNotIdentified is returned when a by-reference value has no identifier.
	ErrNotIdentified = errors.New("referenced object has no identifier")
	// ErrInvalidValue is returned when a value does not fit its field.
	ErrInvalidValue = errors.New("invalid value")
)

// Encoder renders objects as etree elements.
type Encoder struct {
	reg      *schema.Registry
	annotate bool
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithoutTypeAnnotations disables xsi:type annotations. Documents written
// this way can only be decoded against their declared field types.
func WithoutTypeAnnotations() EncoderOption {
	return func(e *Encoder) { e.annotate = false }
}

// NewEncoder creates an encoder using reg's reference type for links.
func NewEncoder(reg *schema.Registry, opts ...EncoderOption) *Encoder {
	e := &Encoder{reg: reg, annotate: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode renders obj as an element tagged tag, or with its qualified type
// name when tag is empty. Nested objects that are members of emitted are
// written as references instead of inline. The input is not modified.
func (e *Encoder) Encode(obj *model.Object, emitted *model.Graph, tag string) (*etree.Element, error) {
	if obj == nil {
		return nil, fmt.Errorf("%w: nil object", ErrInvalidValue)
	}
	if tag == "" {
		tag = schema.QualifiedName(obj.Type)
	}
	used := make(map[string]schema.Namespace)
	el, err := e.encodeObject(obj, emitted, tag, used)
	if err != nil {
		return nil, err
	}
	e.declareNamespaces(el, obj.Type, used)
	return el, nil
}

// EncodeDocument wraps Encode in an indented document with an XML declaration.
func (e *Encoder) EncodeDocument(obj *model.Object, emitted *model.Graph) (*etree.Document, error) {
	el, err := e.Encode(obj, emitted, "")
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.SetRoot(el)
	doc.Indent(2)
	return doc, nil
}

func (e *Encoder) encodeObject(obj *model.Object, emitted *model.Graph, tag string, used map[string]schema.Namespace) (*etree.Element, error) {
	el := etree.NewElement(tag)
	for _, slot := range obj.Slots() {
		f := slot.Field
		for _, v := range slot.Values {
			if f.Encoding == schema.Attribute {
				text, err := attributeText(v)
				if err != nil {
					return nil, fmt.Errorf("%s.%s: %w", obj.Type.Name(), f.Name, err)
				}
				el.CreateAttr(f.Name, text)
				continue
			}
			child, err := e.encodeValue(f, v, emitted, used)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", obj.Type.Name(), f.Name, err)
			}
			el.AddChild(child)
		}
	}
	e.annotateType(el, obj.Type, used)
	return el, nil
}

func (e *Encoder) encodeValue(f schema.Field, v model.Value, emitted *model.Graph, used map[string]schema.Namespace) (*etree.Element, error) {
	switch x := v.(type) {
	case *model.Reference:
		return e.encodeReference(f, x, used)
	case *model.Object:
		if f.Encoding == schema.ByReference || emitted.Contains(x) {
			return e.encodeReference(f, model.RefTo(x), used)
		}
		return e.encodeObject(x, emitted, f.Tag(), used)
	case model.Scalar:
		if x.Type == nil {
			return nil, fmt.Errorf("%w: untyped scalar %q", ErrInvalidValue, x.Text)
		}
		el := etree.NewElement(f.Tag())
		el.SetText(x.Text)
		e.annotateType(el, x.Type, used)
		return el, nil
	case model.Enum:
		if x.Type == nil || !x.Type.Has(x.Symbol) {
			return nil, fmt.Errorf("%w: enum symbol %q", ErrInvalidValue, x.Symbol)
		}
		el := etree.NewElement(f.Tag())
		el.SetText(x.Symbol)
		e.annotateType(el, x.Type, used)
		return el, nil
	}
	return nil, fmt.Errorf("%w: unsupported value %T", ErrInvalidValue, v)
}

func (e *Encoder) encodeReference(f schema.Field, r *model.Reference, used map[string]schema.Namespace) (*etree.Element, error) {
	rt := e.reg.ReferenceType()
	if rt == nil {
		return nil, errors.New("registry has no reference type")
	}
	if r.UUID == "" {
		return nil, ErrNotIdentified
	}
	ref := model.New(rt)
	ref.Set("ContentType", scalarFor(rt, "ContentType", r.ContentType))
	ref.Set("Title", scalarFor(rt, "Title", r.Title))
	ref.Set("UUID", scalarFor(rt, "UUID", r.UUID))
	return e.encodeObject(ref, nil, f.Tag(), used)
}

func scalarFor(t *schema.ComplexType, field, text string) model.Value {
	f, _ := t.Field(field)
	return model.Text(f.Type.(*schema.SimpleType), text)
}

func attributeText(v model.Value) (string, error) {
	switch x := v.(type) {
	case model.Scalar:
		return x.Text, nil
	case model.Enum:
		return x.Symbol, nil
	}
	return "", fmt.Errorf("%w: %T cannot be an attribute", ErrInvalidValue, v)
}

func (e *Encoder) annotateType(el *etree.Element, t schema.Type, used map[string]schema.Namespace) {
	if !e.annotate {
		return
	}
	el.CreateAttr(schema.XSI.Prefix+":type", schema.QualifiedName(t))
	used[schema.XSI.Prefix] = schema.XSI
	if ns := t.Namespace(); ns.URI != "" {
		used[ns.Prefix] = ns
	}
}

// declareNamespaces adds xmlns declarations to the root: the root type's
// document namespaces first, then every other prefix used, sorted.
func (e *Encoder) declareNamespaces(root *etree.Element, t *schema.ComplexType, used map[string]schema.Namespace) {
	declared := make(map[string]bool)
	declare := func(ns schema.Namespace) {
		if declared[ns.Prefix] {
			return
		}
		declared[ns.Prefix] = true
		if ns.Prefix == "" {
			root.CreateAttr("xmlns", ns.URI)
		} else {
			root.CreateAttr("xmlns:"+ns.Prefix, ns.URI)
		}
	}
	for _, ns := range t.DocumentNamespaces() {
		declare(ns)
	}
	prefixes := make([]string, 0, len(used))
	for p := range used {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		declare(used[p])
	}
	// Declarations go before the other attributes.
	n := len(declared)
	attrs := root.Attr
	root.Attr = append(attrs[len(attrs)-n:len(attrs):len(attrs)], attrs[:len(attrs)-n]...)
}
