package codec

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/schema"
)

// Decoder parses etree elements into objects. Decoding is best effort:
// problems are collected as issues and sibling fields keep decoding.
type Decoder struct {
	reg *schema.Registry
}

// NewDecoder creates a decoder resolving type tags through reg.
func NewDecoder(reg *schema.Registry) *Decoder {
	return &Decoder{reg: reg}
}

type decodeState struct {
	issues check.Issues
}

func (s *decodeState) errorf(kind check.Kind, path, format string, args ...interface{}) {
	s.issues = append(s.issues, check.Errorf(kind, path, format, args...))
}

func (s *decodeState) warnf(kind check.Kind, path, format string, args ...interface{}) {
	s.issues = append(s.issues, check.Warnf(kind, path, format, args...))
}

// Decode parses a document root. The concrete type comes from the element's
// xsi:type annotation, or from its tag when unannotated.
func (d *Decoder) Decode(el *etree.Element) (*model.Object, check.Issues) {
	st := &decodeState{}
	path := el.Tag
	tag, ok := typeAnnotation(el)
	if !ok {
		tag = el.FullTag()
	}
	t, found := d.lookup(el, tag)
	if !found {
		st.errorf(check.KindUnknownType, path, "unknown type %q", tag)
		return nil, st.issues
	}
	ct, isComplex := t.(*schema.ComplexType)
	if !isComplex {
		st.errorf(check.KindUnknownType, path, "type %s is not an entity type", schema.QualifiedName(t))
		return nil, st.issues
	}
	if ct.Abstract {
		st.errorf(check.KindUnknownType, path, "type %s is abstract", schema.QualifiedName(ct))
		return nil, st.issues
	}
	obj := d.decodeObject(el, ct, path, st)
	return obj, st.issues
}

// DecodeAs parses el as an instance of t, which is used when el carries no
// type annotation.
func (d *Decoder) DecodeAs(el *etree.Element, t *schema.ComplexType) (*model.Object, check.Issues) {
	st := &decodeState{}
	path := el.Tag
	ct, ok := d.concreteType(el, t, path, st)
	if !ok {
		return nil, st.issues
	}
	return d.decodeObject(el, ct, path, st), st.issues
}

// concreteType picks the complex type of an element declared as t.
func (d *Decoder) concreteType(el *etree.Element, declared *schema.ComplexType, path string, st *decodeState) (*schema.ComplexType, bool) {
	tag, annotated := typeAnnotation(el)
	if !annotated {
		if declared.Abstract {
			st.errorf(check.KindUnknownType, path, "no type annotation and %s is abstract", schema.QualifiedName(declared))
			return nil, false
		}
		return declared, true
	}
	t, found := d.lookup(el, tag)
	if !found {
		st.errorf(check.KindUnknownType, path, "unknown type %q", tag)
		return nil, false
	}
	ct, ok := t.(*schema.ComplexType)
	if !ok || ct.Abstract {
		st.errorf(check.KindUnknownType, path, "type %q cannot be instantiated here", tag)
		return nil, false
	}
	if !ct.DerivesFrom(declared) && ct != d.reg.ReferenceType() {
		st.warnf(check.KindInvalidValue, path, "type %s does not derive from %s", schema.QualifiedName(ct), schema.QualifiedName(declared))
	}
	return ct, true
}

func (d *Decoder) decodeObject(el *etree.Element, t *schema.ComplexType, path string, st *decodeState) *model.Object {
	obj := model.New(t)
	claimedAttrs := make(map[int]bool)
	claimedChildren := make(map[*etree.Element]bool)
	children := el.ChildElements()

	for _, f := range t.Fields() {
		fpath := path + "/" + f.Name

		var attrs []int
		for i, a := range el.Attr {
			if a.Key == f.Name && !isReservedAttr(a) {
				attrs = append(attrs, i)
				claimedAttrs[i] = true
			}
		}
		var elems []*etree.Element
		for _, c := range children {
			if c.Tag == f.Name {
				elems = append(elems, c)
				claimedChildren[c] = true
			}
		}

		n := len(attrs) + len(elems)
		switch {
		case n == 0 && f.Cardinality == schema.One:
			st.errorf(check.KindCardinality, fpath, "missing required field %s", f.Name)
			continue
		case n > 1 && f.Singular():
			st.errorf(check.KindCardinality, fpath, "field %s accepts one value, found %d", f.Name, n)
			continue
		}

		var values []model.Value
		for _, i := range attrs {
			if v := d.decodeAttr(el.Attr[i].Value, f, fpath, st); v != nil {
				values = append(values, v)
			}
		}
		for _, c := range elems {
			if v := d.decodeChild(c, f, fpath, st); v != nil {
				values = append(values, v)
			}
		}
		if err := obj.SetValues(f.Name, values...); err != nil {
			st.errorf(check.KindInvalidValue, fpath, "%v", err)
		}
	}

	for i, a := range el.Attr {
		if !claimedAttrs[i] && !isReservedAttr(a) {
			st.warnf(check.KindUnexpectedNode, path, "unexpected attribute %q", a.FullKey())
		}
	}
	for _, c := range children {
		if !claimedChildren[c] {
			st.warnf(check.KindUnexpectedNode, path, "unexpected element %q", c.FullTag())
		}
	}
	return obj
}

func (d *Decoder) decodeAttr(text string, f schema.Field, path string, st *decodeState) model.Value {
	switch t := f.Type.(type) {
	case *schema.SimpleType:
		return scalarValue(t, text, path, st)
	case *schema.EnumType:
		return enumValue(t, text, path, st)
	}
	st.warnf(check.KindUnexpectedNode, path, "field %s cannot be read from an attribute", f.Name)
	return nil
}

func (d *Decoder) decodeChild(el *etree.Element, f schema.Field, path string, st *decodeState) model.Value {
	t := f.Type
	if tag, ok := typeAnnotation(el); ok {
		found, ok := d.lookup(el, tag)
		if !ok {
			st.errorf(check.KindUnknownType, path, "unknown type %q", tag)
			return nil
		}
		t = found
	}

	switch x := t.(type) {
	case *schema.SimpleType:
		return scalarValue(x, el.Text(), path, st)
	case *schema.EnumType:
		return enumValue(x, el.Text(), path, st)
	}

	declared, ok := f.Type.(*schema.ComplexType)
	if !ok {
		st.errorf(check.KindInvalidValue, path, "entity %s where %s expected", schema.QualifiedName(t), schema.QualifiedName(f.Type))
		return nil
	}
	if ref := d.reg.ReferenceType(); ref != nil && (t == ref || f.Encoding == schema.ByReference) {
		if t != ref && t != f.Type {
			st.warnf(check.KindInvalidValue, path, "reference field holds %s", schema.QualifiedName(t))
		}
		return d.decodeReference(el, ref, path, st)
	}
	ct, ok := d.concreteType(el, declared, path, st)
	if !ok {
		return nil
	}
	return d.decodeObject(el, ct, path, st)
}

func (d *Decoder) decodeReference(el *etree.Element, ref *schema.ComplexType, path string, st *decodeState) model.Value {
	obj := d.decodeObject(el, ref, path, st)
	r := &model.Reference{
		UUID:        obj.Text("UUID"),
		Title:       obj.Text("Title"),
		ContentType: obj.Text("ContentType"),
	}
	if r.UUID == "" {
		return nil
	}
	return r
}

func scalarValue(t *schema.SimpleType, text, path string, st *decodeState) model.Value {
	if t.Lexical != schema.LexicalString {
		text = strings.TrimSpace(text)
	}
	if err := t.Validate(text); err != nil {
		st.errorf(check.KindInvalidValue, path, "%v", err)
		return nil
	}
	return model.Text(t, text)
}

func enumValue(t *schema.EnumType, text, path string, st *decodeState) model.Value {
	text = strings.TrimSpace(text)
	if !t.Has(text) {
		st.errorf(check.KindInvalidValue, path, "%q is not a %s symbol", text, schema.QualifiedName(t))
		return nil
	}
	return model.Symbol(t, text)
}

// lookup resolves a type tag as written, then with its prefix replaced by
// the namespace URI in scope at el.
func (d *Decoder) lookup(el *etree.Element, tag string) (schema.Type, bool) {
	if t, ok := d.reg.Lookup(tag); ok {
		return t, true
	}
	prefix, local := schema.SplitTag(tag)
	if strings.HasPrefix(prefix, "{") {
		return nil, false
	}
	uri := namespaceURI(el, prefix)
	if uri == "" {
		return nil, false
	}
	return d.reg.Lookup("{" + uri + "}" + local)
}

// namespaceURI finds the declaration of prefix in scope at el. The empty
// prefix finds the default namespace.
func namespaceURI(el *etree.Element, prefix string) string {
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if prefix == "" && a.Space == "" && a.Key == "xmlns" {
				return a.Value
			}
			if prefix != "" && a.Space == "xmlns" && a.Key == prefix {
				return a.Value
			}
		}
	}
	return ""
}

func typeAnnotation(el *etree.Element) (string, bool) {
	for _, a := range el.Attr {
		if a.Key == "type" && isXSI(el, a) {
			return strings.TrimSpace(a.Value), true
		}
	}
	return "", false
}

func isXSI(el *etree.Element, a etree.Attr) bool {
	if a.Space == "" {
		return false
	}
	if a.Space == schema.XSI.Prefix {
		return true
	}
	return namespaceURI(el, a.Space) == schema.XSI.URI
}

func isReservedAttr(a etree.Attr) bool {
	return a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") || (a.Space != "" && a.Key == "type")
}
