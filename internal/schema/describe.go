package schema

// TypeDoc is a serializable description of a registered type, used by the
// schema listing and its YAML and JSON exports.
type TypeDoc struct {
	Name        string     `json:"name" yaml:"name"`
	Qualified   string     `json:"qualified" yaml:"qualified"`
	Namespace   string     `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Kind        string     `json:"kind" yaml:"kind"`
	Module      string     `json:"module,omitempty" yaml:"module,omitempty"`
	Base        string     `json:"base,omitempty" yaml:"base,omitempty"`
	Abstract    bool       `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Identified  bool       `json:"identified,omitempty" yaml:"identified,omitempty"`
	ContentType string     `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Lexical     string     `json:"lexical,omitempty" yaml:"lexical,omitempty"`
	Symbols     []string   `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Fields      []FieldDoc `json:"fields,omitempty" yaml:"fields,omitempty"`
	Subtypes    []string   `json:"subtypes,omitempty" yaml:"subtypes,omitempty"`
}

// FieldDoc describes one effective field of a complex type.
type FieldDoc struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Cardinality string `json:"cardinality" yaml:"cardinality"`
	Encoding    string `json:"encoding" yaml:"encoding"`
	Inherited   bool   `json:"inherited,omitempty" yaml:"inherited,omitempty"`
}

func (l Lexical) String() string {
	switch l {
	case LexicalString:
		return "string"
	case LexicalInteger:
		return "integer"
	case LexicalDouble:
		return "double"
	case LexicalBoolean:
		return "boolean"
	case LexicalDateTime:
		return "dateTime"
	default:
		return "unknown"
	}
}

// Describe returns the description of t. Subtypes are listed for abstract
// and extended complex types.
func (r *Registry) Describe(t Type) TypeDoc {
	doc := TypeDoc{
		Name:      t.Name(),
		Qualified: QualifiedName(t),
		Namespace: t.Namespace().URI,
		Kind:      t.Kind().String(),
	}
	for _, m := range r.modules {
		for _, mt := range m.Types {
			if mt == t {
				doc.Module = m.Name
			}
		}
	}

	switch x := t.(type) {
	case *ComplexType:
		if x.Base != nil {
			doc.Base = QualifiedName(x.Base)
		}
		doc.Abstract = x.Abstract
		doc.Identified = x.Identified()
		if doc.Identified && !x.Abstract {
			doc.ContentType = x.ContentType()
		}
		for _, f := range x.Fields() {
			doc.Fields = append(doc.Fields, FieldDoc{
				Name:        f.Tag(),
				Type:        QualifiedName(f.Type),
				Cardinality: f.Cardinality.String(),
				Encoding:    f.Encoding.String(),
				Inherited:   !declares(x, f.Name),
			})
		}
		for _, sub := range r.Subtypes(x) {
			if sub != x {
				doc.Subtypes = append(doc.Subtypes, QualifiedName(sub))
			}
		}
	case *SimpleType:
		doc.Lexical = x.Lexical.String()
		if x.Base != nil {
			doc.Base = QualifiedName(x.Base)
		}
	case *EnumType:
		doc.Symbols = x.Symbols
	}
	return doc
}

// Catalogue describes every registered type in registration order.
func (r *Registry) Catalogue() []TypeDoc {
	types := r.Types()
	out := make([]TypeDoc, 0, len(types))
	for _, t := range types {
		out = append(out, r.Describe(t))
	}
	return out
}

func declares(t *ComplexType, name string) bool {
	for _, f := range t.Own {
		if f.Name == name {
			return true
		}
	}
	return false
}
