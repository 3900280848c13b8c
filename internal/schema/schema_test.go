package schema

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNS = Namespace{Prefix: "t", URI: "urn:schema:test"}

var (
	xsdNS       = Namespace{Prefix: "xsd", URI: "urn:xsd"}
	testString  = &SimpleType{TypeName: "string", NS: xsdNS, Lexical: LexicalString}
	testInteger = &SimpleType{TypeName: "integer", NS: xsdNS, Lexical: LexicalInteger}
	testDouble  = &SimpleType{TypeName: "double", NS: xsdNS, Lexical: LexicalDouble}

	testPositive = &SimpleType{
		TypeName: "positive",
		NS:       testNS,
		Base:     testInteger,
		Lexical:  LexicalInteger,
		Check: func(text string) error {
			if len(text) > 0 && (text[0] == '-' || text == "0") {
				return fmt.Errorf("%s is not positive", text)
			}
			return nil
		},
	}
	testColor = &EnumType{TypeName: "Color", NS: testNS, Symbols: []string{"red", "green"}}

	testBase = &ComplexType{
		TypeName: "Base",
		NS:       testNS,
		Abstract: true,
		Own: []Field{
			Attr("uuid", testString),
			OptionalElem("Note", testString),
			Elem("Size", testInteger),
		},
	}
	testDerived = &ComplexType{
		TypeName: "Derived",
		NS:       testNS,
		Base:     testBase,
		Own: []Field{
			Elem("Size", testPositive),
			Repeated("Color", testColor),
		},
	}
	testRef = &ComplexType{
		TypeName: "Ref",
		NS:       testNS,
		Own: []Field{
			Elem("ContentType", testString),
			Elem("Title", testString),
			Elem("UUID", testString),
		},
	}
)

var testModule = Declare(&Module{
	Name:        "test",
	Namespace:   testNS,
	ContentType: "application/x-test;type=%s",
	Types:       []Type{testPositive, testColor, testBase, testDerived, testRef},
})

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(testModule))
	return r
}

func TestFieldsInheritance(t *testing.T) {
	fields := testDerived.Fields()
	require.Len(t, fields, 4)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"uuid", "Note", "Size", "Color"}, names)
	assert.Same(t, testPositive, fields[2].Type.(*SimpleType))
	assert.Equal(t, 2, testDerived.FieldIndex("Size"))
	assert.Equal(t, -1, testDerived.FieldIndex("Missing"))

	assert.True(t, testDerived.DerivesFrom(testBase))
	assert.False(t, testBase.DerivesFrom(testDerived))
	assert.True(t, testDerived.Identified())
	assert.False(t, testRef.Identified())
}

func TestRegistryLookup(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		tag  string
		want Type
	}{
		{"t:Derived", testDerived},
		{"{urn:schema:test}Derived", testDerived},
		{"t:Color", testColor},
		{"Derived", nil},
		{"x:Derived", nil},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, ok := r.Lookup(tt.tag)
			assert.Equal(t, tt.want != nil, ok)
			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
		})
	}

	_, ok := r.LookupComplex("t:Color")
	assert.False(t, ok)
	assert.Equal(t, []*ComplexType{testDerived}, r.Subtypes(testBase))
}

func TestRegistryFirstMatchWins(t *testing.T) {
	shadow := &ComplexType{TypeName: "Derived", NS: testNS}
	r := newTestRegistry(t)
	require.NoError(t, r.Register(&Module{Name: "shadow", Namespace: testNS, Types: []Type{shadow}}))

	got, ok := r.LookupComplex("t:Derived")
	require.True(t, ok)
	assert.Same(t, testDerived, got)
}

func TestRegisterRejectsInconsistentTypes(t *testing.T) {
	tests := []struct {
		name string
		typ  *ComplexType
	}{
		{"complex attribute", &ComplexType{TypeName: "X", Own: []Field{Attr("a", testRef)}}},
		{"repeated attribute", &ComplexType{TypeName: "X", Own: []Field{{Name: "a", Type: testString, Cardinality: Many, Encoding: Attribute}}}},
		{"untyped field", &ComplexType{TypeName: "X", Own: []Field{{Name: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(&Module{Name: "bad", Types: []Type{tt.typ}})
			assert.True(t, errors.Is(err, ErrInvalidType), "got %v", err)
		})
	}
}

func TestSetReferenceType(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.SetReferenceType(testRef))
	assert.Same(t, testRef, r.ReferenceType())

	err := r.SetReferenceType(testDerived)
	assert.True(t, errors.Is(err, ErrInvalidType))
	assert.Same(t, testRef, r.ReferenceType())
}

func TestContentType(t *testing.T) {
	newTestRegistry(t)
	assert.Equal(t, "application/x-test;type=obj_Derived", testDerived.ContentType())

	loose := &ComplexType{TypeName: "Loose"}
	assert.Equal(t, "application/xml", loose.ContentType())
}

func TestSimpleTypeValidate(t *testing.T) {
	tests := []struct {
		typ     *SimpleType
		text    string
		wantErr bool
	}{
		{testInteger, "42", false},
		{testInteger, "4.2", true},
		{testDouble, "1e-3", false},
		{testDouble, "INF", false},
		{testDouble, "-INF", false},
		{testDouble, "NaN", false},
		{testDouble, "abc", true},
		{testPositive, "3", false},
		{testPositive, "-3", true},
		{testPositive, "x", true},
		{testString, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.typ.Name()+"/"+tt.text, func(t *testing.T) {
			err := tt.typ.Validate(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLexicalHelpers(t *testing.T) {
	f, err := ParseDouble("INF")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, 1))
	assert.Equal(t, "-INF", FormatDouble(math.Inf(-1)))
	assert.Equal(t, "0.25", FormatDouble(0.25))

	b, err := ParseBoolean("1")
	require.NoError(t, err)
	assert.True(t, b)
	_, err = ParseBoolean("yes")
	assert.Error(t, err)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-01T12:00:00Z", FormatDateTime(ts))
	got, err := ParseDateTime("2024-05-01T14:00:00+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(ts))
}

func TestSplitTag(t *testing.T) {
	tests := []struct {
		tag, qualifier, local string
	}{
		{"eml:Citation", "eml", "Citation"},
		{"{urn:x}Citation", "{urn:x}", "Citation"},
		{"Citation", "", "Citation"},
	}
	for _, tt := range tests {
		q, l := SplitTag(tt.tag)
		assert.Equal(t, tt.qualifier, q, tt.tag)
		assert.Equal(t, tt.local, l, tt.tag)
	}
}

func TestDescribe(t *testing.T) {
	r := newTestRegistry(t)

	doc := r.Describe(testDerived)
	assert.Equal(t, "t:Derived", doc.Qualified)
	assert.Equal(t, "complex", doc.Kind)
	assert.Equal(t, "test", doc.Module)
	assert.Equal(t, "t:Base", doc.Base)
	assert.True(t, doc.Identified)
	assert.Equal(t, "application/x-test;type=obj_Derived", doc.ContentType)
	require.Len(t, doc.Fields, 4)
	assert.Equal(t, FieldDoc{Name: "uuid", Type: "xsd:string", Cardinality: "one", Encoding: "attribute", Inherited: true}, doc.Fields[0])
	assert.Equal(t, FieldDoc{Name: "Size", Type: "t:positive", Cardinality: "one", Encoding: "element"}, doc.Fields[2])

	base := r.Describe(testBase)
	assert.True(t, base.Abstract)
	assert.Empty(t, base.ContentType)
	assert.Equal(t, []string{"t:Derived"}, base.Subtypes)

	assert.Equal(t, []string{"red", "green"}, r.Describe(testColor).Symbols)
	assert.Equal(t, "integer", r.Describe(testPositive).Lexical)
	assert.Len(t, r.Catalogue(), 5)
}

func TestDeclareFixesContentType(t *testing.T) {
	widget := &ComplexType{TypeName: "Widget", NS: testNS, Own: []Field{Attr("uuid", testString)}}
	assert.Equal(t, "application/xml", widget.ContentType())

	m := Declare(&Module{Name: "widgets", Namespace: testNS, ContentType: "application/x-widget;type=%s", Types: []Type{widget}})
	assert.Equal(t, "application/x-widget;type=obj_Widget", widget.ContentType())
	assert.Same(t, m, widget.Module())

	require.NoError(t, NewRegistry().Register(m), "registering the declaring module again is allowed")
	err := NewRegistry().Register(&Module{Name: "other", ContentType: "application/x-other;type=%s", Types: []Type{widget}})
	assert.True(t, errors.Is(err, ErrInvalidType), "got %v", err)
	assert.Equal(t, "application/x-widget;type=obj_Widget", widget.ContentType())

	assert.Panics(t, func() { Declare(&Module{Name: "again", Types: []Type{widget}}) })
}

func TestContentTypeIndependentOfRegistry(t *testing.T) {
	assert.Equal(t, "application/x-test;type=obj_Derived", testDerived.ContentType())
	assert.Same(t, testModule, testDerived.Module())
}
