package codec_test

import (
	"errors"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/codec"
	"github.com/aidanlsb/resqpack/internal/factory"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/resolver"
	"github.com/aidanlsb/resqpack/internal/testutil"
)

func encodeString(t *testing.T, enc *codec.Encoder, obj *model.Object, emitted *model.Graph) string {
	t.Helper()
	doc, err := enc.EncodeDocument(obj, emitted)
	require.NoError(t, err)
	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}

func parse(t *testing.T, s string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(s))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func TestEncodeReferenceAndAttributes(t *testing.T) {
	reg := testutil.Registry()
	abc := testutil.NewABC(42)

	el, err := codec.NewEncoder(reg).Encode(abc.A, abc.Graph, "")
	require.NoError(t, err)

	assert.Equal(t, "t:A", el.FullTag())
	assert.Equal(t, testutil.IDA, el.SelectAttrValue("uuid", ""))
	assert.Equal(t, "first", el.SelectAttrValue("label", ""))
	assert.Equal(t, "t:A", el.SelectAttrValue("xsi:type", ""))
	assert.Equal(t, testutil.TestNamespace.URI, el.SelectAttrValue("xmlns:t", ""))
	assert.Equal(t, catalog.EMLNamespace.URI, el.SelectAttrValue("xmlns:eml", ""))

	partner := el.SelectElement("Partner")
	require.NotNil(t, partner)
	assert.Equal(t, "eml:DataObjectReference", partner.SelectAttrValue("xsi:type", ""))
	assert.Equal(t, testutil.IDB, partner.SelectElement("UUID").Text())
	assert.Equal(t, "application/x-test+xml;type=obj_B", partner.SelectElement("ContentType").Text())
	assert.Nil(t, el.SelectElement("Nested"), "B must not be inlined into A")
}

func TestEncodeInlinesObjectsOutsideEmittedSet(t *testing.T) {
	reg := testutil.Registry()
	abc := testutil.NewABC(7)

	el, err := codec.NewEncoder(reg).Encode(abc.B, abc.Graph, "")
	require.NoError(t, err)

	nested := el.SelectElement("Nested")
	require.NotNil(t, nested)
	assert.Equal(t, "t:C", nested.SelectAttrValue("xsi:type", ""))
	value := nested.SelectElement("Value")
	require.NotNil(t, value)
	assert.Equal(t, "7", value.Text())
	assert.Equal(t, "xsd:integer", value.SelectAttrValue("xsi:type", ""))
}

func TestEncodeDoesNotMutateInput(t *testing.T) {
	reg := testutil.Registry()
	abc := testutil.NewABC(1)
	enc := codec.NewEncoder(reg)

	first := encodeString(t, enc, abc.A, abc.Graph)
	second := encodeString(t, enc, abc.A, abc.Graph)
	assert.Equal(t, first, second)
	assert.Same(t, abc.B, abc.A.Value("Partner"))
}

func TestEncodeRejectsUnidentifiedReference(t *testing.T) {
	reg := testutil.Registry()
	b := model.New(testutil.B).Set("Nested", model.New(testutil.C).Set("Value", model.Int(catalog.Integer, 1)))
	a := model.New(testutil.A).
		Set("uuid", model.Text(catalog.UuidString, testutil.IDA)).
		Set("Partner", b)

	_, err := codec.NewEncoder(reg).Encode(a, model.NewGraph(a), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrNotIdentified))
}

func TestEncodeRejectsUnknownEnumSymbol(t *testing.T) {
	reg := testutil.Registry()
	crs := testutil.NewFactory().LocalDepthCrs(factory.DefaultCRS)
	crs.Set("ProjectedUom", model.Symbol(catalog.LengthUom, "ft"))

	_, err := codec.NewEncoder(reg).Encode(crs, nil, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrInvalidValue))
}

func TestRoundTripABC(t *testing.T) {
	reg := testutil.Registry()
	abc := testutil.NewABC(42)
	enc := codec.NewEncoder(reg)
	dec := codec.NewDecoder(reg)

	decoded := model.NewGraph()
	for _, obj := range abc.Graph.Objects() {
		s := encodeString(t, enc, obj, abc.Graph)
		out, issues := dec.Decode(parse(t, s))
		require.Empty(t, issues)
		require.NotNil(t, out)
		decoded.Add(out)
	}

	require.Empty(t, resolver.Resolve(decoded))

	a := decoded.Find(testutil.IDA)
	b := decoded.Find(testutil.IDB)
	require.NotNil(t, a)
	require.NotNil(t, b)

	assert.Same(t, b, a.Child("Partner"))
	assert.Equal(t, "42", b.Text("Nested", "Value"))
	assert.True(t, abc.Graph.Equal(decoded))
}

func TestRoundTripGrid(t *testing.T) {
	reg := catalog.Registry()
	fx, err := testutil.NewGrid()
	require.NoError(t, err)
	enc := codec.NewEncoder(reg)
	dec := codec.NewDecoder(reg)

	decoded := model.NewGraph()
	for _, obj := range fx.Graph.Objects() {
		out, issues := dec.Decode(parse(t, encodeString(t, enc, obj, fx.Graph)))
		require.Empty(t, issues, "decoding %s", obj.Type.Name())
		decoded.Add(out)
	}
	require.Empty(t, resolver.Resolve(decoded))
	assert.True(t, fx.Graph.Equal(decoded))

	grid := decoded.Find(fx.Grid.ID())
	require.NotNil(t, grid)
	assert.Equal(t, catalog.IjkGridRepresentation, grid.Type)
	assert.Equal(t, "down", grid.Text("Geometry", "KDirection"))
	assert.Same(t, decoded.Find(fx.Crs.ID()), grid.Child("Geometry").Child("LocalCrs"))

	prop := decoded.Find(fx.Property.ID())
	require.NotNil(t, prop)
	assert.Equal(t, "porosity", prop.Text("PatchOfValues", "Values", "Values", "PathInHdfFile"))
	assert.Same(t, decoded.Find(fx.Proxy.ID()), prop.Child("PatchOfValues").Child("Values").Child("Values").Child("HdfProxy"))
}

func TestDecodePolymorphicSiblings(t *testing.T) {
	reg := testutil.Registry()
	drawing := model.New(testutil.Drawing).
		Set("uuid", model.Text(catalog.UuidString, testutil.IDA)).
		Set("Background", model.New(testutil.Circle).Set("Radius", model.Float(catalog.Double, 1.5))).
		Set("Foreground", model.New(testutil.Square).Set("Side", model.Float(catalog.Double, 2))).
		Set("Extra",
			model.New(testutil.Square).Set("Side", model.Float(catalog.Double, 3)),
			model.New(testutil.Circle).Set("Radius", model.Float(catalog.Double, 4)),
		)

	s := encodeString(t, codec.NewEncoder(reg), drawing, nil)
	out, issues := codec.NewDecoder(reg).Decode(parse(t, s))
	require.Empty(t, issues)
	require.NotNil(t, out)

	assert.Equal(t, testutil.Circle, out.Child("Background").Type)
	assert.Equal(t, testutil.Square, out.Child("Foreground").Type)
	assert.Equal(t, "1.5", out.Text("Background", "Radius"))

	extra := out.Values("Extra")
	require.Len(t, extra, 2)
	assert.Equal(t, testutil.Square, extra[0].(*model.Object).Type)
	assert.Equal(t, testutil.Circle, extra[1].(*model.Object).Type)
	assert.Nil(t, out.Value("Origin"))
}

const decodeHeader = `xmlns:t="urn:resqpack:test" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema"`

func TestDecodeDiagnostics(t *testing.T) {
	tests := []struct {
		name      string
		xml       string
		wantKind  check.Kind
		wantLevel check.Level
		wantPath  string
		check     func(t *testing.T, obj *model.Object)
	}{
		{
			name:      "missing required field",
			xml:       `<t:C ` + decodeHeader + ` xsi:type="t:C"/>`,
			wantKind:  check.KindCardinality,
			wantLevel: check.LevelError,
			wantPath:  "C/Value",
			check: func(t *testing.T, obj *model.Object) {
				require.NotNil(t, obj)
				assert.Nil(t, obj.Value("Value"))
			},
		},
		{
			name: "too many values",
			xml: `<t:C ` + decodeHeader + ` xsi:type="t:C">` +
				`<Value xsi:type="xsd:integer">1</Value><Value xsi:type="xsd:integer">2</Value></t:C>`,
			wantKind:  check.KindCardinality,
			wantLevel: check.LevelError,
			wantPath:  "C/Value",
			check: func(t *testing.T, obj *model.Object) {
				require.NotNil(t, obj)
				assert.Nil(t, obj.Value("Value"))
			},
		},
		{
			name:      "invalid lexical form",
			xml:       `<t:C ` + decodeHeader + ` xsi:type="t:C"><Value xsi:type="xsd:integer">abc</Value></t:C>`,
			wantKind:  check.KindInvalidValue,
			wantLevel: check.LevelError,
			wantPath:  "C/Value",
		},
		{
			name:      "unknown root type",
			xml:       `<t:Triangle ` + decodeHeader + ` xsi:type="t:Triangle"/>`,
			wantKind:  check.KindUnknownType,
			wantLevel: check.LevelError,
			wantPath:  "Triangle",
			check: func(t *testing.T, obj *model.Object) {
				assert.Nil(t, obj)
			},
		},
		{
			name: "unexpected element",
			xml: `<t:C ` + decodeHeader + ` xsi:type="t:C">` +
				`<Value xsi:type="xsd:integer">3</Value><Bogus/></t:C>`,
			wantKind:  check.KindUnexpectedNode,
			wantLevel: check.LevelWarning,
			wantPath:  "C",
			check: func(t *testing.T, obj *model.Object) {
				require.NotNil(t, obj)
				assert.Equal(t, "3", obj.Text("Value"))
			},
		},
	}

	dec := codec.NewDecoder(testutil.Registry())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, issues := dec.Decode(parse(t, tt.xml))
			require.Len(t, issues, 1, "issues: %v", issues)
			assert.Equal(t, tt.wantKind, issues[0].Kind)
			assert.Equal(t, tt.wantLevel, issues[0].Level)
			assert.Equal(t, tt.wantPath, issues[0].Path)
			if tt.check != nil {
				tt.check(t, obj)
			}
		})
	}
}

func TestDecodeContinuesAfterUnknownSibling(t *testing.T) {
	xml := `<t:Drawing ` + decodeHeader + ` xsi:type="t:Drawing" uuid="` + testutil.IDA + `">` +
		`<Background xsi:type="t:Triangle"/>` +
		`<Foreground xsi:type="t:Square"><Side xsi:type="xsd:double">2</Side></Foreground>` +
		`</t:Drawing>`

	out, issues := codec.NewDecoder(testutil.Registry()).Decode(parse(t, xml))
	require.NotNil(t, out)
	require.Len(t, issues, 1)
	assert.Equal(t, check.KindUnknownType, issues[0].Kind)
	assert.Equal(t, "Drawing/Background", issues[0].Path)
	assert.Nil(t, out.Value("Background"))
	assert.Equal(t, testutil.Square, out.Child("Foreground").Type)
}

func TestDecodeAlternatePrefix(t *testing.T) {
	xml := `<x:C xmlns:x="urn:resqpack:test" xmlns:i="http://www.w3.org/2001/XMLSchema-instance" ` +
		`xmlns:s="http://www.w3.org/2001/XMLSchema" i:type="x:C"><Value i:type="s:integer">5</Value></x:C>`

	out, issues := codec.NewDecoder(testutil.Registry()).Decode(parse(t, xml))
	require.Empty(t, issues)
	require.NotNil(t, out)
	assert.Equal(t, testutil.C, out.Type)
	assert.Equal(t, "5", out.Text("Value"))
}

func TestDecodeWithoutAnnotations(t *testing.T) {
	reg := testutil.Registry()
	c := model.New(testutil.C).Set("Value", model.Int(catalog.Integer, 9))

	el, err := codec.NewEncoder(reg, codec.WithoutTypeAnnotations()).Encode(c, nil, "")
	require.NoError(t, err)
	assert.Empty(t, el.SelectAttrValue("xsi:type", ""))

	dec := codec.NewDecoder(reg)

	out, issues := dec.DecodeAs(el, testutil.C)
	require.Empty(t, issues)
	assert.Equal(t, "9", out.Text("Value"))

	out, issues = dec.Decode(el)
	require.Empty(t, issues)
	assert.Equal(t, testutil.C, out.Type)

	_, issues = dec.DecodeAs(el, testutil.Shape)
	require.Len(t, issues, 1)
	assert.Equal(t, check.KindUnknownType, issues[0].Kind)
}

func TestDecodeUnresolvedReference(t *testing.T) {
	reg := testutil.Registry()
	abc := testutil.NewABC(1)

	el, err := codec.NewEncoder(reg).Encode(abc.A, abc.Graph, "")
	require.NoError(t, err)

	out, issues := codec.NewDecoder(reg).Decode(el)
	require.Empty(t, issues)

	ref, ok := out.Value("Partner").(*model.Reference)
	require.True(t, ok)
	assert.False(t, ref.Resolved())
	assert.Equal(t, testutil.IDB, ref.UUID)
	assert.Equal(t, "B", ref.TypeName())
}
