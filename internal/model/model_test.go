package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/schema"
	"github.com/aidanlsb/resqpack/internal/testutil"
)

func TestObjectSlotsFollowDeclaredOrder(t *testing.T) {
	a := model.New(testutil.A)
	slots := a.Slots()
	require.Len(t, slots, 3)
	assert.Equal(t, "uuid", slots[0].Field.Name)
	assert.Equal(t, "label", slots[1].Field.Name)
	assert.Equal(t, "Partner", slots[2].Field.Name)
}

func TestSetAndAppend(t *testing.T) {
	d := model.New(testutil.Drawing)

	d.Append("Extra", model.New(testutil.Circle)).
		Append("Extra", model.New(testutil.Square), nil)
	assert.Len(t, d.Values("Extra"), 2)

	err := d.SetValues("Nope", model.Text(catalog.String, "x"))
	assert.Error(t, err)
	assert.Panics(t, func() { d.Set("Nope") })

	d.Set("Extra")
	assert.Empty(t, d.Values("Extra"))
	assert.Nil(t, d.Value("Extra"))
	assert.Nil(t, d.Value("Nope"))
}

func TestTextFollowsPath(t *testing.T) {
	abc := testutil.NewABC(9)

	assert.Equal(t, "first", abc.A.Text("label"))
	assert.Equal(t, "9", abc.A.Text("Partner", "Nested", "Value"))
	assert.Equal(t, "", abc.A.Text("Partner", "Missing", "Value"))
	assert.Equal(t, testutil.IDA, abc.A.ID())
	assert.Equal(t, "", abc.C.ID())
}

func TestBaseName(t *testing.T) {
	abc := testutil.NewABC(1)
	assert.Equal(t, "obj_B_"+testutil.IDB+".xml", abc.B.BaseName())
	assert.Equal(t, "application/x-test+xml;type=obj_B", abc.B.ContentType())
}

func TestReferenceNames(t *testing.T) {
	g, err := testutil.NewGrid()
	require.NoError(t, err)

	ref := model.RefTo(g.Grid)
	assert.True(t, ref.Resolved())
	assert.Equal(t, g.Grid.ID(), ref.UUID)
	assert.Equal(t, "Test grid", ref.Title)
	assert.Equal(t, g.Grid.BaseName(), ref.BaseName())

	loose := &model.Reference{
		UUID:        ref.UUID,
		ContentType: "application/x-resqml+xml;version=2.0;type=obj_IjkGridRepresentation",
	}
	assert.False(t, loose.Resolved())
	assert.Equal(t, "IjkGridRepresentation", loose.TypeName())
	assert.Equal(t, g.Grid.BaseName(), loose.BaseName())

	dotted := &model.Reference{ContentType: "application/x-eml+xml;type=eml20.obj_EpcExternalPartReference"}
	assert.Equal(t, "EpcExternalPartReference", dotted.TypeName())
}

func TestWalkStopsAtReferences(t *testing.T) {
	g, err := testutil.NewGrid()
	require.NoError(t, err)

	var refs int
	var sawTitle bool
	g.Property.Walk(func(owner *model.Object, f schema.Field, v model.Value) bool {
		switch x := v.(type) {
		case *model.Reference:
			refs++
		case *model.Object:
			if g.Graph.Contains(x) {
				return false
			}
		case model.Scalar:
			if f.Name == "Title" && owner.Type == catalog.Citation {
				sawTitle = true
			}
		}
		return true
	})
	assert.Equal(t, 1, refs)
	assert.True(t, sawTitle)
}

func TestGraphIndex(t *testing.T) {
	abc := testutil.NewABC(1)
	g := abc.Graph

	g.Add(abc.A)
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Contains(abc.B))
	assert.False(t, g.Contains(abc.C))
	assert.Same(t, abc.B, g.Find(testutil.IDB))
	assert.Equal(t, []*model.Object{abc.B}, g.OfType(testutil.B))
	assert.Len(t, g.OfType(nil), 2)
	assert.Empty(t, g.Duplicates())

	twin := model.New(testutil.B).Set("uuid", model.Text(catalog.UuidString, testutil.IDB))
	g.Add(twin)
	assert.Nil(t, g.Find(testutil.IDB))
	assert.Len(t, g.Lookup(testutil.IDB), 2)
	assert.Equal(t, []string{testutil.IDB}, g.Duplicates())

	var nilGraph *model.Graph
	assert.False(t, nilGraph.Contains(abc.A))
	assert.Zero(t, nilGraph.Len())
}

func TestGraphEqual(t *testing.T) {
	left := testutil.NewABC(1)
	right := testutil.NewABC(1)
	assert.True(t, left.Graph.Equal(right.Graph))

	// A member held directly equals a reference naming it.
	right.A.Set("Partner", &model.Reference{UUID: testutil.IDB})
	assert.True(t, left.Graph.Equal(right.Graph))

	other := testutil.NewABC(2)
	assert.False(t, left.Graph.Equal(other.Graph))

	right.A.Set("label")
	assert.False(t, left.Graph.Equal(right.Graph))
}

func TestScalarAccessors(t *testing.T) {
	n, err := model.Int(catalog.Integer, -4).Int()
	require.NoError(t, err)
	assert.Equal(t, int64(-4), n)

	f, err := model.Float(catalog.Double, 0.5).Float()
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	b, err := model.Bool(catalog.Boolean, true).Bool()
	require.NoError(t, err)
	assert.True(t, b)

	tm, err := model.Time(catalog.DateTime, testutil.FixedTime).Time()
	require.NoError(t, err)
	assert.True(t, tm.Equal(testutil.FixedTime))

	assert.Error(t, model.Text(catalog.Integer, "x").Validate())
}
