package testutil

import (
	"fmt"
	"time"

	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/factory"
	"github.com/aidanlsb/resqpack/internal/model"
)

// Fixed identifiers used by the A/B/C fixture.
const (
	IDA = "00000000-0000-4000-8000-00000000000a"
	IDB = "00000000-0000-4000-8000-00000000000b"
)

// FixedTime is the creation time stamped by NewFactory.
var FixedTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// SequentialIDs returns a generator of distinct, valid identifiers.
func SequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("00000000-0000-4000-8000-%012x", n)
	}
}

// NewFactory returns a factory with a fixed clock, originator and
// sequential identifiers.
func NewFactory() *factory.Factory {
	return factory.New(
		factory.WithOriginator("tester"),
		factory.WithClock(func() time.Time { return FixedTime }),
		factory.WithIDs(SequentialIDs()),
	)
}

// ABC is a small graph: A refers to B, and B owns a C holding value.
type ABC struct {
	A, B, C *model.Object
	Graph   *model.Graph
}

// NewABC builds the A/B/C fixture with C.Value set to value.
func NewABC(value int64) ABC {
	c := model.New(C).Set("Value", model.Int(catalog.Integer, value))
	b := model.New(B).
		Set("uuid", model.Text(catalog.UuidString, IDB)).
		Set("Nested", c)
	a := model.New(A).
		Set("uuid", model.Text(catalog.UuidString, IDA)).
		Set("label", model.Text(catalog.String, "first")).
		Set("Partner", b)
	return ABC{A: a, B: b, C: c, Graph: model.NewGraph(a, b)}
}

// Grid is a small RESQML graph: CRS, payload proxy, a 2x2x1 grid and one
// continuous property.
type Grid struct {
	Crs, Proxy, Grid, Property *model.Object
	Graph                      *model.Graph
}

// NewGrid builds the Grid fixture.
func NewGrid() (Grid, error) {
	f := NewFactory()
	crs := f.LocalDepthCrs(factory.DefaultCRS)
	proxy := f.HdfProxy()
	grid, err := f.RegularGrid("Test grid", crs, factory.Extent{Ni: 2, Nj: 2, Nk: 1, Dx: 10, Dy: 10, Dz: 1})
	if err != nil {
		return Grid{}, err
	}
	prop, err := f.ContinuousProperty(factory.Continuous{
		Title:   "Porosity",
		Dataset: "porosity",
		Min:     0.1,
		Max:     0.3,
		Kind:    "porosity",
		Uom:     "Euc",
	}, grid, proxy)
	if err != nil {
		return Grid{}, err
	}
	return Grid{
		Crs:      crs,
		Proxy:    proxy,
		Grid:     grid,
		Property: prop,
		Graph:    model.NewGraph(grid, crs, proxy, prop),
	}, nil
}
