// Package factory builds ready-to-serialize RESQML objects: cited top-level
// objects with fresh identifiers, references, CRS, grids and properties.
package factory

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"os/user"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/schema"
)

const (
	// SchemaVersion is written to the schemaVersion attribute of every object.
	SchemaVersion = "v2.0.1"

	// DefaultFormat is the citation format of objects produced here.
	DefaultFormat = "[NorwegianComputingCenter:netcdf2resqml]"

	// HdfMimeType is the mime type of external HDF5 parts.
	HdfMimeType = "application/x-hdf5"

	// HdfProxyTitle is the title of every external part reference.
	HdfProxyTitle = "Hdf Proxy"

	// CategoricalNullValue marks cells without a category.
	CategoricalNullValue = -1
)

// ErrReservedKey is returned when a lookup table uses the null value as a key.
var ErrReservedKey = errors.New("lookup key is reserved for null values")

// Factory creates objects with shared citation metadata.
type Factory struct {
	originator string
	format     string
	now        func() time.Time
	newID      func() string
}

// Option configures a Factory.
type Option func(*Factory)

// WithOriginator sets the citation originator. The default is the current
// OS user.
func WithOriginator(name string) Option {
	return func(f *Factory) {
		if name != "" {
			f.originator = name
		}
	}
}

// WithFormat sets the citation format string.
func WithFormat(format string) Option {
	return func(f *Factory) {
		if format != "" {
			f.format = format
		}
	}
}

// WithClock sets the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// WithIDs sets the identifier generator.
func WithIDs(next func() string) Option {
	return func(f *Factory) { f.newID = next }
}

// New creates a Factory.
func New(opts ...Option) *Factory {
	f := &Factory{
		originator: currentUser(),
		format:     DefaultFormat,
		now:        time.Now,
		newID:      newID,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// newID prefers time-based identifiers and falls back to random ones when
// no node identifier is available.
func newID() string {
	if id, err := uuid.NewUUID(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}

// Citation creates citation metadata titled title.
func (f *Factory) Citation(title string) *model.Object {
	return model.New(catalog.Citation).
		Set("Title", model.Text(catalog.DescriptionString, title)).
		Set("Originator", model.Text(catalog.NameString, f.originator)).
		Set("Format", model.Text(catalog.DescriptionString, f.format)).
		Set("Creation", model.Time(catalog.DateTime, f.now()))
}

// Identified creates a top-level object of type t with a fresh identifier,
// the schema version and a citation.
func (f *Factory) Identified(t *schema.ComplexType, title string) *model.Object {
	return model.New(t).
		Set("schemaVersion", model.Text(catalog.String, SchemaVersion)).
		Set("uuid", model.Text(catalog.UuidString, f.newID())).
		Set("Citation", f.Citation(title))
}

// HdfProxy creates the external part reference standing for the payload file.
func (f *Factory) HdfProxy() *model.Object {
	return f.Identified(catalog.EpcExternalPartReference, HdfProxyTitle).
		Set("MimeType", model.Text(catalog.String, HdfMimeType))
}

// Reference creates a resolved reference to a top-level object. External
// part references are always titled HdfProxyTitle.
func Reference(o *model.Object) *model.Reference {
	ref := model.RefTo(o)
	if o.Type.DerivesFrom(catalog.EpcExternalPartReference) {
		ref.Title = HdfProxyTitle
	}
	return ref
}

// Point3d creates a point.
func Point3d(x, y, z float64) *model.Object {
	return model.New(catalog.Point3d).
		Set("Coordinate1", model.Float(catalog.Double, x)).
		Set("Coordinate2", model.Float(catalog.Double, y)).
		Set("Coordinate3", model.Float(catalog.Double, z))
}

// Dataset creates an HDF5 dataset locator inside the proxy's payload.
func Dataset(proxy *model.Object, path string) *model.Object {
	return model.New(catalog.Hdf5Dataset).
		Set("PathInHdfFile", model.Text(catalog.String, path)).
		Set("HdfProxy", Reference(proxy))
}

// CRS describes a local depth coordinate system.
type CRS struct {
	Title    string
	EPSGCode int64
	XOffset  float64
	YOffset  float64
	ZOffset  float64
	Rotation float64
}

// DefaultCRS is the CRS used for converted grids.
var DefaultCRS = CRS{Title: "Delft 3D CRS", EPSGCode: 4146}

// LocalDepthCrs creates a local depth CRS with an unknown vertical CRS and
// an EPSG-coded projected CRS, z increasing downwards.
func (f *Factory) LocalDepthCrs(c CRS) *model.Object {
	vertical := model.New(catalog.VerticalUnknownCrs).
		Set("Unknown", model.Text(catalog.String, "Unknown"))
	projected := model.New(catalog.ProjectedCrsEpsgCode).
		Set("EpsgCode", model.Int(catalog.PositiveInteger, c.EPSGCode))

	return f.Identified(catalog.LocalDepth3dCrs, c.Title).
		Set("ArealRotation", model.Float(catalog.Double, c.Rotation)).
		Set("ProjectedAxisOrder", model.Symbol(catalog.AxisOrder2d, "easting_northing")).
		Set("ProjectedUom", model.Symbol(catalog.LengthUom, "m")).
		Set("VerticalUom", model.Symbol(catalog.LengthUom, "m")).
		Set("XOffset", model.Float(catalog.Double, c.XOffset)).
		Set("YOffset", model.Float(catalog.Double, c.YOffset)).
		Set("ZIncreasingDownward", model.Bool(catalog.Boolean, true)).
		Set("ZOffset", model.Float(catalog.Double, c.ZOffset)).
		Set("VerticalCrs", vertical).
		Set("ProjectedCrs", projected)
}

// Extent is the size and cell spacing of a regular grid.
type Extent struct {
	Ni, Nj, Nk int
	Dx, Dy, Dz float64
}

// Validate checks that every dimension is positive.
func (e Extent) Validate() error {
	if e.Ni <= 0 || e.Nj <= 0 || e.Nk <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%dx%d", e.Ni, e.Nj, e.Nk)
	}
	if e.Dx <= 0 || e.Dy <= 0 || e.Dz <= 0 {
		return fmt.Errorf("cell sizes must be positive, got %gx%gx%g", e.Dx, e.Dy, e.Dz)
	}
	return nil
}

// Cells returns the number of cells.
func (e Extent) Cells() int {
	return e.Ni * e.Nj * e.Nk
}

// RegularGrid creates an IJK grid whose geometry is a lattice anchored at
// the origin of crs, layers counted downwards.
func (f *Factory) RegularGrid(title string, crs *model.Object, ext Extent) (*model.Object, error) {
	if err := ext.Validate(); err != nil {
		return nil, err
	}
	lattice := model.New(catalog.Point3dLatticeArray).
		Set("AllDimensionsAreOrthogonal", model.Bool(catalog.Boolean, true)).
		Set("Origin", Point3d(0, 0, 0)).
		Set("Offset", model.New(catalog.Point3dOffset).Set("Offset", Point3d(ext.Dx, ext.Dy, ext.Dz)))
	geometry := model.New(catalog.IjkGridGeometry).
		Set("LocalCrs", crs).
		Set("Points", lattice).
		Set("KDirection", model.Symbol(catalog.KDirection, "down")).
		Set("GridIsRightHanded", model.Bool(catalog.Boolean, true))

	return f.Identified(catalog.IjkGridRepresentation, title).
		Set("Geometry", geometry).
		Set("Nk", model.Int(catalog.PositiveInteger, int64(ext.Nk))).
		Set("Ni", model.Int(catalog.PositiveInteger, int64(ext.Ni))).
		Set("Nj", model.Int(catalog.PositiveInteger, int64(ext.Nj))), nil
}

// Continuous describes a continuous cell property.
type Continuous struct {
	Title   string
	Dataset string // path of the values inside the payload
	Min     float64
	Max     float64
	Kind    string // ResqmlPropertyKind symbol; default volume_per_volume
	Uom     string // ResqmlUom symbol; default m
}

// ContinuousProperty creates a continuous property on the cells of rep with
// values stored in proxy's payload.
func (f *Factory) ContinuousProperty(p Continuous, rep, proxy *model.Object) (*model.Object, error) {
	kind := valueOr(p.Kind, "volume_per_volume")
	if !catalog.ResqmlPropertyKind.Has(kind) {
		return nil, fmt.Errorf("unknown property kind %q", kind)
	}
	uom := valueOr(p.Uom, "m")
	if !catalog.ResqmlUom.Has(uom) {
		return nil, fmt.Errorf("unknown unit of measure %q", uom)
	}
	values := model.New(catalog.DoubleHdf5Array).
		Set("Values", Dataset(proxy, p.Dataset))

	return f.property(catalog.ContinuousProperty, p.Title, kind, rep, values).
		Set("MinimumValue", model.Float(catalog.Double, p.Min)).
		Set("Uom", model.Symbol(catalog.ResqmlUom, uom)).
		Set("MaximumValue", model.Float(catalog.Double, p.Max)), nil
}

// Categorical describes a categorical cell property.
type Categorical struct {
	Title   string
	Dataset string
	Labels  map[int64]string
}

// CategoricalProperty creates a categorical property with an inline string
// lookup table. Keys are written in ascending order.
func (f *Factory) CategoricalProperty(p Categorical, rep, proxy *model.Object) (*model.Object, error) {
	if _, ok := p.Labels[CategoricalNullValue]; ok {
		return nil, fmt.Errorf("%w: %d", ErrReservedKey, CategoricalNullValue)
	}
	values := model.New(catalog.IntegerHdf5Array).
		Set("Values", Dataset(proxy, p.Dataset)).
		Set("NullValue", model.Int(catalog.Integer, CategoricalNullValue))

	table := f.Identified(catalog.StringTableLookup, p.Title+" - look-up")
	for _, key := range slices.Sorted(maps.Keys(p.Labels)) {
		table.Append("Value", model.New(catalog.StringLookup).
			Set("Key", model.Int(catalog.Integer, key)).
			Set("Value", model.Text(catalog.String, p.Labels[key])))
	}

	return f.property(catalog.CategoricalProperty, p.Title, "categorical", rep, values).
		Set("Lookup", table), nil
}

func (f *Factory) property(t *schema.ComplexType, title, kind string, rep, values *model.Object) *model.Object {
	patch := model.New(catalog.PatchOfValues).
		Set("RepresentationPatchIndex", model.Int(catalog.Integer, 0)).
		Set("Values", values)
	return f.Identified(t, title).
		Set("IndexableElement", model.Symbol(catalog.IndexableElements, "cells")).
		Set("Count", model.Int(catalog.PositiveInteger, 1)).
		Set("SupportingRepresentation", rep).
		Set("PropertyKind", model.New(catalog.StandardPropertyKind).
			Set("Kind", model.Symbol(catalog.ResqmlPropertyKind, kind))).
		Set("PatchOfValues", patch)
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
