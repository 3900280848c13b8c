// Package grid produces regular IJK grid packages: a local depth CRS, the
// grid representation, a payload proxy and cell properties whose values are
// materialized into the payload when the package is written.
package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/factory"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/payload"
)

var (
	// ErrShape is returned when property values do not cover every cell.
	ErrShape = errors.New("property values do not match the grid")
	// ErrDuplicateName is returned when two properties share a dataset name.
	ErrDuplicateName = errors.New("duplicate property name")
)

// Continuous is a continuous cell property. Name is the dataset path in the
// payload and the default title.
type Continuous struct {
	Name   string
	Title  string
	Kind   string
	Uom    string
	Values []float64
}

// Categorical is a categorical cell property with a code to label table.
type Categorical struct {
	Name   string
	Title  string
	Codes  []int64
	Labels map[int64]string
}

// Spec describes a grid to produce.
type Spec struct {
	Title       string
	CRS         factory.CRS
	Extent      factory.Extent
	Continuous  []Continuous
	Categorical []Categorical
}

// Result holds the produced top-level objects and the datasets destined for
// the payload.
type Result struct {
	Grid       *model.Object
	Crs        *model.Object
	Proxy      *model.Object
	Properties []*model.Object
	Datasets   []payload.Dataset
}

// Objects returns the top-level objects in part order: grid, CRS, proxy,
// then properties.
func (r *Result) Objects() []*model.Object {
	out := []*model.Object{r.Grid, r.Crs, r.Proxy}
	return append(out, r.Properties...)
}

// Package returns a container package holding the objects, with the datasets
// attached to the proxy.
func (r *Result) Package() (*epc.Package, error) {
	p := epc.New(r.Objects()...)
	if len(r.Datasets) > 0 {
		if err := p.Attach(r.Proxy, r.Datasets...); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Build produces the grid described by s.
func Build(f *factory.Factory, s Spec) (*Result, error) {
	ext := s.Extent
	if err := ext.Validate(); err != nil {
		return nil, err
	}
	title := s.Title
	if title == "" {
		title = "Regular grid"
	}
	crs := s.CRS
	if crs.Title == "" {
		crs = factory.DefaultCRS
	}

	r := &Result{
		Crs:   f.LocalDepthCrs(crs),
		Proxy: f.HdfProxy(),
	}
	var err error
	r.Grid, err = f.RegularGrid(title, r.Crs, ext)
	if err != nil {
		return nil, err
	}

	shape := []int{ext.Nk, ext.Nj, ext.Ni}
	seen := make(map[string]bool)
	claim := func(name string) error {
		if name == "" {
			return fmt.Errorf("property has no name")
		}
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
		seen[name] = true
		return nil
	}

	for _, c := range s.Continuous {
		if err := claim(c.Name); err != nil {
			return nil, err
		}
		if len(c.Values) != ext.Cells() {
			return nil, fmt.Errorf("%w: %s has %d values for %d cells", ErrShape, c.Name, len(c.Values), ext.Cells())
		}
		data := payload.Floats(c.Name, shape, c.Values)
		lo, hi, ok := data.Range()
		if !ok {
			lo, hi = math.NaN(), math.NaN()
		}
		prop, err := f.ContinuousProperty(factory.Continuous{
			Title:   valueOr(c.Title, c.Name),
			Dataset: c.Name,
			Min:     lo,
			Max:     hi,
			Kind:    c.Kind,
			Uom:     c.Uom,
		}, r.Grid, r.Proxy)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", c.Name, err)
		}
		r.Properties = append(r.Properties, prop)
		r.Datasets = append(r.Datasets, data)
	}

	for _, c := range s.Categorical {
		if err := claim(c.Name); err != nil {
			return nil, err
		}
		if len(c.Codes) != ext.Cells() {
			return nil, fmt.Errorf("%w: %s has %d values for %d cells", ErrShape, c.Name, len(c.Codes), ext.Cells())
		}
		prop, err := f.CategoricalProperty(factory.Categorical{
			Title:   valueOr(c.Title, c.Name),
			Dataset: c.Name,
			Labels:  c.Labels,
		}, r.Grid, r.Proxy)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", c.Name, err)
		}
		r.Properties = append(r.Properties, prop)
		r.Datasets = append(r.Datasets, payload.Ints(c.Name, shape, c.Codes))
	}
	return r, nil
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
