package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aidanlsb/resqpack/internal/factory"
)

// Ramp returns n values increasing linearly from lo to hi in cell order.
func Ramp(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if n == 1 {
			out[i] = lo
			continue
		}
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Layered returns one code per cell, assigning layer k the code k modulo
// count. Cells are ordered k, then j, then i.
func Layered(ext factory.Extent, count int) []int64 {
	out := make([]int64, 0, ext.Cells())
	per := ext.Ni * ext.Nj
	for k := 0; k < ext.Nk; k++ {
		code := int64(k % count)
		for n := 0; n < per; n++ {
			out = append(out, code)
		}
	}
	return out
}

// ParseContinuous parses "name=lo:hi[:kind[:uom]]" into a property whose
// values ramp from lo to hi over the cells of ext.
func ParseContinuous(s string, ext factory.Extent) (Continuous, error) {
	name, spec, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Continuous{}, fmt.Errorf("continuous property %q: want name=lo:hi[:kind[:uom]]", s)
	}
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return Continuous{}, fmt.Errorf("continuous property %q: want name=lo:hi[:kind[:uom]]", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Continuous{}, fmt.Errorf("continuous property %s: invalid lower bound %q", name, parts[0])
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Continuous{}, fmt.Errorf("continuous property %s: invalid upper bound %q", name, parts[1])
	}
	c := Continuous{Name: name, Values: Ramp(ext.Cells(), lo, hi)}
	if len(parts) > 2 {
		c.Kind = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		c.Uom = strings.TrimSpace(parts[3])
	}
	return c, nil
}

// ParseCategorical parses "name=label0,label1,..." into a property whose
// layers cycle through the labels.
func ParseCategorical(s string, ext factory.Extent) (Categorical, error) {
	name, spec, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(spec) == "" {
		return Categorical{}, fmt.Errorf("categorical property %q: want name=label0,label1,...", s)
	}
	labels := make(map[int64]string)
	for i, l := range strings.Split(spec, ",") {
		labels[int64(i)] = strings.TrimSpace(l)
	}
	return Categorical{
		Name:   name,
		Codes:  Layered(ext, len(labels)),
		Labels: labels,
	}, nil
}
