package payload

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesMaterializeAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid"+Extension)
	porosity := Floats("/porosity", []int{1, 2, 2}, []float64{0.1, 0.2, 0.25, 0.3})
	facies := Ints("facies", []int{1, 2, 2}, []int64{0, 1, -1, 2})

	store := Files{}
	require.NoError(t, store.Materialize(path, porosity, facies))

	data, err := Read(store, path)
	require.NoError(t, err)
	require.Len(t, data, 2)

	got, err := Find(data, "porosity")
	require.NoError(t, err)
	assert.Equal(t, Float64, got.Kind)
	assert.Equal(t, []int{1, 2, 2}, got.Shape)
	assert.Equal(t, porosity.Floats, got.Floats)

	got, err = Find(data, "/facies")
	require.NoError(t, err)
	assert.Equal(t, facies.Ints, got.Ints)
}

func TestMaterializeRejectsShapeMismatch(t *testing.T) {
	m := NewMemory()
	err := m.Materialize("x.h5", Floats("a", []int{3}, []float64{1, 2}))
	require.Error(t, err)
	assert.Empty(t, m.Paths())
}

func TestOpenMissing(t *testing.T) {
	_, err := NewMemory().Open("missing.h5")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = Files{}.Open(filepath.Join(t.TempDir(), "missing.h5"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRange(t *testing.T) {
	tests := []struct {
		name   string
		d      Dataset
		lo, hi float64
		ok     bool
	}{
		{"floats", Floats("a", []int{3}, []float64{2, -1, 5}), -1, 5, true},
		{"skips NaN", Floats("a", []int{3}, []float64{math.NaN(), 4, 3}), 3, 4, true},
		{"ints", Ints("a", []int{2}, []int64{7, 3}), 3, 7, true},
		{"empty", Floats("a", []int{0}, nil), 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, ok := tt.d.Range()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}
