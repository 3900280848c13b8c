// Package payload stores the bulk numeric arrays that container documents
// only point at. A payload file lives next to its container and holds named
// datasets; container parts refer to them by dataset name.
package payload

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/resqpack/internal/atomicfile"
)

// Extension is the file extension of payload files.
const Extension = ".h5"

const manifestName = "manifest.yaml"

// ErrNotFound is returned when a payload or dataset does not exist.
var ErrNotFound = errors.New("payload not found")

// Kind is the element type of a dataset.
type Kind string

const (
	Float64 Kind = "float64"
	Int64   Kind = "int64"
)

// Dataset is a named, shaped array of numbers.
type Dataset struct {
	Name  string `yaml:"name"`
	Kind  Kind   `yaml:"kind"`
	Shape []int  `yaml:"shape,flow"`

	Floats []float64 `yaml:"-"`
	Ints   []int64   `yaml:"-"`
}

// Floats creates a float64 dataset.
func Floats(name string, shape []int, values []float64) Dataset {
	return Dataset{Name: name, Kind: Float64, Shape: shape, Floats: values}
}

// Ints creates an int64 dataset.
func Ints(name string, shape []int, values []int64) Dataset {
	return Dataset{Name: name, Kind: Int64, Shape: shape, Ints: values}
}

// Len returns the number of stored values.
func (d Dataset) Len() int {
	if d.Kind == Int64 {
		return len(d.Ints)
	}
	return len(d.Floats)
}

// Size returns the number of values the shape calls for.
func (d Dataset) Size() int {
	n := 1
	for _, s := range d.Shape {
		n *= s
	}
	return n
}

// Validate checks the name, the kind and that the values fill the shape.
func (d Dataset) Validate() error {
	if entryName(d.Name) == "" {
		return fmt.Errorf("dataset has no name")
	}
	if d.Kind != Float64 && d.Kind != Int64 {
		return fmt.Errorf("dataset %s: unknown kind %q", d.Name, d.Kind)
	}
	if d.Len() != d.Size() {
		return fmt.Errorf("dataset %s: %d values do not fill shape %v", d.Name, d.Len(), d.Shape)
	}
	return nil
}

// Range returns the smallest and largest finite value. ok is false when the
// dataset holds no finite value.
func (d Dataset) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	visit := func(v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	for _, v := range d.Floats {
		visit(v)
	}
	for _, v := range d.Ints {
		visit(float64(v))
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// Store is the collaborator that persists and opens payload files.
type Store interface {
	Open(path string) (io.ReadCloser, error)
	Materialize(path string, data ...Dataset) error
}

// Files stores payloads as files on disk.
type Files struct{}

// Open opens the payload file at path.
func (Files) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return f, err
}

// Materialize writes data to path, replacing any existing payload.
func (Files) Materialize(path string, data ...Dataset) error {
	return atomicfile.Write(path, 0, func(w io.Writer) error {
		return Encode(w, data)
	})
}

// Memory keeps payloads in memory, keyed by path.
type Memory struct {
	files map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Open returns the payload stored at path.
func (m *Memory) Open(path string) (io.ReadCloser, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Materialize stores data at path.
func (m *Memory) Materialize(path string, data ...Dataset) error {
	var buf bytes.Buffer
	if err := Encode(&buf, data); err != nil {
		return err
	}
	m.files[path] = buf.Bytes()
	return nil
}

// Paths returns the stored paths, sorted.
func (m *Memory) Paths() []string {
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Encode writes datasets as a zip archive: a YAML manifest followed by one
// little-endian entry per dataset.
func Encode(w io.Writer, data []Dataset) error {
	for _, d := range data {
		if err := d.Validate(); err != nil {
			return err
		}
	}

	zw := zip.NewWriter(w)
	manifest, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	mw, err := zw.Create(manifestName)
	if err != nil {
		return err
	}
	if _, err := mw.Write(manifest); err != nil {
		return err
	}

	for _, d := range data {
		dw, err := zw.Create("data/" + entryName(d.Name))
		if err != nil {
			return err
		}
		var values interface{} = d.Floats
		if d.Kind == Int64 {
			values = d.Ints
		}
		if err := binary.Write(dw, binary.LittleEndian, values); err != nil {
			return fmt.Errorf("write dataset %s: %w", d.Name, err)
		}
	}
	return zw.Close()
}

// Decode reads every dataset of a payload written by Encode.
func Decode(r io.ReaderAt, size int64) ([]Dataset, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open payload: %w", err)
	}
	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	mf, ok := entries[manifestName]
	if !ok {
		return nil, fmt.Errorf("payload has no %s", manifestName)
	}
	raw, err := readEntry(mf)
	if err != nil {
		return nil, err
	}
	var data []Dataset
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	for i := range data {
		d := &data[i]
		f, ok := entries["data/"+entryName(d.Name)]
		if !ok {
			return nil, fmt.Errorf("dataset %s: %w", d.Name, ErrNotFound)
		}
		raw, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		n := d.Size()
		switch d.Kind {
		case Int64:
			d.Ints = make([]int64, n)
			err = binary.Read(bytes.NewReader(raw), binary.LittleEndian, d.Ints)
		default:
			d.Floats = make([]float64, n)
			err = binary.Read(bytes.NewReader(raw), binary.LittleEndian, d.Floats)
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset %s: %w", d.Name, err)
		}
	}
	return data, nil
}

// Read opens path in s and decodes its datasets.
func Read(s Store, path string) ([]Dataset, error) {
	rc, err := s.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return Decode(bytes.NewReader(raw), int64(len(raw)))
}

// Find returns the dataset called name. Leading slashes are ignored, so
// "/porosity" and "porosity" name the same dataset.
func Find(data []Dataset, name string) (Dataset, error) {
	for _, d := range data {
		if entryName(d.Name) == entryName(name) {
			return d, nil
		}
	}
	return Dataset{}, fmt.Errorf("dataset %s: %w", name, ErrNotFound)
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func entryName(name string) string {
	return strings.TrimLeft(name, "/")
}
