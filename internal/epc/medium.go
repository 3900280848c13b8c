package epc

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/aidanlsb/resqpack/internal/atomicfile"
)

// Medium is the physical form of a container.
type Medium int

const (
	// Archive stores every part in one zip file.
	Archive Medium = iota
	// Directory stores every part as a loose file under one directory.
	Directory
)

func (m Medium) String() string {
	switch m {
	case Archive:
		return "archive"
	case Directory:
		return "directory"
	default:
		return "unknown"
	}
}

// ParseMedium parses "archive" or "directory" (also "zip" and "dir").
func ParseMedium(s string) (Medium, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "archive", "zip", "":
		return Archive, nil
	case "directory", "dir":
		return Directory, nil
	}
	return 0, fmt.Errorf("unknown medium %q", s)
}

// sink receives the parts of a container being written.
type sink interface {
	Put(name string, fill func(w io.Writer) error) error
}

type dirSink struct {
	root string
}

func (s dirSink) Put(name string, fill func(w io.Writer) error) error {
	path := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return atomicfile.Write(path, 0o644, fill)
}

type zipSink struct {
	zw *zip.Writer
}

func (s zipSink) Put(name string, fill func(w io.Writer) error) error {
	w, err := s.zw.Create(name)
	if err != nil {
		return err
	}
	return fill(w)
}

// source lists and opens the parts of a container being read.
type source interface {
	Names() []string
	Open(name string) (io.ReadCloser, error)
	Close() error
}

type dirSource struct {
	root  string
	names []string
}

func openDir(root string) (*dirSource, error) {
	s := &dirSource{root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		s.names = append(s.names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(s.names)
	return s, nil
}

func (s *dirSource) Names() []string { return s.names }

func (s *dirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.FromSlash(name)))
}

func (s *dirSource) Close() error { return nil }

type zipSource struct {
	zr    *zip.ReadCloser
	files map[string]*zip.File
	names []string
}

func openZip(path string) (*zipSource, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	s := &zipSource{zr: zr, files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		s.files[f.Name] = f
		s.names = append(s.names, f.Name)
	}
	sort.Strings(s.names)
	return s, nil
}

func (s *zipSource) Names() []string { return s.names }

func (s *zipSource) Open(name string) (io.ReadCloser, error) {
	f, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", name, fs.ErrNotExist)
	}
	return f.Open()
}

func (s *zipSource) Close() error { return s.zr.Close() }
