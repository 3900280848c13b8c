// Package atomicfile writes files through a temporary sibling that is renamed
// into place, so readers never observe a half-written container or payload.
package atomicfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a pending write to Path. Writes are buffered into a temporary file
// in the same directory; Commit renames it over Path and Abort discards it.
type File struct {
	*bufio.Writer

	Path string
	tmp  *os.File
	done bool
}

// Create starts a write to path. A zero perm keeps the mode of an existing
// file at path, or 0644 for a new one.
func Create(path string, perm os.FileMode) (*File, error) {
	if perm == 0 {
		perm = 0o644
		if st, err := os.Stat(path); err == nil {
			perm = st.Mode().Perm()
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	// Not every filesystem supports chmod.
	_ = tmp.Chmod(perm)
	return &File{Writer: bufio.NewWriter(tmp), Path: path, tmp: tmp}, nil
}

// Commit flushes, syncs and renames the temporary file over Path.
func (f *File) Commit() error {
	if f.done {
		return fmt.Errorf("%s: write already finished", f.Path)
	}
	defer f.Abort()

	if err := f.Flush(); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(f.tmp.Name(), f.Path); err != nil {
		// Windows refuses to rename over an existing file.
		_ = os.Remove(f.Path)
		if err2 := os.Rename(f.tmp.Name(), f.Path); err2 != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
	}
	f.done = true
	return nil
}

// Abort removes the temporary file. It does nothing after a successful
// Commit.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
}

// Write streams fill into path atomically. Nothing is left behind when fill
// fails.
func Write(path string, perm os.FileMode, fill func(w io.Writer) error) error {
	f, err := Create(path, perm)
	if err != nil {
		return err
	}
	defer f.Abort()
	if err := fill(f); err != nil {
		return err
	}
	return f.Commit()
}

// WriteFile writes data to path atomically.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return Write(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}
