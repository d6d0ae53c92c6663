//go:build !tinygo

package nvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var _ Cell = (*File)(nil)

// File is a cell persisted in a one-byte file. A missing or empty file reads
// as Erased, like a device that was never programmed.
type File struct {
	path string

	mu     sync.Mutex
	closed bool
}

// NewFile creates a cell backed by path. The file is created on first Store.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// Load reads the stored byte.
func (f *File) Load() (byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, ErrClosed
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Erased, nil
		}
		return 0, fmt.Errorf("failed to read cell %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return Erased, nil
	}
	return data[0], nil
}

// Store writes b through a temporary file and a rename, so the cell holds
// either the old or the new value after an interrupted write.
func (f *File) Store(b byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp cell: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write([]byte{b}); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cell: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp cell: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace cell %s: %w", f.path, err)
	}
	return nil
}

// Close makes further Load and Store calls fail.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
