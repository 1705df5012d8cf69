// Package storage writes captured screenshots to a filesystem.
package storage

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
)

// Store writes images under a filesystem abstraction
type Store struct {
	fs afero.Fs
}

// New returns a Store backed by fs
func New(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOS returns a Store backed by the real filesystem
func NewOS() *Store {
	return New(afero.NewOsFs())
}

// Fs exposes the underlying filesystem
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// EnsureDir creates path and any missing parents. It is a no-op if path exists.
func (s *Store) EnsureDir(path string) error {
	if err := s.fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// WriteImage encodes img as PNG to path, replacing any existing file, and
// returns the number of bytes written.
func (s *Store) WriteImage(path string, img image.Image) (int64, error) {
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	cw := &countingWriter{w: f}
	if err := imaging.Encode(cw, img, imaging.PNG); err != nil {
		f.Close()
		return cw.n, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return cw.n, fmt.Errorf("failed to close %s: %w", path, err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
