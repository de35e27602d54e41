// Package filesystem provides a blob store adapter over a local
// directory. Each document is a regular file in the directory root.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/askdoc-labs/askdoc/internal/core/domain"
	"github.com/askdoc-labs/askdoc/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store reads and writes documents in a local directory.
type Store struct {
	dir string
}

// NewStore creates a store over dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("filesystem: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filesystem: create directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store operates on.
func (s *Store) Dir() string {
	return s.dir
}

// List enumerates regular files in the directory root. Hidden files
// and subdirectories are skipped.
func (s *Store) List(ctx context.Context) ([]driven.BlobInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: list %s: %w", s.dir, err)
	}

	blobs := make([]driven.BlobInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("filesystem: stat %s: %w", entry.Name(), err)
		}
		blobs = append(blobs, driven.BlobInfo{
			Name: entry.Name(),
			Size: info.Size(),
		})
	}
	return blobs, nil
}

// Fetch reads one document's bytes.
func (s *Store) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("filesystem: %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("filesystem: read %s: %w", name, err)
	}
	return data, nil
}

// Put writes a document, replacing any existing file of the same name.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("filesystem: write %s: %w", name, err)
	}
	return nil
}

// resolve maps a blob name to a path inside the directory, rejecting
// names that would escape it.
func (s *Store) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("filesystem: invalid name %q: %w", name, domain.ErrInvalidInput)
	}
	return filepath.Join(s.dir, name), nil
}
