package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/marmos91/minihttpd/pkg/content"
)

// FSContentStore reads pages from a directory on the local filesystem.
//
// Every call reads the file again, so pages edited on disk are served without
// a restart. The directory does not need to exist when the store is created;
// reads simply fail until it does.
type FSContentStore struct {
	basePath string
}

// NewFSContentStore returns a store rooted at basePath.
//
// Returns an error if basePath exists but is not a directory.
func NewFSContentStore(ctx context.Context, basePath string) (*FSContentStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}

	info, err := os.Stat(abs)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("base path %s is not a directory", abs)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to stat base path: %w", err)
	}

	return &FSContentStore{basePath: abs}, nil
}

// BasePath returns the absolute root directory.
func (s *FSContentStore) BasePath() string {
	return s.basePath
}

// ReadContent reads the file at basePath/name.
func (s *FSContentStore) ReadContent(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := content.ValidateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.basePath, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("content %s: %w", name, content.ErrContentNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
