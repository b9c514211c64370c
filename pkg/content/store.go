package content

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// ContentStore serves the static pages the HTTP adapter returns.
//
// Names are slash-separated paths relative to the store root, for example
// "index.html". A store never interprets the bytes it returns.
//
// Implementations must be safe for concurrent use: every worker of the
// connection pool reads through the same store.
type ContentStore interface {
	// ReadContent returns the full content stored under name.
	//
	// Returns ErrContentNotFound (wrapped) when nothing is stored under name
	// and ErrInvalidName when name escapes the store root.
	ReadContent(ctx context.Context, name string) ([]byte, error)
}

// ValidateName rejects names that are empty, absolute, or that climb out of
// the store root through "..".
func ValidateName(name string) error {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("content %q: %w", name, ErrInvalidName)
	}
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return fmt.Errorf("content %q: %w", name, ErrInvalidName)
	}
	return nil
}
