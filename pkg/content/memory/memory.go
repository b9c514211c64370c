package memory

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/marmos91/minihttpd/pkg/content"
)

// MemoryContentStore keeps pages in a map. Used by tests and by the
// content.type=memory configuration, which embeds pages in the config file.
type MemoryContentStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryContentStore returns a store holding a copy of files.
func NewMemoryContentStore(ctx context.Context, files map[string][]byte) (*MemoryContentStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := &MemoryContentStore{data: make(map[string][]byte, len(files))}
	for name, body := range files {
		if err := s.Put(name, body); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Put stores a copy of body under name, replacing any previous content.
func (s *MemoryContentStore) Put(name string, body []byte) error {
	if err := content.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = bytes.Clone(body)
	return nil
}

// ReadContent returns a copy of the content stored under name.
func (s *MemoryContentStore) ReadContent(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := content.ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("content %s: %w", name, content.ErrContentNotFound)
	}
	if data == nil {
		return []byte{}, nil
	}
	return bytes.Clone(data), nil
}
