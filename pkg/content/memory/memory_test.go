package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/minihttpd/pkg/content"
	contenttesting "github.com/marmos91/minihttpd/pkg/content/testing"
)

// TestMemoryContentStore runs the complete ContentStore test suite
// against the MemoryContentStore implementation.
func TestMemoryContentStore(t *testing.T) {
	suite := &contenttesting.StoreTestSuite{
		NewStore: func(t *testing.T, files map[string][]byte) content.ContentStore {
			store, err := NewMemoryContentStore(context.Background(), files)
			if err != nil {
				t.Fatalf("Failed to create MemoryContentStore: %v", err)
			}
			return store
		},
	}

	suite.Run(t)
}

func TestMemoryContentStore_CopiesBuffers(t *testing.T) {
	body := []byte("abc")
	store, err := NewMemoryContentStore(context.Background(), map[string][]byte{"a": body})
	require.NoError(t, err)

	body[0] = 'x'
	got, err := store.ReadContent(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, err := store.ReadContent(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestMemoryContentStore_RejectsInvalidSeed(t *testing.T) {
	_, err := NewMemoryContentStore(context.Background(), map[string][]byte{"../x": nil})
	assert.ErrorIs(t, err, content.ErrInvalidName)
}
