package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/minihttpd/pkg/content"
	contenttesting "github.com/marmos91/minihttpd/pkg/content/testing"
)

func TestFSContentStore(t *testing.T) {
	suite := &contenttesting.StoreTestSuite{
		NewStore: func(t *testing.T, files map[string][]byte) content.ContentStore {
			dir := t.TempDir()
			for name, body := range files {
				path := filepath.Join(dir, filepath.FromSlash(name))
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
				require.NoError(t, os.WriteFile(path, body, 0644))
			}

			store, err := NewFSContentStore(context.Background(), dir)
			require.NoError(t, err)
			return store
		},
	}

	suite.Run(t)
}

func TestNewFSContentStore_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")

	store, err := NewFSContentStore(context.Background(), dir)
	require.NoError(t, err)

	_, err = store.ReadContent(context.Background(), "index.html")
	assert.ErrorIs(t, err, content.ErrContentNotFound)

	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("late"), 0644))

	got, err := store.ReadContent(context.Background(), "index.html")
	require.NoError(t, err)
	assert.Equal(t, "late", string(got))
}

func TestNewFSContentStore_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewFSContentStore(context.Background(), file)
	assert.Error(t, err)
}

func TestFSContentStore_DirectoryIsNotContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	store, err := NewFSContentStore(context.Background(), dir)
	require.NoError(t, err)

	_, err = store.ReadContent(context.Background(), "sub")
	assert.Error(t, err)
}
