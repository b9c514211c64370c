package testing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/minihttpd/pkg/content"
)

// StoreTestSuite checks the ContentStore contract, independent of backend.
//
// Usage:
//
//	func TestMyContentStore(t *testing.T) {
//	    suite := &testing.StoreTestSuite{
//	        NewStore: func(t *testing.T, files map[string][]byte) content.ContentStore {
//	            return mystore.New(files)
//	        },
//	    }
//	    suite.Run(t)
//	}
type StoreTestSuite struct {
	// NewStore returns a fresh store already holding files.
	NewStore func(t *testing.T, files map[string][]byte) content.ContentStore
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("ReadSeeded", suite.testReadSeeded)
	t.Run("NotFound", suite.testNotFound)
	t.Run("InvalidNames", suite.testInvalidNames)
	t.Run("CancelledContext", suite.testCancelledContext)
}

var seedFiles = map[string][]byte{
	"index.html":     []byte("<h1>index</h1>"),
	"404.html":       []byte("<h1>not found</h1>"),
	"empty.html":     {},
	"nested/a.html":  []byte("a"),
	"with space.txt": []byte("space"),
}

func (suite *StoreTestSuite) testReadSeeded(t *testing.T) {
	store := suite.NewStore(t, seedFiles)

	for name, want := range seedFiles {
		got, err := store.ReadContent(context.Background(), name)
		require.NoError(t, err, name)
		assert.Equal(t, string(want), string(got), name)
	}
}

func (suite *StoreTestSuite) testNotFound(t *testing.T) {
	store := suite.NewStore(t, seedFiles)

	_, err := store.ReadContent(context.Background(), "non-existent file.html")
	AssertErrorIs(t, content.ErrContentNotFound, err)
}

func (suite *StoreTestSuite) testInvalidNames(t *testing.T) {
	store := suite.NewStore(t, seedFiles)

	for _, name := range []string{"", "/etc/passwd", "../index.html", "nested/../../x", `nested\a.html`} {
		_, err := store.ReadContent(context.Background(), name)
		AssertErrorIs(t, content.ErrInvalidName, err)
	}
}

func (suite *StoreTestSuite) testCancelledContext(t *testing.T) {
	store := suite.NewStore(t, seedFiles)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ReadContent(ctx, "index.html")
	AssertErrorIs(t, context.Canceled, err)
}
