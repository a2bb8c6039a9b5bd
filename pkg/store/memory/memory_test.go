package memory

import (
	"context"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store"
	storetesting "github.com/marmos91/sandboxfs/pkg/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileStore(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) store.FileStore {
			s, err := NewMemoryFileStore(context.Background())
			require.NoError(t, err)
			return s
		},
	}
	suite.Run(t)
}

func TestNewMemoryFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryFileStore(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryFileStore_InvalidUTF8(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryFileStore(ctx)
	require.NoError(t, err)

	require.NoError(t, s.CreateExclusive(ctx, "bad.txt", string([]byte{0xff, 0xfe})))

	_, err = s.Read(ctx, "bad.txt")
	assert.ErrorIs(t, err, store.ErrInvalidEncoding)
}

func TestMemoryFileStore_CloseDropsContent(t *testing.T) {
	ctx := context.Background()
	s, err := NewMemoryFileStore(ctx)
	require.NoError(t, err)

	require.NoError(t, s.CreateExclusive(ctx, "a.txt", "a"))
	require.NoError(t, s.Close())

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}
