package storage

import (
	"context"
	"testing"

	infraconfig "github.com/billsync/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var infraConfigStub = infraconfig.StorageConfig{Provider: "stub"}

func TestInMemoryAttachmentStore(t *testing.T) {
	t.Run("round trips stored objects", func(t *testing.T) {
		store := NewInMemoryAttachmentStore()
		ctx := context.Background()

		require.NoError(t, store.Upload(ctx, "receipts/a.pdf", []byte("%PDF"), "application/pdf"))

		data, err := store.Fetch(ctx, "receipts/a.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), data)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("fetch returns not found for missing key", func(t *testing.T) {
		store := NewInMemoryAttachmentStore()

		data, err := store.Fetch(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrObjectNotFound)
		assert.Nil(t, data)
	})

	t.Run("fetched bytes are isolated from the stored copy", func(t *testing.T) {
		store := NewInMemoryAttachmentStore()
		ctx := context.Background()

		require.NoError(t, store.Upload(ctx, "key", []byte("abc"), ""))

		data, err := store.Fetch(ctx, "key")
		require.NoError(t, err)
		data[0] = 'z'

		again, err := store.Fetch(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("delete removes the object", func(t *testing.T) {
		store := NewInMemoryAttachmentStore()
		ctx := context.Background()

		require.NoError(t, store.Upload(ctx, "key", []byte("abc"), ""))
		require.NoError(t, store.Delete(ctx, "key"))

		_, err := store.Fetch(ctx, "key")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})
}

func TestNewAttachmentStore(t *testing.T) {
	t.Run("stub provider returns in-memory store", func(t *testing.T) {
		store, err := NewAttachmentStore(&infraConfigStub, zap.NewNop())

		require.NoError(t, err)
		assert.IsType(t, &InMemoryAttachmentStore{}, store)
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		cfg := infraConfigStub
		cfg.Provider = "ftp"

		store, err := NewAttachmentStore(&cfg, zap.NewNop())

		assert.Error(t, err)
		assert.Nil(t, store)
	})
}
