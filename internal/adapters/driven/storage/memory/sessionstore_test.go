package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

func TestSessionStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()

	_, err := store.Get(ctx, "userAddress")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, "userAddress", "0x1111111111111111111111111111111111111111"))
	got, err := store.Get(ctx, "userAddress")
	require.NoError(t, err)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", got)

	require.NoError(t, store.Delete(ctx, "userAddress"))
	_, err = store.Get(ctx, "userAddress")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_DeleteMissing(t *testing.T) {
	assert.NoError(t, NewSessionStore().Delete(context.Background(), "nope"))
}
