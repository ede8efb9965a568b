package ports

import (
	"context"
	"testing"
	"time"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunPatchStoreContract runs a suite of tests to verify that a PatchStore implementation
// adheres to the defined interface contract.
func RunPatchStoreContract(t *testing.T, store PatchStore) {
	ctx := context.Background()
	id := "contract-" + time.Now().Format("20060102150405")
	token := "4_4_E5_m_1~5_4_E5_m_0"

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, id, token)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, token, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, "0_0_A2_r"))
		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "0_0_A2_r", loaded)
	})

	t.Run("Empty Token", func(t *testing.T) {
		emptyID := id + "-empty"
		require.NoError(t, store.Save(ctx, emptyID, ""))
		defer func() { _ = store.Delete(ctx, emptyID) }()

		loaded, err := store.Load(ctx, emptyID)
		require.NoError(t, err, "an empty circuit is a valid patch")
		assert.Empty(t, loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrPatchNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, id, token))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrPatchNotFound, "Load after Delete should return ErrPatchNotFound")

		assert.NoError(t, store.Delete(ctx, id), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, id1, token)
		_ = store.Save(ctx, id2, token)

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
