package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdmiller/sonic-circuit/pkg/adapters/file"
	"github.com/alexdmiller/sonic-circuit/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunPatchStoreContract(t, store)
}

func TestFileStore_WritesPlainToken(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ring", "4_4_E5_m_1~5_4_E5_m_0"))

	data, err := os.ReadFile(filepath.Join(dir, "ring.circuit"))
	require.NoError(t, err)
	assert.Equal(t, "4_4_E5_m_1~5_4_E5_m_0", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_ListIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "b", "0_0_C4_m"))
	require.NoError(t, store.Save(ctx, "a", "0_0_C4_m"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.circuit"), 0o755))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, "../escape", "0_0_C4_m"))
	assert.Error(t, store.Save(ctx, "", "0_0_C4_m"))
	_, err := store.Load(ctx, "a/b")
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "missing"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
