package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewDocumentStore(dir)
	require.NoError(t, err)

	_, err = store.Load(ctx, "default/cash_items")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, store.Save(ctx, "default/cash_items", []byte(`[1]`)))
	require.NoError(t, store.Save(ctx, "default/cash_items", []byte(`[1,2]`)))

	data, err := store.Load(ctx, "default/cash_items")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	_, err = os.Stat(filepath.Join(dir, "default", "cash_items.json"))
	assert.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "default"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestDocumentStore_RejectsEscapingNames(t *testing.T) {
	store, err := NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(context.Background(), "../outside", []byte(`{}`))
	assert.Error(t, err)
}

func TestNewDocumentStore_RequiresDir(t *testing.T) {
	_, err := NewDocumentStore("")
	assert.Error(t, err)
}
