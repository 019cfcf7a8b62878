package papertrade

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	s := buildAccount(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "acct-1", s))

	got, err := store.Load(ctx, "acct-1")
	require.NoError(t, err)
	assert.True(t, got.Cash.Equal(s.Cash), "cash %s != %s", got.Cash, s.Cash)
	assert.Len(t, got.TradeHistory, len(s.TradeHistory))
	assert.Equal(t, s.SelectedID, got.SelectedID)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoState)
}

func TestFileStore_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStore_OverwriteKeepsLatest(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first := NewState(M(100, "USD"), at(0))
	require.NoError(t, store.Save(ctx, "a", first))

	second, err := first.Deposit(M(50, "USD"), at(1))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "a", second))

	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.Cash.Equal(M(150, "USD")), "cash %s", got.Cash)
}
