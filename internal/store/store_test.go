package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_GetMissing(t *testing.T) {
	s := newMemoryStore(t)

	v, ok, err := s.Get(context.Background(), KeyTheme)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestStore_SetGetOverwrite(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyTheme, "dark"))
	v, ok, err := s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "dark", v)

	require.NoError(t, s.Set(ctx, KeyTheme, "light"))
	v, _, err = s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.Equal(t, "light", v)
}

func TestStore_DeleteAndAll(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyTheme, "system"))
	require.NoError(t, s.Set(ctx, KeySpeed, "1.5"))
	require.NoError(t, s.Set(ctx, KeyLanguage, "go"))

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		KeyTheme:    "system",
		KeySpeed:    "1.5",
		KeyLanguage: "go",
	}, all)

	require.NoError(t, s.Delete(ctx, KeySpeed))
	require.NoError(t, s.Delete(ctx, "never-set"))
	_, ok, err := s.Get(ctx, KeySpeed)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, path, s.Path())
	require.NoError(t, s.Set(ctx, KeyTheme, "dark"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	v, ok, err := s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "dark", v)
}

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
