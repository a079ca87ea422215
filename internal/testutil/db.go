// Package testutil provides helpers for tests that need a preference store.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/livecode/internal/store"
)

// NewStore opens an in-memory preference store closed at the end of the test.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	return open(t, ":memory:")
}

// NewFileStore opens a preference store in a temporary directory and returns
// it with its path, so a second handle can be opened with OpenShared.
func NewFileStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	return open(t, path), path
}

// OpenShared opens another handle on the store at path, the way a second
// livecode process would.
func OpenShared(t *testing.T, path string) *store.Store {
	t.Helper()
	return open(t, path)
}

func open(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}
