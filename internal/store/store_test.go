// ABOUTME: Shared test fixture for the SQLite store
// ABOUTME: Creates a temporary database per test with automatic cleanup

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestNewSQLiteStore_CreatesParentDirs(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dirs", "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	// Schema should be usable immediately
	has, err := store.HasCredential(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	_, err = store.UpsertCredential(ctx, "7", "hash-a")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Data survives a reopen
	store, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	hash, err := store.GetCredentialHash(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "hash-a", hash)
}
