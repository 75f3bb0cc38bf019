// ABOUTME: Shared fixtures for auth service tests
// ABOUTME: Temporary SQLite store, deterministic word source and fake clock

package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/2389/storegate/internal/passphrase"
	"github.com/2389/storegate/internal/store"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// cycleSource returns preset words in a repeating cycle, so generated
// passphrases are predictable.
type cycleSource struct {
	words []string
	next  int
}

func (c *cycleSource) Word() (string, error) {
	w := c.words[c.next%len(c.words)]
	c.next++
	return w, nil
}

// newTestCredentialService builds a CredentialService over a
// deterministic word source.
func newTestCredentialService(t *testing.T, s *store.SQLiteStore) *CredentialService {
	t.Helper()
	gen := passphrase.NewGenerator(&cycleSource{words: []string{"happy", "tiger", "blue"}})
	return NewCredentialService(s, s, gen, 3)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}
