// ABOUTME: Tests for credential creation, rotation and verification
// ABOUTME: Covers normalization equivalence and the unknown-store falsy shape

package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/storegate/internal/store"
)

func TestCreateOrRotate_GeneratesPassphrase(t *testing.T) {
	s := setupTestStore(t)
	creds := newTestCredentialService(t, s)
	ctx := context.Background()

	secret, err := creds.CreateOrRotate(ctx, "7", "")
	require.NoError(t, err)
	assert.Len(t, strings.Split(secret, "-"), 3)

	ok, err := creds.Verify(ctx, "7", secret)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = creds.Verify(ctx, "7", secret+"x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateOrRotate_CustomSecret(t *testing.T) {
	s := setupTestStore(t)
	creds := newTestCredentialService(t, s)
	ctx := context.Background()

	used, err := creds.CreateOrRotate(ctx, "1", "Happy-Tiger-Blue")
	require.NoError(t, err)
	assert.Equal(t, "Happy-Tiger-Blue", used)

	// Any formatting of the same letters verifies
	for _, input := range []string{"Happy-Tiger-Blue", "happy tiger blue", "HAPPY TIGER BLUE", "happytigerblue"} {
		ok, err := creds.Verify(ctx, "1", input)
		require.NoError(t, err)
		assert.True(t, ok, "input %q", input)
	}

	ok, err := creds.Verify(ctx, "1", "grumpy tiger blue")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateOrRotate_RotationInvalidatesOld(t *testing.T) {
	s := setupTestStore(t)
	creds := newTestCredentialService(t, s)
	ctx := context.Background()

	first, err := creds.CreateOrRotate(ctx, "1", "old secret words")
	require.NoError(t, err)

	_, err = creds.CreateOrRotate(ctx, "1", "new secret words")
	require.NoError(t, err)

	ok, err := creds.Verify(ctx, "1", first)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = creds.Verify(ctx, "1", "new secret words")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerify_UnknownStore(t *testing.T) {
	s := setupTestStore(t)
	creds := newTestCredentialService(t, s)
	ctx := context.Background()

	// Same falsy shape as a wrong password, no error
	ok, err := creds.Verify(ctx, "99", "anything")
	require.NoError(t, err)
	assert.False(t, ok)

	// The attempt is still audited for operators
	entries, err := s.ListAudit(ctx, store.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, store.AuditLoginAttempt, entries[0].Action)
	assert.Equal(t, "99", entries[0].StoreID)
	assert.Equal(t, `{"success":false}`, *entries[0].Details)
}

func TestVerify_AuditsOutcome(t *testing.T) {
	s := setupTestStore(t)
	creds := newTestCredentialService(t, s)
	ctx := context.Background()

	_, err := creds.CreateOrRotate(ctx, "1", "some good secret")
	require.NoError(t, err)

	_, err = creds.Verify(ctx, "1", "some good secret")
	require.NoError(t, err)
	_, err = creds.Verify(ctx, "1", "wrong")
	require.NoError(t, err)

	storeID := "1"
	entries, err := s.ListAudit(ctx, store.AuditFilter{StoreID: &storeID})
	require.NoError(t, err)
	require.Len(t, entries, 3) // store_created + two attempts

	assert.Equal(t, `{"success":false}`, *entries[0].Details)
	assert.Equal(t, `{"success":true}`, *entries[1].Details)
	assert.Equal(t, store.AuditStoreCreated, entries[2].Action)
}

func TestList_And_Has(t *testing.T) {
	s := setupTestStore(t)
	creds := newTestCredentialService(t, s)
	ctx := context.Background()

	for _, id := range []string{"3", "1", "2"} {
		_, err := creds.CreateOrRotate(ctx, id, "")
		require.NoError(t, err)
	}

	list, err := creds.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "1", list[0].StoreID)
	assert.Equal(t, "2", list[1].StoreID)
	assert.Equal(t, "3", list[2].StoreID)

	has, err := creds.Has(ctx, "2")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = creds.Has(ctx, "9")
	require.NoError(t, err)
	assert.False(t, has)
}
