// ABOUTME: Tests for audit log append and filtered listing
// ABOUTME: Covers id monotonicity, ordering and the append-only contract

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAudit_AssignsIncreasingIDs(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var lastID int64
	var lastTS time.Time
	for i := 0; i < 5; i++ {
		e := &AuditEntry{StoreID: "1", Action: AuditLoginAttempt, Details: LoginAttemptDetails(true)}
		require.NoError(t, store.AppendAudit(ctx, e))

		assert.Greater(t, e.ID, lastID)
		assert.False(t, e.Timestamp.Before(lastTS))
		lastID = e.ID
		lastTS = e.Timestamp
	}
}

func TestListAudit_NewestFirst(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	actions := []AuditAction{AuditStoreCreated, AuditLoginAttempt, AuditSessionCreated}
	for _, a := range actions {
		require.NoError(t, store.AppendAudit(ctx, &AuditEntry{StoreID: "1", Action: a}))
	}

	entries, err := store.ListAudit(ctx, AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Same-second inserts keep insertion order via the id tiebreak
	assert.Equal(t, AuditSessionCreated, entries[0].Action)
	assert.Equal(t, AuditLoginAttempt, entries[1].Action)
	assert.Equal(t, AuditStoreCreated, entries[2].Action)
}

func TestListAudit_FilterByStore(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"1", "2", "1"} {
		e := &AuditEntry{StoreID: id, Action: AuditLoginAttempt, Details: LoginAttemptDetails(i%2 == 0)}
		require.NoError(t, store.AppendAudit(ctx, e))
	}

	storeID := "1"
	entries, err := store.ListAudit(ctx, AuditFilter{StoreID: &storeID})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.Equal(t, "1", e.StoreID)
	}
}

func TestListAudit_Limit(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.AppendAudit(ctx, &AuditEntry{
			StoreID: fmt.Sprintf("%d", i),
			Action:  AuditStoreCreated,
		}))
	}

	entries, err := store.ListAudit(ctx, AuditFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestListAudit_Empty(t *testing.T) {
	store := setupTestStore(t)

	entries, err := store.ListAudit(context.Background(), AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestLoginAttemptDetails_StableForm(t *testing.T) {
	assert.Equal(t, `{"success":true}`, *LoginAttemptDetails(true))
	assert.Equal(t, `{"success":false}`, *LoginAttemptDetails(false))
}

func TestAppendAudit_RoundTripsDetails(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	e := &AuditEntry{StoreID: "1", Action: AuditLoginAttempt, Details: LoginAttemptDetails(false)}
	require.NoError(t, store.AppendAudit(ctx, e))

	entries, err := store.ListAudit(ctx, AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Details)
	assert.Equal(t, `{"success":false}`, *entries[0].Details)

	// Non-login entries carry no payload
	require.NoError(t, store.AppendAudit(ctx, &AuditEntry{StoreID: "1", Action: AuditLogout}))
	entries, err = store.ListAudit(ctx, AuditFilter{})
	require.NoError(t, err)
	assert.Nil(t, entries[0].Details)
}
