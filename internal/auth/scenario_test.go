// ABOUTME: End-to-end scenario covering the full credential and session flow
// ABOUTME: Register, log in, use the session, rotate, revoke — all against one database

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/storegate/internal/passphrase"
	"github.com/2389/storegate/internal/store"
)

func TestScenario_FullAuthenticationFlow(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Production wiring: embedded wordlist, real clock
	source, err := passphrase.NewEmbeddedSource()
	require.NoError(t, err)
	creds := NewCredentialService(s, s, passphrase.NewGenerator(source), 3)
	sessions := NewSessionService(s, 24*time.Hour)

	// Register store "7" with a generated secret
	secret, err := creds.CreateOrRotate(ctx, "7", "")
	require.NoError(t, err)

	words := strings.Split(secret, "-")
	require.Len(t, words, 3)
	for _, w := range words {
		assert.Equal(t, w, passphrase.Normalize(w), "generated words are lowercase letters")
		assert.NotEmpty(t, w)
	}

	// The right secret verifies, wrong ones don't, and an unknown
	// store looks exactly like a wrong password
	ok, err := creds.Verify(ctx, "7", secret)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = creds.Verify(ctx, "7", "wrong-words-here")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = creds.Verify(ctx, "99", "anything")
	require.NoError(t, err)
	assert.False(t, ok)

	// Successful verification earns a session
	sess, err := sessions.Issue(ctx, "7", 0)
	require.NoError(t, err)

	storeID, ok, err := sessions.Validate(ctx, sess.Token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "7", storeID)

	// Rotation keeps existing sessions but invalidates the secret
	rotated, err := creds.CreateOrRotate(ctx, "7", "")
	require.NoError(t, err)
	assert.NotEqual(t, secret, rotated)

	ok, err = creds.Verify(ctx, "7", secret)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = sessions.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.True(t, ok)

	// Logout ends the session
	require.NoError(t, sessions.Revoke(ctx, sess.Token))
	_, ok, err = sessions.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.False(t, ok)

	// The audit trail tells the whole story, newest first
	storeFilter := "7"
	entries, err := s.ListAudit(ctx, store.AuditFilter{StoreID: &storeFilter})
	require.NoError(t, err)

	var actions []store.AuditAction
	for i := len(entries) - 1; i >= 0; i-- {
		actions = append(actions, entries[i].Action)
	}
	assert.Equal(t, []store.AuditAction{
		store.AuditStoreCreated,
		store.AuditLoginAttempt,
		store.AuditLoginAttempt,
		store.AuditSessionCreated,
		store.AuditPasswordUpdated,
		store.AuditLoginAttempt,
		store.AuditLogout,
	}, actions)

	// Ids strictly increase in insertion order
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i-1].ID, entries[i].ID)
	}
}
