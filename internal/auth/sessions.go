// ABOUTME: SessionService issuing and validating opaque bearer tokens
// ABOUTME: Fixed-expiry sessions with lazy sweep on issue and explicit revocation

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/2389/storegate/internal/store"
)

// DefaultSessionTTL is used when the caller does not specify a TTL.
const DefaultSessionTTL = 24 * time.Hour

// tokenBytes is the entropy of a session token. 32 bytes gives 256
// bits, enough that collisions are not a practical concern.
const tokenBytes = 32

// SessionService issues, validates and revokes bearer sessions.
type SessionService struct {
	sessions store.SessionStore
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewSessionService wires a SessionService. A ttl of zero or less uses
// DefaultSessionTTL.
func NewSessionService(sessions store.SessionStore, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
		logger:   slog.Default().With("component", "sessions"),
	}
}

// WithClock replaces the time source. Tests use this to simulate
// expiry without sleeping.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// mintToken generates a URL-safe opaque session token.
func mintToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Issue creates a new session for a store. A ttl of zero or less uses
// the service default. Sessions already expired are swept as a side
// effect; there is no background cleanup. Each call yields a distinct
// token, and issuing does not disturb the store's other live sessions.
func (s *SessionService) Issue(ctx context.Context, storeID string, ttl time.Duration) (*store.Session, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	token, err := mintToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &store.Session{
		Token:     token,
		StoreID:   storeID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("session issued", "store_id", storeID, "expires_at", sess.ExpiresAt)
	return sess, nil
}

// Validate resolves a token to its owning store ID. Returns ok=false
// for unknown and expired tokens alike. Expiry is fixed from issue
// time; validation never extends it.
func (s *SessionService) Validate(ctx context.Context, token string) (string, bool, error) {
	sess, err := s.sessions.GetLiveSession(ctx, token, s.now().UTC())
	if err == store.ErrNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up session: %w", err)
	}
	return sess.StoreID, true, nil
}

// Revoke deletes the session for a token. Revoking a token that was
// never issued, or has already been swept, is a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	storeID, removed, err := s.sessions.DeleteSession(ctx, token)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	if removed {
		s.logger.Info("session revoked", "store_id", storeID)
	}
	return nil
}
