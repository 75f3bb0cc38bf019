// ABOUTME: Data types and errors for storegate persistence
// ABOUTME: Defines StoreCredential, Session, AuditEntry and the store interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// StoreCredential holds the hashed secret for one tenant. There is at
// most one row per store and the hash is never stored in a reversible
// form.
type StoreCredential struct {
	StoreID      string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CredentialSummary is the listing view of a credential. The hash is
// deliberately absent.
type CredentialSummary struct {
	StoreID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session is a bearer session scoped to one store. Expiry is fixed at
// issue time; there is no sliding renewal.
type Session struct {
	Token     string
	StoreID   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// CredentialStore persists per-store password hashes.
type CredentialStore interface {
	UpsertCredential(ctx context.Context, storeID, passwordHash string) (created bool, err error)
	GetCredentialHash(ctx context.Context, storeID string) (string, error)
	ListCredentials(ctx context.Context) ([]CredentialSummary, error)
	HasCredential(ctx context.Context, storeID string) (bool, error)
}

// SessionStore persists bearer sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, sess *Session) error
	GetLiveSession(ctx context.Context, token string, now time.Time) (*Session, error)
	DeleteSession(ctx context.Context, token string) (storeID string, removed bool, err error)
}

// AuditStore is the append-only ledger of security-relevant actions.
type AuditStore interface {
	AppendAudit(ctx context.Context, e *AuditEntry) error
	ListAudit(ctx context.Context, f AuditFilter) ([]AuditEntry, error)
}
