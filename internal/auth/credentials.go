// ABOUTME: CredentialService owning per-store password hashes
// ABOUTME: Create/rotate with generated passphrases, constant-time verify, listing

package auth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/2389/storegate/internal/passphrase"
	"github.com/2389/storegate/internal/store"
)

// dummyHash is compared against when a store has no credential, so a
// lookup miss costs the same as a wrong password. Prevents store
// enumeration via response timing.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CredentialService creates, rotates and verifies store secrets.
type CredentialService struct {
	creds     store.CredentialStore
	audit     store.AuditStore
	generator *passphrase.Generator
	wordCount int
	logger    *slog.Logger
}

// NewCredentialService wires a CredentialService. A wordCount of zero
// or less uses the generator default.
func NewCredentialService(creds store.CredentialStore, audit store.AuditStore, generator *passphrase.Generator, wordCount int) *CredentialService {
	if wordCount <= 0 {
		wordCount = passphrase.DefaultWordCount
	}
	return &CredentialService{
		creds:     creds,
		audit:     audit,
		generator: generator,
		wordCount: wordCount,
		logger:    slog.Default().With("component", "credentials"),
	}
}

// CreateOrRotate sets the secret for a store and returns the plaintext
// that was used. An empty plaintext generates a fresh passphrase. The
// secret is normalized before hashing, so the caller should present
// the returned plaintext to the operator exactly once; it cannot be
// recovered. Every call rotates: the previous secret stops verifying.
func (s *CredentialService) CreateOrRotate(ctx context.Context, storeID, plaintext string) (string, error) {
	if plaintext == "" {
		generated, err := s.generator.Generate(s.wordCount)
		if err != nil {
			return "", fmt.Errorf("generating passphrase: %w", err)
		}
		plaintext = generated
	}

	normalized := passphrase.Normalize(plaintext)
	hash, err := bcrypt.GenerateFromPassword([]byte(normalized), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}

	created, err := s.creds.UpsertCredential(ctx, storeID, string(hash))
	if err != nil {
		return "", fmt.Errorf("storing credential: %w", err)
	}

	s.logger.Info("credential set", "store_id", storeID, "created", created)
	return plaintext, nil
}

// Verify checks a secret against the stored hash. Returns false for
// both a wrong secret and an unknown store; the two cases are
// externally indistinguishable. The attempt is audited either way with
// only a success flag, never the secret.
func (s *CredentialService) Verify(ctx context.Context, storeID, plaintext string) (bool, error) {
	normalized := passphrase.Normalize(plaintext)

	hash, err := s.creds.GetCredentialHash(ctx, storeID)
	if err == store.ErrNotFound {
		// Burn a bcrypt comparison to keep timing uniform
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(normalized))
		if err := s.recordAttempt(ctx, storeID, false); err != nil {
			return false, err
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up credential: %w", err)
	}

	ok := bcrypt.CompareHashAndPassword([]byte(hash), []byte(normalized)) == nil
	if err := s.recordAttempt(ctx, storeID, ok); err != nil {
		return false, err
	}

	return ok, nil
}

func (s *CredentialService) recordAttempt(ctx context.Context, storeID string, success bool) error {
	err := s.audit.AppendAudit(ctx, &store.AuditEntry{
		StoreID: storeID,
		Action:  store.AuditLoginAttempt,
		Details: store.LoginAttemptDetails(success),
	})
	if err != nil {
		return fmt.Errorf("recording login attempt: %w", err)
	}
	return nil
}

// List returns all stores with credentials, ordered by store ID.
func (s *CredentialService) List(ctx context.Context) ([]store.CredentialSummary, error) {
	return s.creds.ListCredentials(ctx)
}

// Has reports whether a store has a credential configured. No audit
// side effect.
func (s *CredentialService) Has(ctx context.Context, storeID string) (bool, error) {
	return s.creds.HasCredential(ctx, storeID)
}
