// ABOUTME: Credential rows for the store_auth table
// ABOUTME: Upsert with audit trail, hash lookup, listing and existence checks

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UpsertCredential inserts or replaces the password hash for a store
// and appends the matching audit entry (store_created on insert,
// password_updated on replace) in the same transaction. Returns true
// if the credential was newly created.
func (s *SQLiteStore) UpsertCredential(ctx context.Context, storeID, passwordHash string) (bool, error) {
	now := time.Now().UTC()
	var created bool

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM store_auth WHERE store_id = ?`, storeID,
		).Scan(&exists)

		switch {
		case err == sql.ErrNoRows:
			created = true
			_, err = tx.ExecContext(ctx,
				`INSERT INTO store_auth (store_id, password_hash, created_at, updated_at)
				 VALUES (?, ?, ?, ?)`,
				storeID, passwordHash, formatTime(now), formatTime(now),
			)
			if err != nil {
				return fmt.Errorf("inserting credential: %w", err)
			}
		case err != nil:
			return fmt.Errorf("checking credential: %w", err)
		default:
			_, err = tx.ExecContext(ctx,
				`UPDATE store_auth SET password_hash = ?, updated_at = ? WHERE store_id = ?`,
				passwordHash, formatTime(now), storeID,
			)
			if err != nil {
				return fmt.Errorf("updating credential: %w", err)
			}
		}

		action := AuditPasswordUpdated
		if created {
			action = AuditStoreCreated
		}
		return appendAudit(ctx, tx, &AuditEntry{StoreID: storeID, Action: action})
	})
	if err != nil {
		return false, err
	}

	s.logger.Debug("upserted credential", "store_id", storeID, "created", created)
	return created, nil
}

// GetCredentialHash returns the stored password hash for a store.
// Returns ErrNotFound if the store has no credential.
func (s *SQLiteStore) GetCredentialHash(ctx context.Context, storeID string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM store_auth WHERE store_id = ?`, storeID,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying credential: %w", err)
	}
	return hash, nil
}

// ListCredentials returns all stores with a credential, ordered by
// store_id ascending. Hashes are not included.
func (s *SQLiteStore) ListCredentials(ctx context.Context) ([]CredentialSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT store_id, created_at, updated_at FROM store_auth ORDER BY store_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying credentials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var creds []CredentialSummary
	for rows.Next() {
		var c CredentialSummary
		var createdAt, updatedAt string

		if err := rows.Scan(&c.StoreID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning credential row: %w", err)
		}

		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}

		creds = append(creds, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credential rows: %w", err)
	}

	if creds == nil {
		creds = []CredentialSummary{}
	}
	return creds, nil
}

// HasCredential reports whether a store has a credential configured.
// Pure read, no audit side effect.
func (s *SQLiteStore) HasCredential(ctx context.Context, storeID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM store_auth WHERE store_id = ?`, storeID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking credential: %w", err)
	}
	return true, nil
}
