// ABOUTME: Session rows for bearer token persistence
// ABOUTME: Insert with lazy expiry sweep, live lookup and revocation with audit trail

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CreateSession inserts a new session and appends a session_created
// audit entry. Sessions already expired at sess.CreatedAt are deleted
// first; this opportunistic sweep is the only expired-row cleanup the
// system performs.
func (s *SQLiteStore) CreateSession(ctx context.Context, sess *Session) error {
	var swept int64

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM sessions WHERE expires_at < ?`, formatTime(sess.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("sweeping expired sessions: %w", err)
		}
		swept, _ = res.RowsAffected()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO sessions (token, store_id, created_at, expires_at)
			 VALUES (?, ?, ?, ?)`,
			sess.Token, sess.StoreID, formatTime(sess.CreatedAt), formatTime(sess.ExpiresAt),
		)
		if err != nil {
			return fmt.Errorf("inserting session: %w", err)
		}

		return appendAudit(ctx, tx, &AuditEntry{StoreID: sess.StoreID, Action: AuditSessionCreated})
	})
	if err != nil {
		return err
	}

	s.logger.Debug("created session", "store_id", sess.StoreID, "swept", swept)
	return nil
}

// GetLiveSession returns the session for a token if it has not expired
// at the given instant. Returns ErrNotFound for unknown and expired
// tokens alike; expired rows stay in place until the next sweep.
func (s *SQLiteStore) GetLiveSession(ctx context.Context, token string, now time.Time) (*Session, error) {
	var sess Session
	var createdAt, expiresAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT token, store_id, created_at, expires_at
		 FROM sessions
		 WHERE token = ? AND expires_at > ?`,
		token, formatTime(now),
	).Scan(&sess.Token, &sess.StoreID, &createdAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if sess.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}

	return &sess, nil
}

// DeleteSession removes the session for a token and appends a logout
// audit entry scoped to its store. Unknown tokens are a no-op: removed
// is false and no entry is written.
func (s *SQLiteStore) DeleteSession(ctx context.Context, token string) (string, bool, error) {
	var storeID string
	var removed bool

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT store_id FROM sessions WHERE token = ?`, token,
		).Scan(&storeID)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("querying session: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
			return fmt.Errorf("deleting session: %w", err)
		}
		removed = true

		return appendAudit(ctx, tx, &AuditEntry{StoreID: storeID, Action: AuditLogout})
	})
	if err != nil {
		return "", false, err
	}

	if removed {
		s.logger.Debug("deleted session", "store_id", storeID)
	}
	return storeID, removed, nil
}

// CountSessions returns the number of session rows, live or expired.
// Used by tests and the admin surface to observe the lazy sweep.
func (s *SQLiteStore) CountSessions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}
