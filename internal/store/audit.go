// ABOUTME: Append-only audit log of authentication-relevant actions
// ABOUTME: Entries are never updated or deleted; ids increase with insertion order

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// AuditAction is one of the fixed set of auditable action kinds.
type AuditAction string

const (
	AuditStoreCreated    AuditAction = "store_created"
	AuditPasswordUpdated AuditAction = "password_updated"
	AuditLoginAttempt    AuditAction = "login_attempt"
	AuditSessionCreated  AuditAction = "session_created"
	AuditLogout          AuditAction = "logout"
)

// AuditEntry is a single immutable row in the audit log.
type AuditEntry struct {
	ID        int64       // assigned on append, strictly increasing
	StoreID   string      // tenant the action concerns
	Action    AuditAction // what happened
	Timestamp time.Time   // when it happened
	Details   *string     // optional rendered payload, nil for most actions
}

// AuditFilter narrows ListAudit results.
type AuditFilter struct {
	StoreID *string // only entries for this store
	Limit   int     // max results (default 100, max 1000)
}

// LoginAttemptDetails renders the login_attempt payload. The secret
// and hash are never part of it.
func LoginAttemptDetails(success bool) *string {
	data, _ := json.Marshal(struct {
		Success bool `json:"success"`
	}{Success: success})
	s := string(data)
	return &s
}

// execer covers both *sql.DB and *sql.Tx so audit appends can join a
// caller's transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// appendAudit inserts an entry via the given execer and fills in the
// assigned id. Timestamp is set if zero.
func appendAudit(ctx context.Context, ex execer, e *AuditEntry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	res, err := ex.ExecContext(ctx,
		`INSERT INTO audit_log (store_id, action, ts, details) VALUES (?, ?, ?, ?)`,
		e.StoreID,
		string(e.Action),
		formatTime(e.Timestamp),
		e.Details,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading audit entry id: %w", err)
	}
	e.ID = id
	return nil
}

// AppendAudit appends a new entry to the audit log and assigns its id.
func (s *SQLiteStore) AppendAudit(ctx context.Context, e *AuditEntry) error {
	if err := appendAudit(ctx, s.db, e); err != nil {
		return err
	}

	s.logger.Debug("appended audit entry",
		"id", e.ID,
		"store_id", e.StoreID,
		"action", e.Action,
	)
	return nil
}

// normalizeAuditLimit applies default (100) and cap (1000) to audit limit.
func normalizeAuditLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

// ListAudit returns audit entries matching the filter, newest first.
// Entries inserted in the same second keep insertion order via the id
// tiebreak.
func (s *SQLiteStore) ListAudit(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	limit := normalizeAuditLimit(f.Limit)

	query := `
		SELECT id, store_id, action, ts, details
		FROM audit_log
		WHERE (? IS NULL OR store_id = ?)
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, f.StoreID, f.StoreID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var actionStr, tsStr string

		if err := rows.Scan(&e.ID, &e.StoreID, &actionStr, &tsStr, &e.Details); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		e.Action = AuditAction(actionStr)
		e.Timestamp, err = parseTime(tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	if entries == nil {
		entries = []AuditEntry{}
	}
	return entries, nil
}
