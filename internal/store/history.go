// ABOUTME: History entry store methods mirroring the CSV audit trail into SQLite
// ABOUTME: Supports append and filtered listing, newest first

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/2389/stockwatch/internal/auditlog"
)

// AppendEntry appends a new entry to the history table.
// Generates ID, SessionID and Timestamp if not set.
func (s *SQLiteStore) AppendEntry(ctx context.Context, e *HistoryEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.SessionID == "" {
		e.SessionID = s.sessionID
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO stock_log (entry_id, session_id, ts, action, name, delta, before_qty, after_qty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.SessionID,
		e.Timestamp.UTC().Format(time.RFC3339),
		string(e.Action),
		e.Name,
		e.Delta,
		e.Before,
		e.After,
	)
	if err != nil {
		return fmt.Errorf("inserting history entry: %w", err)
	}

	s.logger.Debug("appended history entry",
		"id", e.ID,
		"action", e.Action,
		"name", e.Name,
	)
	return nil
}

// RecordEntry implements auditlog.Mirror.
func (s *SQLiteStore) RecordEntry(ctx context.Context, e auditlog.Entry) error {
	return s.AppendEntry(ctx, &HistoryEntry{
		Timestamp: e.Time,
		Action:    e.Action,
		Name:      e.Name,
		Delta:     e.Delta,
		Before:    e.Before,
		After:     e.After,
	})
}

// normalizeHistoryLimit applies default (100) and cap (1000) to the limit.
func normalizeHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

// scanHistoryEntry scans a row into a HistoryEntry.
func scanHistoryEntry(scanner interface{ Scan(dest ...any) error }) (HistoryEntry, error) {
	var e HistoryEntry
	var actionStr, tsStr string

	if err := scanner.Scan(
		&e.ID,
		&e.SessionID,
		&tsStr,
		&actionStr,
		&e.Name,
		&e.Delta,
		&e.Before,
		&e.After,
	); err != nil {
		return e, fmt.Errorf("scanning history entry: %w", err)
	}

	e.Action = auditlog.Action(actionStr)
	var err error
	e.Timestamp, err = time.Parse(time.RFC3339, tsStr)
	if err != nil {
		return e, fmt.Errorf("parsing timestamp: %w", err)
	}
	return e, nil
}

const historyQuery = `
	SELECT entry_id, session_id, ts, action, name, delta, before_qty, after_qty
	FROM stock_log
	WHERE (? IS NULL OR ts >= ?)
	  AND (? IS NULL OR name = ?)
	  AND (? IS NULL OR action = ?)
	ORDER BY ts DESC, rowid DESC
	LIMIT ?
`

// ListEntries returns history entries matching the filter criteria.
// Results are returned newest first.
func (s *SQLiteStore) ListEntries(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error) {
	limit := normalizeHistoryLimit(f.Limit)

	var sinceStr, actionStr *string
	if f.Since != nil {
		v := f.Since.UTC().Format(time.RFC3339)
		sinceStr = &v
	}
	if f.Action != nil {
		v := string(*f.Action)
		actionStr = &v
	}

	rows, err := s.db.QueryContext(ctx, historyQuery,
		sinceStr, sinceStr,
		f.Name, f.Name,
		actionStr, actionStr,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []HistoryEntry
	for rows.Next() {
		e, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history entries: %w", err)
	}

	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}
