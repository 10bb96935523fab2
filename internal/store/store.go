// ABOUTME: History store interface and data types for the audit mirror
// ABOUTME: Defines HistoryEntry, HistoryFilter, and the HistoryStore interface

package store

import (
	"context"
	"time"

	"github.com/2389/stockwatch/internal/auditlog"
)

// HistoryEntry is one audited action as stored in the history database.
type HistoryEntry struct {
	ID        string // UUID v4
	SessionID string // stockwatch process that recorded it
	Timestamp time.Time
	Action    auditlog.Action
	Name      string
	Delta     int
	Before    int
	After     int
}

// HistoryFilter specifies filtering options for listing history entries.
type HistoryFilter struct {
	Since  *time.Time       // entries at or after this time
	Name   *string          // filter by item name
	Action *auditlog.Action // filter by action tag
	Limit  int              // max results (default 100, max 1000)
}

// HistoryStore defines persistence for mirrored audit entries.
type HistoryStore interface {
	AppendEntry(ctx context.Context, e *HistoryEntry) error
	ListEntries(ctx context.Context, f HistoryFilter) ([]HistoryEntry, error)
	RecordEntry(ctx context.Context, e auditlog.Entry) error
	Close() error
}

var _ HistoryStore = (*SQLiteStore)(nil)
