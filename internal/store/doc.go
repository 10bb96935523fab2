// Package store provides the optional SQLite history database for stockwatch.
//
// # Overview
//
// The CSV audit log is the authoritative trail. When history is enabled the
// audit logger also mirrors every entry into a SQLite table so that past
// actions can be filtered by item, action, and time without scanning the file.
//
// # Data Model
//
//   - HistoryEntry: one audited action (timestamp, action tag, item name,
//     signed delta, quantity before and after) plus a row ID and the ID of the
//     session that produced it.
//
// # SQLite Configuration
//
// The store uses modernc.org/sqlite (no cgo) with WAL mode:
//
//	PRAGMA journal_mode=WAL;
//
// Default database location: $XDG_DATA_HOME/stockwatch/history.db
//
// # Usage
//
//	hist, err := store.NewSQLiteStore(path)
//	if err != nil {
//	    return err
//	}
//	defer hist.Close()
//
//	audit := auditlog.New(logPath, auditlog.WithMirror(hist))
//
//	entries, err := hist.ListEntries(ctx, store.HistoryFilter{Limit: 20})
package store
