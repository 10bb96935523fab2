// ABOUTME: SQLite implementation of HistoryStore using modernc.org/sqlite
// ABOUTME: Opens the history database with WAL mode and automatic schema creation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements HistoryStore using SQLite
type SQLiteStore struct {
	db        *sql.DB
	sessionID string
	logger    *slog.Logger
}

// NewSQLiteStore opens (or creates) the history database at path.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:        db,
		sessionID: uuid.New().String(),
		logger:    logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("history store initialized", "path", path, "session", s.sessionID)
	return s, nil
}

// createSchema creates the history table if it doesn't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS stock_log (
			entry_id   TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			ts         TEXT NOT NULL,
			action     TEXT NOT NULL,
			name       TEXT NOT NULL,
			delta      INTEGER NOT NULL,
			before_qty INTEGER NOT NULL,
			after_qty  INTEGER NOT NULL,

			CHECK (action IN (
				'REGISTER',
				'IN',
				'OUT',
				'OUT_FAIL',
				'SET_MIN',
				'SAVE_CSV',
				'LOAD_CSV',
				'ALERT'
			))
		);

		CREATE INDEX IF NOT EXISTS idx_stock_log_ts ON stock_log(ts DESC);
		CREATE INDEX IF NOT EXISTS idx_stock_log_name ON stock_log(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SessionID returns the ID stamped on entries appended through this store.
func (s *SQLiteStore) SessionID() string {
	return s.sessionID
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Debug("closing history store")
	return s.db.Close()
}
