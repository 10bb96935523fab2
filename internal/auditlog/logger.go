// ABOUTME: Append-only audit logger writing one line per mutating action
// ABOUTME: Each call opens, appends, and closes the file; failures never reach the caller

package auditlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Mirror receives a copy of every entry, for example a history database.
type Mirror interface {
	RecordEntry(ctx context.Context, e Entry) error
}

// Logger appends entries to the audit file at path.
type Logger struct {
	path   string
	now    func() time.Time
	mirror Mirror
	logger *slog.Logger
}

// Option configures a Logger.
type Option func(*Logger)

// WithClock overrides the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// WithMirror forwards every entry to m as well as to the file.
func WithMirror(m Mirror) Option {
	return func(l *Logger) {
		l.mirror = m
	}
}

// New creates a Logger for path. The file is not touched until the first entry.
func New(path string, opts ...Option) *Logger {
	l := &Logger{
		path:   path,
		now:    time.Now,
		logger: slog.Default().With("component", "auditlog"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the audit file location.
func (l *Logger) Path() string {
	return l.path
}

// Log records an entry stamped with the current time. Errors are logged at
// debug level and otherwise dropped so the triggering command always proceeds.
func (l *Logger) Log(ctx context.Context, action Action, name string, delta, before, after int) {
	e := Entry{
		Time:   l.now(),
		Action: action,
		Name:   name,
		Delta:  delta,
		Before: before,
		After:  after,
	}

	if err := l.Append(e); err != nil {
		l.logger.Debug("audit append failed", "path", l.path, "action", action, "error", err)
	}

	if l.mirror != nil {
		if err := l.mirror.RecordEntry(ctx, e); err != nil {
			l.logger.Warn("history mirror failed", "action", action, "error", err)
		}
	}
}

// Append writes e to the audit file, preceded by the header if the file did not exist.
func (l *Logger) Append(e Entry) error {
	_, err := os.Stat(l.path)
	newFile := errors.Is(err, os.ErrNotExist)

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}

	text := e.Line() + "\n"
	if newFile {
		text = Header + "\n" + text
	}

	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing audit log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing audit log: %w", err)
	}
	return nil
}
