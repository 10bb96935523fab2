// ABOUTME: Low-stock alert rule: warn when an item's quantity is at or below its minimum
// ABOUTME: Every alert is printed to the console and recorded in the audit trail

package alert

import (
	"context"
	"io"

	"github.com/fatih/color"

	"github.com/2389/stockwatch/internal/auditlog"
	"github.com/2389/stockwatch/internal/inventory"
)

// AuditLogger is the part of auditlog.Logger the checker needs.
type AuditLogger interface {
	Log(ctx context.Context, action auditlog.Action, name string, delta, before, after int)
}

// Checker evaluates the low-stock rule against a store.
type Checker struct {
	store *inventory.Store
	audit AuditLogger
	out   io.Writer
	warn  *color.Color
}

// NewChecker creates a Checker that prints warnings to out.
func NewChecker(store *inventory.Store, audit AuditLogger, out io.Writer) *Checker {
	return &Checker{
		store: store,
		audit: audit,
		out:   out,
		warn:  color.New(color.FgYellow, color.Bold),
	}
}

// Check alerts on name if its quantity (default 0) is at or below its minimum
// (default 0). It reports whether an alert fired.
func (c *Checker) Check(ctx context.Context, name string) bool {
	qty := c.store.Quantity(name)
	minimum := c.store.Minimum(name)
	if qty > minimum {
		return false
	}

	c.warn.Fprintf(c.out, "⚠ Low stock alert: %s qty %d (min %d)\n", name, qty, minimum)
	c.audit.Log(ctx, auditlog.ActionAlert, name, 0, qty, qty)
	return true
}

// CheckAll runs Check for every item that has a quantity and returns the
// number of alerts. Items with only a minimum are skipped.
func (c *Checker) CheckAll(ctx context.Context) int {
	fired := 0
	for _, name := range c.store.Names() {
		if c.Check(ctx, name) {
			fired++
		}
	}
	return fired
}
