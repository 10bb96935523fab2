// ABOUTME: Menu command handlers: register, inbound, outbound, list, load, save, set minimum
// ABOUTME: Each handler validates input once, mutates the store, logs the action, and checks alerts

package console

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/2389/stockwatch/internal/auditlog"
	"github.com/2389/stockwatch/internal/csvfile"
	"github.com/2389/stockwatch/internal/metrics"
)

func (s *Session) register(ctx context.Context) error {
	name, ok, err := s.readName()
	if err != nil || !ok {
		return err
	}

	qty, err := s.readInt("Quantity > ")
	if err != nil {
		return err
	}
	if qty < 0 {
		s.fail.Fprintln(s.out, "Quantity must be 0 or more.")
		return nil
	}

	// Offer to set a minimum the first time; bad input just skips it.
	// Read before mutating so closed input leaves the store untouched.
	minimum, setMin := 0, false
	if _, hasMin := s.store.LookupMinimum(name); !hasMin {
		line, err := s.readLine("Minimum stock (Enter to skip) > ")
		if err != nil {
			return err
		}
		if line != "" {
			if n, err := strconv.Atoi(line); err == nil && n >= 0 {
				minimum, setMin = n, true
			}
		}
	}

	before := s.store.Quantity(name)
	s.store.SetQuantity(name, qty)
	if setMin {
		s.store.SetMinimum(name, minimum)
	}

	s.ok.Fprintf(s.out, "Registered: %s = %d\n", name, qty)
	s.audit.Log(ctx, auditlog.ActionRegister, name, qty-before, before, qty)

	s.alerts.Check(ctx, name)
	return nil
}

func (s *Session) inbound(ctx context.Context) error {
	name, ok, err := s.readName()
	if err != nil || !ok {
		return err
	}

	amount, err := s.readInt("Inbound amount (+) > ")
	if err != nil {
		return err
	}
	if amount <= 0 {
		s.fail.Fprintln(s.out, "Inbound amount must be 1 or more.")
		return nil
	}

	before := s.store.Quantity(name)
	after := s.store.AdjustQuantity(name, amount)

	s.ok.Fprintf(s.out, "Inbound: %s %d -> %d\n", name, before, after)
	s.audit.Log(ctx, auditlog.ActionIn, name, amount, before, after)

	s.alerts.Check(ctx, name)
	return nil
}

func (s *Session) outbound(ctx context.Context) error {
	name, ok, err := s.readName()
	if err != nil || !ok {
		return err
	}

	amount, err := s.readInt("Outbound amount (-) > ")
	if err != nil {
		return err
	}
	if amount <= 0 {
		s.fail.Fprintln(s.out, "Outbound amount must be 1 or more.")
		return nil
	}

	before := s.store.Quantity(name)
	if before-amount < 0 {
		s.fail.Fprintf(s.out, "Insufficient stock: %s has %d, cannot ship %d.\n", name, before, amount)
		s.audit.Log(ctx, auditlog.ActionOutFail, name, -amount, before, before)
		return nil
	}

	after := s.store.AdjustQuantity(name, -amount)

	s.ok.Fprintf(s.out, "Outbound: %s %d -> %d\n", name, before, after)
	s.audit.Log(ctx, auditlog.ActionOut, name, -amount, before, after)

	s.alerts.Check(ctx, name)
	return nil
}

func (s *Session) list() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "--- Inventory (qty / min) ---")

	names := s.store.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.out, "(nothing registered yet)")
		return
	}

	for _, name := range names {
		qty := s.store.Quantity(name)
		minimum := s.store.Minimum(name)
		fmt.Fprintf(s.out, "%s : %d / min %d", name, qty, minimum)
		if qty < minimum {
			s.mark.Fprint(s.out, "  <-- below minimum!")
		}
		fmt.Fprintln(s.out)
	}
}

func (s *Session) load(ctx context.Context) {
	loaded, err := csvfile.Load(s.stockPath)
	if err != nil {
		if errors.Is(err, csvfile.ErrNotFound) {
			s.fail.Fprintf(s.out, "Stock file not found: %s\n", absPath(s.stockPath))
			fmt.Fprintln(s.out, `Save first with "6: Save CSV".`)
			return
		}
		s.fail.Fprintf(s.out, "Failed to load CSV: %v\n", err)
		return
	}

	s.store.ReplaceAll(loaded)

	s.ok.Fprintf(s.out, "Loaded CSV: %d items\n", s.store.Len())
	s.audit.Log(ctx, auditlog.ActionLoadCSV, auditlog.NoItem, 0, 0, 0)
	s.writeMetrics()

	s.alerts.CheckAll(ctx)
}

func (s *Session) save(ctx context.Context) {
	if err := csvfile.Save(s.stockPath, s.store); err != nil {
		s.fail.Fprintf(s.out, "Failed to save CSV: %v\n", err)
		return
	}

	s.ok.Fprintf(s.out, "Saved CSV: %s\n", absPath(s.stockPath))
	s.audit.Log(ctx, auditlog.ActionSaveCSV, auditlog.NoItem, 0, 0, 0)
	s.writeMetrics()
}

func (s *Session) setMinimum(ctx context.Context) error {
	name, ok, err := s.readName()
	if err != nil || !ok {
		return err
	}

	minimum, err := s.readInt("Minimum stock (0 or more) > ")
	if err != nil {
		return err
	}
	if minimum < 0 {
		s.fail.Fprintln(s.out, "Minimum must be 0 or more.")
		return nil
	}

	previous, hadMin := s.store.LookupMinimum(name)
	s.store.SetMinimum(name, minimum)

	if hadMin {
		s.ok.Fprintf(s.out, "Minimum set: %s min=%d (was %d)\n", name, minimum, previous)
	} else {
		s.ok.Fprintf(s.out, "Minimum set: %s min=%d\n", name, minimum)
	}

	qty := s.store.Quantity(name)
	s.audit.Log(ctx, auditlog.ActionSetMin, name, 0, qty, qty)

	s.alerts.Check(ctx, name)
	return nil
}

// writeMetrics refreshes the Prometheus textfile if one is configured.
func (s *Session) writeMetrics() {
	if s.metricsPath == "" {
		return
	}
	if err := metrics.WriteTextfile(s.metricsPath, s.store); err != nil {
		s.logger.Warn("metrics textfile not updated", "path", s.metricsPath, "error", err)
	}
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
