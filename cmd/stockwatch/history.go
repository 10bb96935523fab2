// ABOUTME: history subcommand: lists audited actions newest first
// ABOUTME: Reads the SQLite mirror when enabled, otherwise parses the CSV audit log

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/stockwatch/internal/auditlog"
	"github.com/2389/stockwatch/internal/store"
)

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	item := fs.String("item", "", "Only show entries for this item")
	action := fs.String("action", "", "Only show this action (e.g. OUT_FAIL)")
	limit := fs.Int("limit", 20, "Maximum number of entries (max 1000)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filter := store.HistoryFilter{Limit: *limit}
	if *item != "" {
		filter.Name = item
	}
	if *action != "" {
		a, err := auditlog.ParseAction(*action)
		if err != nil {
			return err
		}
		filter.Action = &a
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	var entries []store.HistoryEntry
	if cfg.History.Enabled {
		hist, err := store.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer hist.Close()

		entries, err = hist.ListEntries(ctx, filter)
		if err != nil {
			return err
		}
	} else {
		entries, err = readAuditFile(cfg.Files.LogPath, filter)
		if err != nil {
			return err
		}
	}

	if len(entries) == 0 {
		color.Yellow("No matching entries.\n")
		return nil
	}
	printHistory(os.Stdout, entries)
	return nil
}

// readAuditFile applies filter to the CSV audit log, returning newest entries first.
func readAuditFile(path string, filter store.HistoryFilter) ([]store.HistoryEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer func() { _ = f.Close() }()

	all, err := auditlog.ReadEntries(f, time.Local)
	if err != nil {
		return nil, err
	}
	return filterEntries(all, filter), nil
}

// filterEntries mirrors the SQLite query: filter, newest first, limit.
func filterEntries(all []auditlog.Entry, filter store.HistoryFilter) []store.HistoryEntry {
	limit := filter.Limit
	switch {
	case limit <= 0:
		limit = 100
	case limit > 1000:
		limit = 1000
	}

	var out []store.HistoryEntry
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		e := all[i]
		if filter.Name != nil && e.Name != *filter.Name {
			continue
		}
		if filter.Action != nil && e.Action != *filter.Action {
			continue
		}
		if filter.Since != nil && e.Time.Before(*filter.Since) {
			continue
		}
		out = append(out, store.HistoryEntry{
			Timestamp: e.Time,
			Action:    e.Action,
			Name:      e.Name,
			Delta:     e.Delta,
			Before:    e.Before,
			After:     e.After,
		})
	}
	return out
}

func printHistory(out io.Writer, entries []store.HistoryEntry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  TIME\tACTION\tITEM\tDELTA\tBEFORE\tAFTER")
	fmt.Fprintln(w, "  ----\t------\t----\t-----\t------\t-----")

	for _, e := range entries {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%+d\t%d\t%d\n",
			e.Timestamp.Local().Format(auditlog.TimeLayout),
			e.Action,
			e.Name,
			e.Delta,
			e.Before,
			e.After,
		)
	}
	w.Flush()
}
