// ABOUTME: End-to-end tests for the menu loop driven by scripted console input
// ABOUTME: Verifies store mutations, audit lines, alerts, and validation/parse asymmetry

package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/stockwatch/internal/auditlog"
	"github.com/2389/stockwatch/internal/inventory"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const stamp = "2026-03-14 09:26:53,"

type harness struct {
	store     *inventory.Store
	dir       string
	stockPath string
	logPath   string
	out       bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		store:     inventory.NewStore(),
		dir:       dir,
		stockPath: filepath.Join(dir, "stock.csv"),
		logPath:   filepath.Join(dir, "stock_log.csv"),
	}
}

// run feeds input lines to a fresh session over the harness state.
func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	h.out.Reset()

	audit := auditlog.New(h.logPath, auditlog.WithClock(func() time.Time {
		return time.Date(2026, 3, 14, 9, 26, 53, 0, time.Local)
	}))
	session := NewSession(Config{
		In:        strings.NewReader(strings.Join(lines, "\n") + "\n"),
		Out:       &h.out,
		Store:     h.store,
		Audit:     audit,
		StockPath: h.stockPath,
	})

	require.NoError(t, session.Run(context.Background()))
	return h.out.String()
}

// logLines returns the audit entries without the header and timestamp column.
func (h *harness) logLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(h.logPath)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var lines []string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == auditlog.Header {
			continue
		}
		require.True(t, strings.HasPrefix(line, stamp), "unexpected line %q", line)
		lines = append(lines, strings.TrimPrefix(line, stamp))
	}
	return lines
}

func TestSession_BoltScenario(t *testing.T) {
	h := newHarness(t)

	out := h.run(t,
		"1", "bolt", "10", "", // register, skip minimum
		"2", "bolt", "5", // inbound
		"3", "bolt", "20", // outbound rejected
		"7", "bolt", "16", // minimum above stock
		"0",
	)

	assert.Equal(t, 15, h.store.Quantity("bolt"))
	assert.Equal(t, 16, h.store.Minimum("bolt"))
	assert.Equal(t, []string{
		"REGISTER,bolt,10,0,10",
		"IN,bolt,5,10,15",
		"OUT_FAIL,bolt,-20,15,15",
		"SET_MIN,bolt,0,15,15",
		"ALERT,bolt,0,15,15",
	}, h.logLines(t))

	assert.Contains(t, out, "Insufficient stock")
	assert.Contains(t, out, "Low stock alert: bolt qty 15 (min 16)")
	assert.Contains(t, out, "Bye.")
}

func TestSession_ReadIntRepromptsOnParseFailure(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "1", "nut", "ten", "1.5", "7", "", "0")

	assert.Equal(t, 7, h.store.Quantity("nut"))
	assert.Equal(t, 2, strings.Count(out, "Please enter a whole number"))
}

func TestSession_RangeFailureAborts(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		message string
	}{
		{"negative quantity", []string{"1", "nut", "-1"}, "Quantity must be 0 or more."},
		{"zero inbound", []string{"2", "nut", "0"}, "Inbound amount must be 1 or more."},
		{"negative outbound", []string{"3", "nut", "-4"}, "Outbound amount must be 1 or more."},
		{"negative minimum", []string{"7", "nut", "-2"}, "Minimum must be 0 or more."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			// The next line after the abort is read as a menu choice, not a retry.
			out := h.run(t, append(tt.input, "0")...)

			assert.Contains(t, out, tt.message)
			assert.Equal(t, 0, h.store.Len())
			_, hasMin := h.store.LookupMinimum("nut")
			assert.False(t, hasMin)
			assert.Empty(t, h.logLines(t))
		})
	}
}

func TestSession_CommaNameRejectedEverywhere(t *testing.T) {
	for _, choice := range []string{"1", "2", "3", "7"} {
		t.Run("choice "+choice, func(t *testing.T) {
			h := newHarness(t)

			out := h.run(t, choice, "bolt,nut", "0")

			assert.Contains(t, out, "cannot contain a comma")
			assert.Equal(t, 0, h.store.Len())
			assert.Empty(t, h.logLines(t))
		})
	}
}

func TestSession_EmptyNameRejected(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "2", "   ", "0")

	assert.Contains(t, out, "Item name is empty.")
	assert.Empty(t, h.logLines(t))
}

func TestSession_InvalidChoice(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "9", "hello", "0")

	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Pick 0-7."))
	assert.Empty(t, h.logLines(t))
}

func TestSession_EOFEndsSession(t *testing.T) {
	h := newHarness(t)

	// Input ends in the middle of a command.
	h.run(t, "2", "bolt")

	assert.Equal(t, 0, h.store.Len())
}

func TestSession_RegisterMinimumPrompt(t *testing.T) {
	t.Run("valid minimum", func(t *testing.T) {
		h := newHarness(t)
		h.run(t, "1", "gear", "3", "5", "0")

		assert.Equal(t, 5, h.store.Minimum("gear"))
		// qty 3 <= min 5
		assert.Equal(t, []string{"REGISTER,gear,3,0,3", "ALERT,gear,0,3,3"}, h.logLines(t))
	})

	t.Run("garbage minimum is skipped", func(t *testing.T) {
		h := newHarness(t)
		h.run(t, "1", "gear", "3", "lots", "0")

		_, ok := h.store.LookupMinimum("gear")
		assert.False(t, ok)
		assert.Equal(t, []string{"REGISTER,gear,3,0,3"}, h.logLines(t))
	})

	t.Run("negative minimum is skipped", func(t *testing.T) {
		h := newHarness(t)
		h.run(t, "1", "gear", "3", "-1", "0")

		_, ok := h.store.LookupMinimum("gear")
		assert.False(t, ok)
	})

	t.Run("no prompt when minimum exists", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetMinimum("gear", 1)

		// "4" would be swallowed by a minimum prompt if one were shown.
		out := h.run(t, "1", "gear", "3", "4", "0")

		assert.Contains(t, out, "gear : 3 / min 1")
		assert.Equal(t, 1, h.store.Minimum("gear"))
	})
}

func TestSession_RegisterOverwriteLogsDelta(t *testing.T) {
	h := newHarness(t)
	h.store.SetQuantity("bolt", 10)
	h.store.SetMinimum("bolt", 0)

	h.run(t, "1", "bolt", "4", "0")

	assert.Equal(t, 4, h.store.Quantity("bolt"))
	assert.Equal(t, []string{"REGISTER,bolt,-6,10,4"}, h.logLines(t))
}

func TestSession_RegisterZeroAlerts(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "1", "spring", "0", "", "0")

	assert.Contains(t, out, "Low stock alert: spring qty 0 (min 0)")
	assert.Equal(t, []string{"REGISTER,spring,0,0,0", "ALERT,spring,0,0,0"}, h.logLines(t))
}

func TestSession_OutboundToZeroAlerts(t *testing.T) {
	h := newHarness(t)
	h.store.SetQuantity("bolt", 5)

	h.run(t, "3", "bolt", "5", "0")

	assert.Equal(t, 0, h.store.Quantity("bolt"))
	assert.Equal(t, []string{"OUT,bolt,-5,5,0", "ALERT,bolt,0,0,0"}, h.logLines(t))
}

func TestSession_InboundCreatesItem(t *testing.T) {
	h := newHarness(t)

	h.run(t, "2", "washer", "12", "0")

	assert.Equal(t, 12, h.store.Quantity("washer"))
	assert.Equal(t, []string{"IN,washer,12,0,12"}, h.logLines(t))
}

func TestSession_QuantityArithmetic(t *testing.T) {
	h := newHarness(t)

	h.run(t,
		"1", "bolt", "10", "2",
		"2", "bolt", "7",
		"3", "bolt", "4",
		"3", "bolt", "100", // rejected
		"2", "bolt", "1",
		"1", "bolt", "20", // last registration wins
		"3", "bolt", "3",
		"0",
	)

	assert.Equal(t, 17, h.store.Quantity("bolt"))
}

func TestSession_SetMinimumReportsPrevious(t *testing.T) {
	h := newHarness(t)
	h.store.SetQuantity("bolt", 50)

	out := h.run(t, "7", "bolt", "5", "7", "bolt", "8", "0")

	assert.Contains(t, out, "Minimum set: bolt min=5\n")
	assert.Contains(t, out, "Minimum set: bolt min=8 (was 5)")
	assert.Equal(t, []string{"SET_MIN,bolt,0,50,50", "SET_MIN,bolt,0,50,50"}, h.logLines(t))
}

func TestSession_List(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h := newHarness(t)
		out := h.run(t, "4", "0")
		assert.Contains(t, out, "(nothing registered yet)")
	})

	t.Run("marks items below minimum", func(t *testing.T) {
		h := newHarness(t)
		h.store.SetQuantity("bolt", 15)
		h.store.SetMinimum("bolt", 16)
		h.store.SetQuantity("nut", 5)
		h.store.SetMinimum("nut", 5)

		out := h.run(t, "4", "0")

		assert.Contains(t, out, "bolt : 15 / min 16  <-- below minimum!")
		assert.Contains(t, out, "nut : 5 / min 5\n")
		assert.Empty(t, h.logLines(t), "listing is not audited")
	})
}

func TestSession_SaveThenLoad(t *testing.T) {
	h := newHarness(t)
	h.store.SetQuantity("bolt", 15)
	h.store.SetMinimum("bolt", 16)
	h.store.SetQuantity("nut", 40)
	h.store.SetMinimum("ghost", 3)

	out := h.run(t, "6", "0")
	assert.Contains(t, out, "Saved CSV: "+h.stockPath)

	// Mutate, then reload: the file content replaces the store wholesale.
	h.store.SetQuantity("extra", 1)
	h.store.SetQuantity("nut", 0)

	out = h.run(t, "5", "0")

	assert.Contains(t, out, "Loaded CSV: 2 items")
	assert.Equal(t, []string{"bolt", "nut"}, h.store.Names())
	assert.Equal(t, 40, h.store.Quantity("nut"))
	assert.Equal(t, 16, h.store.Minimum("bolt"))
	_, ok := h.store.LookupMinimum("ghost")
	assert.False(t, ok, "minimum-only items are not persisted")

	assert.Equal(t, []string{
		"SAVE_CSV,-,0,0,0",
		"LOAD_CSV,-,0,0,0",
		"ALERT,bolt,0,15,15",
	}, h.logLines(t))
}

func TestSession_LoadLegacyFile(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.stockPath, []byte("name,qty\nbolt,10\nnut,0\n"), 0644))

	h.run(t, "5", "0")

	assert.Equal(t, 10, h.store.Quantity("bolt"))
	assert.Equal(t, 0, h.store.Minimum("bolt"))
	// nut is at 0 with the default minimum 0.
	assert.Equal(t, []string{"LOAD_CSV,-,0,0,0", "ALERT,nut,0,0,0"}, h.logLines(t))
}

func TestSession_LoadMissingFileKeepsStore(t *testing.T) {
	h := newHarness(t)
	h.store.SetQuantity("bolt", 3)

	out := h.run(t, "5", "0")

	assert.Contains(t, out, "Stock file not found")
	assert.Contains(t, out, `Save first with "6: Save CSV".`)
	assert.Equal(t, 3, h.store.Quantity("bolt"))
	assert.Empty(t, h.logLines(t))
}

func TestSession_SaveFailureNotLogged(t *testing.T) {
	h := newHarness(t)
	h.stockPath = filepath.Join(h.dir, "missing-dir", "stock.csv")

	out := h.run(t, "6", "0")

	assert.Contains(t, out, "Failed to save CSV")
	assert.Empty(t, h.logLines(t))
}

func TestSession_AuditFailureDoesNotBlock(t *testing.T) {
	h := newHarness(t)
	h.logPath = filepath.Join(h.dir, "missing-dir", "stock_log.csv")

	h.run(t, "2", "bolt", "5", "0")

	assert.Equal(t, 5, h.store.Quantity("bolt"))
}

func TestSession_MetricsTextfileWrittenOnSave(t *testing.T) {
	h := newHarness(t)
	h.store.SetQuantity("bolt", 15)
	promPath := filepath.Join(h.dir, "stockwatch.prom")

	session := NewSession(Config{
		In:              strings.NewReader("6\n0\n"),
		Out:             &h.out,
		Store:           h.store,
		Audit:           auditlog.New(h.logPath),
		StockPath:       h.stockPath,
		MetricsTextfile: promPath,
	})
	require.NoError(t, session.Run(context.Background()))

	data, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `stockwatch_item_quantity{item="bolt"} 15`)
}

func TestSession_CancelledContextStops(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := NewSession(Config{
		In:        strings.NewReader("2\nbolt\n5\n"),
		Out:       &h.out,
		Store:     h.store,
		Audit:     auditlog.New(h.logPath),
		StockPath: h.stockPath,
	})
	require.NoError(t, session.Run(ctx))
	assert.Equal(t, 0, h.store.Len())
}

func TestSession_RegisterInputClosedAtMinimumPrompt(t *testing.T) {
	h := newHarness(t)

	h.run(t, "1", "bolt", "3")

	assert.Equal(t, 0, h.store.Len())
	_, hasQty := h.store.LookupQuantity("bolt")
	assert.False(t, hasQty)
	assert.Empty(t, h.logLines(t))
}

func TestSession_OverlongLinesAreRecoverable(t *testing.T) {
	h := newHarness(t)
	long := strings.Repeat("x", 70000)

	out := h.run(t,
		long,               // menu choice
		"1", long, "4", "", // register under a long name
		"0",
	)

	assert.Contains(t, out, "Invalid choice. Pick 0-7.")
	assert.Contains(t, out, "Bye.")
	assert.Equal(t, 4, h.store.Quantity(long))
	assert.Equal(t, []string{"REGISTER," + long + ",4,0,4"}, h.logLines(t))
}

func TestSession_FinalLineWithoutNewline(t *testing.T) {
	h := newHarness(t)

	session := NewSession(Config{
		In:        strings.NewReader("2\nbolt\n5"),
		Out:       &h.out,
		Store:     h.store,
		Audit:     auditlog.New(h.logPath),
		StockPath: h.stockPath,
	})
	require.NoError(t, session.Run(context.Background()))

	assert.Equal(t, 5, h.store.Quantity("bolt"))
}

func TestSession_MetricsTextfileInvalidUTF8Name(t *testing.T) {
	h := newHarness(t)
	promPath := filepath.Join(h.dir, "stockwatch.prom")

	session := NewSession(Config{
		In:              strings.NewReader("1\ncaf\xe9\n3\n\n6\n0\n"),
		Out:             &h.out,
		Store:           h.store,
		Audit:           auditlog.New(h.logPath),
		StockPath:       h.stockPath,
		MetricsTextfile: promPath,
	})
	require.NotPanics(t, func() {
		require.NoError(t, session.Run(context.Background()))
	})

	assert.Equal(t, 3, h.store.Quantity("caf\xe9"))
	assert.Contains(t, h.out.String(), "Bye.")

	saved, err := os.ReadFile(h.stockPath)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "caf\xe9,3,0")

	data, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "stockwatch_item_quantity{item=\"caf�\"} 3")
}
