// ABOUTME: Interactive menu loop that dispatches single-digit choices to command handlers
// ABOUTME: Owns the console reader, the record store, and the audit/alert collaborators for one session

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/2389/stockwatch/internal/alert"
	"github.com/2389/stockwatch/internal/inventory"
)

// ErrInputClosed is returned when the console input reaches EOF.
var ErrInputClosed = errors.New("console input closed")

// Config wires a Session to its collaborators.
type Config struct {
	In    io.Reader
	Out   io.Writer
	Store *inventory.Store
	Audit alert.AuditLogger

	// StockPath is the persistence file used by load and save.
	StockPath string

	// MetricsTextfile, when set, is rewritten after every successful load and save.
	MetricsTextfile string
}

// Session is one run of the interactive menu.
type Session struct {
	in          *bufio.Reader
	out         io.Writer
	store       *inventory.Store
	audit       alert.AuditLogger
	alerts      *alert.Checker
	stockPath   string
	metricsPath string
	logger      *slog.Logger

	title *color.Color
	ok    *color.Color
	fail  *color.Color
	mark  *color.Color
}

// NewSession creates a session from cfg.
func NewSession(cfg Config) *Session {
	return &Session{
		in:          bufio.NewReader(cfg.In),
		out:         cfg.Out,
		store:       cfg.Store,
		audit:       cfg.Audit,
		alerts:      alert.NewChecker(cfg.Store, cfg.Audit, cfg.Out),
		stockPath:   cfg.StockPath,
		metricsPath: cfg.MetricsTextfile,
		logger:      slog.Default().With("component", "console"),
		title:       color.New(color.FgCyan, color.Bold),
		ok:          color.New(color.FgGreen),
		fail:        color.New(color.FgRed),
		mark:        color.New(color.FgRed, color.Bold),
	}
}

// Run shows the menu until the operator chooses 0, the input ends, or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		s.printMenu()
		choice, err := s.readLine("Choice > ")
		if err != nil {
			if errors.Is(err, ErrInputClosed) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}

		if choice == "0" {
			fmt.Fprintln(s.out, "Bye.")
			return nil
		}

		if err := s.dispatch(ctx, choice); err != nil {
			if errors.Is(err, ErrInputClosed) {
				fmt.Fprintln(s.out)
				return nil
			}
			return err
		}
	}
}

// dispatch runs the handler for choice. Only console read failures are returned.
func (s *Session) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.register(ctx)
	case "2":
		return s.inbound(ctx)
	case "3":
		return s.outbound(ctx)
	case "4":
		s.list()
	case "5":
		s.load(ctx)
	case "6":
		s.save(ctx)
	case "7":
		return s.setMinimum(ctx)
	default:
		s.fail.Fprintln(s.out, "Invalid choice. Pick 0-7.")
	}
	return nil
}

func (s *Session) printMenu() {
	fmt.Fprintln(s.out)
	s.title.Fprintln(s.out, "=== stockwatch: inventory with low-stock alerts ===")
	fmt.Fprintln(s.out, "1: Register / overwrite")
	fmt.Fprintln(s.out, "2: Inbound (+)")
	fmt.Fprintln(s.out, "3: Outbound (-)")
	fmt.Fprintln(s.out, "4: List")
	fmt.Fprintln(s.out, "5: Load CSV")
	fmt.Fprintln(s.out, "6: Save CSV")
	fmt.Fprintln(s.out, "7: Set minimum stock")
	fmt.Fprintln(s.out, "0: Exit")
}

// readLine prints prompt and returns the next input line, trimmed.
func (s *Session) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading input: %w", err)
		}
		// A final line without a newline still counts; the next read reports EOF.
		if line == "" {
			return "", ErrInputClosed
		}
	}
	return strings.TrimSpace(line), nil
}

// readInt re-prompts until the operator types a syntactically valid integer.
// Range checks are left to the caller, which aborts the command instead of re-prompting.
func (s *Session) readInt(prompt string) (int, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		s.fail.Fprintln(s.out, "Please enter a whole number (e.g. 10).")
	}
}

// readName prompts for an item name and reports whether it is usable.
func (s *Session) readName() (string, bool, error) {
	name, err := s.readLine("Item name > ")
	if err != nil {
		return "", false, err
	}

	switch err := inventory.ValidateName(name); {
	case errors.Is(err, inventory.ErrEmptyName):
		s.fail.Fprintln(s.out, "Item name is empty.")
		return "", false, nil
	case errors.Is(err, inventory.ErrNameHasDelimiter):
		s.fail.Fprintln(s.out, "Item names cannot contain a comma (it is the CSV delimiter).")
		return "", false, nil
	}
	return name, true, nil
}
