// ABOUTME: Reads and writes the inventory persistence file (name,qty,min per line)
// ABOUTME: Loading also accepts the older two-column name,qty layout

package csvfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/2389/stockwatch/internal/inventory"
)

// Header is the first line written by Save.
const Header = "name,qty,min"

// legacyHeader is the header of files written before minimums existed.
const legacyHeader = "name,qty"

// ErrNotFound is returned by Load when the persistence file does not exist.
var ErrNotFound = errors.New("stock file not found")

// Encode writes the header and one line per item that has a quantity.
// Items with only a minimum are not written.
func Encode(w io.Writer, s *inventory.Store) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, name := range s.Names() {
		if _, err := fmt.Fprintf(bw, "%s,%d,%d\n", name, s.Quantity(name), s.Minimum(name)); err != nil {
			return fmt.Errorf("writing %q: %w", name, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing stock file: %w", err)
	}
	return nil
}

// Decode parses a persistence file into a fresh store.
// Malformed or negative numbers drop the affected field; no line fails the whole decode.
func Decode(r io.Reader) (*inventory.Store, error) {
	s := inventory.NewStore()
	br := bufio.NewReader(r)
	first := true

	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("reading stock file: %w", readErr)
		}

		if line := strings.TrimSpace(raw); line != "" {
			if !first || !isHeader(line) {
				decodeLine(s, strings.Split(line, inventory.Delimiter))
			}
			first = false
		}

		if readErr != nil {
			break
		}
	}

	return s, nil
}

func isHeader(line string) bool {
	return strings.EqualFold(line, Header) || strings.EqualFold(line, legacyHeader)
}

// decodeLine applies one record to s. Lines with fewer than two fields are ignored
// and anything past the third field is ignored.
func decodeLine(s *inventory.Store, fields []string) {
	if len(fields) < 2 {
		return
	}

	name := strings.TrimSpace(fields[0])
	if name == "" {
		return
	}

	qty, qtyErr := strconv.Atoi(strings.TrimSpace(fields[1]))
	if qtyErr == nil {
		// A negative quantity discards the whole line, minimum included.
		if qty < 0 {
			return
		}
		s.SetQuantity(name, qty)
	}

	if len(fields) < 3 {
		return
	}

	minimum, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err == nil && minimum >= 0 {
		s.SetMinimum(name, minimum)
	}
}

// Save writes s to path, replacing any existing file.
func Save(path string, s *inventory.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating stock file: %w", err)
	}

	if err := Encode(f, s); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing stock file: %w", err)
	}
	return nil
}

// Load reads path into a fresh store. The caller's store is untouched on error.
func Load(path string) (*inventory.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("opening stock file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}
