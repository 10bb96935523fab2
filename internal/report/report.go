// ABOUTME: Inventory report model and file export dispatch
// ABOUTME: Builds one row per stocked item and writes it as xlsx, Markdown, or HTML

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2389/stockwatch/internal/inventory"
)

// Row is one item in the report.
type Row struct {
	Name     string
	Quantity int
	Minimum  int
	Low      bool // quantity strictly below minimum, same marker as the list command
}

// Report is a point-in-time view of the store.
type Report struct {
	Generated time.Time
	Rows      []Row
}

// Build captures every item that has a quantity, in store order.
func Build(s *inventory.Store, now time.Time) Report {
	rows := make([]Row, 0, s.Len())
	for _, name := range s.Names() {
		qty := s.Quantity(name)
		minimum := s.Minimum(name)
		rows = append(rows, Row{
			Name:     name,
			Quantity: qty,
			Minimum:  minimum,
			Low:      qty < minimum,
		})
	}
	return Report{Generated: now, Rows: rows}
}

// LowCount returns the number of rows below their minimum.
func (r Report) LowCount() int {
	n := 0
	for _, row := range r.Rows {
		if row.Low {
			n++
		}
	}
	return n
}

// Export writes r to path in the format implied by its extension.
func Export(path string, r Report) error {
	var write func(io.Writer, Report) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		write = WriteXLSX
	case ".md":
		write = WriteMarkdown
	case ".html", ".htm":
		write = WriteHTML
	default:
		return fmt.Errorf("unsupported report format %q (use .xlsx, .md or .html)", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := write(f, r); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report: %w", err)
	}
	return nil
}
