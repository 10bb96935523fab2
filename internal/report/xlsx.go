// ABOUTME: Spreadsheet rendering of the inventory report using excelize
// ABOUTME: Rows below their minimum are shaded so they stand out when printed

package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Inventory"

// WriteXLSX writes r as a single-sheet workbook.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := []interface{}{"name", "qty", "min", "status"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	lowStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Font: &excelize.Font{Color: "9C0006"},
	})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	for i, row := range r.Rows {
		status := "ok"
		if row.Low {
			status = "below minimum"
		}
		values := []interface{}{row.Name, row.Quantity, row.Minimum, status}

		first, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheetName, first, &values); err != nil {
			return fmt.Errorf("writing %q: %w", row.Name, err)
		}

		if row.Low {
			last, err := excelize.CoordinatesToCellName(len(values), i+2)
			if err != nil {
				return fmt.Errorf("addressing row %d: %w", i+2, err)
			}
			if err := f.SetCellStyle(sheetName, first, last, lowStyle); err != nil {
				return fmt.Errorf("styling %q: %w", row.Name, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
