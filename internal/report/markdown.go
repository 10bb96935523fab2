// ABOUTME: Markdown and HTML rendering of the inventory report
// ABOUTME: HTML is produced by converting the Markdown table with goldmark's GFM table extension

package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// WriteMarkdown writes r as a Markdown document with a GFM table.
func WriteMarkdown(w io.Writer, r Report) error {
	var b strings.Builder

	b.WriteString("# Inventory report\n\n")
	fmt.Fprintf(&b, "Generated %s. %d items, %d below minimum.\n\n",
		r.Generated.Format("2006-01-02 15:04:05"), len(r.Rows), r.LowCount())

	if len(r.Rows) == 0 {
		b.WriteString("_No items registered._\n")
	} else {
		b.WriteString("| Item | Qty | Min | Status |\n")
		b.WriteString("|------|----:|----:|--------|\n")
		for _, row := range r.Rows {
			status := "ok"
			if row.Low {
				status = "**below minimum**"
			}
			fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", escapeCell(row.Name), row.Quantity, row.Minimum, status)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

// WriteHTML writes r as a standalone HTML page.
func WriteHTML(w io.Writer, r Report) error {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, r); err != nil {
		return err
	}

	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := converter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	page := "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Inventory report</title>\n</head>\n<body>\n" +
		body.String() +
		"</body>\n</html>\n"
	if _, err := io.WriteString(w, page); err != nil {
		return fmt.Errorf("writing html: %w", err)
	}
	return nil
}

// escapeCell keeps item names from breaking the table or injecting markup.
func escapeCell(s string) string {
	r := strings.NewReplacer(
		`|`, `\|`,
		`<`, `&lt;`,
		`>`, `&gt;`,
		`*`, `\*`,
		`_`, `\_`,
	)
	return r.Replace(s)
}
