package view

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"nsefetch/pkg/dataset"
)

// RenderOptions controls tabular rendering.
type RenderOptions struct {
	// MaxRows limits how many records are printed; 0 prints all. When
	// exceeded, a truncation notice with the true total is appended.
	MaxRows int

	// MaxColWidth truncates cell text to this many runes.
	MaxColWidth int
}

// DefaultRenderOptions matches the explorer's table defaults.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{MaxColWidth: 40}
}

// Render writes the records as a bordered text table. The column set is
// the field order of the first record; datasets are assumed to share a
// field superset across records.
func Render(w io.Writer, records []dataset.Record, opts RenderOptions) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No data to display")
		return err
	}
	if opts.MaxColWidth <= 0 {
		opts.MaxColWidth = 40
	}

	headers := records[0].Fields()

	shown := records
	if opts.MaxRows > 0 && len(records) > opts.MaxRows {
		shown = records[:opts.MaxRows]
	}

	// Column widths: widest of header and shown cells, capped.
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	rows := make([][]string, len(shown))
	for r, rec := range shown {
		row := make([]string, len(headers))
		for i, h := range headers {
			cell := truncate(rec.Display(h), opts.MaxColWidth)
			row[i] = cell
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
		rows[r] = row
	}
	for i := range widths {
		if widths[i] > opts.MaxColWidth {
			widths[i] = opts.MaxColWidth
		}
	}

	sep := separator(widths)
	if _, err := fmt.Fprintln(w, sep); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, formatRow(headers, widths)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, sep); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, formatRow(row, widths)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, sep); err != nil {
		return err
	}

	if len(shown) < len(records) {
		if _, err := fmt.Fprintf(w, "... showing %d of %d records\n", len(shown), len(records)); err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteByte('+')
	}
	return b.String()
}

func formatRow(cells []string, widths []int) string {
	var b strings.Builder
	b.WriteByte('|')
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = truncate(cells[i], w)
		}
		pad := w - utf8.RuneCountInString(cell)
		b.WriteByte(' ')
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(" |")
	}
	return b.String()
}
