package output

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table collects rows and prints them in aligned columns.
type Table struct {
	formatter *Formatter
	headers   []string
	rows      [][]string
}

// Headers sets the table headers
func (t *Table) Headers(headers ...string) *Table {
	t.headers = headers
	return t
}

// Row adds a row to the table
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// widths measures display cells, so wide runes line up.
func (t *Table) widths() []int {
	var widths []int
	measure := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

// Print renders the table
func (t *Table) Print() {
	f := t.formatter
	if f.level == LevelQuiet {
		return
	}
	widths := t.widths()

	line := func(cells []string, color Color, style Style) {
		var b strings.Builder
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			padded := cell
			if i < len(cells)-1 {
				padded = runewidth.FillRight(cell, widths[i])
			}
			if color == ColorReset {
				b.WriteString(padded)
			} else {
				b.WriteString(f.colorize(padded, color, style))
			}
		}
		fmt.Fprintln(f.writer, strings.TrimRight(b.String(), " "))
	}

	if len(t.headers) > 0 {
		line(t.headers, f.colors.heading, StyleBold)
		separators := make([]string, len(t.headers))
		for i := range t.headers {
			separators[i] = strings.Repeat("─", widths[i])
		}
		line(separators, f.colors.border, StyleNormal)
	}
	for _, row := range t.rows {
		line(row, ColorReset, StyleNormal)
	}
}
