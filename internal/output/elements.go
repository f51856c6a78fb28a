package output

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// rule returns a line of r as wide as text, capped at the terminal width.
func (f *Formatter) rule(r string, text string, pad int) string {
	return strings.Repeat(r, min(runewidth.StringWidth(text)+pad, f.width))
}

// Header prints text framed by double rules.
func (f *Formatter) Header(text string) {
	if f.level == LevelQuiet {
		return
	}
	frame := f.colorize(f.rule("═", text, 4), f.colors.border, StyleBold)
	fmt.Fprintf(f.writer, "%s\n  %s  \n%s\n", frame, f.colorize(text, f.colors.heading, StyleBold), frame)
}

// Subheader prints text underlined.
func (f *Formatter) Subheader(text string) {
	if f.level == LevelQuiet {
		return
	}
	fmt.Fprintln(f.writer, f.colorize(text, f.colors.section, StyleBold))
	fmt.Fprintln(f.writer, f.colorize(f.rule("─", text, 0), f.colors.border, StyleNormal))
}

// List prints one bullet.
func (f *Formatter) List(format string, args ...any) {
	if f.level == LevelQuiet {
		return
	}
	fmt.Fprintln(f.writer, f.colorize("• "+fmt.Sprintf(format, args...), f.colors.heading, StyleNormal))
}

func (f *Formatter) Table() *Table {
	return &Table{formatter: f}
}
