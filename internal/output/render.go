package output

import (
	"fmt"
	"strings"

	"github.com/johnconnor-sec/menulauncher/internal/filter"
	"github.com/johnconnor-sec/menulauncher/internal/model"
)

const (
	lockMarker = " [locked]"
	indentUnit = "  "
)

// RenderDocument prints the whole tree of doc, one item per line, indented
// by submenu depth. Commands are followed by their resolved command line
// when withCommands is set.
func (f *Formatter) RenderDocument(doc *model.Document, withCommands bool) {
	if f.level == LevelQuiet || doc == nil {
		return
	}

	title := doc.MainTitle.Text
	if doc.Password != "" {
		title += lockMarker
	}
	f.Subheader(title)

	doc.Walk(func(item *model.Item, depth int) bool {
		fmt.Fprintln(f.writer, strings.Repeat(indentUnit, depth)+f.itemLine(item, withCommands))
		return true
	})
}

func (f *Formatter) itemLine(item *model.Item, withCommands bool) string {
	_, locked := item.Protected()
	suffix := ""
	if locked {
		suffix = f.colorize(lockMarker, f.colors.warning, StyleNormal)
	}

	switch item.Kind {
	case model.Title:
		return f.colorize(item.Text, f.colors.section, StyleBold)
	case model.Separator:
		return f.colorize("────", f.colors.border, StyleNormal)
	case model.SubMenu:
		return f.colorize("▸ "+item.Text, f.colors.heading, StyleBold) + suffix
	default:
		line := "• " + item.Text + suffix
		if withCommands && item.Command != "" {
			line += "  " + f.colorize(item.Command, f.colors.muted, StyleDim)
		}
		return line
	}
}

// RenderEntries prints the visible entries of m with their labels, skipping
// the control entry. It returns the number of entries printed.
func (f *Formatter) RenderEntries(m *filter.Menu) int {
	table := f.Table().Headers("Entry", "Type", "Command")
	for _, e := range m.VisibleEntries() {
		if e.Kind == filter.Control || e.Item == nil {
			continue
		}
		table.Row(e.Label, e.Item.Kind.String(), e.Item.Command)
	}
	if table.Len() > 0 {
		table.Print()
	}
	return table.Len()
}
