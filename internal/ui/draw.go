package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/johnconnor-sec/menulauncher/internal/filter"
)

const (
	submenuMarker = " ▸"
	lockMarker    = " [locked]"
	ellipsis      = "…"
	filterLabel   = "Filter"
)

const (
	browseHelp  = "type to filter  ⏎/→ open  ← back  ^F search  ^V views  ^Y copy  F1 help  F2 case  F3 title  F4 cmd  ^Q quit"
	noInputHelp = "↑↓ move  ⏎/→ open  ← back  / search  ^V views  y copy  F1 help  F2 case  F3 title  F4 cmd  q quit"
	searchHelp = "type to filter  ⏎ open  esc close  ^Y copy  F2 case  F3 title  F4 cmd"
	viewsHelp  = "⏎ open view  x clear history  esc back"
)

// drawText writes text at x, y clipped to limit columns and returns the
// column after it.
func (a *App) drawText(x, y, limit int, text string, style tcell.Style) int {
	if limit <= x {
		return x
	}
	if runewidth.StringWidth(text) > limit-x {
		text = runewidth.Truncate(text, limit-x, ellipsis)
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if x+w > limit {
			break
		}
		a.screen.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// fillLine paints the whole row y with style.
func (a *App) fillLine(y, width int, style tcell.Style) {
	for x := 0; x < width; x++ {
		a.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (a *App) pageSize() int {
	_, h := a.screen.Size()
	return max(h-a.listTop()-1, 1)
}

func (a *App) listTop() int {
	if a.mode == ModeSearch || (a.mode == ModeBrowse && a.session.SearchBoxEnabled()) {
		return 2
	}
	return 1
}

func (a *App) title() string {
	switch a.mode {
	case ModeViews:
		return a.session.Title() + " > Views"
	case ModeSearch:
		return a.session.Title() + " > Search"
	}
	parts := []string{a.session.Title()}
	for _, m := range a.stack[1:] {
		parts = append(parts, m.Title)
	}
	return strings.Join(parts, " > ")
}

func (a *App) optionFlags() string {
	opts := a.session.Options()
	flag := func(on bool, name string) string {
		if on {
			return "[" + name + "]"
		}
		return " " + name + " "
	}
	return flag(opts.CaseSensitive, "Aa") + flag(opts.MatchTitle, "title") + flag(opts.MatchCommand, "cmd")
}

func (a *App) draw() {
	a.screen.Clear()
	defer a.screen.Show()
	if a.session == nil {
		return
	}

	w, h := a.screen.Size()
	a.fillLine(0, w, a.theme.Title)
	a.drawText(1, 0, w, a.title(), a.theme.Title)

	top := a.listTop()
	if top == 2 {
		label, term := filterLabel, a.browseTerm()
		if a.mode == ModeSearch {
			label, term = filter.SearchLabel, a.search.Term
		}
		flags := a.optionFlags()
		flagsX := w - runewidth.StringWidth(flags) - 1
		end := a.drawText(1, 1, flagsX-1, label+": "+term, a.theme.Search)
		a.screen.ShowCursor(end, 1)
		a.drawText(flagsX, 1, w, flags, a.theme.Status)
	} else {
		a.screen.HideCursor()
	}

	rows := h - top - 1
	a.scroll(rows)
	if a.mode == ModeViews {
		a.drawViews(top, rows, w)
	} else {
		a.drawEntries(top, rows, w)
	}

	a.drawStatus(h-1, w)
}

// scroll keeps the selected row inside a window of rows lines.
func (a *App) scroll(rows int) {
	if rows <= 0 {
		return
	}
	if a.selected < a.offset {
		a.offset = a.selected
	}
	if a.selected >= a.offset+rows {
		a.offset = a.selected - rows + 1
	}
	a.offset = max(a.offset, 0)
}

func (a *App) drawEntries(top, rows, w int) {
	entries := a.entries()
	if len(entries) == 0 && a.mode == ModeSearch && a.search.Term == "" {
		a.drawText(2, top, w, "Type to search all menus", a.theme.Status)
		return
	}
	for i := a.offset; i < len(entries) && i < a.offset+rows; i++ {
		e := entries[i]
		y := top + i - a.offset
		style := a.theme.Normal
		if i == a.selected && a.selectable(i) {
			style = a.theme.Selected
			a.fillLine(y, w, style)
		}

		switch e.Kind {
		case filter.Separator:
			a.drawText(1, y, w-1, strings.Repeat("─", max(w-2, 0)), a.theme.Separator)

		case filter.Title:
			if i != a.selected {
				style = a.theme.Header
			}
			a.drawText(1, y, w, e.Label, style)

		case filter.SubMenu:
			x := a.drawText(2, y, w, e.Label+submenuMarker, style)
			if _, locked := e.Item.Protected(); locked {
				a.drawText(x, y, w, lockMarker, style.Foreground(a.theme.lockedColor()))
			}

		default:
			x := a.drawText(2, y, w, e.Label, style)
			if _, locked := e.Item.Protected(); locked {
				a.drawText(x, y, w, lockMarker, style.Foreground(a.theme.lockedColor()))
			}
		}
	}
}

func (a *App) drawViews(top, rows, w int) {
	if len(a.views) == 0 {
		a.drawText(2, top, w, "No other views", a.theme.Status)
		return
	}
	for i := a.offset; i < len(a.views) && i < a.offset+rows; i++ {
		row := a.views[i]
		y := top + i - a.offset
		if row.choice == nil {
			a.drawText(1, y, w, row.label, a.theme.Header)
			continue
		}
		style := a.theme.Normal
		if i == a.selected {
			style = a.theme.Selected
			a.fillLine(y, w, style)
		}
		a.drawText(2, y, w, row.label, style)
	}
}

func (a *App) drawStatus(y, w int) {
	if a.status != "" {
		style := a.theme.Status
		if a.statusErr {
			style = a.theme.Error
		}
		a.drawText(1, y, w, a.status, style)
		return
	}
	if tip := a.tip(); tip != "" {
		a.drawText(1, y, w, tip, a.theme.Status)
		return
	}
	help := browseHelp
	switch {
	case a.mode == ModeSearch:
		help = searchHelp
	case a.mode == ModeViews:
		help = viewsHelp
	case !a.session.SearchBoxEnabled():
		help = noInputHelp
	}
	a.drawText(1, y, w, help, a.theme.Status)
}

func (t Theme) lockedColor() tcell.Color {
	fg, _, _ := t.Locked.Decompose()
	return fg
}
