package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Prompt asks for a password in a box over the current screen. It implements
// protect.Prompter; Escape or an empty answer cancels.
func (a *App) Prompt(target string) (string, bool, error) {
	var typed []rune
	for {
		a.draw()
		a.drawPrompt(target, len(typed))
		a.screen.Show()

		switch ev := a.screen.PollEvent().(type) {
		case nil:
			return "", false, nil
		case *tcell.EventInterrupt:
			a.quit = true
			return "", false, nil
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEnter:
				return string(typed), len(typed) > 0, nil
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return "", false, nil
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(typed) > 0 {
					typed = typed[:len(typed)-1]
				}
			case tcell.KeyRune:
				typed = append(typed, ev.Rune())
			}
		}
	}
}

func (a *App) drawPrompt(target string, typed int) {
	w, h := a.screen.Size()
	label := "Password"
	if target != "" {
		label += " for " + target
	}
	label += ": "

	width := min(max(runewidth.StringWidth(label)+typed+4, 30), w)
	x0, y0 := (w-width)/2, h/2-1
	style := a.theme.Title

	for y := y0; y < y0+3; y++ {
		for x := x0; x < x0+width; x++ {
			a.screen.SetContent(x, y, ' ', nil, style)
		}
	}
	end := a.drawText(x0+2, y0+1, x0+width-1, label+strings.Repeat("*", typed), style)
	a.screen.ShowCursor(end, y0+1)
}
