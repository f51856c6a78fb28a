// Package ui is the terminal front end of the launcher: it draws the realized
// menus of a session on a tcell screen and maps keys to session actions.
package ui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"

	"github.com/johnconnor-sec/menulauncher/internal/config"
	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/filter"
	"github.com/johnconnor-sec/menulauncher/internal/launcher"
	"github.com/johnconnor-sec/menulauncher/internal/logger"
	"github.com/johnconnor-sec/menulauncher/internal/model"
	"github.com/johnconnor-sec/menulauncher/internal/protect"
)

// Mode is what the list area currently shows.
type Mode int

const (
	// ModeBrowse shows one level of the nested menus.
	ModeBrowse Mode = iota
	// ModeSearch shows the flattened search view.
	ModeSearch
	// ModeViews lists the file choices and the view history.
	ModeViews
)

func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeSearch:
		return "search"
	case ModeViews:
		return "views"
	default:
		return "unknown"
	}
}

// viewRow is one line of the view list. Section headers have no choice.
type viewRow struct {
	label  string
	choice *model.FileChoice
}

// App drives one session on a screen.
type App struct {
	screen  tcell.Screen
	theme   Theme
	log     logr.Logger
	session *launcher.Session

	mode   Mode
	stack  []*filter.Menu
	search *filter.Menu
	views  []viewRow

	selected int
	offset   int

	status    string
	statusErr bool
	quit      bool

	copy func(string) error
}

// NewApp draws on screen, which must be initialized.
func NewApp(screen tcell.Screen, theme Theme) *App {
	return &App{
		screen: screen,
		theme:  theme,
		log:    logr.Discard(),
		copy:   clipboard.WriteAll,
	}
}

// Open starts a session on the root document. Passwords are asked on the
// screen unless opts supply another verifier.
func (a *App) Open(ctx context.Context, cfg *config.SystemConfig, rootPath string, opts ...launcher.Option) error {
	a.log = *logger.FromContext(ctx)
	base := []launcher.Option{launcher.WithVerifier(protect.PromptVerifier{Prompter: a})}
	s, err := launcher.New(ctx, cfg, rootPath, append(base, opts...)...)
	if err != nil {
		return err
	}
	a.session = s
	a.reset()
	return nil
}

// Session returns the open session.
func (a *App) Session() *launcher.Session {
	return a.session
}

// Mode returns the current mode.
func (a *App) Mode() Mode {
	return a.mode
}

// Status returns the message shown in the status line.
func (a *App) Status() string {
	return a.status
}

func (a *App) reset() {
	a.mode = ModeBrowse
	a.stack = []*filter.Menu{a.session.NestedMenu()}
	a.search = nil
	a.views = nil
	a.resetSelection()
}

func (a *App) resetSelection() {
	a.selected, a.offset = 0, 0
	a.ensureValidSelection()
}

// Loop draws and handles events until the user quits or ctx is done.
func (a *App) Loop(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for !a.quit {
		a.draw()
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		a.handleEvent(ctx, ev)
	}
	return ctx.Err()
}

// Run opens rootPath on a new terminal screen and blocks until the user
// quits.
func Run(ctx context.Context, cfg *config.SystemConfig, rootPath string, theme Theme) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, errors.InternalError, "Cannot open the terminal screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, errors.InternalError, "Cannot initialize the terminal screen")
	}
	defer screen.Fini()

	app := NewApp(screen, theme)
	if err := app.Open(ctx, cfg, rootPath); err != nil {
		return err
	}
	defer app.session.Close()
	return app.Loop(ctx)
}

func (a *App) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
	case *tcell.EventInterrupt:
		a.quit = true
	case *tcell.EventKey:
		a.handleKey(ctx, ev)
	}
}

func (a *App) handleKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		a.quit = true
		return
	case tcell.KeyF1:
		a.openHelp(ctx)
		return
	case tcell.KeyF2:
		a.toggleOption(filter.CaseSensitive)
		return
	case tcell.KeyF3:
		a.toggleOption(filter.MatchTitle)
		return
	case tcell.KeyF4:
		a.toggleOption(filter.MatchCommand)
		return
	case tcell.KeyCtrlV:
		a.openViews()
		return
	case tcell.KeyCtrlY:
		a.copySelected()
		return
	case tcell.KeyUp:
		a.moveSelection(-1)
		return
	case tcell.KeyDown:
		a.moveSelection(1)
		return
	case tcell.KeyPgUp:
		a.moveSelection(-a.pageSize())
		return
	case tcell.KeyPgDn:
		a.moveSelection(a.pageSize())
		return
	case tcell.KeyHome:
		a.selected = 0
		a.ensureValidSelection()
		return
	case tcell.KeyEnd:
		a.selected = a.rowCount() - 1
		a.moveSelection(0)
		return
	}

	switch a.mode {
	case ModeSearch:
		a.handleSearchKey(ctx, ev)
	case ModeViews:
		a.handleViewsKey(ctx, ev)
	default:
		a.handleBrowseKey(ctx, ev)
	}
}

// handleBrowseKey edits the filter term of the nested menus when the search
// box is enabled. Enter with a term moves to the flattened search view.
func (a *App) handleBrowseKey(ctx context.Context, ev *tcell.EventKey) {
	term := a.browseTerm()
	switch ev.Key() {
	case tcell.KeyEnter:
		if term != "" {
			a.openSearch(term)
			return
		}
		a.activate(ctx)
	case tcell.KeyRight:
		a.activate(ctx)
	case tcell.KeyLeft:
		a.back()
	case tcell.KeyEscape:
		if term != "" {
			a.filterBrowse("")
			return
		}
		a.back()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		runes := []rune(term)
		if len(runes) == 0 {
			a.back()
			return
		}
		a.filterBrowse(string(runes[:len(runes)-1]))
	case tcell.KeyCtrlF:
		a.openSearch(term)
	case tcell.KeyRune:
		if a.session.SearchBoxEnabled() {
			a.filterBrowse(term + string(ev.Rune()))
			return
		}
		switch ev.Rune() {
		case 'q':
			a.quit = true
		case 'y':
			a.copySelected()
		case '/':
			a.openSearch("")
		}
	}
}

func (a *App) handleSearchKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		a.activate(ctx)
	case tcell.KeyEscape:
		a.closeSearch()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		term := []rune(a.search.Term)
		if len(term) == 0 {
			a.closeSearch()
			return
		}
		a.filter(string(term[:len(term)-1]))
	case tcell.KeyRune:
		a.filter(a.search.Term + string(ev.Rune()))
	}
}

func (a *App) handleViewsKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyRight:
		a.switchView(ctx)
	case tcell.KeyEscape, tcell.KeyLeft:
		a.mode = ModeBrowse
		a.views = nil
		a.resetSelection()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'x':
			a.session.ClearHistory()
			a.openViews()
			a.setStatus("History cleared")
		case 'q':
			a.quit = true
		}
	}
}

// current returns the menu shown in browse or search mode.
func (a *App) current() *filter.Menu {
	if a.mode == ModeSearch && a.search != nil {
		return a.search
	}
	return a.stack[len(a.stack)-1]
}

// entries returns the visible entries of the current menu without the
// control entry.
func (a *App) entries() []*filter.Entry {
	var out []*filter.Entry
	for _, e := range a.current().VisibleEntries() {
		if e.Kind != filter.Control {
			out = append(out, e)
		}
	}
	return out
}

func (a *App) rowCount() int {
	if a.mode == ModeViews {
		return len(a.views)
	}
	return len(a.entries())
}

func (a *App) selectable(i int) bool {
	if a.mode == ModeViews {
		return a.views[i].choice != nil
	}
	e := a.entries()[i]
	switch e.Kind {
	case filter.Command, filter.SubMenu:
		return true
	case filter.Title:
		// submenu section headers of the search view
		return e.Item != nil && e.Item.Kind == model.SubMenu
	}
	return false
}

// moveSelection moves by delta and then to the nearest selectable row,
// preferring the direction of the move.
func (a *App) moveSelection(delta int) {
	n := a.rowCount()
	if n == 0 {
		a.selected = 0
		return
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	target := min(max(a.selected+delta, 0), n-1)
	for i := target; i >= 0 && i < n; i += step {
		if a.selectable(i) {
			a.selected = i
			return
		}
	}
	for i := target; i >= 0 && i < n; i -= step {
		if a.selectable(i) {
			a.selected = i
			return
		}
	}
	a.selected = target
}

func (a *App) ensureValidSelection() {
	a.moveSelection(0)
}

func (a *App) selectedEntry() *filter.Entry {
	if a.mode == ModeViews {
		return nil
	}
	entries := a.entries()
	if a.selected < 0 || a.selected >= len(entries) || !a.selectable(a.selected) {
		return nil
	}
	return entries[a.selected]
}

func (a *App) activate(ctx context.Context) {
	e := a.selectedEntry()
	if e == nil {
		return
	}
	switch e.Kind {
	case filter.SubMenu:
		if err := a.session.EnterSubMenu(e.Item); err != nil {
			a.fail(err)
			return
		}
		if e.Child == nil {
			return
		}
		a.stack = append(a.stack, e.Child)
		a.resetSelection()
		a.setStatus("")

	case filter.Command:
		if err := a.session.Execute(ctx, e.Item); err != nil {
			a.fail(err)
			return
		}
		a.setStatus("Started " + e.Item.Text)

	case filter.Title:
		a.jumpTo(e.Item)
	}
}

// jumpTo leaves the search view and opens the nested menu of the submenu
// item, checking the password of every submenu on the way.
func (a *App) jumpTo(item *model.Item) {
	stack := []*filter.Menu{a.stack[0]}
	path := append(append([]*model.Item(nil), item.Trace...), item)
	for _, step := range path {
		e := entryFor(stack[len(stack)-1], step)
		if e == nil || e.Child == nil {
			break
		}
		if err := a.session.EnterSubMenu(step); err != nil {
			a.fail(err)
			return
		}
		stack = append(stack, e.Child)
	}
	a.stack = stack
	a.closeSearch()
}

func entryFor(m *filter.Menu, item *model.Item) *filter.Entry {
	for _, e := range m.Entries {
		if e.Item == item {
			return e
		}
	}
	return nil
}

func (a *App) back() {
	if len(a.stack) > 1 {
		a.stack = a.stack[:len(a.stack)-1]
		a.resetSelection()
	}
	a.setStatus("")
}

func (a *App) openSearch(term string) {
	if a.search == nil {
		a.search = a.session.SearchMenu()
	}
	a.mode = ModeSearch
	a.filter(term)
}

func (a *App) closeSearch() {
	a.search = nil
	a.mode = ModeBrowse
	a.resetSelection()
}

// browseTerm is the filter term of the nested menus. Filtering the root menu
// filters every submenu on the stack with the same term.
func (a *App) browseTerm() string {
	return a.stack[0].Term
}

func (a *App) filterBrowse(term string) {
	a.stack[0].FilterMenu(term)
	a.resetSelection()
	if term != "" && len(a.entries()) == 0 {
		a.setError("No match for " + term)
	} else {
		a.setStatus("")
	}
}

func (a *App) filter(term string) {
	if !a.search.FilterMenu(term) && term != "" {
		a.setError("No match for " + term)
	} else {
		a.setStatus("")
	}
	a.resetSelection()
}

func (a *App) toggleOption(opt filter.Option) {
	value := !a.session.Options().Get(opt)
	menu := a.current()
	if a.mode == ModeBrowse {
		menu = a.stack[0]
	}
	menu.SetFilterCondition(opt, value)
	state := "off"
	if value {
		state = "on"
	}
	a.setStatus(fmt.Sprintf("%s %s", opt, state))
	a.ensureValidSelection()
}

func (a *App) openViews() {
	a.views = a.views[:0]
	choices := a.session.ViewChoices()
	if len(choices) > 0 {
		a.views = append(a.views, viewRow{label: "Views"})
		for _, c := range choices {
			a.views = append(a.views, viewRow{label: c.Text, choice: c})
		}
	}
	if history := a.session.History(); len(history) > 0 {
		a.views = append(a.views, viewRow{label: "History"})
		for _, c := range history {
			a.views = append(a.views, viewRow{label: c.Text, choice: c})
		}
	}
	a.mode = ModeViews
	a.search = nil
	a.resetSelection()
}

func (a *App) switchView(ctx context.Context) {
	if a.selected >= len(a.views) || a.views[a.selected].choice == nil {
		return
	}
	choice := *a.views[a.selected].choice
	if err := a.session.SetNewView(ctx, choice.File, choice.Text); err != nil {
		a.fail(err)
		return
	}
	a.reset()
	a.setStatus("Opened " + a.session.Title())
}

func (a *App) copySelected() {
	e := a.selectedEntry()
	if e == nil || e.Kind != filter.Command {
		a.setError("Nothing to copy")
		return
	}
	if err := a.copy(e.Item.Command); err != nil {
		a.log.Info("clipboard unavailable", "error", err.Error())
		a.setError("Clipboard unavailable")
		return
	}
	a.setStatus("Copied: " + e.Item.Command)
}

// openHelp starts the help link of the selected entry.
func (a *App) openHelp(ctx context.Context) {
	e := a.selectedEntry()
	if e == nil || e.Item == nil || e.Item.HelpLink == "" {
		a.setError("No help for this entry")
		return
	}
	if err := a.session.OpenHelp(ctx, e.Item); err != nil {
		a.fail(err)
		return
	}
	a.setStatus("Opened help of " + e.Item.Text)
}

// tip is the tip of the selected entry, shown when there is no status.
func (a *App) tip() string {
	if e := a.selectedEntry(); e != nil && e.Item != nil {
		return e.Item.Tip
	}
	return ""
}

func (a *App) setStatus(msg string) {
	a.status, a.statusErr = msg, false
}

func (a *App) setError(msg string) {
	a.status, a.statusErr = msg, true
}

// fail shows err in the status line. Refused passwords and launch failures
// keep the window open.
func (a *App) fail(err error) {
	if le, ok := err.(*errors.LauncherError); ok {
		a.setError(le.Message)
	} else {
		a.setError(err.Error())
	}
	a.log.V(1).Info("action failed", "error", err.Error(), "type", string(errors.GetType(err)))
}
