package filter

import "github.com/johnconnor-sec/menulauncher/internal/model"

// EntryKind classifies a realized entry.
type EntryKind int

const (
	// Control is the leading entry of every menu: the detach control in the
	// nested view, the search input in the flattened view.
	Control EntryKind = iota
	Command
	SubMenu
	Title
	Separator
)

// Control entry labels.
const (
	DetachLabel = "- - - detach - - -"
	SearchLabel = "Search"
)

// Entry is one displayable line of a realized menu.
type Entry struct {
	Kind    EntryKind
	Item    *model.Item
	Label   string
	Visible bool

	// Child is the realized submenu of a SubMenu entry in the nested view.
	Child *Menu

	// Depth is the splice depth in the flattened view: entries of a
	// submenu sit one level below its header. Always 0 in the nested view.
	Depth int
}

// Menu is a realized menu level.
type Menu struct {
	Title             string
	Document          *model.Document
	Entries           []*Entry
	DefaultVisibility bool
	Term              string
	Options           *Options
}

// NewNestedMenu realizes doc and its submenus as nested menus sharing opts.
// Entries are shown while no term is set.
func NewNestedMenu(doc *model.Document, opts *Options) *Menu {
	if opts == nil {
		opts = DefaultOptions()
	}
	m := &Menu{
		Title:             doc.MainTitle.Text,
		Document:          doc,
		DefaultVisibility: true,
		Options:           opts,
	}
	m.Entries = append(m.Entries, &Entry{Kind: Control, Label: DetachLabel, Visible: true})

	for _, item := range doc.Items {
		e := &Entry{Item: item, Label: item.Text, Visible: true}
		switch item.Kind {
		case model.Command:
			e.Kind = Command
		case model.SubMenu:
			e.Kind = SubMenu
			if item.SubMenu != nil {
				e.Child = NewNestedMenu(item.SubMenu, opts)
			}
		case model.Title:
			e.Kind = Title
		case model.Separator:
			e.Kind = Separator
		}
		m.Entries = append(m.Entries, e)
	}
	return m
}

// NewSearchMenu realizes doc as one flat list: submenu contents are spliced in
// right after their SubMenu item, which becomes a section header. Headers are
// Title entries whose Item is of kind model.SubMenu; they are shown when any
// entry of their spliced range is. Labels carry the breadcrumb of their
// trace. Entries are hidden while no term is set.
func NewSearchMenu(doc *model.Document, opts *Options) *Menu {
	if opts == nil {
		opts = DefaultOptions()
	}
	m := &Menu{
		Title:             doc.MainTitle.Text,
		Document:          doc,
		DefaultVisibility: false,
		Options:           opts,
	}
	m.Entries = append(m.Entries, &Entry{Kind: Control, Label: SearchLabel, Visible: true})
	m.splice(doc.Items, 0)
	return m
}

func (m *Menu) splice(items []*model.Item, depth int) {
	for _, item := range items {
		e := &Entry{Item: item, Depth: depth}
		switch item.Kind {
		case model.Command:
			e.Kind = Command
			e.Label = item.Breadcrumb() + item.Text
		case model.Title:
			e.Kind = Title
			e.Label = item.Breadcrumb() + item.Text
		case model.Separator:
			e.Kind = Separator
		case model.SubMenu:
			e.Kind = Title
			e.Label = item.Breadcrumb() + item.Text
		}
		m.Entries = append(m.Entries, e)
		if item.Kind == model.SubMenu && item.SubMenu != nil {
			m.splice(item.SubMenu.Items, depth+1)
		}
	}
}

// SetFilterCondition changes one shared option and re-filters with the
// current term.
func (m *Menu) SetFilterCondition(opt Option, value bool) bool {
	m.Options.Set(opt, value)
	return m.FilterMenu(m.Term)
}

// FilterMenu updates entry visibility for term and reports whether any entry
// below the control entry is visible. An empty term restores the default
// visibility on this menu and every nested submenu.
func (m *Menu) FilterMenu(term string) bool {
	m.Term = term
	if len(m.Entries) == 0 {
		return false
	}
	entries := m.Entries[1:]

	if term == "" {
		for _, e := range entries {
			e.Visible = m.DefaultVisibility
			if e.Child != nil {
				e.Child.FilterMenu(term)
			}
		}
		return m.DefaultVisibility
	}

	// One section per splice depth: the submenu header opening it, the
	// current title and its visible count.
	type section struct {
		header, title *Entry
		count         int
		any           bool
	}
	stack := []*section{{}}
	closeTitle := func() {
		if top := stack[len(stack)-1]; top.title != nil {
			top.title.Visible = top.count > 0
		}
	}
	pop := func() {
		closeTitle()
		done := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		done.header.Visible = done.any
		if done.any {
			parent := stack[len(stack)-1]
			parent.count++
			parent.any = true
		}
	}

	for _, e := range entries {
		for len(stack)-1 > e.Depth {
			pop()
		}
		top := stack[len(stack)-1]

		switch e.Kind {
		case Separator:
			e.Visible = false

		case Title:
			e.Visible = false
			if e.Item != nil && e.Item.Kind == model.SubMenu {
				stack = append(stack, &section{header: e})
				continue
			}
			closeTitle()
			top.title, top.count = e, 0

		case SubMenu:
			e.Visible = false
			if e.Child != nil {
				e.Visible = e.Child.FilterMenu(term)
			}

		case Command:
			e.Visible = m.matches(e.Item, term)

		default:
			e.Visible = false
		}

		if e.Visible {
			top.count++
			top.any = true
		}
	}
	for len(stack) > 1 {
		pop()
	}
	closeTitle()

	return stack[0].any
}

func (m *Menu) matches(item *model.Item, term string) bool {
	if item == nil {
		return false
	}
	if m.Options.MatchTitle && m.Options.contains(item.Text, term) {
		return true
	}
	return m.Options.MatchCommand && item.Kind == model.Command && m.Options.contains(item.Command, term)
}

// VisibleEntries returns the visible entries, the control entry included.
func (m *Menu) VisibleEntries() []*Entry {
	var out []*Entry
	for _, e := range m.Entries {
		if e.Visible {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry realizing item, searching nested submenus.
func (m *Menu) Find(item *model.Item) *Entry {
	for _, e := range m.Entries {
		if e.Item == item {
			return e
		}
		if e.Child != nil {
			if found := e.Child.Find(item); found != nil {
				return found
			}
		}
	}
	return nil
}
