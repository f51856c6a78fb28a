// Package model holds the parsed menu tree: documents, their typed items and
// the file choices that switch the root document.
package model

import "fmt"

// Kind discriminates the variants of Item.
type Kind int

const (
	Command Kind = iota
	SubMenu
	Title
	Separator
)

func (k Kind) String() string {
	switch k {
	case Command:
		return "command"
	case SubMenu:
		return "menu"
	case Title:
		return "title"
	case Separator:
		return "separator"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MainTitle is the display title of a document.
type MainTitle struct {
	Text  string
	Theme string
	Style string
}

// Item is one entry of a document's menu list.
type Item struct {
	Kind Kind

	Text     string
	Tip      string
	Theme    string
	Style    string
	HelpLink string

	// Trace lists the SubMenu items leading from the root document to the
	// document holding this item. Empty for items of the root.
	Trace []*Item

	// Command is the resolved command line. Command items only.
	Command string
	// CommandType names the configured type the command was built from.
	CommandType string

	// Password gates execution of a command item.
	Password string

	// SubMenu is the child document, owned by this item. SubMenu items only.
	SubMenu *Document
}

// Protected reports whether activating the item requires a password, and
// returns the hash to check against.
func (i *Item) Protected() (string, bool) {
	switch i.Kind {
	case Command:
		return i.Password, i.Password != ""
	case SubMenu:
		if i.SubMenu != nil && i.SubMenu.Password != "" {
			return i.SubMenu.Password, true
		}
	}
	return "", false
}

// Breadcrumb returns the trace texts joined and terminated by " > ", or ""
// for root items.
func (i *Item) Breadcrumb() string {
	var prefix string
	for _, t := range i.Trace {
		prefix += t.Text + " > "
	}
	return prefix
}

func (i *Item) String() string {
	return fmt.Sprintf("%s: %s", i.Kind, i.Text)
}

// FileChoice references an alternative root document.
type FileChoice struct {
	Text string
	File string
}

// Document is one parsed menu resource.
type Document struct {
	MainTitle   MainTitle
	Items       []*Item
	FileChoices []*FileChoice
	Level       int
	SourcePath  string

	// Flags are read from the root document only.
	Flags map[string]any

	// Password gates opening the document.
	Password string

	// ChoiceElement is the choice that returns to this document. Its Text is
	// overwritten when the document is recorded in the view history.
	ChoiceElement *FileChoice
}

// Flag returns the boolean flag name, or def when it is unset or not a bool.
func (d *Document) Flag(name string, def bool) bool {
	if v, ok := d.Flags[name].(bool); ok {
		return v
	}
	return def
}

// Walk visits every item depth-first, descending into submenus right after
// their SubMenu item. depth is the nesting below d. Returning false from fn
// stops the walk.
func (d *Document) Walk(fn func(item *Item, depth int) bool) {
	d.walk(fn, 0)
}

func (d *Document) walk(fn func(*Item, int) bool, depth int) bool {
	for _, item := range d.Items {
		if !fn(item, depth) {
			return false
		}
		if item.SubMenu != nil {
			if !item.SubMenu.walk(fn, depth+1) {
				return false
			}
		}
	}
	return true
}

// Count returns the number of items of each kind in the whole tree.
func (d *Document) Count() map[Kind]int {
	counts := make(map[Kind]int)
	d.Walk(func(item *Item, _ int) bool {
		counts[item.Kind]++
		return true
	})
	return counts
}

// Close releases the owned subtree. The document must not be used afterwards.
func (d *Document) Close() {
	if d == nil {
		return
	}
	for _, item := range d.Items {
		if item.SubMenu != nil {
			item.SubMenu.Close()
			item.SubMenu = nil
		}
		item.Trace = nil
	}
	d.Items = nil
	d.FileChoices = nil
}
