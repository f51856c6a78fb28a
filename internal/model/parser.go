package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/johnconnor-sec/menulauncher/internal/config"
	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/logger"
	"github.com/johnconnor-sec/menulauncher/internal/resource"
)

// Built-in item types.
const (
	typeMenu       = "menu"
	typeTitle      = "title"
	typeSeparator  = "separator"
	typeFileChoice = "file-choice"
)

type rawDocument struct {
	MenuTitle  json.RawMessage  `json:"menu-title"`
	Flags      map[string]any   `json:"flags"`
	Password   string           `json:"password"`
	FileChoice []map[string]any `json:"file-choice"`
	Menu       []map[string]any `json:"menu"`
}

// Parser builds document trees. Config supplies the command types; a nil
// Config knows the built-in types only.
type Parser struct {
	Config *config.SystemConfig
	Opener resource.Opener
	Logger *logr.Logger
}

// NewParser creates a parser for the given system block.
func NewParser(sc *config.SystemConfig) *Parser {
	return &Parser{Config: sc}
}

// Parse parses the root document at locator and every document below it.
func Parse(ctx context.Context, locator string, level int, sc *config.SystemConfig) (*Document, error) {
	return NewParser(sc).ParseLevel(ctx, locator, level)
}

// Parse parses locator as a root document.
func (p *Parser) Parse(ctx context.Context, locator string) (*Document, error) {
	return p.ParseLevel(ctx, locator, 0)
}

// ParseLevel parses locator as a document nested level deep. Flags are only
// read at level 0.
func (p *Parser) ParseLevel(ctx context.Context, locator string, level int) (*Document, error) {
	log := p.Logger
	if log == nil {
		log = logger.FromContext(ctx)
	}
	pc := &parseContext{
		cfg:    p.Config,
		opener: p.Opener,
		log:    *log,
	}
	return pc.parse(ctx, locator, level)
}

// parseContext is handed down the recursion in place of parent pointers.
type parseContext struct {
	cfg    *config.SystemConfig
	opener resource.Opener
	log    logr.Logger

	// chain holds the canonical locators of the documents being opened.
	chain []string
	// owner is the SubMenu item whose child is being parsed.
	owner *Item
}

func (pc *parseContext) child(owner *Item, chain []string) *parseContext {
	return &parseContext{
		cfg:    pc.cfg,
		opener: pc.opener,
		log:    pc.log,
		chain:  chain,
		owner:  owner,
	}
}

// trace is the trace shared by every item of the document being parsed.
func (pc *parseContext) trace() []*Item {
	if pc.owner == nil {
		return nil
	}
	trace := make([]*Item, 0, len(pc.owner.Trace)+1)
	trace = append(trace, pc.owner.Trace...)
	return append(trace, pc.owner)
}

func (pc *parseContext) dropped(file, entry, reason string) {
	pc.log.V(0).Info("dropped entry", "file", file, "entry", entry, "reason", reason)
}

func (pc *parseContext) parse(ctx context.Context, locator string, level int) (*Document, error) {
	canonical := resource.Canonical(locator)
	chain := make([]string, len(pc.chain), len(pc.chain)+1)
	copy(chain, pc.chain)
	chain = append(chain, canonical)
	for _, open := range pc.chain {
		if open == canonical {
			return nil, errors.CyclicReferenceError(locator, chain)
		}
	}

	data, resolved, err := pc.opener.ReadAll(ctx, locator)
	if err != nil {
		return nil, errors.ResourceNotFoundError(locator, err)
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.InvalidJSONError(resolved, err)
	}

	doc := &Document{
		Level:      level,
		SourcePath: resolved,
		Password:   strings.TrimSpace(raw.Password),
		Flags:      map[string]any{},
	}
	if level == 0 && raw.Flags != nil {
		doc.Flags = raw.Flags
	}

	doc.MainTitle = parseMainTitle(raw.MenuTitle)
	if doc.MainTitle.Text == "" {
		doc.MainTitle.Text = resource.BaseName(resolved)
	}
	doc.ChoiceElement = &FileChoice{Text: doc.MainTitle.Text, File: resolved}

	dir := resource.Dir(resolved)

	for _, rec := range raw.FileChoice {
		if err := checkMandatory(rec, resolved, typeFileChoice, "text", "file"); err != nil {
			return nil, err
		}
		file := field(rec, "file")
		path := resource.Join(dir, file)
		if err := pc.opener.Exists(ctx, path); err != nil {
			pc.dropped(resolved, fmt.Sprintf("%s %q", typeFileChoice, file), err.Error())
			continue
		}
		doc.FileChoices = append(doc.FileChoices, &FileChoice{Text: field(rec, "text"), File: path})
	}

	if len(raw.Menu) == 0 {
		return nil, errors.MenuEmptyError(resolved)
	}

	trace := pc.trace()
	for _, rec := range raw.Menu {
		item, err := pc.parseItem(ctx, rec, resolved, dir, level, trace, chain)
		if err != nil {
			doc.Close()
			return nil, err
		}
		if item != nil {
			doc.Items = append(doc.Items, item)
		}
	}

	return doc, nil
}

// parseItem returns a nil item without error when the record is dropped.
func (pc *parseContext) parseItem(ctx context.Context, rec map[string]any, file, dir string, level int, trace []*Item, chain []string) (*Item, error) {
	itemType := field(rec, "type")

	item := &Item{
		Text:     field(rec, "text"),
		Tip:      field(rec, "tip"),
		Theme:    field(rec, "theme"),
		Style:    field(rec, "style"),
		HelpLink: field(rec, "help-link"),
		Trace:    trace,
	}

	// Configured command types shadow the built-in ones.
	if ct, ok := pc.cfg.CommandType(itemType); ok {
		if err := checkMandatory(rec, file, itemType, "text"); err != nil {
			return nil, err
		}
		values := make(map[string]string)
		for _, name := range ct.Placeholders() {
			values[name] = field(rec, name)
		}
		item.Kind = Command
		item.CommandType = itemType
		item.Command = ct.Expand(values)
		item.Password = field(rec, "password")
		return item, nil
	}

	switch itemType {
	case typeMenu:
		if err := checkMandatory(rec, file, itemType, "text", "file"); err != nil {
			return nil, err
		}
		item.Kind = SubMenu
		sub := field(rec, "file")
		path := resource.Join(dir, sub)

		child, err := pc.child(item, chain).parse(ctx, path, level+1)
		if err != nil {
			if errors.IsFatal(err) {
				return nil, err
			}
			pc.dropped(file, fmt.Sprintf("%s %q", typeMenu, sub), err.Error())
			return nil, nil
		}
		item.SubMenu = child
		return item, nil

	case typeTitle:
		if err := checkMandatory(rec, file, itemType, "text"); err != nil {
			return nil, err
		}
		item.Kind = Title
		return item, nil

	case typeSeparator:
		item.Kind = Separator
		item.Text = ""
		return item, nil

	default:
		pc.dropped(file, fmt.Sprintf("%q", itemType), "unknown type")
		return nil, nil
	}
}

func parseMainTitle(raw json.RawMessage) MainTitle {
	if len(raw) == 0 {
		return MainTitle{}
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return MainTitle{Text: strings.TrimSpace(text)}
	}
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		return MainTitle{}
	}
	return MainTitle{
		Text:  field(rec, "text"),
		Theme: field(rec, "theme"),
		Style: field(rec, "style"),
	}
}

// field returns rec[key] as a trimmed string; absent and null give "".
func field(rec map[string]any, key string) string {
	v, ok := rec[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func checkMandatory(rec map[string]any, file, itemType string, fields ...string) error {
	for _, f := range fields {
		if field(rec, f) == "" {
			return errors.MandatoryFieldError(file, itemType, f)
		}
	}
	return nil
}
