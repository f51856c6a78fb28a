// Package launcher holds the presentation independent state of a running
// launcher: the current root document, the view history and the actions that
// are gated by passwords.
package launcher

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/johnconnor-sec/menulauncher/internal/config"
	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/exec"
	"github.com/johnconnor-sec/menulauncher/internal/filter"
	"github.com/johnconnor-sec/menulauncher/internal/logger"
	"github.com/johnconnor-sec/menulauncher/internal/model"
	"github.com/johnconnor-sec/menulauncher/internal/protect"
	"github.com/johnconnor-sec/menulauncher/internal/resource"
)

const (
	// MaxHistory bounds the view history.
	MaxHistory = 10

	// FlagSearchBox toggles the search input of the main window.
	FlagSearchBox = "search-box-enabled"

	// HelpCommandType is the mapping command type that opens help links.
	HelpCommandType = "url"
)

// Starter launches a resolved command line.
type Starter interface {
	Start(ctx context.Context, command string) (int, error)
}

// Option configures a Session.
type Option func(*Session)

// WithVerifier sets the password check. The default prompts on the terminal.
func WithVerifier(v protect.Verifier) Option {
	return func(s *Session) { s.verifier = v }
}

// WithStarter replaces the process starter.
func WithStarter(st Starter) Option {
	return func(s *Session) { s.starter = st }
}

// WithOpener sets how documents are fetched.
func WithOpener(o resource.Opener) Option {
	return func(s *Session) { s.opener = o }
}

// WithOptions shares filter options with the caller.
func WithOptions(opts *filter.Options) Option {
	return func(s *Session) { s.options = opts }
}

// Session is one launcher window worth of state.
type Session struct {
	cfg      *config.SystemConfig
	opener   resource.Opener
	verifier protect.Verifier
	starter  Starter
	log      logr.Logger
	options  *filter.Options

	doc   *model.Document
	title string

	// root is the choice that returns to the first document ever shown.
	root    model.FileChoice
	history []*model.FileChoice
}

// New parses the root document at rootPath, resolved against the launcher
// base of cfg. Parse errors and a refused root password are returned as is.
func New(ctx context.Context, cfg *config.SystemConfig, rootPath string, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = &config.SystemConfig{}
	}
	s := &Session{
		cfg: cfg.WithLauncherBase(cfg.LauncherBase),
		log: *logger.FromContext(ctx),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.verifier == nil {
		s.verifier = protect.PromptVerifier{Prompter: protect.NewTerminalPrompter()}
	}
	if s.starter == nil {
		s.starter = exec.New(exec.ExecutionOptions{}, s.log)
	}
	if s.options == nil {
		s.options = filter.DefaultOptions()
	}

	doc, full, err := s.load(ctx, rootPath)
	if err != nil {
		return nil, err
	}
	if err := s.verifier.Verify(doc.MainTitle.Text, doc.Password); err != nil {
		doc.Close()
		return nil, err
	}

	s.cfg.LauncherBase = resource.Dir(full)
	s.doc = doc
	s.title = doc.MainTitle.Text
	s.root = *doc.ChoiceElement
	return s, nil
}

func (s *Session) load(ctx context.Context, path string) (*model.Document, string, error) {
	full := resource.Join(s.cfg.LauncherBase, path)
	parser := &model.Parser{Config: s.cfg, Opener: s.opener, Logger: &s.log}
	doc, err := parser.Parse(ctx, full)
	if err != nil {
		return nil, full, err
	}
	return doc, full, nil
}

// SetNewView replaces the root document with the one at path. The new tree is
// parsed and its password checked before the current one is recorded in the
// history and released; on error the current view stays. text, if set,
// becomes the window title instead of the new document title.
func (s *Session) SetNewView(ctx context.Context, path, text string) error {
	doc, full, err := s.load(ctx, path)
	if err != nil {
		return err
	}
	if err := s.verifier.Verify(doc.MainTitle.Text, doc.Password); err != nil {
		doc.Close()
		return err
	}

	s.doc.ChoiceElement.Text = s.title
	s.addToHistory(s.doc.ChoiceElement)
	s.doc.Close()

	s.cfg.LauncherBase = resource.Dir(full)
	s.doc = doc
	s.title = doc.MainTitle.Text
	if text != "" {
		s.title = text
	}

	s.log.V(1).Info("view changed", "file", doc.SourcePath, "title", s.title)
	return nil
}

func (s *Session) addToHistory(choice *model.FileChoice) {
	entry := *choice
	s.history = append([]*model.FileChoice{&entry}, s.history...)
	if len(s.history) > MaxHistory {
		s.history = s.history[:MaxHistory]
	}
}

// History returns the recorded views, newest first.
func (s *Session) History() []*model.FileChoice {
	return append([]*model.FileChoice(nil), s.history...)
}

// ClearHistory forgets all recorded views.
func (s *Session) ClearHistory() {
	s.history = nil
}

// ViewChoices returns the choice back to the first root document, unless it
// is the current one, followed by the file choices of the current document.
func (s *Session) ViewChoices() []*model.FileChoice {
	var choices []*model.FileChoice
	if resource.Canonical(s.doc.ChoiceElement.File) != resource.Canonical(s.root.File) {
		root := s.root
		choices = append(choices, &root)
	}
	return append(choices, s.doc.FileChoices...)
}

// Document returns the current root document.
func (s *Session) Document() *model.Document { return s.doc }

// Title returns the window title.
func (s *Session) Title() string { return s.title }

// Options returns the filter options shared by the menus of this session.
func (s *Session) Options() *filter.Options { return s.options }

// Config returns the system block with the current launcher base.
func (s *Session) Config() *config.SystemConfig { return s.cfg }

// SearchBoxEnabled reports whether the main window shows a search input.
func (s *Session) SearchBoxEnabled() bool {
	return s.doc.Flag(FlagSearchBox, true)
}

// NestedMenu realizes the current document for browsing.
func (s *Session) NestedMenu() *filter.Menu {
	return filter.NewNestedMenu(s.doc, s.options)
}

// SearchMenu realizes the current document as a flat search list.
func (s *Session) SearchMenu() *filter.Menu {
	return filter.NewSearchMenu(s.doc, s.options)
}

// EnterSubMenu checks the password of a protected submenu.
func (s *Session) EnterSubMenu(item *model.Item) error {
	if item == nil || item.Kind != model.SubMenu {
		return errors.New(errors.InternalError, "Not a submenu")
	}
	hash, _ := item.Protected()
	return s.verifier.Verify(item.Text, hash)
}

// Execute checks the password of a command item and starts its command.
func (s *Session) Execute(ctx context.Context, item *model.Item) error {
	if item == nil || item.Kind != model.Command {
		return errors.New(errors.InternalError, "Not a command")
	}
	hash, _ := item.Protected()
	if err := s.verifier.Verify(item.Text, hash); err != nil {
		return err
	}

	pid, err := s.starter.Start(ctx, item.Command)
	if err != nil {
		s.log.Info("command cannot be executed", "command", item.Command, "error", err.Error())
		return err
	}
	s.log.V(1).Info("command launched", "text", item.Text, "pid", pid)
	return nil
}

// OpenHelp starts the help link of item with the "url" command type of the
// mapping. Help links are not password protected.
func (s *Session) OpenHelp(ctx context.Context, item *model.Item) error {
	if item == nil || item.HelpLink == "" {
		return errors.New(errors.ValidationFailed, "No help for this entry")
	}
	ct, ok := s.cfg.CommandType(HelpCommandType)
	if !ok {
		return errors.New(errors.ConfigInvalid, fmt.Sprintf("No %q command type to open help links", HelpCommandType)).
			WithSuggestion(`Add a "url" command type such as {command: "xdg-open {url}"} to the mapping`)
	}
	command := ct.Expand(map[string]string{HelpCommandType: item.HelpLink})
	if _, err := s.starter.Start(ctx, command); err != nil {
		s.log.Info("help link cannot be opened", "link", item.HelpLink, "error", err.Error())
		return err
	}
	s.log.V(1).Info("help opened", "text", item.Text, "link", item.HelpLink)
	return nil
}

// Close releases the current document tree.
func (s *Session) Close() {
	s.doc.Close()
}

func (s *Session) String() string {
	return fmt.Sprintf("session %q (%s)", s.title, s.doc.SourcePath)
}
