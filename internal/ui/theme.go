package ui

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
	"github.com/johnconnor-sec/menulauncher/internal/resource"
)

// Theme holds the styles of the terminal screen.
type Theme struct {
	Title     tcell.Style
	Search    tcell.Style
	Normal    tcell.Style
	Selected  tcell.Style
	Header    tcell.Style
	Separator tcell.Style
	Locked    tcell.Style
	Status    tcell.Style
	Error     tcell.Style
}

// DefaultTheme uses the terminal colors.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	return Theme{
		Title:     base.Reverse(true).Bold(true),
		Search:    base.Underline(true),
		Normal:    base,
		Selected:  base.Reverse(true),
		Header:    base.Bold(true).Foreground(tcell.ColorTeal),
		Separator: base.Dim(true),
		Locked:    base.Foreground(tcell.ColorOlive),
		Status:    base.Dim(true),
		Error:     base.Foreground(tcell.ColorMaroon).Bold(true),
	}
}

// DarkTheme uses bright colors on a black background.
func DarkTheme() Theme {
	base := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorSilver)
	return Theme{
		Title:     base.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite).Bold(true),
		Search:    base.Foreground(tcell.ColorWhite).Underline(true),
		Normal:    base,
		Selected:  base.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack),
		Header:    base.Foreground(tcell.ColorAqua).Bold(true),
		Separator: base.Foreground(tcell.ColorGray),
		Locked:    base.Foreground(tcell.ColorYellow),
		Status:    base.Foreground(tcell.ColorGray),
		Error:     base.Foreground(tcell.ColorRed).Bold(true),
	}
}

// styleSpec is one style of a theme file.
type styleSpec struct {
	Fg        string `yaml:"fg"`
	Bg        string `yaml:"bg"`
	Bold      bool   `yaml:"bold"`
	Underline bool   `yaml:"underline"`
	Reverse   bool   `yaml:"reverse"`
	Dim       bool   `yaml:"dim"`
}

func (s *styleSpec) apply(style tcell.Style) tcell.Style {
	if s == nil {
		return style
	}
	if s.Fg != "" {
		style = style.Foreground(tcell.GetColor(s.Fg))
	}
	if s.Bg != "" {
		style = style.Background(tcell.GetColor(s.Bg))
	}
	return style.Bold(s.Bold).Underline(s.Underline).Reverse(s.Reverse).Dim(s.Dim)
}

// themeFile is the YAML layout of a theme. Missing styles keep the values of
// the theme named by "extends", the default theme if unset.
type themeFile struct {
	Extends   string     `yaml:"extends"`
	Title     *styleSpec `yaml:"title"`
	Search    *styleSpec `yaml:"search"`
	Normal    *styleSpec `yaml:"normal"`
	Selected  *styleSpec `yaml:"selected"`
	Header    *styleSpec `yaml:"header"`
	Separator *styleSpec `yaml:"separator"`
	Locked    *styleSpec `yaml:"locked"`
	Status    *styleSpec `yaml:"status"`
	Error     *styleSpec `yaml:"error"`
}

func builtinTheme(name string) (Theme, bool) {
	switch strings.ToLower(name) {
	case "", "default":
		return DefaultTheme(), true
	case "dark":
		return DarkTheme(), true
	}
	return Theme{}, false
}

// ParseTheme decodes a YAML theme.
func ParseTheme(data []byte) (Theme, error) {
	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return Theme{}, err
	}
	theme, ok := builtinTheme(tf.Extends)
	if !ok {
		return Theme{}, fmt.Errorf("unknown base theme %q", tf.Extends)
	}
	theme.Title = tf.Title.apply(theme.Title)
	theme.Search = tf.Search.apply(theme.Search)
	theme.Normal = tf.Normal.apply(theme.Normal)
	theme.Selected = tf.Selected.apply(theme.Selected)
	theme.Header = tf.Header.apply(theme.Header)
	theme.Separator = tf.Separator.apply(theme.Separator)
	theme.Locked = tf.Locked.apply(theme.Locked)
	theme.Status = tf.Status.apply(theme.Status)
	theme.Error = tf.Error.apply(theme.Error)
	return theme, nil
}

// LoadTheme returns the built-in theme called name, or reads the YAML theme
// file name resolved against base. ".yml" is appended to names without an
// extension.
func LoadTheme(ctx context.Context, opener resource.Opener, name, base string) (Theme, error) {
	if theme, ok := builtinTheme(name); ok {
		return theme, nil
	}
	if path.Ext(name) == "" {
		name += ".yml"
	}
	locator := resource.Join(base, name)
	data, _, err := opener.ReadAll(ctx, locator)
	if err != nil {
		return Theme{}, errors.ResourceNotFoundError(locator, err).
			WithSuggestion("Use --style default or --style dark, or add the file under theme_base")
	}
	theme, err := ParseTheme(data)
	if err != nil {
		return Theme{}, errors.Wrap(err, errors.ConfigInvalid, "Invalid theme file").
			WithDetails(fmt.Sprintf("File: %s", locator))
	}
	return theme, nil
}
