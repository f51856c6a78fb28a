// Package output renders command line results: status messages, tables and
// menu document trees.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Color is a foreground color of the terminal palette.
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

// Style is a text attribute applied together with a color.
type Style int

const (
	StyleNormal Style = iota
	StyleBold
	StyleDim
)

// OutputLevel selects which messages are printed.
type OutputLevel int

const (
	LevelQuiet OutputLevel = iota
	LevelNormal
	LevelVerbose
	LevelDebug
)

// sgr holds the select graphic rendition parameters of colors and styles.
var sgr = struct {
	color map[Color]string
	style map[Style]string
}{
	color: map[Color]string{
		ColorRed: "31", ColorGreen: "32", ColorYellow: "33", ColorBlue: "34",
		ColorMagenta: "35", ColorCyan: "36", ColorWhite: "37",
	},
	style: map[Style]string{StyleBold: "1", StyleDim: "2"},
}

// palette assigns colors to the roles of printed elements.
type palette struct {
	heading, section, border Color
	success, warning, failed Color
	info, muted              Color
}

var defaultPalette = palette{
	heading: ColorBlue,
	section: ColorCyan,
	border:  ColorMagenta,
	success: ColorGreen,
	warning: ColorYellow,
	failed:  ColorRed,
	info:    ColorBlue,
	muted:   ColorWhite,
}

// Formatter writes styled command output.
type Formatter struct {
	writer      io.Writer
	colors      palette
	level       OutputLevel
	colorOutput bool
	width       int
}

// NewFormatter writes to w, with colors when the terminal supports them.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{
		writer:      w,
		colors:      defaultPalette,
		level:       LevelNormal,
		colorOutput: isColorSupported(),
		width:       getTerminalWidth(),
	}
}

func (f *Formatter) SetLevel(level OutputLevel) {
	f.level = level
}

func (f *Formatter) SetColorOutput(enabled bool) {
	f.colorOutput = enabled
}

// colorize wraps text in an escape sequence. ColorReset leaves text as is.
func (f *Formatter) colorize(text string, color Color, style Style) string {
	code, ok := sgr.color[color]
	if !f.colorOutput || !ok {
		return text
	}
	codes := []string{code}
	if s, ok := sgr.style[style]; ok {
		codes = []string{s, code}
	}
	return fmt.Sprintf("\033[%sm%s\033[0m", strings.Join(codes, ";"), text)
}

// Writer returns the underlying writer.
func (f *Formatter) Writer() io.Writer {
	return f.writer
}
