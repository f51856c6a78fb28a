package output

import (
	stderrors "errors"
	"fmt"

	"github.com/johnconnor-sec/menulauncher/internal/errors"
)

func (f *Formatter) message(symbol string, color Color, style Style, format string, args ...any) {
	fmt.Fprintln(f.writer, f.colorize(symbol+" "+fmt.Sprintf(format, args...), color, style))
}

// Success prints a success message
func (f *Formatter) Success(format string, args ...any) {
	if f.level == LevelQuiet {
		return
	}
	f.message("✓", f.colors.success, StyleBold, format, args...)
}

// Error prints an error message, whatever the level.
func (f *Formatter) Error(format string, args ...any) {
	f.message("✗", f.colors.failed, StyleBold, format, args...)
}

// Warning prints a warning message
func (f *Formatter) Warning(format string, args ...any) {
	if f.level == LevelQuiet {
		return
	}
	f.message("⚠", f.colors.warning, StyleBold, format, args...)
}

// Info prints an info message
func (f *Formatter) Info(format string, args ...any) {
	if f.level == LevelQuiet {
		return
	}
	f.message("ℹ", f.colors.info, StyleNormal, format, args...)
}

// Verbose prints a message shown from LevelVerbose on.
func (f *Formatter) Verbose(format string, args ...any) {
	if f.level < LevelVerbose {
		return
	}
	f.message("·", f.colors.muted, StyleNormal, format, args...)
}

// Debug prints a debug message
func (f *Formatter) Debug(format string, args ...any) {
	if f.level < LevelDebug {
		return
	}
	f.message("🐛", f.colors.muted, StyleDim, format, args...)
}

// Failure prints err. A LauncherError is split into its message, details,
// cause and suggestions.
func (f *Formatter) Failure(err error) {
	if err == nil {
		return
	}
	var le *errors.LauncherError
	if !stderrors.As(err, &le) {
		f.Error("%v", err)
		return
	}

	f.Error("%s", le.Message)
	if le.Details != "" {
		fmt.Fprintln(f.writer, "  "+f.colorize(le.Details, f.colors.muted, StyleNormal))
	}
	if le.Cause != nil {
		fmt.Fprintln(f.writer, "  "+f.colorize(le.Cause.Error(), f.colors.muted, StyleDim))
	}
	for _, s := range le.Suggestions {
		f.List("%s", s)
	}
}
