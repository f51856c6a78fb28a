package output

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// EnvVarAccessibility selects plain output: "screen-reader" or "minimal"
// disable colors, "high-contrast" forces them.
const EnvVarAccessibility = "LAUNCHER_ACCESSIBILITY"

func isColorSupported() bool {
	switch os.Getenv(EnvVarAccessibility) {
	case "screen-reader", "minimal":
		return false
	case "high-contrast":
		return true
	}

	// https://no-color.org
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return false
	}
	for _, colorTerm := range []string{"xterm", "screen", "tmux", "rxvt", "linux", "cygwin", "putty"} {
		if strings.Contains(t, colorTerm) {
			return isTerminal(os.Stdout)
		}
	}
	return false
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// getTerminalWidth prefers $COLUMNS, then the size of stdout, then 80.
func getTerminalWidth() int {
	if width := os.Getenv("COLUMNS"); width != "" {
		if w, err := strconv.Atoi(width); err == nil && w > 0 {
			return w
		}
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
