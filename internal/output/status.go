package output

import "fmt"

const eraseLine = "\r\033[K"

// StatusLine is a progress line rewritten in place. It stays silent when
// colors are off, which covers pipes and dumb terminals.
type StatusLine struct {
	f     *Formatter
	dirty bool
}

func (f *Formatter) NewStatusLine() *StatusLine {
	return &StatusLine{f: f}
}

// Update replaces the line with the formatted text.
func (s *StatusLine) Update(format string, args ...any) {
	if s.f.level == LevelQuiet || !s.f.colorOutput {
		return
	}
	fmt.Fprint(s.f.writer, eraseLine+fmt.Sprintf(format, args...))
	s.dirty = true
}

// Clear erases the line if anything was drawn on it.
func (s *StatusLine) Clear() {
	if !s.dirty {
		return
	}
	fmt.Fprint(s.f.writer, eraseLine)
	s.dirty = false
}
