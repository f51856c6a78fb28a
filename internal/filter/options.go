// Package filter realizes menu documents into displayable entry lists and
// computes entry visibility for a search term.
package filter

import "strings"

// Option names one of the shared search options.
type Option int

const (
	CaseSensitive Option = iota
	MatchTitle
	MatchCommand
)

func (o Option) String() string {
	switch o {
	case CaseSensitive:
		return "case-sensitive"
	case MatchTitle:
		return "match-title"
	case MatchCommand:
		return "match-command"
	default:
		return "unknown"
	}
}

// Options are shared by reference between all menus of one search session.
type Options struct {
	CaseSensitive bool
	MatchTitle    bool
	MatchCommand  bool
}

// DefaultOptions returns case insensitive title matching.
func DefaultOptions() *Options {
	return &Options{MatchTitle: true}
}

// Set changes one option.
func (o *Options) Set(opt Option, value bool) {
	switch opt {
	case CaseSensitive:
		o.CaseSensitive = value
	case MatchTitle:
		o.MatchTitle = value
	case MatchCommand:
		o.MatchCommand = value
	}
}

// Get returns the value of one option.
func (o *Options) Get(opt Option) bool {
	switch opt {
	case CaseSensitive:
		return o.CaseSensitive
	case MatchTitle:
		return o.MatchTitle
	case MatchCommand:
		return o.MatchCommand
	}
	return false
}

func (o *Options) contains(s, term string) bool {
	if o.CaseSensitive {
		return strings.Contains(s, term)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}
