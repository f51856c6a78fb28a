// Package search ranks entry labels against a loosely typed query. It backs
// the "did you mean" hints of commands that take an entry name.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Match is a label that contains the query as a subsequence.
type Match struct {
	Text      string
	Score     float64 // 0 to 1, higher is better
	Positions []int   // rune offsets of the matched query runes
}

// Fuzzy matches queries as rune subsequences.
type Fuzzy struct {
	caseSensitive bool
	minScore      float64
}

// NewFuzzy returns a case-insensitive matcher with a low score threshold.
func NewFuzzy() *Fuzzy {
	return &Fuzzy{minScore: 0.1}
}

// SetCaseSensitive enables or disables case-sensitive matching.
func (f *Fuzzy) SetCaseSensitive(enabled bool) *Fuzzy {
	f.caseSensitive = enabled
	return f
}

// SetMinScore sets the score below which a candidate is dropped.
func (f *Fuzzy) SetMinScore(score float64) *Fuzzy {
	f.minScore = score
	return f
}

// Match scores text against query. An empty query matches everything.
func (f *Fuzzy) Match(query, text string) (*Match, bool) {
	if query == "" {
		return &Match{Text: text, Score: 1}, true
	}
	q := []rune(f.normalize(query))
	t := []rune(f.normalize(text))

	positions, best := subsequence(q, t)
	if positions == nil {
		return nil, false
	}
	score := f.score(len(q), len(t), positions, best)
	if score < f.minScore {
		return nil, false
	}
	return &Match{Text: text, Score: score, Positions: positions}, true
}

// Search returns the matching texts, best first. Equal scores prefer the
// shorter text.
func (f *Fuzzy) Search(query string, texts []string) []Match {
	var matches []Match
	for _, text := range texts {
		if m, ok := f.Match(query, text); ok {
			matches = append(matches, *m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return utf8.RuneCountInString(matches[i].Text) < utf8.RuneCountInString(matches[j].Text)
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Suggest returns at most limit texts of the best matches.
func (f *Fuzzy) Suggest(query string, texts []string, limit int) []string {
	matches := f.Search(query, texts)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Text
	}
	return out
}

func (f *Fuzzy) normalize(text string) string {
	if !f.caseSensitive {
		text = strings.ToLower(text)
	}
	return strings.Join(strings.Fields(text), " ")
}

// subsequence returns the rune offsets of q in t matched greedily and the
// longest run of adjacent matches, or nil when t does not contain q.
func subsequence(q, t []rune) ([]int, int) {
	positions := make([]int, 0, len(q))
	run, best := 0, 0
	for i, r := range t {
		if len(positions) < len(q) && q[len(positions)] == r {
			if n := len(positions); n > 0 && positions[n-1] == i-1 {
				run++
			} else {
				run = 1
			}
			best = max(best, run)
			positions = append(positions, i)
		}
	}
	if len(positions) < len(q) {
		return nil, 0
	}
	return positions, best
}

func (f *Fuzzy) score(queryLen, textLen int, positions []int, bestRun int) float64 {
	score := 0.3 + float64(bestRun)/float64(queryLen)*0.3
	if positions[0] == 0 {
		score += 0.2
	}
	score += float64(queryLen) / float64(textLen) * 0.2

	gaps := positions[len(positions)-1] - positions[0] + 1 - len(positions)
	score -= float64(gaps) / float64(textLen) * 0.3
	return min(max(score, 0), 1)
}
