package search

import (
	"math"
	"reflect"
	"testing"
)

func TestFuzzy_Match(t *testing.T) {
	fuzzy := NewFuzzy()

	tests := []struct {
		query, text string
		ok          bool
	}{
		{"scope", "Scope", true},
		{"scp", "Scope", true},
		{"tools  scope", "Tools > Scope", true},
		{"scope tools", "Tools > Scope", false},
		{"tl sc", "Tools > Scope", true},
		{"xyz", "Scope", false},
		{"", "anything", true},
		{"größe", "Größe", true},
	}
	for _, test := range tests {
		_, ok := fuzzy.Match(test.query, test.text)
		if ok != test.ok {
			t.Errorf("Match(%q, %q) ok = %v, want %v", test.query, test.text, ok, test.ok)
		}
	}
}

func TestFuzzy_ExactScoresHighest(t *testing.T) {
	fuzzy := NewFuzzy()

	exact, ok := fuzzy.Match("scope", "scope")
	if !ok || math.Abs(exact.Score-1) > 1e-9 {
		t.Fatalf("exact match = %+v, %v", exact, ok)
	}
	loose, ok := fuzzy.Match("scpe", "scope")
	if !ok {
		t.Fatal("expected subsequence match")
	}
	if loose.Score >= exact.Score {
		t.Errorf("loose score %f not below exact %f", loose.Score, exact.Score)
	}
	if want := []int{0, 1, 3, 4}; !reflect.DeepEqual(loose.Positions, want) {
		t.Errorf("positions = %v, want %v", loose.Positions, want)
	}
}

func TestFuzzy_CaseSensitive(t *testing.T) {
	fuzzy := NewFuzzy().SetCaseSensitive(true)
	if _, ok := fuzzy.Match("scope", "Scope"); ok {
		t.Error("expected case-sensitive match to fail")
	}
	if _, ok := fuzzy.Match("cope", "Scope"); !ok {
		t.Error("expected case-sensitive match to succeed")
	}
}

func TestFuzzy_MinScore(t *testing.T) {
	fuzzy := NewFuzzy().SetMinScore(0.9)
	if _, ok := fuzzy.Match("se", "Scope viewer for the east sector"); ok {
		t.Error("weak match above threshold")
	}
}

func TestFuzzy_Suggest(t *testing.T) {
	labels := []string{"Machine > Terminal", "Tools > Scope", "Scope", "Reboot"}

	got := NewFuzzy().Suggest("scop", labels, 2)
	want := []string{"Scope", "Tools > Scope"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggest = %v, want %v", got, want)
	}

	if got := NewFuzzy().Suggest("qqq", labels, 3); len(got) != 0 {
		t.Errorf("Suggest without match = %v", got)
	}
}
