package textlayout

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// runeWidth measures every rune as w pixels.
type runeWidth int

func (w runeWidth) StringWidth(s string) int { return utf8.RuneCountInString(s) * int(w) }

func TestWrapBreaksOnWords(t *testing.T) {
	lines := Wrap("Hello world from Go", 50, runeWidth(7))
	want := []string{"Hello", "world", "from Go"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("Wrap = %q, want %q", lines, want)
	}
	lines = Wrap("Hello world from Go", 100, runeWidth(7))
	want = []string{"Hello world", "from Go"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("Wrap = %q, want %q", lines, want)
	}
}

func TestWrapEmpty(t *testing.T) {
	if lines := Wrap("", 100, runeWidth(7)); len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}
	if lines := Wrap("   ", 100, runeWidth(7)); len(lines) != 0 {
		t.Fatalf("expected no lines for blank text, got %q", lines)
	}
}

func TestWrapOversizedWordStandsAlone(t *testing.T) {
	lines := Wrap("a supercalifragilistic b", 35, runeWidth(7))
	want := []string{"a", "supercalifragilistic", "b"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("Wrap = %q, want %q", lines, want)
	}
}

func TestWrapNeverExceedsBudget(t *testing.T) {
	m := runeWidth(7)
	texts := []string{
		"to eat; to live on (e.g. a salary); to live off; to subsist on",
		"食べる食べない食べた食べて食べれば",
		"a bb ccc dddd eeeee ffffff ggggggg hhhhhhhh",
		"comma,separated,words,without,spaces and some with",
	}
	for _, text := range texts {
		for width := 7; width <= 120; width += 3 {
			for _, line := range Wrap(text, width, m) {
				if m.StringWidth(line) <= width {
					continue
				}
				// only a single chunk may overflow
				if n := len(collect(line)); n != 1 {
					t.Fatalf("line %q (%dpx) exceeds %dpx and holds %d chunks", line, m.StringWidth(line), width, n)
				}
			}
		}
	}
}

func TestWrapWithBasicFace(t *testing.T) {
	face, _ := BasicProvider{}.Resolve(FontSpec{})
	lines := Wrap("to eat to drink", 50, FaceMeasurer{Face: face})
	for _, l := range lines {
		if w := (FaceMeasurer{Face: face}).StringWidth(l); w > 50 {
			t.Fatalf("line %q too wide: %d", l, w)
		}
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lines)
	}
}

func collect(s string) []string {
	var out []string
	for w := range Words(s) {
		out = append(out, w)
	}
	return out
}
