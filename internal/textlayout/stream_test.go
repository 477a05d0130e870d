package textlayout

import (
	"slices"
	"strings"
	"testing"
)

func TestStreamChunks(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"to eat", []string{"to ", "eat"}},
		{"eat, drink  and be merry.", []string{"eat, ", "drink  ", "and ", "be ", "merry."}},
		{"(food) stuff", []string{"(food) ", "stuff"}},
		{"食【eat, food】", []string{"食", "【eat, ", "food】"}},
		{"  lead", []string{"  ", "lead"}},
		{"", nil},
	}
	for _, c := range cases {
		got := slices.Collect(Words(c.in))
		if !slices.Equal(got, c.want) {
			t.Errorf("Words(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStreamCoversText(t *testing.T) {
	texts := []string{
		"to eat; to live on (e.g. a salary)",
		"たべる",
		"Hello,   world!\tagain",
		"「引用」です。",
	}
	for _, text := range texts {
		var b strings.Builder
		s := NewStream(text)
		n := 0
		for !s.Done() {
			c := s.Next()
			if c == "" {
				t.Fatalf("empty chunk before done for %q", text)
			}
			b.WriteString(c)
			n++
		}
		if b.String() != text {
			t.Fatalf("chunks do not reproduce text: %q vs %q", b.String(), text)
		}
		if s.Next() != "" {
			t.Fatalf("Next after done should be empty")
		}
		if n == 0 {
			t.Fatalf("no chunks for %q", text)
		}
	}
}

func TestWordsStopsEarly(t *testing.T) {
	var got []string
	for w := range Words("a b c d") {
		got = append(got, w)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected to stop after two chunks, got %q", got)
	}
}
