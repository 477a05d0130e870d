package japanese

import "testing"

func TestHasKana(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"食べる", true},
		{"食", false},
		{"カタカナ", true},
		{"ｶﾀｶﾅ", true},
		{"ー", true},
		{"eat", false},
		{"", false},
	}
	for _, c := range cases {
		if got := HasKana(c.in); got != c.want {
			t.Errorf("HasKana(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestHasKanji(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"食べる", true},
		{"たべる", false},
		{"人々", true},
		{"abc", false},
	}
	for _, c := range cases {
		if got := HasKanji(c.in); got != c.want {
			t.Errorf("HasKanji(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
