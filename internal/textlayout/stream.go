/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"iter"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Stream splits text into word chunks on Unicode word boundaries. It is
// lazy and can be consumed once. Whitespace and closing punctuation that
// follow a word stay attached to it, and opening punctuation is joined to the
// word it opens, so concatenating every chunk reproduces the text exactly.
type Stream struct {
	rest  string
	state int
}

func NewStream(text string) *Stream { return &Stream{rest: text, state: -1} }

// Done reports whether the text is exhausted.
func (s *Stream) Done() bool { return s.rest == "" }

// Next returns the next chunk, or "" once the stream is done.
func (s *Stream) Next() string {
	if s.rest == "" {
		return ""
	}
	word, rest, state := uniseg.FirstWordInString(s.rest, s.state)
	for rest != "" && onlyRunes(word, isOpening) {
		var next string
		next, rest, state = uniseg.FirstWordInString(rest, state)
		word += next
	}
	for rest != "" {
		next, r, st := uniseg.FirstWordInString(rest, state)
		if !onlyRunes(next, isTrailing) {
			break
		}
		word += next
		rest, state = r, st
	}
	s.rest, s.state = rest, state
	return word
}

// Words returns the chunks of text as a sequence.
func Words(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for st := NewStream(text); !st.Done(); {
			if !yield(st.Next()) {
				return
			}
		}
	}
}

func isOpening(r rune) bool { return unicode.In(r, unicode.Ps, unicode.Pi) }

func isTrailing(r rune) bool {
	return unicode.IsSpace(r) || unicode.In(r, unicode.Pe, unicode.Pf, unicode.Po)
}

func onlyRunes(s string, f func(rune) bool) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !f(r) }) < 0
}
