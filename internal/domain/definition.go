/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"fmt"
	"strings"
)

// WordForm is a word as it was found in the source text, together with the
// dictionary word it was derived from. Process describes how the surface was
// derived (an inflection chain, for example); it is empty when the surface is
// the dictionary form itself.
type WordForm struct {
	Surface string `json:"surface"`
	Process string `json:"process,omitempty"`
	Word    string `json:"word"`
}

// Derived reports whether the surface was reached through some derivation.
func (w WordForm) Derived() bool { return w.Process != "" }

func (w WordForm) String() string {
	if w.Process == "" {
		return w.Surface
	}
	return fmt.Sprintf("%s (%s)", w.Surface, w.Process)
}

// Source identifies which dictionary a definition came from.
type Source int

const (
	SourceBuiltin Source = iota
	SourceUser
	SourceKanji
)

func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceUser:
		return "user"
	case SourceKanji:
		return "kanji"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// ParseSource is the inverse of Source.String.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "builtin":
		return SourceBuiltin, nil
	case "user":
		return SourceUser, nil
	case "kanji":
		return SourceKanji, nil
	}
	return 0, fmt.Errorf("unknown definition source %q", s)
}

// Tag is an EDICT style usage or part-of-speech code. Codes are case
// sensitive: "uk" and "uK" mean different things.
type Tag string

const (
	TagObsolete     Tag = "obs"
	TagObscure      Tag = "obsc"
	TagRare         Tag = "rare"
	TagArchaic      Tag = "arch"
	TagUsuallyKana  Tag = "uk"
	TagUsuallyKanji Tag = "uK"
	TagSuffix       Tag = "suf"
	TagPrefix       Tag = "pref"
	TagCounter      Tag = "ctr"
)

// TagSet is a set of tags. The zero value is an empty set.
type TagSet map[Tag]struct{}

func NewTagSet(tags ...Tag) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

func (s TagSet) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

// HasAny reports whether at least one of tags is in the set.
func (s TagSet) HasAny(tags ...Tag) bool {
	for _, t := range tags {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// Definition is one dictionary entry. Definitions are shared read-only by
// everything that displays or ranks them.
type Definition struct {
	ID        string
	TagLine   string
	Tags      TagSet
	Spellings []string
	Meanings  []string
	Furigana  string
	Source    Source
}

// Key identifies the definition across sessions. It is the ID when one is
// set, otherwise it is derived from the spellings and the first meaning.
func (d *Definition) Key() string {
	if d.ID != "" {
		return d.ID
	}
	first := ""
	if len(d.Meanings) > 0 {
		first = d.Meanings[0]
	}
	return "s:" + strings.Join(d.Spellings, "、") + "|m:" + first
}

func (d *Definition) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(d.Spellings, "、"))
	if len(d.Meanings) > 0 {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(strings.Join(d.Meanings, "; "))
	}
	return b.String()
}
