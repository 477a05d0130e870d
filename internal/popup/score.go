/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package popup

import (
	"cmp"
	"slices"

	"yomipop/internal/domain"
	"yomipop/internal/japanese"
)

// ScoreInput is everything a ranking signal may look at.
type ScoreInput struct {
	Form      domain.WordForm
	Def       *domain.Definition
	Preferred bool
}

// Signal is one weighted term of a definition's score. Count usually
// returns 0 or 1; the spelling penalty counts spellings.
type Signal struct {
	Name   string
	Weight int
	Count  func(ScoreInput) int
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

var signals = []Signal{
	{"preferred", 1000, func(in ScoreInput) int { return flag(in.Preferred) }},
	{"user-source", 100, func(in ScoreInput) int { return flag(in.Def.Source == domain.SourceUser) }},
	{"kanji-source", -500, func(in ScoreInput) int { return flag(in.Def.Source == domain.SourceKanji) }},
	{"uncommon", -50, func(in ScoreInput) int {
		return flag(in.Def.Tags.HasAny(domain.TagObsolete, domain.TagObscure, domain.TagRare, domain.TagArchaic))
	}},
	{"usually-kana", -10, func(in ScoreInput) int {
		return flag(in.Def.Tags.Has(domain.TagUsuallyKana) && !japanese.HasKana(in.Form.Word))
	}},
	{"usually-kanji", -10, func(in ScoreInput) int {
		return flag(in.Def.Tags.Has(domain.TagUsuallyKanji) && japanese.HasKana(in.Form.Word))
	}},
	{"affix", -3, func(in ScoreInput) int { return flag(in.Def.Tags.HasAny(domain.TagSuffix, domain.TagPrefix)) }},
	{"counter", -10, func(in ScoreInput) int { return flag(in.Def.Tags.Has(domain.TagCounter)) }},
	{"spellings", -1, func(in ScoreInput) int { return len(in.Def.Spellings) }},
	{"dictionary-form", 5, func(in ScoreInput) int { return flag(!in.Form.Derived()) }},
}

// Signals returns a copy of the scoring table in evaluation order.
func Signals() []Signal { return slices.Clone(signals) }

// Score sums every signal's weighted count. Higher is better.
func Score(in ScoreInput) int {
	total := 0
	for _, s := range signals {
		total += s.Weight * s.Count(in)
	}
	return total
}

// Term is one non-zero contribution to a score.
type Term struct {
	Name  string
	Value int
}

// Breakdown lists the signals that contributed to Score(in).
func Breakdown(in ScoreInput) []Term {
	var out []Term
	for _, s := range signals {
		if v := s.Weight * s.Count(in); v != 0 {
			out = append(out, Term{Name: s.Name, Value: v})
		}
	}
	return out
}

// Preferences tells the ranker which definitions the user pinned.
type Preferences interface {
	IsPreferred(def *domain.Definition) bool
}

// Ranker orders FoundDefs best first. A nil Prefs means nothing is
// preferred.
type Ranker struct {
	Prefs Preferences
}

func (r Ranker) input(fd *FoundDef) ScoreInput {
	in := ScoreInput{Form: fd.form, Def: fd.def}
	if r.Prefs != nil {
		in.Preferred = r.Prefs.IsPreferred(fd.def)
	}
	return in
}

func (r Ranker) Score(fd *FoundDef) int { return Score(r.input(fd)) }

// Compare is negative when a ranks before b.
func (r Ranker) Compare(a, b *FoundDef) int {
	return r.Score(b) - r.Score(a)
}

// Sort orders defs best first. Ties keep their input order.
func (r Ranker) Sort(defs []*FoundDef) {
	scores := make(map[*FoundDef]int, len(defs))
	for _, fd := range defs {
		scores[fd] = r.Score(fd)
	}
	slices.SortStableFunc(defs, func(a, b *FoundDef) int {
		return cmp.Compare(scores[b], scores[a])
	})
}
