/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package popup

import (
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"yomipop/internal/domain"
	"yomipop/internal/textlayout"
)

type drawCall struct {
	text string
	x, y int
	fore color.Color
}

// recorder is a Surface that measures every rune as 10px and records draws.
type recorder struct {
	m      textlayout.Metrics
	draws  []drawCall
	fills  []image.Rectangle
	clears []image.Rectangle
}

func newRecorder() *recorder {
	return &recorder{m: textlayout.Metrics{Ascent: 8, Descent: 2}}
}

func (r *recorder) StringWidth(s string) int                   { return 10 * utf8.RuneCountInString(s) }
func (r *recorder) LineMetrics() textlayout.Metrics            { return r.m }
func (r *recorder) FillRect(rc image.Rectangle, _ color.Color) { r.fills = append(r.fills, rc) }
func (r *recorder) ClearRect(rc image.Rectangle)               { r.clears = append(r.clears, rc) }
func (r *recorder) DrawString(s string, x, y int, c color.Color) {
	r.draws = append(r.draws, drawCall{text: s, x: x, y: y, fore: c})
}

func (r *recorder) texts() []string {
	out := make([]string, len(r.draws))
	for i, d := range r.draws {
		out[i] = d.text
	}
	return out
}

type glosses map[rune]string

func (g glosses) Gloss(r rune) (string, bool) {
	s, ok := g[r]
	return s, ok
}

func cat() *FoundDef {
	return New(domain.WordForm{Surface: "猫", Word: "猫"}, &domain.Definition{
		TagLine:   "n",
		Spellings: []string{"ねこ"},
		Meanings:  []string{"cat"},
	})
}

func longDef() *FoundDef {
	return New(domain.WordForm{Surface: "x", Word: "x"}, &domain.Definition{
		Meanings: []string{strings.Repeat("word ", 10)},
	})
}
