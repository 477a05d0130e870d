/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement is isolated behind small interfaces so layout can run
// against real font faces as well as deterministic fakes in tests.

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePt float32
	Weight int // 100..900
	Italic bool
}

// Metrics holds whole-pixel line metrics of a resolved face.
type Metrics struct {
	Ascent, Descent, LineGap int
}

// Height is the distance between two baselines.
func (m Metrics) Height() int { return m.Ascent + m.Descent + m.LineGap }

// MetricsOf rounds the face metrics to pixels.
func MetricsOf(face font.Face) Metrics {
	m := face.Metrics()
	asc, desc := m.Ascent.Round(), m.Descent.Round()
	gap := m.Height.Round() - asc - desc
	if gap < 0 {
		gap = 0
	}
	return Metrics{Ascent: asc, Descent: desc, LineGap: gap}
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Measurer measures the advance width of a string in pixels.
type Measurer interface {
	StringWidth(s string) int
}

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests.
// Every rune advances 7px, which keeps widths predictable even for kana and
// kanji the face has no glyphs for.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	return f, MetricsOf(f)
}

// FaceMeasurer measures with a font.Face, rounding up to whole pixels.
type FaceMeasurer struct{ Face font.Face }

func (m FaceMeasurer) StringWidth(s string) int {
	return font.MeasureString(m.Face, s).Ceil()
}
