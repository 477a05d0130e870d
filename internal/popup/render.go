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
	"log/slog"
	"slices"
	"strings"

	"yomipop/internal/domain"
	"yomipop/internal/japanese"
	applog "yomipop/internal/log"
	"yomipop/internal/textlayout"
)

// Surface is what the renderer draws on. Colors are given per call.
type Surface interface {
	textlayout.Measurer
	LineMetrics() textlayout.Metrics
	FillRect(r image.Rectangle, c color.Color)
	ClearRect(r image.Rectangle)
	DrawString(s string, x, baseline int, c color.Color)
}

// KanjiGlosser returns a short gloss for a single kanji.
type KanjiGlosser interface {
	Gloss(r rune) (string, bool)
}

// Palette holds the colors of the popup layers.
type Palette struct {
	Reading    color.Color
	Tag        color.Color
	Kanji      color.Color
	Meaning    color.Color
	Background color.Color
}

// Options controls layout. UpwardLayout draws the first field at the bottom
// and grows towards the top of the surface. ShowAllKanji keeps spellings that
// contain kanji, which are hidden by default because the found word already
// shows them.
type Options struct {
	UpwardLayout bool
	ShowAllKanji bool
	Colors       Palette
}

// DefaultPalette is used for any color left nil in Options.
var DefaultPalette = Palette{
	Reading:    color.NRGBA{R: 0x9f, G: 0xd3, B: 0xff, A: 0xff},
	Tag:        color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff},
	Kanji:      color.NRGBA{R: 0xff, G: 0xd0, B: 0x80, A: 0xff},
	Meaning:    color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Background: color.NRGBA{R: 0x20, G: 0x20, B: 0x30, A: 0xe0},
}

// gapColor is almost transparent so that pointer events still land on the
// popup between fields.
var gapColor = color.NRGBA{A: 1}

// Renderer draws FoundDefs. It holds no per-popup state and can be shared by
// every popup that uses the same options.
type Renderer struct {
	opts  Options
	kanji KanjiGlosser
	log   *slog.Logger
}

// NewRenderer builds a renderer. kanji may be nil, which disables the
// per-kanji gloss lines.
func NewRenderer(opts Options, kanji KanjiGlosser) *Renderer {
	pal := &opts.Colors
	fill := func(c *color.Color, def color.Color) {
		if *c == nil {
			*c = def
		}
	}
	fill(&pal.Reading, DefaultPalette.Reading)
	fill(&pal.Tag, DefaultPalette.Tag)
	fill(&pal.Kanji, DefaultPalette.Kanji)
	fill(&pal.Meaning, DefaultPalette.Meaning)
	fill(&pal.Background, DefaultPalette.Background)
	return &Renderer{opts: opts, kanji: kanji, log: applog.WithComponent("popup")}
}

func (r *Renderer) Options() Options { return r.opts }

// Render lays fd out starting at cursor y and returns the cursor after the
// last field. Lines above st's scroll offset are counted but not painted.
// Fields are, in order: the found form (only when it was derived), the tag
// line, spellings not already shown, kanji glosses and the meanings.
func (r *Renderer) Render(s Surface, fd *FoundDef, st *RenderState, x, y, width int) int {
	m := s.LineMetrics()
	s.FillRect(image.Rect(x, y, x+width, y+1), gapColor)
	y++
	if !r.opts.UpwardLayout {
		y -= m.Height()
	}
	st.lines = 0

	p := pass{Renderer: r, s: s, st: st, m: m, x: x, width: width}
	pal := r.opts.Colors
	form, def := fd.form, fd.def

	if form.Derived() {
		y = p.field(y, form.String(), pal.Reading)
	}
	y = p.field(y, def.TagLine, pal.Tag)
	for _, sp := range def.Spellings {
		if japanese.HasKanji(sp) && !r.opts.ShowAllKanji {
			continue
		}
		if sp != form.Word {
			y = p.field(y, sp, pal.Reading)
		}
	}
	if def.Source != domain.SourceKanji && r.kanji != nil {
		for _, c := range form.Word {
			if gloss, ok := r.kanji.Gloss(c); ok {
				y = p.field(y, string(c)+"【"+gloss+"】", pal.Kanji)
			}
		}
	}
	for _, meaning := range def.Meanings {
		if meaning != "" && meaning != "(P)" {
			y = p.field(y, meaning, pal.Meaning)
		}
	}

	st.capturePoint = CaptureOff
	r.log.Debug("rendered definition", slog.String("word", form.Word), slog.Int("lines", st.lines), slog.Int("start", st.startLine))
	return y
}

// CapturePointAt maps a pixel row of the rendered popup to the capture point
// that selects the field painted across that row. Rows that map onto one of
// the sentinels select nothing, so callers lay out from a cursor low enough
// that painted rows stay at LineGap+Height or below.
func (r *Renderer) CapturePointAt(m textlayout.Metrics, row int) int {
	p := row + 1 - m.LineGap
	if !r.opts.UpwardLayout {
		p -= m.Height()
	}
	if p == CaptureAll {
		return CaptureOff
	}
	return p
}

// Entry is one definition of a stacked popup together with its view state.
type Entry struct {
	Def   *FoundDef
	State *RenderState
}

// Stack renders entries one after another in the layout direction so that
// their line rectangles abut, and returns the final cursor.
func (r *Renderer) Stack(s Surface, entries []Entry, x, y, width int) int {
	h := s.LineMetrics().Height()
	for _, e := range entries {
		end := r.Render(s, e.Def, e.State, x, y, width)
		if r.opts.UpwardLayout {
			y = end - 1
		} else {
			y = end + h - 1
		}
	}
	return y
}

// SetCapturePoint arms every entry with the same capture point.
func SetCapturePoint(entries []Entry, pos int) {
	for _, e := range entries {
		e.State.SetCapturePoint(pos)
	}
}

// Captured joins the captures of all entries, one field per line.
func Captured(entries []Entry) string {
	var parts []string
	for _, e := range entries {
		if c := e.State.Capture(); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n")
}

// pass carries what one Render call needs while it walks the fields.
type pass struct {
	*Renderer
	s     Surface
	st    *RenderState
	m     textlayout.Metrics
	x     int
	width int
}

// field wraps text to the popup width and draws it from cursor y. Empty text
// draws nothing and leaves the cursor where it was.
func (p *pass) field(y int, text string, fore color.Color) int {
	if text == "" {
		return y
	}
	startY := y
	up := p.opts.UpwardLayout
	h, asc := p.m.Height(), p.m.Ascent

	lines := textlayout.Wrap(text, p.width, p.s)
	if up {
		slices.Reverse(lines)
	}
	for _, line := range lines {
		p.st.lines++
		if p.st.startLine > p.st.lines {
			continue
		}
		if up {
			y -= h
		} else {
			y += h
		}
		p.s.FillRect(image.Rect(p.x, y-asc, p.x+p.width, y-asc+h), p.opts.Colors.Background)
		p.s.DrawString(line, p.x, y, fore)
	}

	gapY := y - asc
	if !up {
		gapY += h - 1
	}
	gap := image.Rect(p.x, gapY, p.x+p.width, gapY+1)
	p.s.ClearRect(gap)
	p.s.FillRect(gap, gapColor)

	if p.st.hit(startY, y, h, p.m.Descent, up) {
		p.st.appendCapture(text)
	}
	return y
}
