/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package raster draws popups into in-memory images.
package raster

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"yomipop/internal/textlayout"
)

// Surface paints onto an RGBA image with a single font face.
type Surface struct {
	Img  *image.RGBA
	Face font.Face
	// Origin is added to every coordinate before painting.
	Origin image.Point

	m textlayout.Metrics
}

func NewSurface(img *image.RGBA, face font.Face) *Surface {
	return &Surface{Img: img, Face: face, m: textlayout.MetricsOf(face)}
}

func (s *Surface) StringWidth(str string) int { return font.MeasureString(s.Face, str).Ceil() }

func (s *Surface) LineMetrics() textlayout.Metrics { return s.m }

func (s *Surface) FillRect(r image.Rectangle, c color.Color) {
	draw.Draw(s.Img, r.Add(s.Origin), image.NewUniform(c), image.Point{}, draw.Over)
}

func (s *Surface) ClearRect(r image.Rectangle) {
	draw.Draw(s.Img, r.Add(s.Origin), image.Transparent, image.Point{}, draw.Src)
}

func (s *Surface) DrawString(str string, x, baseline int, c color.Color) {
	d := font.Drawer{
		Dst:  s.Img,
		Src:  image.NewUniform(c),
		Face: s.Face,
		Dot:  fixed.P(x+s.Origin.X, baseline+s.Origin.Y),
	}
	d.DrawString(str)
}

// Bounds is a surface that paints nothing and records the union of every
// rectangle that would have been touched. Running a layout against Bounds
// first tells how large the real image has to be.
type Bounds struct {
	textlayout.Measurer
	M    textlayout.Metrics
	Rect image.Rectangle
}

// NewBounds measures with face.
func NewBounds(face font.Face) *Bounds {
	return &Bounds{Measurer: textlayout.FaceMeasurer{Face: face}, M: textlayout.MetricsOf(face)}
}

func (b *Bounds) LineMetrics() textlayout.Metrics { return b.M }

func (b *Bounds) FillRect(r image.Rectangle, _ color.Color) { b.add(r) }

func (b *Bounds) ClearRect(r image.Rectangle) { b.add(r) }

func (b *Bounds) DrawString(str string, x, baseline int, _ color.Color) {
	w := b.StringWidth(str)
	b.add(image.Rect(x, baseline-b.M.Ascent, x+w, baseline+b.M.Descent))
}

func (b *Bounds) add(r image.Rectangle) {
	if r.Empty() {
		return
	}
	b.Rect = b.Rect.Union(r)
}
