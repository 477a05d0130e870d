/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export turns rendered popups into files: PNG snapshots of a popup
// and PDF vocabulary sheets.
package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"

	"yomipop/internal/popup"
	"yomipop/internal/raster"
	"yomipop/internal/textlayout"
)

// Pad is the transparent margin around a rendered popup.
const Pad = 4

// Rendered is a popup painted into an image. Origin is where the starting
// cursor landed in the image; Base is the layout y the cursor started at.
type Rendered struct {
	Img     *image.RGBA
	Origin  image.Point
	Base    int
	Metrics textlayout.Metrics
}

// LayoutRow converts an image row to the layout coordinate the renderer used.
func (r *Rendered) LayoutRow(imgRow int) int { return imgRow - r.Origin.Y + r.Base }

// RenderImage stacks entries at the given width. A dry run against a
// measuring surface sizes the image first; armed capture points survive the
// dry run and apply to the real pass.
//
// The real pass starts low enough that every painted row sits at or below
// layout row LineGap+Height, so CapturePointAt never lands a painted row on
// CaptureOff or CaptureAll.
func RenderImage(r *popup.Renderer, entries []popup.Entry, width int, face font.Face) *Rendered {
	points := make([]int, len(entries))
	for i, e := range entries {
		points[i] = e.State.CapturePoint()
	}

	b := raster.NewBounds(face)
	r.Stack(b, entries, 0, 0, width)
	for i, e := range entries {
		e.State.SetCapturePoint(points[i])
	}

	area := b.Rect
	if area.Empty() {
		area = image.Rect(0, 0, width, 1)
	}
	m := b.LineMetrics()
	base := max(0, m.LineGap+m.Height()-area.Min.Y)

	img := image.NewRGBA(image.Rect(0, 0, area.Dx()+2*Pad, area.Dy()+2*Pad))
	s := raster.NewSurface(img, face)
	s.Origin = image.Pt(Pad-area.Min.X, Pad-area.Min.Y-base)
	r.Stack(s, entries, 0, base, width)
	return &Rendered{
		Img:     img,
		Origin:  image.Pt(s.Origin.X, s.Origin.Y+base),
		Base:    base,
		Metrics: s.LineMetrics(),
	}
}

// WritePNG encodes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
