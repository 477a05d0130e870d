/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"yomipop/internal/domain"
	"yomipop/internal/popup"
	"yomipop/internal/textlayout"
)

func catEntry() popup.Entry {
	fd := popup.New(domain.WordForm{Surface: "猫", Word: "猫"}, &domain.Definition{
		TagLine:   "n",
		Spellings: []string{"ねこ"},
		Meanings:  []string{"cat"},
	})
	return popup.Entry{Def: fd, State: &popup.RenderState{}}
}

func TestRenderImageSizesToContent(t *testing.T) {
	face, _ := textlayout.BasicProvider{}.Resolve(textlayout.FontSpec{})
	r := popup.NewRenderer(popup.Options{}, nil)
	rd := RenderImage(r, []popup.Entry{catEntry()}, 200, face)

	b := rd.Img.Bounds()
	if b.Dx() != 200+2*Pad || b.Dy() != 39+2*Pad {
		t.Fatalf("image size = %v", b.Size())
	}
	if rd.Origin.Y != Pad+10 {
		t.Fatalf("origin = %v", rd.Origin)
	}
	if a := rd.Img.RGBAAt(Pad+100, Pad+5).A; a == 0 {
		t.Fatal("background not painted")
	}
}

func TestRenderImageCaptureByImageRow(t *testing.T) {
	face, _ := textlayout.BasicProvider{}.Resolve(textlayout.FontSpec{})
	r := popup.NewRenderer(popup.Options{}, nil)
	entries := []popup.Entry{catEntry()}
	rd := RenderImage(r, entries, 200, face)

	popup.SetCapturePoint(entries, r.CapturePointAt(rd.Metrics, rd.LayoutRow(rd.Origin.Y+5)))
	RenderImage(r, entries, 200, face)
	if got := popup.Captured(entries); got != "ねこ" {
		t.Fatalf("captured %q, want ねこ", got)
	}
}

// gapFace adds gap pixels of leading below every line.
type gapFace struct {
	font.Face
	gap int
}

func (f gapFace) Metrics() font.Metrics {
	m := f.Face.Metrics()
	m.Height += fixed.I(f.gap)
	return m
}

func TestRenderImageEveryPaintedRowCaptures(t *testing.T) {
	basic, _ := textlayout.BasicProvider{}.Resolve(textlayout.FontSpec{})
	for _, tc := range []struct {
		up   bool
		gap  int
		want []string
	}{
		{false, 0, []string{"n", "ねこ", "cat"}},
		{false, 3, []string{"n", "ねこ", "cat"}},
		{true, 0, []string{"cat", "ねこ", "n"}},
		{true, 3, []string{"cat", "ねこ", "n"}},
	} {
		face := font.Face(gapFace{Face: basic, gap: tc.gap})
		r := popup.NewRenderer(popup.Options{UpwardLayout: tc.up}, nil)
		entries := []popup.Entry{catEntry()}
		rd := RenderImage(r, entries, 200, face)
		if got := rd.Metrics.LineGap; got != tc.gap {
			t.Fatalf("line gap = %d, want %d", got, tc.gap)
		}

		var seen []string
		for row := 0; row < rd.Img.Bounds().Dy(); row++ {
			if rd.Img.RGBAAt(Pad+1, row).A <= 1 {
				continue
			}
			popup.SetCapturePoint(entries, r.CapturePointAt(rd.Metrics, rd.LayoutRow(row)))
			RenderImage(r, entries, 200, face)
			got := popup.Captured(entries)
			if got == "" {
				t.Errorf("upward=%v gap=%d: painted row %d captured nothing", tc.up, tc.gap, row)
				continue
			}
			if len(seen) == 0 || seen[len(seen)-1] != got {
				seen = append(seen, got)
			}
		}
		if !slices.Equal(seen, tc.want) {
			t.Errorf("upward=%v gap=%d: fields top to bottom = %q, want %q", tc.up, tc.gap, seen, tc.want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	face, _ := textlayout.BasicProvider{}.Resolve(textlayout.FontSpec{})
	rd := RenderImage(popup.NewRenderer(popup.Options{UpwardLayout: true}, nil), []popup.Entry{catEntry(), catEntry()}, 120, face)
	out := filepath.Join(t.TempDir(), "out", "popup.png")
	if err := WritePNG(out, rd.Img); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != rd.Img.Bounds() {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), rd.Img.Bounds())
	}
}
