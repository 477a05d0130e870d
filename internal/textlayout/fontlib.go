/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores parsed OpenType fonts by family name. Popups need a
// face with Japanese coverage, which usually ships as a TTF/OTF or as a
// collection (TTC/OTC); for collections the first font is used.
type FontLibrary struct {
	fonts map[string]*opentype.Font
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[string]*opentype.Font)} }

// LoadFile parses the font file at path and registers it under family.
func (fl *FontLibrary) LoadFile(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	collection := false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		collection = true
	}
	if err := fl.LoadBytes(family, data, collection); err != nil {
		return fmt.Errorf("load font %s: %w", path, err)
	}
	return nil
}

// LoadBytes parses an in-memory font. When collection is set the data is
// treated as a font collection.
func (fl *FontLibrary) LoadBytes(family string, data []byte, collection bool) error {
	if fl.fonts == nil {
		fl.fonts = make(map[string]*opentype.Font)
	}
	var f *opentype.Font
	if collection {
		c, err := opentype.ParseCollection(data)
		if err != nil {
			return fmt.Errorf("parse collection: %w", err)
		}
		if c.NumFonts() == 0 {
			return fmt.Errorf("empty font collection")
		}
		if f, err = c.Font(0); err != nil {
			return fmt.Errorf("collection font 0: %w", err)
		}
	} else {
		var err error
		if f, err = opentype.Parse(data); err != nil {
			return fmt.Errorf("parse: %w", err)
		}
	}
	fl.fonts[family] = f
	return nil
}

// Families lists registered family names.
func (fl *FontLibrary) Families() []string {
	if fl == nil {
		return nil
	}
	out := make([]string, 0, len(fl.fonts))
	for k := range fl.fonts {
		out = append(out, k)
	}
	return out
}

func (fl *FontLibrary) find(family string) *opentype.Font {
	if fl == nil || fl.fonts == nil {
		return nil
	}
	if f, ok := fl.fonts[family]; ok {
		return f
	}
	// a single loaded font serves every family
	if len(fl.fonts) == 1 {
		for _, f := range fl.fonts {
			return f
		}
	}
	return nil
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another
// Provider when the family is unknown or the face cannot be built.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePt <= 0 {
		spec.SizePt = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	if f := p.Lib.find(spec.Family); f != nil {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(spec.SizePt), DPI: dpi, Hinting: font.HintingFull})
		if err == nil {
			return face, MetricsOf(face)
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

// FaceFromFile loads the font at path and returns a face of the given size.
// An empty path selects the built-in basic face.
func FaceFromFile(path string, sizePt float32) (font.Face, error) {
	if path == "" {
		f, _ := BasicProvider{}.Resolve(FontSpec{})
		return f, nil
	}
	lib := NewFontLibrary()
	if err := lib.LoadFile("popup", path); err != nil {
		return nil, err
	}
	f, _ := OTProvider{Lib: lib}.Resolve(FontSpec{Family: "popup", SizePt: sizePt})
	return f, nil
}
