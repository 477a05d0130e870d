/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"yomipop/internal/popup"
	"yomipop/internal/raster"
	"yomipop/internal/textlayout"
)

// SheetItem is one found word and its definitions in display order.
type SheetItem struct {
	Title string
	Defs  []*popup.FoundDef
}

// PDFOptions controls vocabulary sheet output.
// FontPath names a TTF with Japanese glyphs; without it the sheet uses
// Helvetica and characters outside Latin-1 print as "?".
type PDFOptions struct {
	Title    string
	FontPath string
	FontSize float64
}

// DefinitionText returns every field the renderer would show for fd, one
// per line, by rendering it once with the capture-all point armed.
func DefinitionText(r *popup.Renderer, fd *popup.FoundDef) string {
	var st popup.RenderState
	st.SetCapturePoint(popup.CaptureAll)
	face, _ := textlayout.BasicProvider{}.Resolve(textlayout.FontSpec{})
	r.Render(raster.NewBounds(face), fd, &st, 0, 0, 1<<20)
	return st.Capture()
}

// WritePDF writes a vocabulary sheet: a heading per item followed by the
// text of each of its definitions.
func WritePDF(path string, items []SheetItem, r *popup.Renderer, opts PDFOptions) error {
	size := opts.FontSize
	if size <= 0 {
		size = 11
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(opts.Title, true)
	pdf.SetAuthor("yomipop", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		family = "body"
		pdf.AddUTF8Font(family, "", opts.FontPath)
		pdf.AddUTF8Font(family, "B", opts.FontPath)
		tr = func(s string) string { return s }
	}
	pdf.AddPage()

	if opts.Title != "" {
		pdf.SetFont(family, "B", size+4)
		pdf.MultiCell(0, (size+4)*0.5, tr(opts.Title), "", "L", false)
		pdf.Ln(3)
	}
	line := size * 0.45
	for _, it := range items {
		pdf.SetFont(family, "B", size+1)
		pdf.MultiCell(0, line+1, tr(it.Title), "B", "L", false)
		pdf.Ln(1)
		pdf.SetFont(family, "", size)
		for i, fd := range it.Defs {
			text := DefinitionText(r, fd)
			if text == "" {
				continue
			}
			pdf.MultiCell(0, line, tr(fmt.Sprintf("%d. %s", i+1, strings.ReplaceAll(text, "\n", " / "))), "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(3)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
