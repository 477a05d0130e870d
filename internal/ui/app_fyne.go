//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"yomipop/internal/config"
	"yomipop/internal/crash"
	applog "yomipop/internal/log"
)

// Run opens a window listing the bundle's found words next to the popup of
// the selected one.
//
// Keys: Up/Down or the mouse wheel scroll the selected definition, Tab
// selects the next definition, P toggles its preferred flag and U/R undo or
// redo toggles. Clicking the popup copies the field under the pointer to the
// clipboard.
func Run(opts Options) error {
	l := applog.WithComponent("ui")
	sess, err := Load(context.Background(), opts.Bundle, opts.Config)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	reportDir := ""
	if p, err := config.ConfigPath(); err == nil {
		reportDir = filepath.Join(filepath.Dir(p), "crash")
	}
	defer crash.Recover(&crash.Session{ReportDir: reportDir, Bundle: opts.Bundle, Popup: sess.Text})

	fyneApp := app.NewWithID("yomipop")
	w := fyneApp.NewWindow("yomipop")
	w.Resize(fyne.NewSize(float32(opts.Config.Popup.Width)+260, 480))

	status := widget.NewLabel("Select a word")
	view := NewPopupView()

	refresh := func() {
		if sess.Lookup() < 0 {
			return
		}
		view.SetImage(sess.Render().Img)
		e := sess.Entries()
		if len(e) > 0 {
			sel := e[sess.Selected()]
			status.SetText(fmt.Sprintf("%d/%d  %s  line %d/%d", sess.Selected()+1, len(e),
				sel.Def.Definition().Key(), sel.State.StartLine(), sel.State.Lines()))
		}
	}

	surfaces := sess.Surfaces()
	list := widget.NewList(
		func() int { return len(surfaces) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(surfaces[id]) },
	)
	list.OnSelected = func(id widget.ListItemID) {
		if err := sess.Open(id); err != nil {
			l.Error("open lookup failed", slog.Any("err", err))
			return
		}
		refresh()
	}

	view.OnScroll = func(lines int) {
		sess.Scroll(lines)
		refresh()
	}
	view.OnTap = func(row int) {
		text := sess.CaptureAt(row)
		if text == "" {
			return
		}
		w.Clipboard().SetContent(text)
		status.SetText("Copied: " + text)
		l.Debug("captured field", slog.String("text", text))
	}
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if sess.Lookup() < 0 {
			return
		}
		switch ev.Name {
		case fyne.KeyDown:
			sess.Scroll(1)
		case fyne.KeyUp:
			sess.Scroll(-1)
		case fyne.KeyTab:
			sess.SelectNext(1)
		case fyne.KeyP:
			on, err := sess.TogglePreferred(context.Background())
			if err != nil {
				l.Error("toggle preferred failed", slog.Any("err", err))
				status.SetText("Could not save preference: " + err.Error())
				return
			}
			l.Info("preferred toggled", slog.Bool("on", on))
		case fyne.KeyU, fyne.KeyR:
			redo := ev.Name == fyne.KeyR
			var (
				ok  bool
				err error
			)
			if redo {
				ok, err = sess.RedoPreferred(context.Background())
			} else {
				ok, err = sess.UndoPreferred(context.Background())
			}
			if err != nil {
				l.Error("preference history failed", slog.Bool("redo", redo), slog.Any("err", err))
				status.SetText("Could not save preference: " + err.Error())
				return
			}
			if !ok {
				return
			}
		default:
			return
		}
		refresh()
	})

	split := container.NewHSplit(list, container.NewScroll(view))
	split.Offset = 0.25
	w.SetContent(container.NewBorder(nil, status, nil, nil, split))
	l.Info("starting UI", slog.String("bundle", opts.Bundle))
	w.ShowAndRun()
	return nil
}

// PopupView shows a rendered popup image at one device independent unit per
// pixel, so pointer rows map straight to image rows.
type PopupView struct {
	widget.BaseWidget
	img *canvas.Image

	OnScroll func(lines int)
	OnTap    func(row int)
}

func NewPopupView() *PopupView {
	v := &PopupView{img: canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))}
	v.img.FillMode = canvas.ImageFillStretch
	v.ExtendBaseWidget(v)
	return v
}

// SetImage replaces the shown popup.
func (v *PopupView) SetImage(img image.Image) {
	b := img.Bounds()
	v.img.Image = img
	v.img.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	v.img.Refresh()
	v.Refresh()
}

func (v *PopupView) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.NRGBA{R: 0x10, G: 0x10, B: 0x14, A: 0xff})
	return &popupViewRenderer{v: v, bg: bg, objects: []fyne.CanvasObject{bg, v.img}}
}

// Tapped reports the image row under the pointer.
func (v *PopupView) Tapped(e *fyne.PointEvent) {
	if v.OnTap != nil {
		v.OnTap(int(e.Position.Y))
	}
}

// Scrolled turns wheel movement into whole lines; wheel down scrolls down.
func (v *PopupView) Scrolled(e *fyne.ScrollEvent) {
	if v.OnScroll == nil {
		return
	}
	switch {
	case e.Scrolled.DY < 0:
		v.OnScroll(1)
	case e.Scrolled.DY > 0:
		v.OnScroll(-1)
	}
}

type popupViewRenderer struct {
	v       *PopupView
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *popupViewRenderer) Destroy()                     {}
func (r *popupViewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *popupViewRenderer) MinSize() fyne.Size           { return r.v.img.MinSize() }
func (r *popupViewRenderer) Refresh()                     { r.Layout(r.v.Size()); canvas.Refresh(r.v) }

func (r *popupViewRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.v.img.Resize(r.v.img.MinSize())
	r.v.img.Move(fyne.NewPos(0, 0))
}
