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
	"log/slog"
	"time"

	"golang.org/x/image/font"

	"yomipop/internal/config"
	"yomipop/internal/domain"
	"yomipop/internal/export"
	"yomipop/internal/lexicon"
	applog "yomipop/internal/log"
	"yomipop/internal/popup"
	"yomipop/internal/prefs"
	"yomipop/internal/textlayout"
	"yomipop/internal/undo"
)

// Session is the state behind a popup window: which lookup is open, the
// ranked definitions for it and which of them keyboard actions apply to.
// It does not depend on a GUI toolkit, so the CLI drives it as well.
type Session struct {
	Bundle   *lexicon.Bundle
	Renderer *popup.Renderer
	Prefs    *prefs.Registry // may be nil
	Face     font.Face
	Width    int

	lookup   int
	selected int
	entries  []popup.Entry
	history  *undo.Manager
	last     *export.Rendered
	log      *slog.Logger
}

func NewSession(b *lexicon.Bundle, r *popup.Renderer, reg *prefs.Registry, face font.Face, width int) *Session {
	return &Session{
		Bundle:   b,
		Renderer: r,
		Prefs:    reg,
		Face:     face,
		Width:    width,
		lookup:   -1,
		history:  undo.NewManager(undo.Config{MinInterval: 300 * time.Millisecond}),
		log:      applog.WithComponent("ui"),
	}
}

// Load builds a session for the bundle at path from cfg: renderer options,
// font face and the preferred-definition store. Close releases the store.
func Load(ctx context.Context, path string, cfg config.AppConfig) (*Session, error) {
	b, err := lexicon.Load(path)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.PopupOptions()
	if err != nil {
		return nil, err
	}
	face, err := textlayout.FaceFromFile(cfg.Popup.FontPath, float32(cfg.Popup.FontSizePt))
	if err != nil {
		return nil, err
	}
	reg, err := prefs.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewSession(b, popup.NewRenderer(opts, b.Kanji), reg, face, cfg.Popup.Width), nil
}

// Close releases the preferred-definition store.
func (s *Session) Close() error {
	if s.Prefs == nil {
		return nil
	}
	return s.Prefs.Close()
}

func (s *Session) ranker() popup.Ranker {
	if s.Prefs == nil {
		return popup.Ranker{}
	}
	return popup.Ranker{Prefs: s.Prefs}
}

// Surfaces lists the found forms of the bundle in order.
func (s *Session) Surfaces() []string {
	out := make([]string, len(s.Bundle.Lookups))
	for i, l := range s.Bundle.Lookups {
		out[i] = l.Form.Surface
	}
	return out
}

// Open shows lookup i with fresh view state and the best definition selected.
func (s *Session) Open(i int) error {
	if i < 0 || i >= len(s.Bundle.Lookups) {
		return fmt.Errorf("lookup %d out of range (have %d)", i, len(s.Bundle.Lookups))
	}
	defs := append([]*popup.FoundDef(nil), s.Bundle.Lookups[i].Defs...)
	s.ranker().Sort(defs)
	s.entries = make([]popup.Entry, len(defs))
	for j, fd := range defs {
		s.entries[j] = popup.Entry{Def: fd, State: &popup.RenderState{}}
	}
	s.lookup, s.selected, s.last = i, 0, nil
	s.log.Debug("lookup opened", slog.String("surface", s.Bundle.Lookups[i].Form.Surface), slog.Int("defs", len(defs)))
	return nil
}

// OpenSurface opens the first lookup whose surface matches.
func (s *Session) OpenSurface(surface string) error {
	for i, l := range s.Bundle.Lookups {
		if l.Form.Surface == surface {
			return s.Open(i)
		}
	}
	return fmt.Errorf("no lookup for %q", surface)
}

func (s *Session) Lookup() int            { return s.lookup }
func (s *Session) Entries() []popup.Entry { return s.entries }
func (s *Session) Selected() int          { return s.selected }

// SelectNext moves the selection by delta, wrapping around.
func (s *Session) SelectNext(delta int) {
	n := len(s.entries)
	if n == 0 {
		return
	}
	s.selected = ((s.selected+delta)%n + n) % n
}

func (s *Session) current() (popup.Entry, bool) {
	if s.selected < 0 || s.selected >= len(s.entries) {
		return popup.Entry{}, false
	}
	return s.entries[s.selected], true
}

// Scroll moves the selected definition's window; positive lines scroll down.
func (s *Session) Scroll(lines int) {
	e, ok := s.current()
	if !ok {
		return
	}
	for ; lines > 0; lines-- {
		e.State.ScrollDown()
	}
	for ; lines < 0; lines++ {
		e.State.ScrollUp()
	}
}

// Render paints the open lookup.
func (s *Session) Render() *export.Rendered {
	s.last = export.RenderImage(s.Renderer, s.entries, s.Width, s.Face)
	return s.last
}

// CaptureAt returns the field painted across image row imgRow of the last
// render, rendering first if needed.
func (s *Session) CaptureAt(imgRow int) string {
	if s.last == nil {
		s.Render()
	}
	p := s.Renderer.CapturePointAt(s.last.Metrics, s.last.LayoutRow(imgRow))
	if p == popup.CaptureOff {
		return ""
	}
	popup.SetCapturePoint(s.entries, p)
	s.Render()
	return popup.Captured(s.entries)
}

// Text returns all fields of all shown definitions, one per line.
func (s *Session) Text() string {
	popup.SetCapturePoint(s.entries, popup.CaptureAll)
	s.Render()
	return popup.Captured(s.entries)
}

// TogglePreferred flips the preferred flag of the selected definition and
// re-ranks. The selection follows the toggled definition.
func (s *Session) TogglePreferred(ctx context.Context) (bool, error) {
	e, ok := s.current()
	if !ok || s.Prefs == nil {
		return false, fmt.Errorf("nothing to toggle")
	}
	on, err := s.Prefs.Toggle(ctx, e.Def.Definition())
	if err != nil {
		return false, err
	}
	s.history.Push(undo.Change{Def: e.Def.Definition(), On: on, TS: time.Now()})
	s.rerank(e.Def.Definition())
	return on, nil
}

// UndoPreferred reverts the latest preferred toggle. It reports false when
// there is nothing to undo.
func (s *Session) UndoPreferred(ctx context.Context) (bool, error) {
	c, ok := s.history.Undo()
	if !ok {
		return false, nil
	}
	return true, s.applyPreferred(ctx, c.Def, !c.On)
}

// RedoPreferred reapplies the latest undone toggle.
func (s *Session) RedoPreferred(ctx context.Context) (bool, error) {
	c, ok := s.history.Redo()
	if !ok {
		return false, nil
	}
	return true, s.applyPreferred(ctx, c.Def, c.On)
}

func (s *Session) applyPreferred(ctx context.Context, def *domain.Definition, on bool) error {
	if s.Prefs == nil {
		return fmt.Errorf("no preference store")
	}
	if err := s.Prefs.SetPreferred(ctx, def, on); err != nil {
		return err
	}
	s.rerank(def)
	return nil
}

// rerank re-sorts the shown definitions from bundle order, so ties land
// where Open puts them, keeping each one's view state. The selection moves
// to follow if it is shown.
func (s *Session) rerank(follow *domain.Definition) {
	if s.lookup < 0 {
		return
	}
	states := make(map[*popup.FoundDef]*popup.RenderState, len(s.entries))
	for _, en := range s.entries {
		states[en.Def] = en.State
	}
	defs := append([]*popup.FoundDef(nil), s.Bundle.Lookups[s.lookup].Defs...)
	s.ranker().Sort(defs)
	for i, fd := range defs {
		s.entries[i] = popup.Entry{Def: fd, State: states[fd]}
		if fd.Definition() == follow {
			s.selected = i
		}
	}
}
