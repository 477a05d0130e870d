/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	flags "github.com/jessevdk/go-flags"

	"yomipop/internal/config"
	"yomipop/internal/crash"
	"yomipop/internal/export"
	applog "yomipop/internal/log"
	"yomipop/internal/popup"
	"yomipop/internal/ui"
	"yomipop/internal/version"
)

// GlobalOptions apply to every command.
type GlobalOptions struct {
	Config   string `short:"c" long:"config" description:"config file (default ~/.config/yomipop/config.yaml)"`
	LogLevel string `long:"log-level" description:"override logging level (debug, info, warn, error)"`
	Upward   bool   `long:"upward" description:"lay definitions out bottom-up"`
}

type bundleArgs struct {
	Bundle string `positional-arg-name:"bundle" required:"yes"`
}

type lookupArgs struct {
	Bundle  string `positional-arg-name:"bundle" required:"yes"`
	Surface string `positional-arg-name:"surface" required:"yes"`
}

var (
	globals GlobalOptions
	stdout  io.Writer = os.Stdout
)

// crashSess is filled in by the running command for crash reports.
var crashSess = &crash.Session{}

func loadConfig() (config.AppConfig, error) {
	var (
		cfg config.AppConfig
		err error
	)
	if globals.Config != "" {
		cfg, err = config.LoadFile(globals.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	if globals.Upward {
		cfg.Popup.UpwardLayout = true
	}
	return cfg, nil
}

func openSession(path, surface string) (*ui.Session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	s, err := ui.Load(context.Background(), path, cfg)
	if err != nil {
		return nil, err
	}
	crashSess.Bundle, crashSess.Popup = path, s.Text
	if surface != "" {
		if err := s.OpenSurface(surface); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

type versionCmd struct{}

func (c *versionCmd) Execute([]string) error {
	fmt.Fprintln(stdout, "yomipop", version.String())
	return nil
}

type rankCmd struct {
	Args bundleArgs `positional-args:"yes"`
}

// Execute prints every lookup with its definitions best first, each with
// the signals behind its score.
func (c *rankCmd) Execute([]string) error {
	s, err := openSession(c.Args.Bundle, "")
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	for i, surface := range s.Surfaces() {
		if err := s.Open(i); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\n", surface)
		for j, e := range s.Entries() {
			in := popup.ScoreInput{Form: e.Def.Form(), Def: e.Def.Definition(), Preferred: s.Prefs.IsPreferred(e.Def.Definition())}
			terms := make([]string, 0, 4)
			for _, t := range popup.Breakdown(in) {
				terms = append(terms, fmt.Sprintf("%s%+d", t.Name, t.Value))
			}
			fmt.Fprintf(stdout, "  %d. %-12s %6d  %s\n", j+1, e.Def.Definition().Key(), popup.Score(in), strings.Join(terms, " "))
		}
	}
	return nil
}

type renderCmd struct {
	Output string     `short:"o" long:"output" required:"yes" description:"PNG file to write"`
	Scroll int        `long:"scroll" description:"lines to scroll the selected definition"`
	Select int        `long:"select" description:"index of the definition to select"`
	Args   lookupArgs `positional-args:"yes"`
}

func (c *renderCmd) Execute([]string) error {
	s, err := openSession(c.Args.Bundle, c.Args.Surface)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	s.SelectNext(c.Select)
	s.Scroll(c.Scroll)
	out := s.Render()
	if err := export.WritePNG(c.Output, out.Img); err != nil {
		return err
	}
	b := out.Img.Bounds()
	fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", c.Output, b.Dx(), b.Dy())
	return nil
}

type captureCmd struct {
	Y    int        `short:"y" long:"row" default:"-1" description:"image row to capture; all fields when negative"`
	Copy bool       `long:"copy" description:"copy the captured text to the system clipboard"`
	Args lookupArgs `positional-args:"yes"`
}

func (c *captureCmd) Execute([]string) error {
	s, err := openSession(c.Args.Bundle, c.Args.Surface)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	var text string
	if c.Y >= 0 {
		text = s.CaptureAt(c.Y)
	} else {
		text = s.Text()
	}
	if text == "" {
		return errors.New("nothing captured at that row")
	}
	fmt.Fprintln(stdout, text)
	if c.Copy {
		if err := clipboard.WriteAll(text); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
	}
	return nil
}

type sheetCmd struct {
	Output string     `short:"o" long:"output" required:"yes" description:"PDF file to write"`
	Font   string     `long:"font" description:"TTF with Japanese glyphs (defaults to the popup font)"`
	Title  string     `long:"title" description:"sheet title"`
	Args   bundleArgs `positional-args:"yes"`
}

// Execute writes every lookup of the bundle, ranked, to a PDF sheet.
func (c *sheetCmd) Execute([]string) error {
	s, err := openSession(c.Args.Bundle, "")
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	var items []export.SheetItem
	for i, surface := range s.Surfaces() {
		if err := s.Open(i); err != nil {
			return err
		}
		item := export.SheetItem{Title: surface}
		for _, e := range s.Entries() {
			item.Defs = append(item.Defs, e.Def)
		}
		items = append(items, item)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	font := c.Font
	if font == "" {
		font = cfg.Popup.FontPath
	}
	title := c.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(c.Args.Bundle), filepath.Ext(c.Args.Bundle))
	}
	opts := export.PDFOptions{Title: title, FontPath: font, FontSize: float64(cfg.Popup.FontSizePt)}
	if err := export.WritePDF(c.Output, items, s.Renderer, opts); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%d words)\n", c.Output, len(items))
	return nil
}

type preferCmd struct {
	Index int        `short:"i" long:"index" description:"ranked index of the definition to toggle"`
	Args  lookupArgs `positional-args:"yes"`
}

func (c *preferCmd) Execute([]string) error {
	s, err := openSession(c.Args.Bundle, c.Args.Surface)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	if c.Index < 0 || c.Index >= len(s.Entries()) {
		return fmt.Errorf("index %d out of range (have %d)", c.Index, len(s.Entries()))
	}
	s.SelectNext(c.Index)
	key := s.Entries()[s.Selected()].Def.Definition().Key()
	on, err := s.TogglePreferred(context.Background())
	if err != nil {
		return err
	}
	state := "no longer preferred"
	if on {
		state = "preferred"
	}
	fmt.Fprintf(stdout, "%s is %s\n", key, state)
	return nil
}

type uiCmd struct {
	Args bundleArgs `positional-args:"yes"`
}

func (c *uiCmd) Execute([]string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	crashSess.Bundle = c.Args.Bundle
	return ui.Run(ui.Options{Bundle: c.Args.Bundle, Config: cfg})
}

func newParser() *flags.Parser {
	p := flags.NewParser(&globals, flags.HelpFlag|flags.PassDoubleDash)
	p.Name = "yomipop"
	p.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if globals.LogLevel != "" {
			applog.SetLevel(globals.LogLevel)
		}
		return cmd.Execute(args)
	}
	_, _ = p.AddCommand("version", "Show version", "", &versionCmd{})
	_, _ = p.AddCommand("rank", "Print ranked definitions with score breakdowns", "", &rankCmd{})
	_, _ = p.AddCommand("render", "Render a word's popup to PNG", "", &renderCmd{})
	_, _ = p.AddCommand("capture", "Print the field under an image row", "", &captureCmd{})
	_, _ = p.AddCommand("sheet", "Write a PDF vocabulary sheet", "", &sheetCmd{})
	_, _ = p.AddCommand("prefer", "Toggle a definition's preferred flag", "", &preferCmd{})
	_, _ = p.AddCommand("ui", "Launch desktop UI (build with -tags fyne for full UI)", "", &uiCmd{})
	return p
}

func run(args []string) int {
	globals = GlobalOptions{}
	p := newParser()
	if _, err := p.ParseArgs(args); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return 0
		}
		applog.WithComponent("cli").Error("command failed", slog.Any("err", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		if fe != nil {
			return 2
		}
		return 1
	}
	return 0
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	applog.Init(applog.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, AddSource: cfg.Logging.Source, File: cfg.Logging.File})
	l := applog.WithComponent("cli")
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
	}
	reportDir := ""
	if p, err := config.ConfigPath(); err == nil {
		reportDir = filepath.Join(filepath.Dir(p), "crash")
	}
	crashSess.ReportDir = reportDir
	defer crash.Recover(crashSess)

	l.Debug("start", slog.Int("args", len(os.Args)))
	code := run(os.Args[1:])
	if code != 0 {
		os.Exit(code)
	}
}
