/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Popup.Width != 320 || cfg.Prefs.Driver != "sqlite" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestLoadFileMergesPopupSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
popup:
  upward_layout: true
  width: 480
  colors:
    meaning: "#ff0000"
prefs:
  driver: Postgres
  dsn: postgres://localhost/yp
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if !cfg.Popup.UpwardLayout || cfg.Popup.Width != 480 {
		t.Fatalf("popup not merged: %#v", cfg.Popup)
	}
	if cfg.Popup.Colors.Meaning != "#ff0000" || cfg.Popup.Colors.Tag != "#b0b0b0" {
		t.Fatalf("colors not merged: %#v", cfg.Popup.Colors)
	}
	if cfg.Popup.FontSizePt != 12 {
		t.Fatalf("font size default lost: %v", cfg.Popup.FontSizePt)
	}
	if cfg.Prefs.Driver != "postgres" || cfg.Prefs.DSN != "postgres://localhost/yp" {
		t.Fatalf("prefs not merged: %#v", cfg.Prefs)
	}
}

func TestLoadFileRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("popup: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/yp.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/yp.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvPopupUpward, "yes")
	t.Setenv(EnvPopupWidth, "200")
	t.Setenv(EnvFontSize, "not-a-number")
	t.Setenv(EnvPrefsDriver, "MEMORY")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogSource, "1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Popup.UpwardLayout || cfg.Popup.Width != 200 || cfg.Popup.FontSizePt != 12 {
		t.Fatalf("popup overrides wrong: %#v", cfg.Popup)
	}
	if cfg.Prefs.Driver != "memory" {
		t.Fatalf("prefs driver = %q", cfg.Prefs.Driver)
	}
	if cfg.Logging.Level != "error" || !cfg.Logging.Source {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
	if env, ok := EnvOverrideFor("popup.width"); !ok || env != EnvPopupWidth {
		t.Fatalf("EnvOverrideFor(popup.width) = %q %v", env, ok)
	}
	if _, ok := EnvOverrideFor("prefs.path"); ok {
		t.Fatal("prefs.path reported as overridden")
	}
	if _, ok := EnvOverrideFor("no.such.key"); ok {
		t.Fatal("unknown key reported as overridden")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := Defaults()
	cfg.Popup.ShowAllKanji = true
	cfg.Popup.FontPath = "/fonts/noto.otf"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !got.Popup.ShowAllKanji || got.Popup.FontPath != "/fonts/noto.otf" {
		t.Fatalf("saved popup section lost: %#v", got.Popup)
	}
}

func TestPrefsPathDefaultsNextToConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("AppData", home)
	cfg := Defaults()
	p, err := cfg.PrefsPath()
	if err != nil {
		t.Fatal(err)
	}
	cp, _ := ConfigPath()
	if filepath.Dir(p) != filepath.Dir(cp) || filepath.Base(p) != "prefs.sqlite" {
		t.Fatalf("PrefsPath = %q, config at %q", p, cp)
	}
	cfg.Prefs.Path = "/data/p.sqlite"
	if p, _ := cfg.PrefsPath(); p != "/data/p.sqlite" {
		t.Fatalf("explicit path ignored: %q", p)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#ff8000", color.NRGBA{R: 0xff, G: 0x80, A: 0xff}, true},
		{" #202030e0 ", color.NRGBA{R: 0x20, G: 0x20, B: 0x30, A: 0xe0}, true},
		{"#zzzzzz", color.NRGBA{}, false},
		{"#ff8000zz", color.NRGBA{}, false},
		{"red", color.NRGBA{}, false},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseColor(%q) err = %v, ok want %v", tc.in, err, tc.ok)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPopupOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Popup.ShowAllKanji = true
	opts, err := cfg.PopupOptions()
	if err != nil {
		t.Fatalf("PopupOptions() error: %v", err)
	}
	if !opts.ShowAllKanji || opts.UpwardLayout {
		t.Fatalf("flags not carried: %+v", opts)
	}
	if opts.Colors.Background != (color.NRGBA{R: 0x20, G: 0x20, B: 0x30, A: 0xe0}) {
		t.Fatalf("background = %v", opts.Colors.Background)
	}

	cfg.Popup.Colors.Kanji = "gold"
	if _, err := cfg.PopupOptions(); err == nil {
		t.Fatal("expected error for bad kanji color")
	}
}
