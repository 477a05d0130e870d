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
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"yomipop/internal/popup"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

// ColorsConfig holds popup colors as #rrggbb or #rrggbbaa strings.
type ColorsConfig struct {
	Reading    string `yaml:"reading"`
	Tag        string `yaml:"tag"`
	Kanji      string `yaml:"kanji"`
	Meaning    string `yaml:"meaning"`
	Background string `yaml:"background"`
}

type PopupConfig struct {
	UpwardLayout bool         `yaml:"upward_layout"`
	ShowAllKanji bool         `yaml:"show_all_kanji"`
	Width        int          `yaml:"width"`
	FontPath     string       `yaml:"font_path"`
	FontSizePt   float64      `yaml:"font_size_pt"`
	Colors       ColorsConfig `yaml:"colors"`
}

// PrefsConfig selects where preferred definitions are kept.
type PrefsConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "postgres" | "memory"
	Path   string `yaml:"path"`   // sqlite file; empty means next to the config file
	DSN    string `yaml:"dsn"`    // postgres connection string
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Popup         PopupConfig   `yaml:"popup"`
	Prefs         PrefsConfig   `yaml:"prefs"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Popup: PopupConfig{
			Width:      320,
			FontSizePt: 12,
			Colors: ColorsConfig{
				Reading:    "#9fd3ff",
				Tag:        "#b0b0b0",
				Kanji:      "#ffd080",
				Meaning:    "#ffffff",
				Background: "#202030e0",
			},
		},
		Prefs:   PrefsConfig{Driver: "sqlite"},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvPopupUpward  = "YP_POPUP_UPWARD"
	EnvShowAllKanji = "YP_SHOW_ALL_KANJI"
	EnvPopupWidth   = "YP_POPUP_WIDTH"
	EnvFontPath     = "YP_FONT_PATH"
	EnvFontSize     = "YP_FONT_SIZE"
	EnvPrefsDriver  = "YP_PREFS_DRIVER"
	EnvPrefsPath    = "YP_PREFS_PATH"
	EnvPrefsDSN     = "YP_PG_DSN"
	EnvLogLevel     = "YP_LOG_LEVEL"
	EnvLogFormat    = "YP_LOG_FORMAT"
	EnvLogSource    = "YP_LOG_SOURCE"
	EnvLogFile      = "YP_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Yomipop")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Yomipop")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "yomipop")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit file. A missing file yields the defaults.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.Popup.UpwardLayout = src.Popup.UpwardLayout
	dst.Popup.ShowAllKanji = src.Popup.ShowAllKanji
	if src.Popup.Width > 0 {
		dst.Popup.Width = src.Popup.Width
	}
	if strings.TrimSpace(src.Popup.FontPath) != "" {
		dst.Popup.FontPath = strings.TrimSpace(src.Popup.FontPath)
	}
	if src.Popup.FontSizePt > 0 {
		dst.Popup.FontSizePt = src.Popup.FontSizePt
	}
	mergeColor(&dst.Popup.Colors.Reading, src.Popup.Colors.Reading)
	mergeColor(&dst.Popup.Colors.Tag, src.Popup.Colors.Tag)
	mergeColor(&dst.Popup.Colors.Kanji, src.Popup.Colors.Kanji)
	mergeColor(&dst.Popup.Colors.Meaning, src.Popup.Colors.Meaning)
	mergeColor(&dst.Popup.Colors.Background, src.Popup.Colors.Background)
	// prefs
	if strings.TrimSpace(src.Prefs.Driver) != "" {
		dst.Prefs.Driver = strings.ToLower(strings.TrimSpace(src.Prefs.Driver))
	}
	if strings.TrimSpace(src.Prefs.Path) != "" {
		dst.Prefs.Path = strings.TrimSpace(src.Prefs.Path)
	}
	if strings.TrimSpace(src.Prefs.DSN) != "" {
		dst.Prefs.DSN = strings.TrimSpace(src.Prefs.DSN)
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func mergeColor(dst *string, src string) {
	if v := strings.TrimSpace(src); v != "" {
		*dst = v
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvPopupUpward)); v != "" {
		cfg.Popup.UpwardLayout = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvShowAllKanji)); v != "" {
		cfg.Popup.ShowAllKanji = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvPopupWidth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Popup.Width = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontPath)); v != "" {
		cfg.Popup.FontPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontSize)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Popup.FontSizePt = f
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvPrefsDriver)); v != "" {
		cfg.Prefs.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvPrefsPath)); v != "" {
		cfg.Prefs.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPrefsDSN)); v != "" {
		cfg.Prefs.DSN = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envByKey = map[string]string{
	"popup.upward_layout":  EnvPopupUpward,
	"popup.show_all_kanji": EnvShowAllKanji,
	"popup.width":          EnvPopupWidth,
	"popup.font_path":      EnvFontPath,
	"popup.font_size_pt":   EnvFontSize,
	"prefs.driver":         EnvPrefsDriver,
	"prefs.path":           EnvPrefsPath,
	"prefs.dsn":            EnvPrefsDSN,
	"logging.level":        EnvLogLevel,
	"logging.format":       EnvLogFormat,
	"logging.source":       EnvLogSource,
	"logging.file":         EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	env, ok := envByKey[key]
	if !ok || os.Getenv(env) == "" {
		return "", false
	}
	return env, true
}

// PrefsPath resolves the sqlite file for preferred definitions.
func (c AppConfig) PrefsPath() (string, error) {
	if c.Prefs.Path != "" {
		return c.Prefs.Path, nil
	}
	p, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(p), "prefs.sqlite"), nil
}

// ParseColor accepts #rrggbb and #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: bad alpha", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// PopupOptions converts the popup section into renderer options.
func (c AppConfig) PopupOptions() (popup.Options, error) {
	opts := popup.Options{
		UpwardLayout: c.Popup.UpwardLayout,
		ShowAllKanji: c.Popup.ShowAllKanji,
	}
	fields := []struct {
		name string
		hex  string
		dst  *color.Color
	}{
		{"reading", c.Popup.Colors.Reading, &opts.Colors.Reading},
		{"tag", c.Popup.Colors.Tag, &opts.Colors.Tag},
		{"kanji", c.Popup.Colors.Kanji, &opts.Colors.Kanji},
		{"meaning", c.Popup.Colors.Meaning, &opts.Colors.Meaning},
		{"background", c.Popup.Colors.Background, &opts.Colors.Background},
	}
	for _, f := range fields {
		if f.hex == "" {
			continue
		}
		col, err := ParseColor(f.hex)
		if err != nil {
			return opts, fmt.Errorf("popup.colors.%s: %w", f.name, err)
		}
		*f.dst = col
	}
	return opts, nil
}
