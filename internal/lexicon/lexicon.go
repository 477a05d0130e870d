/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package lexicon loads lookup bundles: found word forms, their candidate
// definitions and a kanji gloss table.
package lexicon

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"yomipop/internal/domain"
	applog "yomipop/internal/log"
	"yomipop/internal/popup"
)

//go:embed schema.json
var schemaJSON []byte

var schema = gojsonschema.NewBytesLoader(schemaJSON)

// ErrInvalid is wrapped by every schema violation.
var ErrInvalid = errors.New("invalid lookup bundle")

type bundleFile struct {
	Version int               `json:"version"`
	Kanji   map[string]string `json:"kanji"`
	Lookups []struct {
		Form        domain.WordForm `json:"form"`
		Definitions []defJSON       `json:"definitions"`
	} `json:"lookups"`
}

type defJSON struct {
	ID        string   `json:"id"`
	TagLine   string   `json:"tag_line"`
	Tags      []string `json:"tags"`
	Spellings []string `json:"spellings"`
	Meanings  []string `json:"meanings"`
	Furigana  string   `json:"furigana"`
	Source    string   `json:"source"`
}

func (d defJSON) definition() (*domain.Definition, error) {
	src, err := domain.ParseSource(d.Source)
	if err != nil {
		return nil, err
	}
	tags := make([]domain.Tag, len(d.Tags))
	for i, t := range d.Tags {
		tags[i] = domain.Tag(t)
	}
	return &domain.Definition{
		ID:        d.ID,
		TagLine:   d.TagLine,
		Tags:      domain.NewTagSet(tags...),
		Spellings: d.Spellings,
		Meanings:  d.Meanings,
		Furigana:  d.Furigana,
		Source:    src,
	}, nil
}

// Lookup is one found form with its candidate definitions in bundle order.
type Lookup struct {
	Form domain.WordForm
	Defs []*popup.FoundDef
}

// Bundle is a parsed lookup bundle.
type Bundle struct {
	Lookups []Lookup
	Kanji   KanjiTable
}

// Find returns the first lookup whose surface equals surface.
func (b *Bundle) Find(surface string) (Lookup, bool) {
	for _, l := range b.Lookups {
		if l.Form.Surface == surface {
			return l, true
		}
	}
	return Lookup{}, false
}

// Load reads and parses the bundle at path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	applog.WithComponent("lexicon").Debug("bundle loaded", "path", path, "lookups", len(b.Lookups), "kanji", len(b.Kanji))
	return b, nil
}

// Parse validates data against the bundle schema and decodes it.
func Parse(data []byte) (*Bundle, error) {
	res, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}

	var f bundleFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	b := &Bundle{Kanji: make(KanjiTable, len(f.Kanji))}
	for k, gloss := range f.Kanji {
		r := []rune(k)
		if len(r) != 1 {
			return nil, fmt.Errorf("%w: kanji key %q is not a single character", ErrInvalid, k)
		}
		b.Kanji[r[0]] = gloss
	}
	for i, l := range f.Lookups {
		lk := Lookup{Form: l.Form}
		for j, dj := range l.Definitions {
			def, err := dj.definition()
			if err != nil {
				return nil, fmt.Errorf("lookup %d definition %d: %w", i, j, err)
			}
			lk.Defs = append(lk.Defs, popup.New(l.Form, def))
		}
		b.Lookups = append(b.Lookups, lk)
	}
	return b, nil
}

// KanjiTable maps single kanji to a short gloss.
type KanjiTable map[rune]string

func (t KanjiTable) Gloss(r rune) (string, bool) {
	g, ok := t[r]
	return g, ok
}
