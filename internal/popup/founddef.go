/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package popup ranks and renders dictionary definitions found for a word in
// the text being read.
//
// A FoundDef pairs the word form as it was found with one candidate
// definition. Ranker orders competing FoundDefs so the likeliest definition
// comes first, and Renderer lays a FoundDef's text out as wrapped lines on a
// Surface. Everything that changes between repaints (scroll offset, capture
// point, captured text) lives in a RenderState owned by the caller.
package popup

import "yomipop/internal/domain"

// FoundDef is one candidate definition for a found word. It is immutable.
type FoundDef struct {
	form domain.WordForm
	def  *domain.Definition
}

func New(form domain.WordForm, def *domain.Definition) *FoundDef {
	return &FoundDef{form: form, def: def}
}

func (f *FoundDef) Form() domain.WordForm          { return f.form }
func (f *FoundDef) Definition() *domain.Definition { return f.def }
func (f *FoundDef) Furigana() string               { return f.def.Furigana }

// DictForm returns the dictionary word the found text was matched to.
func (f *FoundDef) DictForm() string { return f.form.Word }

func (f *FoundDef) String() string { return f.form.String() + ": " + f.def.String() }
