/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package japanese classifies runes of Japanese text.
package japanese

import "unicode"

// IsKana reports whether r is hiragana or katakana, including half-width
// katakana and the prolonged sound mark ー.
func IsKana(r rune) bool {
	switch {
	case r == 'ー' || r == 'ｰ':
		return true
	case r >= 0xFF66 && r <= 0xFF9D: // half-width katakana
		return true
	}
	return unicode.In(r, unicode.Hiragana, unicode.Katakana)
}

// IsKanji reports whether r belongs to the Han script. That includes the
// iteration mark 々.
func IsKanji(r rune) bool { return unicode.Is(unicode.Han, r) }

// HasKana reports whether s contains at least one kana rune.
func HasKana(s string) bool {
	for _, r := range s {
		if IsKana(r) {
			return true
		}
	}
	return false
}

// HasKanji reports whether s contains at least one kanji rune.
func HasKanji(s string) bool {
	for _, r := range s {
		if IsKanji(r) {
			return true
		}
	}
	return false
}
