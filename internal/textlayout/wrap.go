/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"strings"
	"unicode"
)

// Wrap breaks text into lines no wider than maxWidth. Chunks from Stream are
// accumulated greedily; a chunk that does not fit starts the next line with
// its leading whitespace removed. A single chunk wider than maxWidth is kept
// whole on a line of its own. Lines never end in whitespace.
func Wrap(text string, maxWidth int, m Measurer) []string {
	var lines []string
	line := ""
	flush := func() {
		if l := strings.TrimRightFunc(line, unicode.IsSpace); l != "" {
			lines = append(lines, l)
		}
	}
	for st := NewStream(text); !st.Done(); {
		chunk := st.Next()
		if line != "" && m.StringWidth(line+chunk) > maxWidth {
			flush()
			line = strings.TrimLeftFunc(chunk, unicode.IsSpace)
			continue
		}
		line += chunk
	}
	flush()
	return lines
}
