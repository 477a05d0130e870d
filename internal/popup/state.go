/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package popup

// Capture point sentinels. Any other value is a pixel y coordinate.
const (
	CaptureOff = 0
	CaptureAll = -1
)

// RenderState is the per-popup view state of one FoundDef: how far it is
// scrolled and which text a render pass should capture. Lines is only
// meaningful after the first render.
type RenderState struct {
	lines        int
	startLine    int
	capturePoint int
	capture      string
}

// Lines is the number of wrapped lines produced by the last render pass.
func (s *RenderState) Lines() int { return s.lines }

// StartLine is the scroll offset in lines.
func (s *RenderState) StartLine() int { return s.startLine }

// ScrollDown moves the window one line further, keeping at least two lines
// in view. The offset never goes below zero.
func (s *RenderState) ScrollDown() {
	s.startLine = max(min(s.startLine+1, s.lines-2), 0)
}

func (s *RenderState) ScrollUp() {
	s.startLine = max(s.startLine-1, 0)
}

// SetCapturePoint arms the next render pass to capture the field drawn
// across pixel row pos, or every field for CaptureAll. It clears any
// previously captured text.
func (s *RenderState) SetCapturePoint(pos int) {
	s.capturePoint = pos
	s.capture = ""
}

// CapturePoint returns the armed capture point.
func (s *RenderState) CapturePoint() int { return s.capturePoint }

// Capture returns the text captured since the last SetCapturePoint, one
// field per line.
func (s *RenderState) Capture() string { return s.capture }

func (s *RenderState) appendCapture(text string) {
	if s.capture == "" {
		s.capture = text
		return
	}
	s.capture += "\n" + text
}

// hit reports whether a field drawn from cursor startY to cursor y covers the
// capture point. The two orientations use mirrored half-open spans, so a point
// on a field boundary belongs to exactly one field.
func (s *RenderState) hit(startY, y, height, descent int, upward bool) bool {
	p := s.capturePoint
	switch {
	case p == CaptureAll:
		return true
	case p == CaptureOff:
		return false
	case upward:
		return p <= startY-height+descent && p > y-height+descent
	default:
		return p > startY-height+descent && p <= y-height+descent
	}
}
