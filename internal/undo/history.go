/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package undo keeps the history of preferred-definition toggles so they can
// be undone and redone within a session.
package undo

import (
	"sync"
	"time"

	"yomipop/internal/domain"
)

// Change records one toggle. On is the preferred state after the toggle.
type Change struct {
	Def *domain.Definition
	On  bool
	TS  time.Time
}

// Config controls depth and coalescing.
type Config struct {
	// MaxDepth limits the undo stack; the oldest changes are dropped first.
	MaxDepth int
	// MinInterval: a toggle of the same definition within the interval of
	// the previous one cancels it instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager is an undo/redo stack of toggles. It is safe for concurrent use.
type Manager struct {
	cfg  Config
	mu   sync.Mutex
	undo []Change
	redo []Change
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 100
	}
	return &Manager{cfg: cfg}
}

// Push records a toggle and clears the redo stack.
func (m *Manager) Push(c Change) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = nil
	if n := len(m.undo); n > 0 && m.cfg.MinInterval > 0 {
		last := m.undo[n-1]
		if last.Def.Key() == c.Def.Key() && last.On != c.On && c.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.undo = m.undo[:n-1]
			return
		}
	}
	m.undo = append(m.undo, c)
	if over := len(m.undo) - m.cfg.MaxDepth; over > 0 {
		m.undo = append([]Change(nil), m.undo[over:]...)
	}
}

// Undo pops the latest change and moves it to the redo stack.
func (m *Manager) Undo() (Change, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.undo)
	if n == 0 {
		return Change{}, false
	}
	c := m.undo[n-1]
	m.undo = m.undo[:n-1]
	m.redo = append(m.redo, c)
	return c, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo() (Change, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.redo)
	if n == 0 {
		return Change{}, false
	}
	c := m.redo[n-1]
	m.redo = m.redo[:n-1]
	m.undo = append(m.undo, c)
	return c, true
}

// Stats returns the stack depths for diagnostics.
func (m *Manager) Stats() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}
