/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package prefs remembers which definitions the user pinned as preferred.
package prefs

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"yomipop/internal/config"
	"yomipop/internal/domain"
	applog "yomipop/internal/log"
)

// Store persists preferred definition keys.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Put(ctx context.Context, key string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Registry is the in-memory set of preferred definitions, written through to
// a Store. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	keys  map[string]struct{}
	store Store
	log   *slog.Logger
}

// NewRegistry loads the current set from store.
func NewRegistry(ctx context.Context, store Store) (*Registry, error) {
	keys, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load preferred definitions: %w", err)
	}
	r := &Registry{keys: make(map[string]struct{}, len(keys)), store: store, log: applog.WithComponent("prefs")}
	for _, k := range keys {
		r.keys[k] = struct{}{}
	}
	return r, nil
}

// IsPreferred implements popup.Preferences.
func (r *Registry) IsPreferred(def *domain.Definition) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.keys[def.Key()]
	return ok
}

// SetPreferred pins or unpins def. The in-memory set only changes when the
// store accepted the change.
func (r *Registry) SetPreferred(ctx context.Context, def *domain.Definition, on bool) error {
	key := def.Key()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[key]; ok == on {
		return nil
	}
	if on {
		if err := r.store.Put(ctx, key); err != nil {
			return fmt.Errorf("store preferred %q: %w", key, err)
		}
		r.keys[key] = struct{}{}
	} else {
		if err := r.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("remove preferred %q: %w", key, err)
		}
		delete(r.keys, key)
	}
	r.log.DebugContext(ctx, "preferred changed", slog.String("key", key), slog.Bool("on", on))
	return nil
}

// Toggle flips def's flag and returns the new value.
func (r *Registry) Toggle(ctx context.Context, def *domain.Definition) (bool, error) {
	on := !r.IsPreferred(def)
	if err := r.SetPreferred(ctx, def, on); err != nil {
		return !on, err
	}
	return on, nil
}

// Keys returns the preferred keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.keys))
	for k := range r.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Close() error { return r.store.Close() }

// MemoryStore keeps keys for the lifetime of the process.
type MemoryStore struct {
	mu   sync.Mutex
	keys []string
}

func (m *MemoryStore) Load(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.keys), nil
}

func (m *MemoryStore) Put(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.keys, key) {
		m.keys = append(m.keys, key)
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Open builds the store selected by cfg.Prefs and loads a registry from it.
func Open(ctx context.Context, cfg config.AppConfig) (*Registry, error) {
	var (
		st  Store
		err error
	)
	switch cfg.Prefs.Driver {
	case "", "sqlite":
		path, perr := cfg.PrefsPath()
		if perr != nil {
			return nil, perr
		}
		st, err = OpenSQLite(ctx, path)
	case "postgres":
		st, err = OpenPostgres(ctx, cfg.Prefs.DSN)
	case "memory":
		st = &MemoryStore{}
	default:
		return nil, fmt.Errorf("unknown prefs driver %q", cfg.Prefs.Driver)
	}
	if err != nil {
		return nil, err
	}
	reg, err := NewRegistry(ctx, st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return reg, nil
}
