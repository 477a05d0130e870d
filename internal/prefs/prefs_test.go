/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package prefs

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"yomipop/internal/config"
	"yomipop/internal/domain"
)

type failingStore struct{ MemoryStore }

func (f *failingStore) Put(context.Context, string) error { return errors.New("disk full") }

func TestRegistryToggle(t *testing.T) {
	ctx := context.Background()
	reg, err := NewRegistry(ctx, &MemoryStore{})
	if err != nil {
		t.Fatal(err)
	}
	def := &domain.Definition{ID: "neko-1"}
	if reg.IsPreferred(def) {
		t.Fatal("fresh registry reports preferred")
	}
	on, err := reg.Toggle(ctx, def)
	if err != nil || !on || !reg.IsPreferred(def) {
		t.Fatalf("toggle on: on=%v err=%v", on, err)
	}
	on, err = reg.Toggle(ctx, def)
	if err != nil || on || reg.IsPreferred(def) {
		t.Fatalf("toggle off: on=%v err=%v", on, err)
	}
}

func TestRegistryKeepsStateWhenStoreFails(t *testing.T) {
	ctx := context.Background()
	reg, err := NewRegistry(ctx, &failingStore{})
	if err != nil {
		t.Fatal(err)
	}
	def := &domain.Definition{ID: "x"}
	if err := reg.SetPreferred(ctx, def, true); err == nil {
		t.Fatal("expected store error")
	}
	if reg.IsPreferred(def) {
		t.Fatal("registry changed although the store refused")
	}
}

func TestRegistryLoadsExistingKeys(t *testing.T) {
	ctx := context.Background()
	st := &MemoryStore{}
	_ = st.Put(ctx, "b")
	_ = st.Put(ctx, "a")
	reg, err := NewRegistry(ctx, st)
	if err != nil {
		t.Fatal(err)
	}
	if got := reg.Keys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("keys = %v", got)
	}
	if !reg.IsPreferred(&domain.Definition{ID: "a"}) {
		t.Fatal("loaded key not preferred")
	}
}

func TestRegistryConcurrentUse(t *testing.T) {
	ctx := context.Background()
	reg, err := NewRegistry(ctx, &MemoryStore{})
	if err != nil {
		t.Fatal(err)
	}
	defs := []*domain.Definition{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	var wg sync.WaitGroup
	for _, d := range defs {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = reg.SetPreferred(ctx, d, true)
		}()
		go func() {
			defer wg.Done()
			_ = reg.IsPreferred(d)
		}()
	}
	wg.Wait()
	if len(reg.Keys()) != len(defs) {
		t.Fatalf("keys = %v", reg.Keys())
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	cfg := config.Defaults()

	cfg.Prefs.Driver = "memory"
	reg, err := Open(ctx, cfg)
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	_ = reg.Close()

	cfg.Prefs.Driver = "sqlite"
	cfg.Prefs.Path = filepath.Join(t.TempDir(), "prefs.sqlite")
	reg, err = Open(ctx, cfg)
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	_ = reg.Close()

	cfg.Prefs.Driver = "postgres"
	cfg.Prefs.DSN = ""
	if _, err := Open(ctx, cfg); err == nil {
		t.Fatal("postgres without dsn should fail")
	}

	cfg.Prefs.Driver = "redis"
	if _, err := Open(ctx, cfg); err == nil {
		t.Fatal("unknown driver should fail")
	}
}
