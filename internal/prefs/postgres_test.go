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
	"os"
	"testing"
	"time"

	"yomipop/internal/domain"
)

// openPGForTest connects to YP_PG_DSN and skips when no database is reachable.
func openPGForTest(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("YP_PG_DSN")
	if dsn == "" {
		t.Skip("YP_PG_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := OpenPostgres(ctx, dsn)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	st := openPGForTest(t)
	ctx := context.Background()
	key := "pg-test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = st.Delete(context.Background(), key) })

	reg, err := NewRegistry(ctx, st)
	if err != nil {
		t.Fatal(err)
	}
	def := &domain.Definition{ID: key}
	if err := reg.SetPreferred(ctx, def, true); err != nil {
		t.Fatal(err)
	}
	if err := st.Put(ctx, key); err != nil {
		t.Fatalf("second put should be a no-op: %v", err)
	}
	keys, err := st.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := 0
	for _, k := range keys {
		if k == key {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("key stored %d times", found)
	}
	// Migrations are recorded and not re-applied.
	if err := applyMigrations(ctx, st.db); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}
}

func TestParseVersion(t *testing.T) {
	if v, err := parseVersion("migrations/0002_preferred_created_idx.sql"); err != nil || v != 2 {
		t.Fatalf("parseVersion = %d, %v", v, err)
	}
	if _, err := parseVersion("nope.sql"); err == nil {
		t.Fatal("expected error")
	}
}
