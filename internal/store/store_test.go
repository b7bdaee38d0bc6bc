package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/recipegrid/internal/config"
)

// backendCase opens a fresh backend for one test.
type backendCase struct {
	name string
	open func(t *testing.T) Backend
}

func backends() []backendCase {
	cases := []backendCase{
		{"memory", func(t *testing.T) Backend { return NewMemory() }},
		{"bolt", func(t *testing.T) Backend {
			b, err := OpenBolt(filepath.Join(t.TempDir(), "edits.db"))
			if err != nil {
				t.Fatalf("OpenBolt() error = %v", err)
			}
			return b
		}},
		{"sqlite", func(t *testing.T) Backend {
			s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "edits.sqlite"))
			if err != nil {
				t.Fatalf("OpenSQLite() error = %v", err)
			}
			return s
		}},
	}

	// Postgres runs only against a real database.
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		cases = append(cases, backendCase{"postgres", func(t *testing.T) Backend {
			p, err := OpenPostgres(context.Background(), config.DatabaseConfig{URL: url, MaxConns: 2})
			if err != nil {
				t.Fatalf("OpenPostgres() error = %v", err)
			}
			t.Cleanup(func() { p.Remove(context.Background(), "dataStored") })
			return p
		}})
	}
	return cases
}

func TestBackend_GetSetRemove(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			b := bc.open(t)
			defer b.Close()
			ctx := context.Background()

			if _, found, err := b.Get(ctx, "dataStored"); err != nil || found {
				t.Fatalf("Get(empty) = found %v, err %v; want not found", found, err)
			}

			const first = `[{"name":"A","label":"L1","price":5,"description":"d1"}]`
			if err := b.Set(ctx, "dataStored", first); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, found, err := b.Get(ctx, "dataStored")
			if err != nil || !found || got != first {
				t.Fatalf("Get() = %q, %v, %v; want %q", got, found, err, first)
			}

			const second = `[]`
			if err := b.Set(ctx, "dataStored", second); err != nil {
				t.Fatalf("Set(overwrite) error = %v", err)
			}
			if got, _, _ := b.Get(ctx, "dataStored"); got != second {
				t.Errorf("Get() after overwrite = %q, want %q", got, second)
			}

			if err := b.Remove(ctx, "dataStored"); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if _, found, _ := b.Get(ctx, "dataStored"); found {
				t.Error("Get() after Remove found a value")
			}

			// Removing again is not an error.
			if err := b.Remove(ctx, "dataStored"); err != nil {
				t.Errorf("second Remove() error = %v", err)
			}
		})
	}
}

func TestBackend_KeysAreIndependent(t *testing.T) {
	for _, bc := range backends() {
		t.Run(bc.name, func(t *testing.T) {
			b := bc.open(t)
			defer b.Close()
			ctx := context.Background()

			if err := b.Set(ctx, "a", "1"); err != nil {
				t.Fatal(err)
			}
			if err := b.Set(ctx, "b", "2"); err != nil {
				t.Fatal(err)
			}
			if err := b.Remove(ctx, "a"); err != nil {
				t.Fatal(err)
			}
			if v, found, _ := b.Get(ctx, "b"); !found || v != "2" {
				t.Errorf("Get(b) = %q, %v; want %q", v, found, "2")
			}
			t.Cleanup(func() { b.Remove(context.Background(), "b") })
		})
	}
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "edits.db")
	ctx := context.Background()

	b, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt() error = %v", err)
	}
	if err := b.Set(ctx, "dataStored", "[1]"); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}

	b, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer b.Close()

	if v, found, err := b.Get(ctx, "dataStored"); err != nil || !found || v != "[1]" {
		t.Errorf("Get() after reopen = %q, %v, %v", v, found, err)
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.Set(ctx, "k", "v"); err == nil {
		t.Error("Set() with cancelled context succeeded")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.StoreConfig
		wantErr bool
	}{
		{"memory", config.StoreConfig{Backend: "memory"}, false},
		{"bolt", config.StoreConfig{Backend: "bolt", Path: filepath.Join(dir, "a.db")}, false},
		{"sqlite upper case", config.StoreConfig{Backend: "SQLITE", Path: filepath.Join(dir, "b.sqlite")}, false},
		{"unknown", config.StoreConfig{Backend: "redis"}, true},
		{"postgres bad url", config.StoreConfig{Backend: "postgres"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(ctx, tt.cfg, config.DatabaseConfig{URL: "postgres://localhost:notaport/db"})
			if tt.wantErr {
				if err == nil {
					t.Fatal("Open() error = nil, want error")
				}
				if b != nil {
					t.Errorf("Open() returned backend %T alongside error", b)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			b.Close()
		})
	}
}
