package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/recipegrid/internal/core"
	"github.com/JonMunkholm/recipegrid/internal/store"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSnapshotCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edits.db")
	t.Setenv("STORE_BACKEND", "bolt")
	t.Setenv("STORE_PATH", path)
	t.Setenv("STORE_KEY", core.DefaultStoreKey)
	t.Setenv("LOG_LEVEL", "error")

	ctx := context.Background()
	b, err := store.OpenBolt(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Set(ctx, core.DefaultStoreKey, `[{"name":"A","label":"L1","price":99,"description":"d1"}]`); err != nil {
		t.Fatal(err)
	}
	b.Close()

	out, err := execute(t, "snapshot", "show")
	if err != nil {
		t.Fatalf("snapshot show error = %v", err)
	}
	if !strings.Contains(out, `"name": "A"`) || !strings.Contains(out, `"price": 99`) {
		t.Errorf("snapshot show output = %s", out)
	}

	if _, err := execute(t, "snapshot", "clear"); err != nil {
		t.Fatalf("snapshot clear error = %v", err)
	}

	out, err = execute(t, "snapshot", "show")
	if err != nil {
		t.Fatalf("snapshot show after clear error = %v", err)
	}
	if !strings.Contains(out, "no submitted records") {
		t.Errorf("snapshot show after clear = %s", out)
	}
}

func TestSnapshotShow_InvalidConfig(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")

	if _, err := execute(t, "snapshot", "show"); err == nil {
		t.Error("snapshot show with unknown backend succeeded")
	}
}

func TestLogLoadFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     []string
		dontWant []string
	}{
		{
			name: "corrupt snapshot names the clear command",
			err:  fmt.Errorf("load records: %w", core.ErrCorruptSnapshot),
			want: []string{"code=STO001", "user_message=", "recipegrid snapshot clear"},
		},
		{
			name:     "unmapped error has no user message",
			err:      errors.New("boom"),
			want:     []string{"code=ERR000", "error=boom"},
			dontWant: []string{"user_message="},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logLoadFailure(slog.New(slog.NewTextHandler(&buf, nil)), tt.err)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("log missing %q: %s", w, out)
				}
			}
			for _, w := range tt.dontWant {
				if strings.Contains(out, w) {
					t.Errorf("log contains %q: %s", w, out)
				}
			}
		})
	}
}
