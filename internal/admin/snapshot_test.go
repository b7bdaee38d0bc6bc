package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/recipegrid/internal/core"
	"github.com/JonMunkholm/recipegrid/internal/store"
	"github.com/google/go-cmp/cmp"
)

func TestSnapshot_Read(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		stored    *string
		want      []core.Record
		wantFound bool
		wantErr   error
	}{
		{name: "missing", stored: nil},
		{name: "empty array", stored: ptr("[]"), want: []core.Record{}},
		{
			name:      "records",
			stored:    ptr(`[{"name":"A","label":"L1","price":"99","description":"d1"}]`),
			want:      []core.Record{{Name: "A", Label: "L1", Price: 99, Description: "d1"}},
			wantFound: true,
		},
		{name: "corrupt", stored: ptr("{not json"), wantErr: core.ErrCorruptSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemory()
			if tt.stored != nil {
				if err := st.Set(ctx, core.DefaultStoreKey, *tt.stored); err != nil {
					t.Fatal(err)
				}
			}
			snap := &Snapshot{Store: st, Key: core.DefaultStoreKey}

			got, found, err := snap.Read(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Read() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("records (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSnapshot_Clear(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	st.Set(ctx, "edits", "{corrupt")
	st.Set(ctx, "other", "[]")

	snap := &Snapshot{Store: st, Key: "edits"}
	if err := snap.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, found, _ := st.Get(ctx, "edits"); found {
		t.Error("snapshot still stored")
	}
	if _, found, _ := st.Get(ctx, "other"); !found {
		t.Error("Clear removed another key")
	}

	// Clearing twice is fine.
	if err := snap.Clear(ctx); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func ptr(s string) *string { return &s }
