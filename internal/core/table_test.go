package core

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleRecords() []Record {
	return []Record{
		{Name: "A", Label: "L1", Price: 5, Description: "d1"},
		{Name: "B", Label: "L2", Price: 3, Description: "d2"},
		{Name: "C", Label: "L3", Price: 8, Description: "d3"},
	}
}

func TestNewTable_FromFetched(t *testing.T) {
	fetched := sampleRecords()
	table, err := NewTable(fetched, nil)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	if diff := cmp.Diff(fetched, table.Working()); diff != "" {
		t.Errorf("working mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fetched, table.Fetched()); diff != "" {
		t.Errorf("fetched mismatch (-want +got):\n%s", diff)
	}
	if table.Shadowed() {
		t.Error("Shadowed() = true with no persisted snapshot")
	}

	// The table must not alias the caller's slice.
	fetched[0].Price = 100
	if r, _ := table.Record(0); r.Price != 5 {
		t.Errorf("Record(0).Price = %v after caller mutation, want 5", r.Price)
	}
}

func TestNewTable_PersistedBecomesWorking(t *testing.T) {
	fetched := sampleRecords()
	persisted := sampleRecords()
	persisted[1].Price = 99

	table, err := NewTable(fetched, persisted)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}

	if diff := cmp.Diff(persisted, table.Working()); diff != "" {
		t.Errorf("working mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(fetched, table.Fetched()); diff != "" {
		t.Errorf("fetched mismatch (-want +got):\n%s", diff)
	}
	if !table.Shadowed() {
		t.Error("Shadowed() = false with a persisted snapshot")
	}
}

func TestNewTable_LengthMismatch(t *testing.T) {
	_, err := NewTable(sampleRecords(), sampleRecords()[:1])
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("NewTable() error = %v, want ErrCorruptSnapshot", err)
	}
}

func TestTable_UpdateField(t *testing.T) {
	for i := range sampleRecords() {
		table, _ := NewTable(sampleRecords(), nil)

		updated, err := table.UpdateField(i, FieldPrice, "42.5")
		if err != nil || !updated {
			t.Fatalf("UpdateField(%d) = %v, %v; want true, nil", i, updated, err)
		}

		want := sampleRecords()
		want[i].Price = 42.5
		if diff := cmp.Diff(want, table.Working()); diff != "" {
			t.Errorf("position %d: working mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(sampleRecords(), table.Fetched()); diff != "" {
			t.Errorf("position %d: fetched snapshot changed:\n%s", i, diff)
		}
	}
}

func TestTable_UpdateFieldOutOfRange(t *testing.T) {
	for _, pos := range []int{-1, 3, 100} {
		table, _ := NewTable(sampleRecords(), nil)

		updated, err := table.UpdateField(pos, FieldPrice, "1")
		if err != nil || updated {
			t.Errorf("UpdateField(%d) = %v, %v; want false, nil", pos, updated, err)
		}
		if diff := cmp.Diff(sampleRecords(), table.Working()); diff != "" {
			t.Errorf("UpdateField(%d) changed working set:\n%s", pos, diff)
		}
	}
}

func TestTable_UpdateFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		value   string
		wantErr error
	}{
		{"unknown field", "calories", "1", ErrUnknownField},
		{"read-only name", FieldName, "Z", ErrNotEditable},
		{"read-only label", FieldLabel, "Z", ErrNotEditable},
		{"read-only description", FieldDescription, "Z", ErrNotEditable},
		{"not a number", FieldPrice, "abc", ErrInvalidNumber},
		{"empty", FieldPrice, "", ErrInvalidNumber},
		{"nan", FieldPrice, "NaN", ErrInvalidNumber},
		{"infinity", FieldPrice, "+Inf", ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, _ := NewTable(sampleRecords(), nil)
			_, err := table.UpdateField(0, tt.field, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateField() error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(sampleRecords(), table.Working()); diff != "" {
				t.Errorf("failed update changed working set:\n%s", diff)
			}
		})
	}
}

func TestTable_EffectiveDataPrecedence(t *testing.T) {
	table, _ := NewTable(sampleRecords(), nil)

	table.UpdateField(0, FieldPrice, "10")
	if got := table.EffectiveData()[0].Price; got != 10 {
		t.Fatalf("before submit, effective price = %v, want 10", got)
	}

	table.MarkPersisted(table.Working())
	table.UpdateField(0, FieldPrice, "20")

	// The persisted copy shadows the later edit...
	if got := table.EffectiveData()[0].Price; got != 10 {
		t.Errorf("after submit, effective price = %v, want persisted 10", got)
	}
	// ...which still lives in the working set.
	if got := table.Working()[0].Price; got != 20 {
		t.Errorf("working price = %v, want 20", got)
	}
}

func TestTable_Reset(t *testing.T) {
	table, _ := NewTable(sampleRecords(), nil)
	table.UpdateField(0, FieldPrice, "1")
	table.UpdateField(2, FieldPrice, "2")
	table.MarkPersisted(table.Working())

	table.Reset()

	if diff := cmp.Diff(sampleRecords(), table.Working()); diff != "" {
		t.Errorf("working after reset (-want +got):\n%s", diff)
	}
	if table.Persisted() != nil {
		t.Errorf("Persisted() = %v after reset, want nil", table.Persisted())
	}

	// Reset hands out an independent copy of the fetched snapshot.
	table.UpdateField(0, FieldPrice, "7")
	if got := table.Fetched()[0].Price; got != 5 {
		t.Errorf("fetched price = %v after post-reset edit, want 5", got)
	}
}

func TestTable_EarlierSlicesUnaffectedByEdits(t *testing.T) {
	table, _ := NewTable(sampleRecords(), nil)
	before := table.EffectiveData()

	table.UpdateField(1, FieldPrice, "77")

	if before[1].Price != 3 {
		t.Errorf("previously returned slice changed to %v", before[1].Price)
	}
}
