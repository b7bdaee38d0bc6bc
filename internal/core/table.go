package core

import (
	"fmt"
	"slices"
)

// Table holds the three copies of the record set.
//
//   - fetched: the records as first loaded from the source; read only.
//   - working: the records being edited.
//   - persisted: the last submitted working set, empty when nothing has
//     been submitted or after a reset.
//
// working and fetched always have the same length. Table is not safe for
// concurrent use; Service serializes access.
type Table struct {
	fetched   []Record
	working   []Record
	persisted []Record
}

// NewTable builds a table from freshly fetched records and an optional
// persisted snapshot. A non-empty snapshot becomes the initial working set;
// it must have the same length as fetched.
func NewTable(fetched, persisted []Record) (*Table, error) {
	t := &Table{fetched: slices.Clone(fetched)}

	if len(persisted) == 0 {
		t.working = slices.Clone(fetched)
		return t, nil
	}

	if len(persisted) != len(fetched) {
		return nil, fmt.Errorf("%w: %d persisted records, %d fetched",
			ErrCorruptSnapshot, len(persisted), len(fetched))
	}

	t.working = slices.Clone(persisted)
	t.persisted = slices.Clone(persisted)
	return t, nil
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.working)
}

// Record returns the working record at position.
func (t *Table) Record(position int) (Record, bool) {
	if position < 0 || position >= len(t.working) {
		return Record{}, false
	}
	return t.working[position], true
}

// UpdateField replaces the working record at position with a copy whose
// field holds value. An out-of-range position is a no-op and reports false
// with no error.
func (t *Table) UpdateField(position int, field Field, value string) (bool, error) {
	col, ok := ColumnFor(field)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	if !col.Editable {
		return false, fmt.Errorf("%w: %q", ErrNotEditable, field)
	}

	if position < 0 || position >= len(t.working) {
		return false, nil
	}

	updated, err := t.working[position].With(field, value)
	if err != nil {
		return false, err
	}

	// Replace rather than mutate in place so slices handed out earlier
	// keep their contents.
	next := slices.Clone(t.working)
	next[position] = updated
	t.working = next
	return true, nil
}

// EffectiveData returns what the view renders: the persisted snapshot when
// one exists, otherwise the working set.
//
// Once a submit has happened the persisted snapshot shadows any later edits
// until Reset clears it.
func (t *Table) EffectiveData() []Record {
	if len(t.persisted) > 0 {
		return slices.Clone(t.persisted)
	}
	return slices.Clone(t.working)
}

// Shadowed reports whether EffectiveData is serving the persisted snapshot.
func (t *Table) Shadowed() bool {
	return len(t.persisted) > 0
}

// Working returns a copy of the working set.
func (t *Table) Working() []Record {
	return slices.Clone(t.working)
}

// Fetched returns a copy of the fetched snapshot.
func (t *Table) Fetched() []Record {
	return slices.Clone(t.fetched)
}

// Persisted returns a copy of the persisted snapshot, nil when absent.
func (t *Table) Persisted() []Record {
	return slices.Clone(t.persisted)
}

// Reset restores the working set from the fetched snapshot and forgets the
// persisted snapshot.
func (t *Table) Reset() {
	t.working = slices.Clone(t.fetched)
	t.persisted = nil
}

// MarkPersisted records snapshot as the persisted copy.
func (t *Table) MarkPersisted(snapshot []Record) {
	t.persisted = slices.Clone(snapshot)
}
