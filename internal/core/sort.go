package core

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDir is a sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// SortSpec selects the column the view is ordered by.
// The zero value means data order.
type SortSpec struct {
	Column Field
	Dir    SortDir
}

// ParseSort builds a SortSpec from request values. Unknown or unsortable
// columns and unknown directions yield the zero SortSpec.
func ParseSort(column, dir string) SortSpec {
	col, ok := ColumnFor(Field(column))
	if !ok || !col.Sortable {
		return SortSpec{}
	}
	switch SortDir(dir) {
	case SortAsc, SortDesc:
		return SortSpec{Column: col.Key, Dir: SortDir(dir)}
	}
	return SortSpec{}
}

// Active reports whether a sort is applied.
func (s SortSpec) Active() bool {
	return s.Column != "" && s.Dir != ""
}

// IsSortedBy reports whether s sorts by column f.
func (s SortSpec) IsSortedBy(f Field) bool {
	return s.Active() && s.Column == f
}

// Toggle returns the sort a header click on column f produces:
// unsorted → ascending → descending → unsorted.
func (s SortSpec) Toggle(f Field) SortSpec {
	if !s.IsSortedBy(f) {
		return SortSpec{Column: f, Dir: SortAsc}
	}
	if s.Dir == SortAsc {
		return SortSpec{Column: f, Dir: SortDesc}
	}
	return SortSpec{}
}

// Rows pairs records with their positions and orders them by spec.
// Ties keep data order in both directions.
func Rows(records []Record, spec SortSpec) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{Position: i, Record: r}
	}

	if !spec.Active() {
		return rows
	}

	compare := comparator(spec.Column)
	if compare == nil {
		return rows
	}

	slices.SortStableFunc(rows, func(a, b Row) int {
		c := compare(a.Record, b.Record)
		if spec.Dir == SortDesc {
			c = -c
		}
		return c
	})
	return rows
}

// comparator returns the ordering for a sortable column, nil otherwise.
func comparator(f Field) func(a, b Record) int {
	col, ok := ColumnFor(f)
	if !ok || !col.Sortable {
		return nil
	}

	switch f {
	case FieldPrice:
		return func(a, b Record) int {
			return cmp.Compare(a.Price, b.Price)
		}
	case FieldName:
		// Numeric collation orders "Item 2" before "Item 10".
		c := collate.New(language.English, collate.Numeric)
		return func(a, b Record) int {
			return c.CompareString(a.Name, b.Name)
		}
	}
	return nil
}
