package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is one row of the recipe table.
// Records have no unique identifier; identity is their position in the set.
type Record struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Price       Price  `json:"price"`
	Description string `json:"description"`
}

// Price is the numeric price field.
//
// It encodes as a JSON number but decodes from either a number or a numeric
// string, since snapshots written by older clients stored edited prices as
// the raw input text.
type Price float64

// UnmarshalJSON accepts 5, 5.25, "5" and "5.25". null leaves the price at zero.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}

	v, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// String formats the price without trailing zeros ("5", "4.5").
func (p Price) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64)
}

// ParsePrice parses a decimal price as typed into a numeric input.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidNumber)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return Price(v), nil
}

// Field names a Record attribute. Values match the JSON keys.
type Field string

const (
	FieldName        Field = "name"
	FieldLabel       Field = "label"
	FieldPrice       Field = "price"
	FieldDescription Field = "description"
)

// Text returns the display value of a field.
func (r Record) Text(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldLabel:
		return r.Label
	case FieldPrice:
		return r.Price.String()
	case FieldDescription:
		return r.Description
	}
	return ""
}

// With returns a copy of r whose field f holds value.
func (r Record) With(f Field, value string) (Record, error) {
	switch f {
	case FieldName:
		r.Name = value
	case FieldLabel:
		r.Label = value
	case FieldPrice:
		p, err := ParsePrice(value)
		if err != nil {
			return r, err
		}
		r.Price = p
	case FieldDescription:
		r.Description = value
	default:
		return r, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return r, nil
}

// CellKind selects how a column's cells are rendered and edited.
type CellKind int

const (
	CellText CellKind = iota
	CellNumberInput
)

// Column describes one table column.
type Column struct {
	Key      Field
	Header   string
	Sortable bool
	Editable bool
	Kind     CellKind
}

// Columns is the fixed column layout of the table, in display order.
var Columns = []Column{
	{Key: FieldName, Header: "First Name", Sortable: true, Kind: CellText},
	{Key: FieldLabel, Header: "Label", Kind: CellText},
	{Key: FieldPrice, Header: "Price", Sortable: true, Editable: true, Kind: CellNumberInput},
	{Key: FieldDescription, Header: "Description", Kind: CellText},
}

// ColumnFor returns the column descriptor for a field.
func ColumnFor(f Field) (Column, bool) {
	for _, c := range Columns {
		if c.Key == f {
			return c, true
		}
	}
	return Column{}, false
}

// State is the lifecycle state of the service.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Row is a record paired with its position in the working set.
// Sorting reorders rows but never changes Position.
type Row struct {
	Position int
	Record   Record
}

// View is everything the table view needs to render one page.
type View struct {
	State    State
	Columns  []Column
	Rows     []Row
	Sort     SortSpec
	Revision string

	// Shadowed is true when rows come from the persisted snapshot rather
	// than the live working set.
	Shadowed bool
}

// Ack is the acknowledgment shown to the user after Reset or Submit.
type Ack struct {
	Action   string `json:"action"`
	Message  string `json:"message"`
	Revision string `json:"revision"`
}

const (
	ActionReset  = "reset"
	ActionSubmit = "submit"
)

// Acknowledgment texts shown after each action.
const (
	ResetMessage  = "Reset all the values"
	SubmitMessage = "Submitted the changes"
)

// AckFor builds the acknowledgment for an action name.
// Returns false for unknown actions.
func AckFor(action string) (Ack, bool) {
	switch action {
	case ActionReset:
		return Ack{Action: ActionReset, Message: ResetMessage}, true
	case ActionSubmit:
		return Ack{Action: ActionSubmit, Message: SubmitMessage}, true
	}
	return Ack{}, false
}
