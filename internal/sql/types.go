package sql

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// TypeKind is the tag of a DataType.
type TypeKind int

const (
	TypeInt TypeKind = iota
	TypeBool
	TypeChar
	TypeString
)

func (k TypeKind) String() string {
	switch k {
	case TypeInt:
		return "Int"
	case TypeBool:
		return "Bool"
	case TypeChar:
		return "Char"
	case TypeString:
		return "String"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}

// DataType is the declared type of a column. Length is only meaningful for
// Char and String and is advisory unless the executor is told to enforce it.
type DataType struct {
	Kind   TypeKind
	Length int
}

func Int() DataType            { return DataType{Kind: TypeInt} }
func Bool() DataType           { return DataType{Kind: TypeBool} }
func Char(length int) DataType { return DataType{Kind: TypeChar, Length: length} }
func Str(length int) DataType  { return DataType{Kind: TypeString, Length: length} }

// HasLength reports whether the type carries a declared length.
func (t DataType) HasLength() bool { return t.Kind == TypeChar || t.Kind == TypeString }

func (t DataType) String() string {
	if t.HasLength() {
		return fmt.Sprintf("%s(%d)", t.Kind, t.Length)
	}
	return t.Kind.String()
}

// MarshalJSON encodes the type the way the document format expects:
// "Int", "Bool", {"Char": n} or {"String": n}.
func (t DataType) MarshalJSON() ([]byte, error) {
	if t.HasLength() {
		return json.Marshal(map[string]int{t.Kind.String(): t.Length})
	}
	return json.Marshal(t.Kind.String())
}

func (t *DataType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "Int":
			*t = Int()
		case "Bool":
			*t = Bool()
		default:
			return fmt.Errorf("unknown data type %q", name)
		}
		return nil
	}

	var tagged map[string]int
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("invalid data type %s: %w", data, err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("invalid data type %s", data)
	}
	for name, length := range tagged {
		switch name {
		case "Char":
			*t = Char(length)
		case "String":
			*t = Str(length)
		default:
			return fmt.Errorf("unknown data type %q", name)
		}
	}
	return nil
}

// Column describes metadata for a single column in a table.
type Column struct {
	Name         string   `json:"name"`
	Type         DataType `json:"data_type"`
	IsPrimaryKey bool     `json:"is_primary_key"`
}

// Value is one cell. A Value with Valid == false is NULL.
type Value struct {
	S     string
	Valid bool
}

func Text(s string) Value { return Value{S: s, Valid: true} }
func Null() Value         { return Value{} }

// String renders the value for display; NULL renders as the literal text NULL.
func (v Value) String() string {
	if !v.Valid {
		return "NULL"
	}
	return v.S
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.S)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Null()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}

// Row represents one record in a table: one Value per column, in column order.
type Row []Value

// Clone returns a copy that shares no backing array with r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// Table is a named, ordered list of columns plus its rows in insertion order.
type Table struct {
	Name    string
	Columns []Column
	Rows    []Row
}

// ColumnIndex resolves a column name using the store collation.
func (t *Table) ColumnIndex(name string) (int, bool) {
	return ColumnIndex(t.Columns, name)
}

// ColumnNames returns the declared column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of name in cols, compared with FoldName.
func ColumnIndex(cols []Column, name string) (int, bool) {
	key := FoldName(name)
	for i, c := range cols {
		if FoldName(c.Name) == key {
			return i, true
		}
	}
	return -1, false
}

// FoldName is the single collation used for every table and column lookup:
// names compare equal when their Unicode case folds are equal.
// A Caser is stateful, so each call builds its own.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
