// pkg/schema/schema.go
package schema

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"simpledb/pkg/dberr"
	"simpledb/pkg/types"
)

// ColumnType is one of the three declarable SQL types.
type ColumnType int

const (
	Int ColumnType = iota
	Varchar
	Boolean
)

func (t ColumnType) String() string {
	switch t {
	case Int:
		return "INT"
	case Varchar:
		return "VARCHAR"
	case Boolean:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// Constraint is one of the column-level constraints a CREATE TABLE column
// may carry.
type Constraint int

const (
	PrimaryKey Constraint = iota
	Unique
	NotNull
)

func (c Constraint) String() string {
	switch c {
	case PrimaryKey:
		return "PRIMARY KEY"
	case Unique:
		return "UNIQUE"
	case NotNull:
		return "NOT NULL"
	default:
		return "UNKNOWN"
	}
}

// DefaultVarcharLength is used when a VARCHAR column omits its length. It
// may be overridden once at startup via SetDefaultVarcharLength (e.g. from
// a loaded config.Config) before any CREATE TABLE is parsed.
var DefaultVarcharLength = 255

// SetDefaultVarcharLength overrides DefaultVarcharLength. n <= 0 is ignored.
func SetDefaultVarcharLength(n int) {
	if n > 0 {
		DefaultVarcharLength = n
	}
}

// Column describes one declared column of a table.
type Column struct {
	Name          string
	Type          ColumnType
	VarcharLength int // only meaningful when Type == Varchar
	Constraints   []Constraint
}

func (c Column) Has(want Constraint) bool {
	for _, c2 := range c.Constraints {
		if c2 == want {
			return true
		}
	}
	return false
}

// NewColumn builds a Column, defaulting VarcharLength and folding PRIMARY
// KEY's implicit NOT NULL in (PRIMARY KEY implies NOT NULL).
func NewColumn(name string, typ ColumnType, varcharLength int, constraints []Constraint) Column {
	col := Column{Name: name, Type: typ, VarcharLength: varcharLength, Constraints: constraints}
	if col.Type == Varchar && col.VarcharLength == 0 {
		col.VarcharLength = DefaultVarcharLength
	}
	if col.Has(PrimaryKey) && !col.Has(NotNull) {
		col.Constraints = append(col.Constraints, NotNull)
	}
	return col
}

// Coerce converts an incoming Value toward this column's declared type.
// Null always passes; constraint checks happen downstream.
func Coerce(col Column, v types.Value) (types.Value, error) {
	if v.IsNull() {
		return v, nil
	}

	switch col.Type {
	case Int:
		switch v.Type() {
		case types.TypeInt:
			return v, nil
		case types.TypeText:
			n, err := strconv.ParseInt(strings.TrimSpace(v.Text()), 10, 64)
			if err != nil {
				return types.Value{}, dberr.DataType("cannot convert %q to INT", v.Text())
			}
			return types.NewInt(n), nil
		case types.TypeBool:
			if v.Bool() {
				return types.NewInt(1), nil
			}
			return types.NewInt(0), nil
		default:
			return types.Value{}, dberr.DataType("cannot convert value to INT")
		}

	case Varchar:
		var text string
		if v.Type() == types.TypeText {
			text = v.Text()
		} else {
			text = v.String()
		}
		if n := utf8.RuneCountInString(text); n > col.VarcharLength {
			return types.Value{}, dberr.DataType(
				"string too long for VARCHAR(%d): %d chars", col.VarcharLength, n)
		}
		return types.NewText(text), nil

	case Boolean:
		switch v.Type() {
		case types.TypeBool:
			return v, nil
		case types.TypeText:
			switch strings.ToUpper(v.Text()) {
			case "TRUE", "1", "YES":
				return types.NewBool(true), nil
			case "FALSE", "0", "NO":
				return types.NewBool(false), nil
			}
			return types.Value{}, dberr.DataType("cannot convert %q to BOOLEAN", v.Text())
		case types.TypeInt:
			return types.NewBool(v.Int() != 0), nil
		default:
			return types.Value{}, dberr.DataType("cannot convert value to BOOLEAN")
		}

	default:
		return types.Value{}, dberr.DataType("unknown column type %v", col.Type)
	}
}
