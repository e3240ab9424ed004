// pkg/types/value.go
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueType tags the dynamic type carried by a Value.
type ValueType int

const (
	TypeNull ValueType = iota
	TypeInt
	TypeText
	TypeBool
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return "INT"
	case TypeText:
		return "VARCHAR"
	case TypeBool:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// Value is a tagged union over the four SQL value kinds SimpleDB supports:
// Null, Integer, Text and Boolean. It is comparable (no slice/map fields) so
// it can be used directly as a map key by the table indexes.
type Value struct {
	typ     ValueType
	intVal  int64
	textVal string
	boolVal bool
}

func NewNull() Value         { return Value{typ: TypeNull} }
func NewInt(i int64) Value   { return Value{typ: TypeInt, intVal: i} }
func NewText(s string) Value { return Value{typ: TypeText, textVal: s} }
func NewBool(b bool) Value   { return Value{typ: TypeBool, boolVal: b} }

func (v Value) Type() ValueType { return v.typ }
func (v Value) IsNull() bool    { return v.typ == TypeNull }
func (v Value) Int() int64      { return v.intVal }
func (v Value) Text() string    { return v.textVal }
func (v Value) Bool() bool      { return v.boolVal }

// Equal implements the WHERE "=" / "!=" semantics: Null equals Null
// and differs from any non-Null value; otherwise both type and content must
// match.
func (v Value) Equal(other Value) bool {
	if v.typ == TypeNull || other.typ == TypeNull {
		return v.typ == TypeNull && other.typ == TypeNull
	}
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeInt:
		return v.intVal == other.intVal
	case TypeText:
		return v.textVal == other.textVal
	case TypeBool:
		return v.boolVal == other.boolVal
	default:
		return false
	}
}

// Compare orders two non-Null Integers (numerically) or two Texts
// (lexicographically). ok is false for mismatched types, which callers must
// reject rather than guess an order, and for Booleans and Nulls, which have
// no order here.
func (v Value) Compare(other Value) (cmp int, ok bool) {
	if v.typ != other.typ {
		return 0, false
	}
	switch v.typ {
	case TypeInt:
		switch {
		case v.intVal < other.intVal:
			return -1, true
		case v.intVal > other.intVal:
			return 1, true
		default:
			return 0, true
		}
	case TypeText:
		return strings.Compare(v.textVal, other.textVal), true
	default:
		return 0, false
	}
}

// SortKey renders the value as the text form ORDER BY sorts on. Null sorts
// as empty text; this is the project's defined (non-standard) tie-breaker.
func (v Value) SortKey() string {
	switch v.typ {
	case TypeNull:
		return ""
	case TypeInt:
		return strconv.FormatInt(v.intVal, 10)
	case TypeText:
		return v.textVal
	case TypeBool:
		return strconv.FormatBool(v.boolVal)
	default:
		return ""
	}
}

// String renders the value for diagnostics and snapshot-free debugging.
func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeInt:
		return strconv.FormatInt(v.intVal, 10)
	case TypeText:
		return v.textVal
	case TypeBool:
		return strconv.FormatBool(v.boolVal)
	default:
		return fmt.Sprintf("<unknown %d>", v.typ)
	}
}

// FromAny wraps a decoded snapshot/JSON scalar into a Value. It does not
// coerce toward a column type; that is the job of schema.Coerce.
//
// json.Number is the expected numeric representation: the snapshot loader
// decodes with UseNumber() so large int64 row values survive the round trip
// without the precision loss a plain float64 decode would introduce. Plain
// float64/int are also accepted for callers that build Values outside of
// JSON decoding.
func FromAny(a any) Value {
	switch x := a.(type) {
	case nil:
		return NewNull()
	case bool:
		return NewBool(x)
	case string:
		return NewText(x)
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return NewNull()
		}
		return NewInt(n)
	case int64:
		return NewInt(x)
	case int:
		return NewInt(int64(x))
	case float64:
		return NewInt(int64(x))
	default:
		return NewNull()
	}
}

// Any unwraps the Value back into a plain Go value suitable for JSON
// encoding: integer, string, boolean, or native null.
func (v Value) Any() any {
	switch v.typ {
	case TypeNull:
		return nil
	case TypeInt:
		return v.intVal
	case TypeText:
		return v.textVal
	case TypeBool:
		return v.boolVal
	default:
		return nil
	}
}

// MarshalJSON renders the Value as its Any() form. Value's fields are
// unexported (so it stays comparable for index keys), so without this the
// encoding/json default reflection would marshal every Value as "{}".
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// UnmarshalJSON is the inverse of MarshalJSON, used by decoders that target
// Value directly rather than going through FromAny on a generic document.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}
