// pkg/storage/table.go
package storage

import (
	"simpledb/pkg/dberr"
	"simpledb/pkg/schema"
	"simpledb/pkg/types"
)

// Row is a column-name-keyed mapping over a table's declared columns. Every
// schema column always has a key; an absent input value becomes Null.
type Row map[string]types.Value

func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Op is a WHERE-clause comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

// Logic is the connector between consecutive WHERE atoms.
type Logic int

const (
	LogicAnd Logic = iota
	LogicOr
)

// Cond is one WHERE atom: column OP value.
type Cond struct {
	Column string
	Op     Op
	Value  types.Value
}

// Predicate is a flat sequence of atoms and connectors with no precedence
// or grouping. Atoms[0] combines with the implicit starting truth value of
// true under AND; each Atoms[i] (i>0) then combines under Logics[i-1].
type Predicate struct {
	Atoms  []Cond
	Logics []Logic // len(Logics) == len(Atoms)-1
}

// Table is a schema-enforced, in-memory row store with hash indexes over
// its PRIMARY KEY and UNIQUE columns.
type Table struct {
	Name    string
	Columns []schema.Column

	rows        []*Row                          // nil slot == tombstone
	indexes     map[string]map[types.Value]int // column name -> value -> row position
	primaryKey  string                          // empty if none
	uniqueCols  map[string]bool
	notNullCols map[string]bool
}

// NewTable builds an empty table from its column definitions, deriving the
// primary-key/unique/not-null sets and allocating one index per indexed
// column.
func NewTable(name string, columns []schema.Column) *Table {
	t := &Table{
		Name:        name,
		Columns:     columns,
		indexes:     make(map[string]map[types.Value]int),
		uniqueCols:  make(map[string]bool),
		notNullCols: make(map[string]bool),
	}
	for _, col := range columns {
		if col.Has(schema.PrimaryKey) {
			t.primaryKey = col.Name
			t.indexes[col.Name] = make(map[types.Value]int)
		}
		if col.Has(schema.Unique) {
			t.uniqueCols[col.Name] = true
			if _, ok := t.indexes[col.Name]; !ok {
				t.indexes[col.Name] = make(map[types.Value]int)
			}
		}
		if col.Has(schema.NotNull) {
			t.notNullCols[col.Name] = true
		}
	}
	return t
}

// Column looks up a column definition by name.
func (t *Table) Column(name string) (schema.Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return schema.Column{}, false
}

// RowCount returns the length of the row vector including tombstones; it is
// mostly useful for tests asserting position stability.
func (t *Table) RowCount() int { return len(t.rows) }

// validate checks NOT NULL and uniqueness for a prospective row. excludePos
// is the row's own current position (for update), or -1 (for insert) so the
// row is allowed to keep its own key.
func (t *Table) validate(row Row, excludePos int) error {
	for col := range row {
		if _, ok := t.Column(col); !ok {
			return dberr.ColumnNotFound(t.Name, col)
		}
	}

	for col := range t.notNullCols {
		if v, ok := row[col]; !ok || v.IsNull() {
			return dberr.NotNullViolation(col)
		}
	}

	if t.primaryKey != "" {
		v := row[t.primaryKey]
		if !v.IsNull() {
			if pos, exists := t.indexes[t.primaryKey][v]; exists && pos != excludePos {
				return dberr.PrimaryKeyViolation(t.primaryKey, v)
			}
		}
	}

	for col := range t.uniqueCols {
		v := row[col]
		if v.IsNull() {
			continue
		}
		if pos, exists := t.indexes[col][v]; exists && pos != excludePos {
			return dberr.UniqueViolation(col, v)
		}
	}

	return nil
}

func (t *Table) coerceRow(values map[string]types.Value) (Row, error) {
	row := make(Row, len(t.Columns))
	for _, col := range t.Columns {
		v, ok := values[col.Name]
		if !ok {
			v = types.NewNull()
		}
		coerced, err := schema.Coerce(col, v)
		if err != nil {
			return nil, err
		}
		row[col.Name] = coerced
	}
	for name := range values {
		if _, ok := t.Column(name); !ok {
			return nil, dberr.ColumnNotFound(t.Name, name)
		}
	}
	return row, nil
}

// InsertRow coerces, validates, appends and indexes a new row.
func (t *Table) InsertRow(values map[string]types.Value) (int, error) {
	row, err := t.coerceRow(values)
	if err != nil {
		return 0, err
	}
	if err := t.validate(row, -1); err != nil {
		return 0, err
	}

	pos := len(t.rows)
	t.rows = append(t.rows, &row)
	t.reindex(pos, row)
	return pos, nil
}

func (t *Table) reindex(pos int, row Row) {
	for col, idx := range t.indexes {
		if v := row[col]; !v.IsNull() {
			idx[v] = pos
		}
	}
}

func (t *Table) unindex(row Row) {
	for col, idx := range t.indexes {
		if v := row[col]; !v.IsNull() {
			delete(idx, v)
		}
	}
}

// UpdateRow is a no-op on an out-of-range or tombstoned position;
// otherwise it coerces assignments onto a clone of the existing row,
// validates excluding the row's own position, then swaps index entries.
func (t *Table) UpdateRow(pos int, assignments map[string]types.Value) error {
	if pos < 0 || pos >= len(t.rows) || t.rows[pos] == nil {
		return nil
	}

	oldRow := *t.rows[pos]
	newRow := oldRow.clone()
	for col, v := range assignments {
		colDef, ok := t.Column(col)
		if !ok {
			return dberr.ColumnNotFound(t.Name, col)
		}
		coerced, err := schema.Coerce(colDef, v)
		if err != nil {
			return err
		}
		newRow[col] = coerced
	}

	if err := t.validate(newRow, pos); err != nil {
		return err
	}

	t.unindex(oldRow)
	t.rows[pos] = &newRow
	t.reindex(pos, newRow)
	return nil
}

// DeleteRow soft-deletes a row, removing its index entries but retaining
// the slot so later positions stay stable.
func (t *Table) DeleteRow(pos int) {
	if pos < 0 || pos >= len(t.rows) || t.rows[pos] == nil {
		return
	}
	t.unindex(*t.rows[pos])
	t.rows[pos] = nil
}

// Row returns the live row at pos, or nil if pos is out of range or a
// tombstone.
func (t *Table) Row(pos int) Row {
	if pos < 0 || pos >= len(t.rows) || t.rows[pos] == nil {
		return nil
	}
	return *t.rows[pos]
}

// FindRows returns positions of non-tombstoned rows
// matching pred, in insertion order. A nil Predicate matches every live row.
// A predicate naming a column outside the schema is a ColumnNotFoundError,
// even when the table has no live rows.
func (t *Table) FindRows(pred *Predicate) ([]int, error) {
	if pred != nil {
		for _, atom := range pred.Atoms {
			if _, ok := t.Column(atom.Column); !ok {
				return nil, dberr.ColumnNotFound(t.Name, atom.Column)
			}
		}
	}
	var out []int
	for pos, r := range t.rows {
		if r == nil {
			continue
		}
		if pred == nil {
			out = append(out, pos)
			continue
		}
		match, err := evaluate(t.Name, *r, *pred)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, pos)
		}
	}
	return out, nil
}

// evaluate runs the left-to-right, no-precedence WHERE evaluation:
// starting from true with a pending connector of AND, each atom combines
// with the running result under the pending connector, then the next
// connector (if any) replaces the pending one.
func evaluate(tableName string, row Row, pred Predicate) (bool, error) {
	result := true
	pending := LogicAnd

	for i, atom := range pred.Atoms {
		v, ok := row[atom.Column]
		if !ok {
			return false, dberr.ColumnNotFound(tableName, atom.Column)
		}

		atomResult, err := evalAtom(v, atom.Op, atom.Value)
		if err != nil {
			return false, err
		}

		switch pending {
		case LogicAnd:
			result = result && atomResult
		case LogicOr:
			result = result || atomResult
		}

		if i < len(pred.Logics) {
			pending = pred.Logics[i]
		}
	}

	return result, nil
}

func evalAtom(rowVal types.Value, op Op, cmpVal types.Value) (bool, error) {
	switch op {
	case OpEq:
		return rowVal.Equal(cmpVal), nil
	case OpNeq:
		return !rowVal.Equal(cmpVal), nil
	case OpLt, OpLte, OpGt, OpGte:
		if rowVal.IsNull() || cmpVal.IsNull() {
			return false, nil
		}
		cmp, ok := rowVal.Compare(cmpVal)
		if !ok {
			return false, dberr.DataType("cannot compare %s to %s", rowVal.Type(), cmpVal.Type())
		}
		switch op {
		case OpLt:
			return cmp < 0, nil
		case OpLte:
			return cmp <= 0, nil
		case OpGt:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}
	default:
		return false, dberr.DataType("unknown operator")
	}
}
