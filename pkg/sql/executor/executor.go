// pkg/sql/executor/executor.go
package executor

import (
	"fmt"
	"sort"
	"strings"

	"simpledb/pkg/dberr"
	"simpledb/pkg/sql/parser"
	"simpledb/pkg/storage"
	"simpledb/pkg/types"
)

// Result is the discriminated record returned by Execute. Successful
// mutations carry Message; successful SELECTs carry Columns/Rows/Count;
// failures carry Error.
type Result struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message,omitempty"`
	Error   string                   `json:"error,omitempty"`
	Columns []string                 `json:"columns,omitempty"`
	Rows    []map[string]types.Value `json:"rows,omitempty"`
	Count   int                      `json:"count,omitempty"`
}

// Executor drives a parsed Command against a storage.Database, persisting a
// snapshot after every successful mutation.
type Executor struct {
	db *storage.Database
}

func New(db *storage.Database) *Executor {
	return &Executor{db: db}
}

// Execute parses and runs one SQL statement. Any SimpleDBError raised by the
// tokenizer, parser, storage layer, or this dispatcher is caught and
// returned as a failure Result; any other failure (a bug, not a user
// error) is recovered and reported as "Unexpected error: <message>" rather
// than crashing the caller.
func (e *Executor) Execute(sql string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Success: false, Error: fmt.Sprintf("Unexpected error: %v", r)}
		}
	}()

	cmd, err := parser.Parse(sql)
	if err != nil {
		return failureResult(err)
	}

	switch c := cmd.(type) {
	case *parser.CreateTable:
		return e.execCreateTable(c)
	case *parser.DropTable:
		return e.execDropTable(c)
	case *parser.Insert:
		return e.execInsert(c)
	case *parser.Select:
		return e.execSelect(c)
	case *parser.Update:
		return e.execUpdate(c)
	case *parser.Delete:
		return e.execDelete(c)
	default:
		return failureResult(dberr.ParseError("unrecognized command"))
	}
}

func failureResult(err error) Result {
	if _, ok := err.(*dberr.SimpleDBError); !ok {
		return Result{Success: false, Error: "Unexpected error: " + err.Error()}
	}
	return Result{Success: false, Error: err.Error()}
}

func successMessage(msg string) Result {
	return Result{Success: true, Message: msg}
}

func (e *Executor) execCreateTable(c *parser.CreateTable) Result {
	if c.IfNotExists && e.db.HasTable(c.Table) {
		return successMessage(fmt.Sprintf("table %q already exists, skipped", c.Table))
	}
	if err := e.db.CreateTable(c.Table, c.Columns); err != nil {
		return failureResult(err)
	}
	if err := e.db.Save(); err != nil {
		return failureResult(err)
	}
	return successMessage(fmt.Sprintf("table %q created", c.Table))
}

func (e *Executor) execDropTable(c *parser.DropTable) Result {
	if err := e.db.DropTable(c.Table); err != nil {
		return failureResult(err)
	}
	if err := e.db.Save(); err != nil {
		return failureResult(err)
	}
	return successMessage(fmt.Sprintf("table %q dropped", c.Table))
}

func (e *Executor) execInsert(c *parser.Insert) Result {
	t, err := e.db.GetTable(c.Table)
	if err != nil {
		return failureResult(err)
	}

	columns := c.Columns
	if columns == nil {
		columns = make([]string, len(t.Columns))
		for i, col := range t.Columns {
			columns[i] = col.Name
		}
	}

	if len(columns) != len(c.Values) {
		return failureResult(dberr.ParseError(
			"expected %d value(s), got %d", len(columns), len(c.Values)))
	}

	values := make(map[string]types.Value, len(columns))
	for i, col := range columns {
		values[col] = c.Values[i]
	}

	if _, err := t.InsertRow(values); err != nil {
		return failureResult(err)
	}
	if err := e.db.Save(); err != nil {
		return failureResult(err)
	}
	return successMessage("1 row inserted")
}

func (e *Executor) execSelect(c *parser.Select) Result {
	t, err := e.db.GetTable(c.Table)
	if err != nil {
		return failureResult(err)
	}

	positions, err := t.FindRows(c.Where)
	if err != nil {
		return failureResult(err)
	}

	rows := make([]storage.Row, len(positions))
	for i, pos := range positions {
		rows[i] = t.Row(pos)
	}

	if c.OrderBy != nil {
		sortRows(rows, c.OrderBy)
	}

	if c.Limit != nil {
		n := int(*c.Limit)
		if n < len(rows) {
			rows = rows[:n]
		}
	}

	if c.Join != nil {
		merged, err := e.applyJoin(c.Table, rows, c.Join)
		if err != nil {
			return failureResult(err)
		}
		rows = merged
	}

	return e.project(t, c, rows)
}

// sortRows stably sorts by the ORDER BY column. Two non-Null values of the
// same type order natively (numerically for INT, lexicographically for
// TEXT); a Null on either side (or a type mismatch) falls back to comparing
// SortKey()'s text form, which is what makes a Null sort as empty text
// and mis-order a numeric column that contains one.
func sortRows(rows []storage.Row, ob *parser.OrderBy) {
	sort.SliceStable(rows, func(i, j int) bool {
		return sortLess(rows[i][ob.Column], rows[j][ob.Column], ob.Desc)
	})
}

func sortLess(a, b types.Value, desc bool) bool {
	if !a.IsNull() && !b.IsNull() && a.Type() == b.Type() {
		if cmp, ok := a.Compare(b); ok {
			if desc {
				return cmp > 0
			}
			return cmp < 0
		}
	}
	if desc {
		return a.SortKey() > b.SortKey()
	}
	return a.SortKey() < b.SortKey()
}

// applyJoin merges join matches: for each already-selected left row,
// emit one merged row per matching right-table row (inner-join semantics:
// a left row with no match is dropped). A right-row key already present in
// the merged row is inserted under the qualified name
// "<rightTable>.<key>" instead of overwriting it.
func (e *Executor) applyJoin(leftTable string, leftRows []storage.Row, j *parser.Join) ([]storage.Row, error) {
	rightTable, err := e.db.GetTable(j.Table)
	if err != nil {
		return nil, err
	}
	rightPositions, err := rightTable.FindRows(nil)
	if err != nil {
		return nil, err
	}

	var merged []storage.Row
	for _, left := range leftRows {
		leftVal, ok := left[j.LeftCol]
		if !ok {
			return nil, dberr.ColumnNotFound(leftTable, j.LeftCol)
		}
		if leftVal.IsNull() {
			// A Null join key never matches, not even a Null on the right
			// side: Value.Equal's Null-equals-Null rule is a WHERE-clause
			// semantic, not a join semantic.
			continue
		}
		for _, pos := range rightPositions {
			right := rightTable.Row(pos)
			rightVal, ok := right[j.RightCol]
			if !ok {
				return nil, dberr.ColumnNotFound(j.Table, j.RightCol)
			}
			if !leftVal.Equal(rightVal) {
				continue
			}

			out := make(storage.Row, len(left)+len(right))
			for k, v := range left {
				out[k] = v
			}
			for k, v := range right {
				if _, exists := out[k]; exists {
					out[j.Table+"."+k] = v
				} else {
					out[k] = v
				}
			}
			merged = append(merged, out)
		}
	}
	return merged, nil
}

// project applies the projection list: COUNT(*) rewriting short-circuits to a
// single summary row; `*` expands to the base table's columns (plus,
// when joined, any join-table column not already present); otherwise each
// item resolves its (possibly dotted) source column, defaulting the output
// key to the alias or the dotted suffix.
func (e *Executor) project(t *storage.Table, c *parser.Select, rows []storage.Row) Result {
	for _, item := range c.Projection {
		if item.IsCount {
			return Result{
				Success: true,
				Columns: []string{item.Alias},
				Rows:    []map[string]types.Value{{item.Alias: types.NewInt(int64(len(rows)))}},
				Count:   1,
			}
		}
	}

	if len(c.Projection) == 1 && c.Projection[0].Star {
		return e.projectStar(t, c, rows)
	}

	columns := make([]string, len(c.Projection))
	sourceKeys := make([]string, len(c.Projection))
	for i, item := range c.Projection {
		alias := item.Alias
		if alias == "" {
			alias = columnSuffix(item.Column)
		}
		columns[i] = alias
		sourceKeys[i] = item.Column
	}

	outRows := make([]map[string]types.Value, len(rows))
	for i, r := range rows {
		out := make(map[string]types.Value, len(columns))
		for j, key := range sourceKeys {
			v, ok := r[key]
			if !ok {
				v, ok = r[columnSuffix(key)]
			}
			if !ok {
				v = types.NewNull()
			}
			out[columns[j]] = v
		}
		outRows[i] = out
	}
	return Result{Success: true, Columns: columns, Rows: outRows, Count: len(outRows)}
}

func (e *Executor) projectStar(t *storage.Table, c *parser.Select, rows []storage.Row) Result {
	seen := make(map[string]bool, len(t.Columns))
	columns := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		columns = append(columns, col.Name)
		seen[col.Name] = true
	}

	if c.Join != nil {
		rightTable, err := e.db.GetTable(c.Join.Table)
		if err != nil {
			return failureResult(err)
		}
		// "*" appends join-table columns not already present.
		// A colliding column (renamed to "<rightTable>.<col>" by applyJoin)
		// is not re-added under its qualified name here - it is still carried
		// in each output row, just not in the projected header.
		for _, col := range rightTable.Columns {
			if !seen[col.Name] {
				columns = append(columns, col.Name)
				seen[col.Name] = true
			}
		}
	}

	outRows := make([]map[string]types.Value, len(rows))
	for i, r := range rows {
		out := make(map[string]types.Value, len(columns))
		for _, col := range columns {
			out[col] = r[col]
		}
		if c.Join != nil {
			for k, v := range r {
				if _, ok := out[k]; !ok {
					out[k] = v
				}
			}
		}
		outRows[i] = out
	}
	return Result{Success: true, Columns: columns, Rows: outRows, Count: len(outRows)}
}

func (e *Executor) execUpdate(c *parser.Update) Result {
	t, err := e.db.GetTable(c.Table)
	if err != nil {
		return failureResult(err)
	}

	positions, err := t.FindRows(c.Where)
	if err != nil {
		return failureResult(err)
	}

	assignments := make(map[string]types.Value, len(c.Assignments))
	for _, a := range c.Assignments {
		assignments[a.Column] = a.Value
	}

	// Applied in discovered order; a constraint violation aborts the
	// current row without rolling back rows already updated this
	// statement (documented limitation).
	affected := 0
	for _, pos := range positions {
		if err := t.UpdateRow(pos, assignments); err != nil {
			return failureResult(err)
		}
		affected++
	}

	if err := e.db.Save(); err != nil {
		return failureResult(err)
	}
	return Result{Success: true, Message: fmt.Sprintf("%d row(s) updated", affected), Count: affected}
}

func (e *Executor) execDelete(c *parser.Delete) Result {
	t, err := e.db.GetTable(c.Table)
	if err != nil {
		return failureResult(err)
	}

	positions, err := t.FindRows(c.Where)
	if err != nil {
		return failureResult(err)
	}

	// Descending order keeps positions of not-yet-processed matches stable.
	for i := len(positions) - 1; i >= 0; i-- {
		t.DeleteRow(positions[i])
	}

	if err := e.db.Save(); err != nil {
		return failureResult(err)
	}
	return Result{Success: true, Message: fmt.Sprintf("%d row(s) deleted", len(positions)), Count: len(positions)}
}

func columnSuffix(raw string) string {
	if idx := strings.LastIndex(raw, "."); idx >= 0 {
		return raw[idx+1:]
	}
	return raw
}
