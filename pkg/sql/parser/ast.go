// pkg/sql/parser/ast.go
package parser

import (
	"simpledb/pkg/schema"
	"simpledb/pkg/storage"
	"simpledb/pkg/types"
)

// Command is the parser's output: one variant per SQL statement kind.
type Command interface {
	commandNode()
}

// CreateTable is `CREATE TABLE [IF NOT EXISTS] name (columns...)`.
type CreateTable struct {
	Table       string
	Columns     []schema.Column
	IfNotExists bool
}

func (*CreateTable) commandNode() {}

// DropTable is `DROP TABLE name`.
type DropTable struct {
	Table string
}

func (*DropTable) commandNode() {}

// Insert is `INSERT INTO table [(cols...)] VALUES (literals...)`. A nil
// Columns means the value list maps positionally onto the schema's full
// column list.
type Insert struct {
	Table   string
	Columns []string
	Values  []types.Value
}

func (*Insert) commandNode() {}

// ProjectionItem is one entry of a SELECT's projection list.
type ProjectionItem struct {
	Star    bool
	IsCount bool
	Column  string // raw (possibly dotted) column name; empty when Star or IsCount
	Alias   string // explicit AS alias, or "" if none
}

// OrderBy is `ORDER BY column [ASC|DESC]`.
type OrderBy struct {
	Column string
	Desc   bool
}

// Join is `[INNER] JOIN table ON leftCol = rightCol`.
type Join struct {
	Table    string
	LeftCol  string
	RightCol string
}

// Select is a full SELECT statement.
type Select struct {
	Table      string
	Projection []ProjectionItem
	Join       *Join
	Where      *storage.Predicate
	OrderBy    *OrderBy
	Limit      *int64
}

func (*Select) commandNode() {}

// Assignment is one `column = value` pair of an UPDATE's SET clause.
type Assignment struct {
	Column string
	Value  types.Value
}

// Update is `UPDATE table SET assignments... [WHERE ...]`.
type Update struct {
	Table       string
	Assignments []Assignment
	Where       *storage.Predicate
}

func (*Update) commandNode() {}

// Delete is `DELETE FROM table [WHERE ...]`.
type Delete struct {
	Table string
	Where *storage.Predicate
}

func (*Delete) commandNode() {}
