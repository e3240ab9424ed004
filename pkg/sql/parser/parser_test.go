package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpledb/pkg/schema"
	"simpledb/pkg/storage"
	"simpledb/pkg/types"
)

func TestParseEmptyInputFails(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}

func TestParseCreateTableWithConstraints(t *testing.T) {
	cmd, err := Parse(`CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(50) NOT NULL, email VARCHAR UNIQUE);`)
	require.NoError(t, err)

	ct, ok := cmd.(*CreateTable)
	require.True(t, ok)
	assert.Equal(t, "users", ct.Table)
	assert.False(t, ct.IfNotExists)
	require.Len(t, ct.Columns, 3)

	assert.Equal(t, "id", ct.Columns[0].Name)
	assert.Equal(t, schema.Int, ct.Columns[0].Type)
	assert.True(t, ct.Columns[0].Has(schema.PrimaryKey))
	assert.True(t, ct.Columns[0].Has(schema.NotNull))

	assert.Equal(t, 50, ct.Columns[1].VarcharLength)
	assert.True(t, ct.Columns[1].Has(schema.NotNull))

	assert.Equal(t, schema.DefaultVarcharLength, ct.Columns[2].VarcharLength)
	assert.True(t, ct.Columns[2].Has(schema.Unique))
}

func TestParseCreateTableIfNotExists(t *testing.T) {
	cmd, err := Parse(`CREATE TABLE IF NOT EXISTS x (id INT);`)
	require.NoError(t, err)
	ct := cmd.(*CreateTable)
	assert.True(t, ct.IfNotExists)
}

func TestParseDropTable(t *testing.T) {
	cmd, err := Parse(`DROP TABLE users;`)
	require.NoError(t, err)
	dt, ok := cmd.(*DropTable)
	require.True(t, ok)
	assert.Equal(t, "users", dt.Table)
}

func TestParseInsertWithExplicitColumns(t *testing.T) {
	cmd, err := Parse(`INSERT INTO users (id, name) VALUES (1, 'Alice');`)
	require.NoError(t, err)
	ins, ok := cmd.(*Insert)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, ins.Columns)
	require.Len(t, ins.Values, 2)
	assert.Equal(t, int64(1), ins.Values[0].Int())
	assert.Equal(t, "Alice", ins.Values[1].Text())
}

func TestParseInsertWithoutColumnsLeavesNilColumns(t *testing.T) {
	cmd, err := Parse(`INSERT INTO users VALUES (1, 'Alice');`)
	require.NoError(t, err)
	ins := cmd.(*Insert)
	assert.Nil(t, ins.Columns)
}

func TestParseInsertLiteralKinds(t *testing.T) {
	cmd, err := Parse(`INSERT INTO t VALUES (1, 'x', TRUE, NULL, -3, 2.5);`)
	require.NoError(t, err)
	ins := cmd.(*Insert)
	require.Len(t, ins.Values, 6)
	assert.Equal(t, types.TypeInt, ins.Values[0].Type())
	assert.Equal(t, types.TypeText, ins.Values[1].Type())
	assert.Equal(t, types.TypeBool, ins.Values[2].Type())
	assert.True(t, ins.Values[2].Bool())
	assert.True(t, ins.Values[3].IsNull())
	assert.Equal(t, int64(-3), ins.Values[4].Int())
	assert.Equal(t, int64(2), ins.Values[5].Int()) // fractional literals truncate toward zero
}

func TestParseSelectStar(t *testing.T) {
	cmd, err := Parse(`SELECT * FROM users;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	require.Len(t, sel.Projection, 1)
	assert.True(t, sel.Projection[0].Star)
}

func TestParseSelectCountStarWithAlias(t *testing.T) {
	cmd, err := Parse(`SELECT COUNT(*) AS n FROM t;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	require.Len(t, sel.Projection, 1)
	assert.True(t, sel.Projection[0].IsCount)
	assert.Equal(t, "n", sel.Projection[0].Alias)
}

func TestParseSelectCountStarDefaultAlias(t *testing.T) {
	cmd, err := Parse(`SELECT COUNT(*) FROM t;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	assert.Equal(t, "count", sel.Projection[0].Alias)
}

func TestParseSelectColumnsWithAlias(t *testing.T) {
	cmd, err := Parse(`SELECT id, name AS n FROM users;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	require.Len(t, sel.Projection, 2)
	assert.Equal(t, "id", sel.Projection[0].Column)
	assert.Equal(t, "", sel.Projection[0].Alias)
	assert.Equal(t, "name", sel.Projection[1].Column)
	assert.Equal(t, "n", sel.Projection[1].Alias)
}

func TestParseSelectDottedColumnKeepsRawText(t *testing.T) {
	cmd, err := Parse(`SELECT users.id FROM users;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	assert.Equal(t, "users.id", sel.Projection[0].Column)
}

func TestParseSelectWhereFlatSequence(t *testing.T) {
	cmd, err := Parse(`SELECT * FROM t WHERE age >= 25 AND age < 40 OR name = 'x';`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	require.NotNil(t, sel.Where)
	require.Len(t, sel.Where.Atoms, 3)
	assert.Equal(t, storage.OpGte, sel.Where.Atoms[0].Op)
	assert.Equal(t, storage.OpLt, sel.Where.Atoms[1].Op)
	assert.Equal(t, storage.OpEq, sel.Where.Atoms[2].Op)
	require.Len(t, sel.Where.Logics, 2)
	assert.Equal(t, storage.LogicAnd, sel.Where.Logics[0])
	assert.Equal(t, storage.LogicOr, sel.Where.Logics[1])
}

func TestParseSelectOrderByDefaultsAsc(t *testing.T) {
	cmd, err := Parse(`SELECT * FROM t ORDER BY age;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	require.NotNil(t, sel.OrderBy)
	assert.Equal(t, "age", sel.OrderBy.Column)
	assert.False(t, sel.OrderBy.Desc)
}

func TestParseSelectOrderByDesc(t *testing.T) {
	cmd, err := Parse(`SELECT * FROM t ORDER BY age DESC;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	assert.True(t, sel.OrderBy.Desc)
}

func TestParseSelectLimit(t *testing.T) {
	cmd, err := Parse(`SELECT * FROM t LIMIT 2;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	require.NotNil(t, sel.Limit)
	assert.Equal(t, int64(2), *sel.Limit)
}

func TestParseSelectInnerJoin(t *testing.T) {
	cmd, err := Parse(`SELECT * FROM users INNER JOIN orders ON id = user_id;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	require.NotNil(t, sel.Join)
	assert.Equal(t, "orders", sel.Join.Table)
	assert.Equal(t, "id", sel.Join.LeftCol)
	assert.Equal(t, "user_id", sel.Join.RightCol)
}

func TestParseSelectJoinWithoutInnerKeyword(t *testing.T) {
	cmd, err := Parse(`SELECT * FROM users JOIN orders ON id = user_id;`)
	require.NoError(t, err)
	sel := cmd.(*Select)
	require.NotNil(t, sel.Join)
}

func TestParseUpdateSetAssignments(t *testing.T) {
	cmd, err := Parse(`UPDATE users SET name = 'Bob', age = 31 WHERE id = 1;`)
	require.NoError(t, err)
	upd := cmd.(*Update)
	require.Len(t, upd.Assignments, 2)
	assert.Equal(t, "name", upd.Assignments[0].Column)
	assert.Equal(t, "Bob", upd.Assignments[0].Value.Text())
	require.NotNil(t, upd.Where)
}

func TestParseDeleteWithoutWhere(t *testing.T) {
	cmd, err := Parse(`DELETE FROM users;`)
	require.NoError(t, err)
	del := cmd.(*Delete)
	assert.Equal(t, "users", del.Table)
	assert.Nil(t, del.Where)
}

func TestParseTrailingSemicolonTolerated(t *testing.T) {
	_, err := Parse(`SELECT * FROM t`)
	assert.NoError(t, err)
	_, err = Parse(`SELECT * FROM t;`)
	assert.NoError(t, err)
}

func TestParseTrailingGarbageFails(t *testing.T) {
	_, err := Parse(`SELECT * FROM t EXTRA`)
	assert.Error(t, err)
}

func TestParseUnexpectedTokenFails(t *testing.T) {
	_, err := Parse(`SELEKT * FROM t;`)
	assert.Error(t, err)
}
