package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpledb/pkg/types"
)

func TestNewColumnDefaultsVarcharLength(t *testing.T) {
	col := NewColumn("name", Varchar, 0, nil)
	assert.Equal(t, DefaultVarcharLength, col.VarcharLength)
}

func TestNewColumnKeepsExplicitVarcharLength(t *testing.T) {
	col := NewColumn("name", Varchar, 10, nil)
	assert.Equal(t, 10, col.VarcharLength)
}

func TestPrimaryKeyImpliesNotNull(t *testing.T) {
	col := NewColumn("id", Int, 0, []Constraint{PrimaryKey})
	assert.True(t, col.Has(PrimaryKey))
	assert.True(t, col.Has(NotNull))
}

func TestCoerceIntAcceptsIntegerAndNumericText(t *testing.T) {
	col := NewColumn("age", Int, 0, nil)

	v, err := Coerce(col, types.NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.Int())

	v, err = Coerce(col, types.NewText(" 42 "))
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.Int())

	_, err = Coerce(col, types.NewText("not a number"))
	assert.Error(t, err)
}

func TestCoerceVarcharRejectsOverlongText(t *testing.T) {
	col := NewColumn("name", Varchar, 3, nil)
	_, err := Coerce(col, types.NewText("abcd"))
	assert.Error(t, err)

	v, err := Coerce(col, types.NewText("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", v.Text())
}

func TestCoerceVarcharCountsRunesNotBytes(t *testing.T) {
	col := NewColumn("name", Varchar, 3, nil)
	// "café" is 4 runes but 5 bytes; a byte-length check would reject it
	// even though it fits a VARCHAR(4), and would misreport the rune count
	// below as a byte count.
	v, err := Coerce(col, types.NewText("café"))
	assert.Error(t, err)

	col4 := NewColumn("name", Varchar, 4, nil)
	v, err = Coerce(col4, types.NewText("café"))
	require.NoError(t, err)
	assert.Equal(t, "café", v.Text())
}

func TestCoerceVarcharRendersNonTextValues(t *testing.T) {
	col := NewColumn("name", Varchar, 20, nil)
	v, err := Coerce(col, types.NewInt(123))
	require.NoError(t, err)
	assert.Equal(t, "123", v.Text())
}

func TestCoerceBooleanAcceptsCaseInsensitiveText(t *testing.T) {
	col := NewColumn("active", Boolean, 0, nil)

	v, err := Coerce(col, types.NewText("yes"))
	require.NoError(t, err)
	assert.True(t, v.Bool())

	v, err = Coerce(col, types.NewText("FALSE"))
	require.NoError(t, err)
	assert.False(t, v.Bool())

	_, err = Coerce(col, types.NewText("maybe"))
	assert.Error(t, err)
}

func TestCoercePassesNullThrough(t *testing.T) {
	col := NewColumn("age", Int, 0, []Constraint{NotNull})
	v, err := Coerce(col, types.NewNull())
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestColumnTypeStringMatchesKeyword(t *testing.T) {
	assert.True(t, strings.EqualFold(Int.String(), "INT"))
	assert.True(t, strings.EqualFold(Varchar.String(), "VARCHAR"))
	assert.True(t, strings.EqualFold(Boolean.String(), "BOOLEAN"))
}
