package types

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualNullSemantics(t *testing.T) {
	null := NewNull()
	other := NewInt(0)

	assert.True(t, null.Equal(NewNull()), "Null equals Null")
	assert.False(t, null.Equal(other), "Null differs from any non-Null")
	assert.False(t, other.Equal(null), "symmetric")
}

func TestEqualSameTypeSameValue(t *testing.T) {
	assert.True(t, NewInt(5).Equal(NewInt(5)))
	assert.False(t, NewInt(5).Equal(NewInt(6)))
	assert.True(t, NewText("a").Equal(NewText("a")))
	assert.False(t, NewText("a").Equal(NewText("b")))
	assert.True(t, NewBool(true).Equal(NewBool(true)))
}

func TestEqualMismatchedTypes(t *testing.T) {
	assert.False(t, NewInt(1).Equal(NewText("1")))
	assert.False(t, NewBool(true).Equal(NewInt(1)))
}

func TestCompareOrdersSameType(t *testing.T) {
	cmp, ok := NewInt(1).Compare(NewInt(2))
	require.True(t, ok)
	assert.Negative(t, cmp)

	cmp, ok = NewText("b").Compare(NewText("a"))
	require.True(t, ok)
	assert.Positive(t, cmp)
}

func TestCompareRejectsMismatchedTypes(t *testing.T) {
	_, ok := NewInt(1).Compare(NewText("1"))
	assert.False(t, ok)
}

func TestSortKeyNullIsEmptyText(t *testing.T) {
	assert.Equal(t, "", NewNull().SortKey())
	assert.Equal(t, "5", NewInt(5).SortKey())
	assert.Equal(t, "hi", NewText("hi").SortKey())
}

func TestFromAnyAndAnyRoundTrip(t *testing.T) {
	cases := []any{nil, int64(42), "text", true}
	for _, c := range cases {
		v := FromAny(c)
		assert.Equal(t, c, v.Any())
	}
}

func TestFromAnyJSONNumberPreservesInt64(t *testing.T) {
	big := int64(9007199254740993) // above float64's exact-integer range
	v := FromAny(json.Number(strconv.FormatInt(big, 10)))
	require.Equal(t, TypeInt, v.Type())
	assert.Equal(t, big, v.Int())
}
