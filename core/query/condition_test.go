package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionBuilder_Empty(t *testing.T) {
	_, err := NewCondition().Condition()
	assert.ErrorIs(t, err, ErrEmptyCondition)

	var zero ConditionBuilder
	_, err = zero.Condition()
	assert.ErrorIs(t, err, ErrEmptyCondition)
}

func TestConditionBuilder_SingleLeaf(t *testing.T) {
	tgt, ref := T("tgt"), T("ref")

	cond, err := NewCondition().EqualColumns(tgt.Col("lei"), ref.Col("lei")).Condition()
	require.NoError(t, err)
	assert.Equal(t, Equals{Left: tgt.Col("lei"), Right: ref.Col("lei")}, cond)
}

// Two calls must yield a two-leaf AND, not the second leaf alone.
func TestConditionBuilder_AccumulatesLeaves(t *testing.T) {
	tgt, ref := T("tgt"), T("ref")

	cond, err := NewCondition().
		EqualColumns(tgt.Col("lei"), ref.Col("lei")).
		EqualColumns(tgt.Col("isin"), ref.Col("isin")).
		Condition()
	require.NoError(t, err)

	and, ok := cond.(And)
	require.True(t, ok, "expected an And, got %T", cond)
	assert.Equal(t, []Condition{
		Equals{Left: tgt.Col("lei"), Right: ref.Col("lei")},
		Equals{Left: tgt.Col("isin"), Right: ref.Col("isin")},
	}, and.Terms)
}

func TestConditionBuilder_NLeavesRegardlessOfOrder(t *testing.T) {
	tgt, ref := T("tgt"), T("ref")
	aliases := []string{"a", "b", "c", "d"}
	reversed := []string{"d", "c", "b", "a"}

	build := func(names []string) Condition {
		b := NewCondition()
		for _, n := range names {
			b = b.EqualColumns(tgt.Col(n), ref.Col(n))
		}
		cond, err := b.Condition()
		require.NoError(t, err)
		return cond
	}

	forward := Leaves(build(aliases))
	backward := Leaves(build(reversed))
	assert.Len(t, forward, len(aliases))
	assert.Len(t, backward, len(aliases))
	assert.ElementsMatch(t, forward, backward)
}

func TestConditionBuilder_Immutable(t *testing.T) {
	tgt, ref := T("tgt"), T("ref")

	base := NewCondition().EqualColumns(tgt.Col("a"), ref.Col("a"))
	left := base.EqualColumns(tgt.Col("b"), ref.Col("b"))
	right := base.EqualToValue(tgt.Col("name"), "portfolio")

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, left.Len())
	assert.Equal(t, 2, right.Len())

	l, err := left.Condition()
	require.NoError(t, err)
	r, err := right.Condition()
	require.NoError(t, err)
	assert.Equal(t, Equals{Left: tgt.Col("b"), Right: ref.Col("b")}, l.(And).Terms[1])
	assert.Equal(t, EqualsValue{Column: tgt.Col("name"), Value: "portfolio"}, r.(And).Terms[1])
}

func TestConditionBuilder_AndFlattens(t *testing.T) {
	tgt, ref := T("tgt"), T("ref")

	inner, err := NewCondition().
		EqualColumns(tgt.Col("a"), ref.Col("a")).
		EqualColumns(tgt.Col("b"), ref.Col("b")).
		Condition()
	require.NoError(t, err)

	cond, err := NewCondition().
		EqualToValue(tgt.Col("name"), "x").
		And(inner).
		And(nil).
		Condition()
	require.NoError(t, err)

	and := cond.(And)
	assert.Len(t, and.Terms, 3)
	for _, term := range and.Terms {
		_, nested := term.(And)
		assert.False(t, nested)
	}
}

func TestConjoin(t *testing.T) {
	tgt := T("tgt")
	assert.Nil(t, Conjoin())
	assert.Nil(t, Conjoin(nil, nil))

	leaf := EqualsValue{Column: tgt.Col("a"), Value: 1}
	assert.Equal(t, leaf, Conjoin(nil, leaf))
	assert.Len(t, Leaves(Conjoin(leaf, NotEqualsValue{Column: tgt.Col("b"), Value: 2})), 2)
}

func TestTable_Col(t *testing.T) {
	assert.Equal(t, Column{Table: "matching", Name: "id"}, T("matching").Col("id"))
	assert.Equal(t, Column{Table: "m", Name: "id"}, T("matching").As("m").Col("id"))
	assert.Equal(t, "m.id", T("matching").As("m").Col("id").String())
}
