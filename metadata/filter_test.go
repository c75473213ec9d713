package metadata

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterMatch(t *testing.T) {
	doc := Document{
		"tag":    String("x"),
		"year":   Int(2024),
		"draft":  Bool(false),
		"labels": Array(String("a"), String("b")),
		"none":   Null(),
	}

	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"EqString", Eq("tag", String("x")), true},
		{"EqStringMiss", Eq("tag", String("y")), false},
		{"EqNumber", Eq("year", Number(2024)), true},
		{"NeNumber", Ne("year", Int(2023)), true},
		{"NeNullOperand", Ne("tag", Null()), true},
		{"EqNullOperand", Eq("tag", Null()), false},
		{"EqArray", Eq("labels", Array(String("a"), String("b"))), true},
		{"Gt", Gt("year", Int(2000)), true},
		{"GtEqualFalse", Gt("year", Int(2024)), false},
		{"Gte", Gte("year", Int(2024)), true},
		{"Lt", Lt("year", Int(2024)), false},
		{"Lte", Lte("year", Int(2024)), true},
		{"StringOrder", Lt("tag", String("y")), true},
		{"BoolOrder", Lt("draft", Bool(true)), true},
		{"ArrayOrder", Gt("labels", Array(String("a"))), true},
		{"InArray", In("tag", String("w"), String("x")), true},
		{"InArrayMiss", In("year", String("2024")), false},
		{"InObjectKeys", &Filter{Field: "tag", Operator: OpIn, Value: Object(Document{"x": Int(1)})}, true},
		{"InSubstring", &Filter{Field: "tag", Operator: OpIn, Value: String("xyz")}, true},
		{"AbsentField", Eq("missing", String("x")), false},
		{"AbsentFieldNe", Ne("missing", String("x")), false},
		{"NullStored", Eq("none", Null()), false},
		{"NullStoredNe", Ne("none", String("x")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Match(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterIncompatible(t *testing.T) {
	doc := Document{
		"tag":    String("x"),
		"year":   Int(2024),
		"author": Object(Document{"name": String("ada")}),
	}

	tests := []struct {
		name   string
		filter *Filter
	}{
		{"EqStringNumber", Eq("tag", Int(1))},
		{"NeNumberString", Ne("year", String("2024"))},
		{"GtStringNumber", Gt("tag", Int(1))},
		{"LtNumberBool", Lt("year", Bool(true))},
		{"GteObject", Gte("author", Object(nil))},
		{"LteNullOperand", Lte("year", Null())},
		{"ArrayMixed", Gt("tag", Array(String("x")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.filter.Match(doc)
			var ic *ErrIncompatibleComparison
			require.ErrorAs(t, err, &ic)
			assert.Equal(t, tt.filter.Field, ic.Field)
			assert.Equal(t, tt.filter.Operator, ic.Operator)
		})
	}
}

func TestFilterValidate(t *testing.T) {
	t.Run("UnknownOperator", func(t *testing.T) {
		f := &Filter{Field: "tag", Operator: "contains", Value: String("x")}
		err := f.Validate()
		assert.True(t, errors.Is(err, ErrUnsupportedOperator))

		_, err = f.Match(Document{"tag": String("x")})
		assert.ErrorIs(t, err, ErrUnsupportedOperator)
	})

	t.Run("EmptyField", func(t *testing.T) {
		assert.ErrorIs(t, Eq("", Int(1)).Validate(), ErrInvalidOperand)
	})

	t.Run("InNonContainer", func(t *testing.T) {
		f := &Filter{Field: "year", Operator: OpIn, Value: Int(1)}
		assert.ErrorIs(t, f.Validate(), ErrInvalidOperand)
	})

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, In("tag", String("x")).Validate())
	})
}

func TestFilterMask(t *testing.T) {
	docs := []Document{
		{"tag": String("x")},
		{"tag": String("y")},
		{},
		{"tag": String("x")},
	}

	t.Run("Matches", func(t *testing.T) {
		mask, err := Eq("tag", String("x")).Mask(len(docs), func(row int) Document { return docs[row] })
		require.NoError(t, err)
		assert.Equal(t, []uint32{0, 3}, mask.ToArray())
	})

	t.Run("AbsentEverywhere", func(t *testing.T) {
		mask, err := Eq("color", String("x")).Mask(len(docs), func(row int) Document { return docs[row] })
		require.NoError(t, err)
		assert.True(t, mask.IsEmpty())
	})

	t.Run("Incompatible", func(t *testing.T) {
		_, err := Gt("tag", Int(1)).Mask(len(docs), func(row int) Document { return docs[row] })
		var ic *ErrIncompatibleComparison
		assert.ErrorAs(t, err, &ic)
	})
}

func TestFilterJSON(t *testing.T) {
	var f Filter
	require.NoError(t, json.Unmarshal([]byte(`{"field":"tag","operator":"in","value":["x","y"]}`), &f))
	assert.Equal(t, "tag", f.Field)
	assert.Equal(t, OpIn, f.Operator)
	assert.True(t, Equal(Array(String("x"), String("y")), f.Value))

	ok, err := f.Match(Document{"tag": String("y")})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `tag in ["x","y"]`, f.String())
}
