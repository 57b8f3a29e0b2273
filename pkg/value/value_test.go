package value

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlank(t *testing.T) {
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank(Undefined))
	assert.True(t, IsBlank(""))
	assert.False(t, IsBlank(" "))
	assert.False(t, IsBlank(0.0))
	assert.False(t, IsBlank(false))
	assert.False(t, IsBlank([]any{}))
}

func TestBooleanLike(t *testing.T) {
	for _, v := range []any{true, "true", "True", "1", 1, 1.0} {
		assert.True(t, IsBooleanTrue(v), "%#v", v)
		assert.False(t, IsBooleanFalse(v), "%#v", v)
	}
	for _, v := range []any{false, "false", "False", "0", 0, 0.0} {
		assert.True(t, IsBooleanFalse(v), "%#v", v)
		assert.False(t, IsBooleanTrue(v), "%#v", v)
	}
	for _, v := range []any{"TRUE", "yes", 2.0, nil, "", []any{true}} {
		assert.False(t, IsBoolean(v), "%#v", v)
	}
}

func TestNumericLike(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{1.5, true},
		{int64(3), true},
		{json.Number("42"), true},
		{"18", true},
		{" 18 ", true},
		{"-1e3", true},
		{"0x10", true},
		{"abc", false},
		{"", false},
		{"Infinity", false},
		{"NaN", false},
		{"1_000", false},
		{math.Inf(1), false},
		{math.NaN(), false},
		{true, false},
		{nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNumber(tt.in), "%#v", tt.in)
	}
}

func TestRecordAndArray(t *testing.T) {
	assert.True(t, IsRecord(map[string]any{}))
	assert.False(t, IsRecord([]any{}))
	assert.False(t, IsRecord(nil))
	assert.True(t, IsArray([]any{}))
	assert.True(t, IsArray([]string{"a"}))
	assert.False(t, IsArray(map[string]any{}))
}

func TestRangeComparable(t *testing.T) {
	for _, v := range []any{nil, Undefined, "", "abc", 3.0, "3", true} {
		assert.True(t, IsRangeComparable(v), "%#v", v)
	}
	for _, v := range []any{[]any{1.0}, map[string]any{"a": 1.0}} {
		assert.False(t, IsRangeComparable(v), "%#v", v)
	}
}

func TestCoerceToNumericLike(t *testing.T) {
	f, ok := CoerceToNumericLike("12.5")
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	f, ok = CoerceToNumericLike("")
	assert.True(t, ok)
	assert.Zero(t, f)

	f, ok = CoerceToNumericLike(true)
	assert.True(t, ok)
	assert.Equal(t, 1.0, f)

	_, ok = CoerceToNumericLike("twelve")
	assert.False(t, ok)

	_, ok = CoerceToNumericLike(Undefined)
	assert.False(t, ok)
}

func TestCoerceToBooleanLike(t *testing.T) {
	b, ok := CoerceToBooleanLike("True")
	assert.True(t, ok)
	assert.True(t, b)

	b, ok = CoerceToBooleanLike(0.0)
	assert.True(t, ok)
	assert.False(t, b)

	_, ok = CoerceToBooleanLike("yes")
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	assert.Equal(t, "1", String(1.0))
	assert.Equal(t, "1.25", String(1.25))
	assert.Equal(t, "true", String(true))
	assert.Equal(t, "a,,2", String([]any{"a", nil, 2.0}))
	assert.Equal(t, "[object Object]", String(map[string]any{}))
	assert.Equal(t, "null", String(nil))
}

func TestCSV(t *testing.T) {
	assert.Equal(t, []any{}, CSV(""))
	assert.Equal(t, []any{}, CSV(nil))
	assert.Equal(t, []any{"a", "b", ""}, CSV("a,b,"))
	assert.Equal(t, []any{2.0}, CSV(2.0))
	assert.Equal(t, []any{"x", "y"}, CSV([]string{"x", "y"}))
	assert.Equal(t, []any{1.0, 2.0}, CSV([]any{1.0, 2.0}))
}

func TestLooseEqual(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{1.0, "1", true},
		{1.0, 1, true},
		{"a", "a", true},
		{"1", "01", false},
		{0.0, "", true},
		{true, 1.0, true},
		{true, "1", true},
		{true, "true", false},
		{false, "0", true},
		{nil, Undefined, true},
		{nil, 0.0, false},
		{"", nil, false},
		{[]any{1.0}, "1", true},
		{[]any{1.0, 2.0}, "1,2", true},
		{map[string]any{}, "[object Object]", true},
		{[]any{1.0}, []any{1.0}, false},
		{"abc", 1.0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LooseEqual(tt.a, tt.b), "%#v == %#v", tt.a, tt.b)
		assert.Equal(t, tt.want, LooseEqual(tt.b, tt.a), "%#v == %#v", tt.b, tt.a)
	}
}

func TestStrictEqual(t *testing.T) {
	assert.True(t, StrictEqual(1.0, 1))
	assert.True(t, StrictEqual("a", "a"))
	assert.False(t, StrictEqual(1.0, "1"))
	assert.False(t, StrictEqual(nil, Undefined))
	assert.True(t, StrictEqual(Undefined, Undefined))
	assert.False(t, StrictEqual(map[string]any{}, map[string]any{}))
}

func TestOrder(t *testing.T) {
	tests := []struct {
		a, b   any
		want   int
		wantOK bool
	}{
		{"a", "b", -1, true},
		{"b", "ab", 1, true},
		{"10", "9", -1, true},
		{10.0, "9", 1, true},
		{2.0, 2.0, 0, true},
		{true, 0.0, 1, true},
		{nil, 1.0, -1, true},
		{"abc", 1.0, 0, false},
		{Undefined, 1.0, 0, false},
	}
	for _, tt := range tests {
		got, ok := Order(tt.a, tt.b)
		assert.Equal(t, tt.wantOK, ok, "%#v <> %#v", tt.a, tt.b)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "%#v <> %#v", tt.a, tt.b)
		}
	}
}
